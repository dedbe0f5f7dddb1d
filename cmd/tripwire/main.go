// Package main is the entry point for the tripwire CLI.
package main

import (
	"fmt"
	"os"

	"github.com/casualjim/tripwire/cmd/tripwire/cmd"
	_ "github.com/joho/godotenv/autoload"
)

var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, buildTime, gitCommit)
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
