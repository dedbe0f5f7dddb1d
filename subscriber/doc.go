// Package subscriber provides ready-made broker subscribers for alert events:
// a human readable console printer, a structured log writer, a JSON lines
// writer, a pretty dump for debugging and an in-memory collector.
package subscriber
