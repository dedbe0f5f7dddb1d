// Package config loads tripwire configuration from a YAML file, the
// environment and built-in defaults, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/casualjim/tripwire/broker"
	"github.com/casualjim/tripwire/events"
	"github.com/casualjim/tripwire/feed"
	"github.com/casualjim/tripwire/fleet"
	"github.com/invopop/jsonschema"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. TRIPWIRE_LOGGING_LEVEL=debug.
const EnvPrefix = "TRIPWIRE"

// Config is the full tripwire configuration.
type Config struct {
	Broker  BrokerConfig   `mapstructure:"broker" json:"broker"`
	Logging LoggingConfig  `mapstructure:"logging" json:"logging"`
	Output  OutputConfig   `mapstructure:"output" json:"output"`
	Sensors []SensorConfig `mapstructure:"sensors" json:"sensors" jsonschema:"description=Sensors to register; ids must be unique"`
	Feed    FeedConfig     `mapstructure:"feed" json:"feed"`
}

type BrokerConfig struct {
	StopTimeout       time.Duration `mapstructure:"stop_timeout" json:"stop_timeout" jsonschema:"description=Upper bound on draining at shutdown (e.g. 5s)"`
	SubscriberTimeout time.Duration `mapstructure:"subscriber_timeout" json:"subscriber_timeout,omitempty" jsonschema:"description=Deadline handed to each subscriber call; 0 disables it"`
	BacklogWarning    int           `mapstructure:"backlog_warning" json:"backlog_warning,omitempty" jsonschema:"description=Pending event count that triggers a warning; 0 disables it"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" json:"level" jsonschema:"enum=debug,enum=info,enum=warn,enum=error"`
	Format string `mapstructure:"format" json:"format" jsonschema:"enum=console,enum=json,enum=tint"`
}

type OutputConfig struct {
	// Format selects how alerts are reported.
	Format  string `mapstructure:"format" json:"format" jsonschema:"enum=console,enum=log,enum=json,enum=dump"`
	Color   bool   `mapstructure:"color" json:"color"`
	Summary bool   `mapstructure:"summary" json:"summary,omitempty"`
}

type SensorConfig struct {
	ID        string  `mapstructure:"id" json:"id"`
	Type      string  `mapstructure:"type" json:"type" jsonschema:"enum=temperature,enum=pressure,enum=humidity,enum=unknown"`
	Threshold float64 `mapstructure:"threshold" json:"threshold"`
}

type FeedConfig struct {
	// File is tailed for "<sensor> <value>" lines after the scripted readings.
	File     string         `mapstructure:"file" json:"file,omitempty"`
	Interval time.Duration  `mapstructure:"interval" json:"interval,omitempty"`
	Readings []feed.Reading `mapstructure:"readings" json:"readings,omitempty"`
}

// Load reads configuration from configPath, or from tripwire.yaml in the
// usual locations when configPath is empty. A missing file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("tripwire")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.tripwire")
		v.AddConfigPath("/etc/tripwire")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Specs converts the configured sensors into fleet specs.
func (c *Config) Specs() ([]fleet.Spec, error) {
	specs := make([]fleet.Spec, 0, len(c.Sensors))
	for _, s := range c.Sensors {
		typ, err := events.ParseType(s.Type)
		if err != nil {
			return nil, fmt.Errorf("sensor %s: %w", s.ID, err)
		}
		specs = append(specs, fleet.Spec{ID: s.ID, Type: typ, Threshold: s.Threshold})
	}
	return specs, nil
}

// Options converts the broker section into broker options.
func (b BrokerConfig) Options() []broker.Option {
	return []broker.Option{
		broker.WithStopTimeout(b.StopTimeout),
		broker.WithSubscriberTimeout(b.SubscriberTimeout),
		broker.WithBacklogWarning(b.BacklogWarning),
	}
}

// SlogLevel returns the configured level, info when it cannot be parsed.
func (l LoggingConfig) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

var schemaReflector = jsonschema.Reflector{
	DoNotReference: true,
}

// Schema describes the configuration file.
func Schema() *jsonschema.Schema {
	s := schemaReflector.Reflect(&Config{})
	s.Title = "tripwire configuration"
	return s
}
