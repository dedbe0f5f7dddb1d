package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/casualjim/tripwire/events"
)

var (
	logLevels     = []string{"debug", "info", "warn", "error"}
	logFormats    = []string{"console", "json", "tint"}
	outputFormats = []string{"console", "log", "json", "dump"}
)

// Validate validates the configuration.
func Validate(cfg *Config) error {
	if err := validateBroker(&cfg.Broker); err != nil {
		return err
	}
	if err := validateLogging(&cfg.Logging); err != nil {
		return err
	}
	if !slices.Contains(outputFormats, cfg.Output.Format) {
		return fmt.Errorf("output.format must be one of %s, got %q", strings.Join(outputFormats, ", "), cfg.Output.Format)
	}
	if err := validateSensors(cfg.Sensors); err != nil {
		return err
	}
	if cfg.Feed.Interval < 0 {
		return fmt.Errorf("feed.interval must not be negative")
	}
	return nil
}

func validateBroker(cfg *BrokerConfig) error {
	if cfg.StopTimeout < 0 {
		return fmt.Errorf("broker.stop_timeout must not be negative")
	}
	if cfg.SubscriberTimeout < 0 {
		return fmt.Errorf("broker.subscriber_timeout must not be negative")
	}
	if cfg.BacklogWarning < 0 {
		return fmt.Errorf("broker.backlog_warning must not be negative")
	}
	return nil
}

func validateLogging(cfg *LoggingConfig) error {
	cfg.Level = strings.ToLower(cfg.Level)
	if !slices.Contains(logLevels, cfg.Level) {
		return fmt.Errorf("logging.level must be one of %s, got %q", strings.Join(logLevels, ", "), cfg.Level)
	}
	if !slices.Contains(logFormats, cfg.Format) {
		return fmt.Errorf("logging.format must be one of %s, got %q", strings.Join(logFormats, ", "), cfg.Format)
	}
	return nil
}

func validateSensors(sensors []SensorConfig) error {
	seen := make(map[string]struct{}, len(sensors))
	for i, s := range sensors {
		if strings.TrimSpace(s.ID) == "" {
			return fmt.Errorf("sensors[%d].id is required", i)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("sensors[%d].id %q is used more than once", i, s.ID)
		}
		seen[s.ID] = struct{}{}

		if _, err := events.ParseType(s.Type); err != nil {
			return fmt.Errorf("sensors[%d].type: %w", i, err)
		}
	}
	return nil
}
