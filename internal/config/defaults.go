package config

import (
	"time"

	"github.com/spf13/viper"
)

// DefaultSensors is the demo fleet used when no sensors are configured.
var DefaultSensors = []map[string]any{
	{"id": "temp1", "type": "temperature", "threshold": 30.0},
	{"id": "pressure1", "type": "pressure", "threshold": 15.0},
	{"id": "humidity1", "type": "humidity", "threshold": 80.0},
	{"id": "unknown1", "type": "unknown", "threshold": 0.0},
}

// DefaultReadings drives the demo fleet through every alert kind once.
var DefaultReadings = []map[string]any{
	{"sensor": "temp1", "value": 32.5},
	{"sensor": "pressure1", "value": 12.0},
	{"sensor": "humidity1", "value": 85.0},
	{"sensor": "unknown1", "value": 99.9},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("broker.stop_timeout", 5*time.Second)
	v.SetDefault("broker.subscriber_timeout", 0)
	v.SetDefault("broker.backlog_warning", 1000)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("output.format", "console")
	v.SetDefault("output.color", true)
	v.SetDefault("output.summary", false)

	v.SetDefault("sensors", DefaultSensors)

	v.SetDefault("feed.file", "")
	v.SetDefault("feed.interval", 500*time.Millisecond)
	v.SetDefault("feed.readings", DefaultReadings)
}
