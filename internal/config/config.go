// Package config handles baker configuration loading and management.
package config

import (
	"time"

	"github.com/Faultbox/vertex-ao/internal/bake"
)

// Config holds all baker settings.
type Config struct {
	Bake    bake.Settings `yaml:"bake"`
	Logging LoggingConfig `yaml:"logging"`
	Watch   WatchConfig   `yaml:"watch"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// WatchConfig holds settings for watch mode.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"` // Quiet period after the last write before a rebake
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Bake: bake.DefaultSettings(),
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
	}
}
