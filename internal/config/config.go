// Package config loads scopedump configuration from the environment and an
// optional config file via viper. All settings are resolved once at session
// start; the capture pipeline never re-reads the environment.
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete scopedump configuration
type Config struct {
	// ManifestPath is the path to the tap manifest JSON file (required)
	ManifestPath string `mapstructure:"manifest_path"`
	// Depth is the capture depth programmed into every tap (0 = device default)
	Depth uint32 `mapstructure:"depth"`
	// TimeoutSeconds is the session auto-stop timeout in seconds
	TimeoutSeconds int `mapstructure:"timeout"`
	// Out is the output waveform file path
	Out string `mapstructure:"out"`
	// Logging controls debug logging behavior
	Logging LoggingConfig `mapstructure:"logging"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Level is the minimum log level: DEBUG, INFO, WARN, ERROR
	Level string `mapstructure:"level"`
	// File is the log file path; empty means stderr
	File string `mapstructure:"file"`
}

// Default returns the default configuration.
// The one hour timeout matches the device driver's historical auto-stop bound.
func Default() *Config {
	return &Config{
		ManifestPath:   "",
		Depth:          0,
		TimeoutSeconds: 3600,
		Out:            "scope.vcd",
		Logging: LoggingConfig{
			Level: "INFO",
			File:  "",
		},
	}
}

// Timeout returns the session auto-stop timeout as a time.Duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// SetDefaults registers default values with viper.
// Registering every key also makes the corresponding SCOPE_* environment
// variables visible to viper.Unmarshal when AutomaticEnv is enabled.
func SetDefaults() {
	defaults := Default()

	viper.SetDefault("manifest_path", defaults.ManifestPath)
	viper.SetDefault("depth", defaults.Depth)
	viper.SetDefault("timeout", defaults.TimeoutSeconds)
	viper.SetDefault("out", defaults.Out)

	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.file", defaults.Logging.File)
}

// Load reads the configuration from viper into a Config struct and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}
