// Package config provides configuration loading and validation for rbset.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidOperations    = errors.New("workload operations must be positive")
	ErrInvalidKeySpace      = errors.New("invalid workload key space")
	ErrInvalidRemoveRatio   = errors.New("workload remove ratio must be within [0, 1)")
	ErrInvalidValidateEvery = errors.New("workload validate_every must not be negative")
	ErrInvalidLogLevel      = errors.New("invalid log level")
	ErrInvalidLogFormat     = errors.New("invalid log format")
	ErrInvalidMaxNodes      = errors.New("render max_nodes must not be negative")
)

// Default configuration values.
const (
	defaultOperations    = 100000
	defaultKeySpace      = "10k"
	defaultRemoveRatio   = 0.4
	defaultSeed          = 1
	defaultValidateEvery = 1000
	defaultTimeout       = "5m"
	defaultMaxNodes      = 64
	envPrefix            = "RBSET"
	configName           = "rbset"
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Config holds all configuration for rbset.
type Config struct {
	Workload WorkloadConfig `mapstructure:"workload"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Render   RenderConfig   `mapstructure:"render"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// WorkloadConfig describes the random insert/remove workload run by "rbset bench".
type WorkloadConfig struct {
	// KeySpace bounds the random keys, humanized ("10k", "1M").
	KeySpace string `mapstructure:"key_space"`
	// Timeout aborts the run.
	Timeout time.Duration `mapstructure:"timeout"`
	// RemoveRatio is the probability of an operation being a removal.
	RemoveRatio float64 `mapstructure:"remove_ratio"`
	Seed        int64   `mapstructure:"seed"`
	Operations  int     `mapstructure:"operations"`
	// ValidateEvery checks every invariant after that many operations. Zero disables.
	ValidateEvery int `mapstructure:"validate_every"`
}

// Keys returns the parsed key space.
func (wc WorkloadConfig) Keys() (uint64, error) {
	keys, err := humanize.ParseBytes(wc.KeySpace)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrInvalidKeySpace, wc.KeySpace, err)
	}

	if keys == 0 {
		return 0, fmt.Errorf("%w: %q is empty", ErrInvalidKeySpace, wc.KeySpace)
	}

	if keys > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q exceeds the int64 range", ErrInvalidKeySpace, wc.KeySpace)
	}

	return keys, nil
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RenderConfig controls tree drawing.
type RenderConfig struct {
	MaxNodes int  `mapstructure:"max_nodes"`
	Color    bool `mapstructure:"color"`
}

// MetricsConfig controls Prometheus metric collection.
type MetricsConfig struct {
	// Output is the file receiving the text exposition after a bench run. Empty disables.
	Output  string `mapstructure:"output"`
	Enabled bool   `mapstructure:"enabled"`
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	// Set defaults.
	setDefaults(viperCfg)

	// Read config file.
	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("$HOME/.config/rbset")
	}

	// Read environment variables.
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := Validate(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	// Workload defaults.
	viperCfg.SetDefault("workload.operations", defaultOperations)
	viperCfg.SetDefault("workload.key_space", defaultKeySpace)
	viperCfg.SetDefault("workload.remove_ratio", defaultRemoveRatio)
	viperCfg.SetDefault("workload.seed", defaultSeed)
	viperCfg.SetDefault("workload.validate_every", defaultValidateEvery)
	viperCfg.SetDefault("workload.timeout", defaultTimeout)

	// Logging defaults.
	viperCfg.SetDefault("logging.level", "info")
	viperCfg.SetDefault("logging.format", LogFormatText)

	// Render defaults.
	viperCfg.SetDefault("render.color", true)
	viperCfg.SetDefault("render.max_nodes", defaultMaxNodes)

	// Metrics defaults.
	viperCfg.SetDefault("metrics.enabled", true)
	viperCfg.SetDefault("metrics.output", "")
}

// Validate checks a configuration, including one modified by flags after loading.
func Validate(config *Config) error {
	if config.Workload.Operations <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidOperations, config.Workload.Operations)
	}

	_, keysErr := config.Workload.Keys()
	if keysErr != nil {
		return keysErr
	}

	if config.Workload.RemoveRatio < 0 || config.Workload.RemoveRatio >= 1 {
		return fmt.Errorf("%w: %v", ErrInvalidRemoveRatio, config.Workload.RemoveRatio)
	}

	if config.Workload.ValidateEvery < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidValidateEvery, config.Workload.ValidateEvery)
	}

	if !logLevels[strings.ToLower(config.Logging.Level)] {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	if config.Logging.Format != LogFormatText && config.Logging.Format != LogFormatJSON {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	if config.Render.MaxNodes < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxNodes, config.Render.MaxNodes)
	}

	return nil
}
