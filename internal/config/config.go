package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Output formats understood by the result writers.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// EnvPrefix prefixes environment variable overrides, e.g. GLSORT_BATCH_WORKERS.
const EnvPrefix = "GLSORT"

//nolint:gochecknoglobals // Stateless replacer shared by every viper instance.
var envKeyReplacer = strings.NewReplacer(".", "_")

// Config holds the complete application configuration.
type Config struct {
	Batch  BatchConfig  `mapstructure:"batch"`
	Output OutputConfig `mapstructure:"output"`
	NATS   NATSConfig   `mapstructure:"nats"`
	Log    LogConfig    `mapstructure:"log"`
}

// BatchConfig controls how many GL strings are canonicalized at once.
type BatchConfig struct {
	Workers   int `mapstructure:"workers"`    // Concurrent canonicalizations per chunk
	ChunkSize int `mapstructure:"chunk_size"` // Lines read before a chunk is processed
}

// OutputConfig holds result output configuration.
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// NATSConfig holds NATS configuration for the canonicalization service.
type NATSConfig struct {
	URL            string        `mapstructure:"url"`
	Subject        string        `mapstructure:"subject"`
	QueueGroup     string        `mapstructure:"queue_group"`
	ConnectRetries int           `mapstructure:"connect_retries"` // Initial connection attempts after the first
	MaxReconnects  int           `mapstructure:"max_reconnects"`
	ReconnectWait  time.Duration `mapstructure:"reconnect_wait"`
	DrainTimeout   time.Duration `mapstructure:"drain_timeout"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// SetDefaults registers the default value of every configuration key.
func SetDefaults(v *viper.Viper) {
	// Batch defaults
	v.SetDefault("batch.workers", 1)
	v.SetDefault("batch.chunk_size", 1024)

	// Output defaults
	v.SetDefault("output.format", FormatText)

	// NATS defaults
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.subject", "glstring.canonicalize")
	v.SetDefault("nats.queue_group", "gl-smartsort")
	v.SetDefault("nats.connect_retries", 3)
	v.SetDefault("nats.max_reconnects", 5)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.drain_timeout", "5s")

	// Logging defaults; stdout carries results, so logs go to stderr.
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stderr")
}

// NewViper builds a viper instance with defaults, the optional config file
// and environment overrides applied. Without cfgFile it looks for
// config.yaml in ./configs and the working directory; a missing file is
// not an error.
func NewViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return v, nil
}

// Load unmarshals and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var config Config

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// New creates a new Config instance from Viper and panics if it is invalid.
func New(v *viper.Viper) *Config {
	config, err := Load(v)
	if err != nil {
		panic(err)
	}
	return config
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Batch.Workers < 1 {
		return errors.New("batch.workers must be at least 1")
	}

	if c.Batch.ChunkSize < 1 {
		return errors.New("batch.chunk_size must be at least 1")
	}

	switch c.Output.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("output.format must be one of text, json, yaml: got %q", c.Output.Format)
	}

	if strings.TrimSpace(c.NATS.Subject) == "" {
		return errors.New("nats.subject is required")
	}

	if c.NATS.ConnectRetries < 0 {
		return errors.New("nats.connect_retries cannot be negative")
	}

	if c.NATS.MaxReconnects < -1 {
		return errors.New("nats.max_reconnects must be -1 (unlimited) or greater")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error: got %q", c.Log.Level)
	}

	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("log.format must be json or text: got %q", c.Log.Format)
	}

	return nil
}
