package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix of environment variables that override configuration keys.
// COSMOSTOOLBOX_DEFAULT_REGION sets default-region.
const EnvPrefix = "COSMOSTOOLBOX_"

// AuthLocationEnv names the environment variable that points at an azureauth.properties file.
const AuthLocationEnv = "AZURE_AUTH_LOCATION"

// Config holds the runtime settings of the toolbox.
type Config struct {
	LogLevel     string        `koanf:"log-level" yaml:"log-level"`
	NoColor      bool          `koanf:"no-color" yaml:"no-color"`
	ConfirmInput bool          `koanf:"confirm-input" yaml:"confirm-input"`
	Timeout      time.Duration `koanf:"timeout" yaml:"timeout"`
	Output       string        `koanf:"output" yaml:"output"`
	AuthFile     string        `koanf:"auth-file" yaml:"auth-file"`

	DefaultRegion      string `koanf:"default-region" yaml:"default-region"`
	DefaultThroughput  int32  `koanf:"default-throughput" yaml:"default-throughput"`
	DefaultEntityCount int    `koanf:"default-entity-count" yaml:"default-entity-count"`
	InsertParallelism  int    `koanf:"insert-parallelism" yaml:"insert-parallelism"`
	WaitForDeletion    bool   `koanf:"wait-for-deletion" yaml:"wait-for-deletion"`
}

// Defaults returns the base values every other source is layered on.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"log-level":            "info",
		"no-color":             false,
		"confirm-input":        true,
		"timeout":              "15m",
		"output":               "table",
		"auth-file":            "",
		"default-region":       "eastus",
		"default-throughput":   1000,
		"default-entity-count": 5,
		"insert-parallelism":   8,
		"wait-for-deletion":    false,
	}
}

// Load builds the configuration from defaults, then the optional YAML file at path, then
// COSMOSTOOLBOX_* environment variables, then any flags that were set explicitly.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load config defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file '%s': %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, fmt.Errorf("failed to load config from flags: %w", err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.AuthFile == "" {
		cfg.AuthFile = os.Getenv(AuthLocationEnv)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", "-")
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid log-level '%s'", c.LogLevel))
	}
	switch strings.ToLower(c.Output) {
	case "table", "json", "yaml", "yml":
	default:
		errs = append(errs, fmt.Errorf("invalid output '%s' (supported: table, json, yaml)", c.Output))
	}
	if c.Timeout < 0 {
		errs = append(errs, errors.New("timeout cannot be negative"))
	}
	if c.DefaultThroughput < 400 {
		errs = append(errs, fmt.Errorf("default-throughput must be at least 400 RU, got %d", c.DefaultThroughput))
	}
	if c.DefaultEntityCount < 1 {
		errs = append(errs, fmt.Errorf("default-entity-count must be positive, got %d", c.DefaultEntityCount))
	}
	if c.InsertParallelism < 1 {
		errs = append(errs, fmt.Errorf("insert-parallelism must be positive, got %d", c.InsertParallelism))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// NewLogger returns a console logger writing to w at the configured level.
func (c *Config) NewLogger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: c.NoColor, TimeFormat: time.Kitchen}).
		Level(level).
		With().Timestamp().Logger()
}
