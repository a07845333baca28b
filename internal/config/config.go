// Package config loads the server configuration from a YAML file and
// NAVKIT_-prefixed environment variables, in that order of increasing
// precedence, on top of compiled-in defaults.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// envPrefix is the prefix for environment overrides, e.g.
// NAVKIT_SERVER_ADDR=:9090.
const envPrefix = "NAVKIT_"

// Config is the full server configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server" yaml:"server"`
	Site    SiteConfig    `koanf:"site" yaml:"site"`
	Logging LoggingConfig `koanf:"logging" yaml:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `koanf:"addr" yaml:"addr"`
	ReadTimeout     time.Duration `koanf:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" yaml:"shutdown_timeout"`
	Metrics         bool          `koanf:"metrics" yaml:"metrics"`
	Tracing         bool          `koanf:"tracing" yaml:"tracing"`
}

// SiteConfig selects where page HTML comes from.
type SiteConfig struct {
	// Source is "dir" or "s3".
	Source string   `koanf:"source" yaml:"source"`
	Dir    string   `koanf:"dir" yaml:"dir"`
	S3     S3Config `koanf:"s3" yaml:"s3"`
}

// S3Config configures the S3 site source.
type S3Config struct {
	Bucket string `koanf:"bucket" yaml:"bucket"`
	Region string `koanf:"region" yaml:"region"`
	Prefix string `koanf:"prefix" yaml:"prefix"`
}

// LoggingConfig configures slog output.
type LoggingConfig struct {
	// Level is "debug", "info", "warn", or "error".
	Level string `koanf:"level" yaml:"level"`
	// Format is "text" or "json".
	Format string `koanf:"format" yaml:"format"`
}

// Default returns the compiled-in defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Metrics:         true,
		},
		Site: SiteConfig{
			Source: "dir",
			Dir:    "./site",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads configuration from path (optional; "" skips the file)
// and the environment, over the defaults.
func Load(path string) (Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	// NAVKIT_SERVER_ADDR -> server.addr
	envProvider := env.Provider(envPrefix, ".", func(key string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, envPrefix)), "_", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("config: environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the server cannot start with.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("config: server.addr must not be empty")
	}
	switch c.Site.Source {
	case "dir":
		if c.Site.Dir == "" {
			return fmt.Errorf("config: site.dir is required when site.source is %q", "dir")
		}
	case "s3":
		if c.Site.S3.Bucket == "" {
			return fmt.Errorf("config: site.s3.bucket is required when site.source is %q", "s3")
		}
		if c.Site.S3.Region == "" {
			return fmt.Errorf("config: site.s3.region is required when site.source is %q", "s3")
		}
	default:
		return fmt.Errorf("config: unknown site.source %q", c.Site.Source)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown logging.level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: unknown logging.format %q", c.Logging.Format)
	}
	return nil
}

// WriteDefault writes the default configuration as YAML, for
// scaffolding a new deployment.
func WriteDefault(path string) error {
	data, err := yamlv3.Marshal(Default())
	if err != nil {
		return fmt.Errorf("config: marshal defaults: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
