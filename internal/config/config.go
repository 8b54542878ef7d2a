package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rezonia/danfe-zpl/internal/logger"
)

// EnvPrefix is the prefix of environment overrides (e.g. DANFE_XML_DIR)
const EnvPrefix = "DANFE"

// Config holds all application configuration
type Config struct {
	XML    XMLConfig
	Render RenderConfig
	Output OutputConfig
	Log    LogConfig
	Server ServerConfig
}

// XMLConfig holds input lookup settings
type XMLConfig struct {
	Dir               string // directory searched by code; no default
	SearchWorkers     int
	TimestampFallback bool // substitute now() for unparseable timestamps
}

// RenderConfig holds label rendering settings
type RenderConfig struct {
	IncludeRecipientDocument bool
}

// OutputConfig holds the label sink settings
type OutputConfig struct {
	Path string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// New creates a viper instance reading danfe.toml (or configFile when
// set) and DANFE_ environment variables. A missing default config file is
// not an error.
func New(configFile string) (*viper.Viper, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("danfe")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/danfe-zpl")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// Load reads configuration from file, environment and defaults.
// Priority (highest to lowest):
// 1. Environment variables with DANFE_ prefix
// 2. danfe.toml
// 3. Built-in defaults
func Load(configFile string) (*Config, error) {
	v, err := New(configFile)
	if err != nil {
		return nil, err
	}
	return FromViper(v)
}

// FromViper builds a validated Config from v. Flags bound to v with
// BindPFlag take precedence over every other source.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		XML: XMLConfig{
			Dir:               v.GetString("xml.dir"),
			SearchWorkers:     v.GetInt("xml.search_workers"),
			TimestampFallback: v.GetBool("xml.timestamp_fallback"),
		},
		Render: RenderConfig{
			IncludeRecipientDocument: v.GetBool("render.include_recipient_document"),
		},
		Output: OutputConfig{
			Path: v.GetString("output.path"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Server: ServerConfig{
			Address:      v.GetString("server.address"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
			Debug:        v.GetBool("server.debug"),
		},
	}

	// xml.search_workers must be validated as given, so only fill it when unset
	if !v.IsSet("xml.search_workers") {
		cfg.XML.SearchWorkers = DefaultSearchWorkers
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults
const (
	DefaultSearchWorkers = 8
	DefaultOutputPath    = "danfe_generated.zpl"
	DefaultAddress       = ":8080"
	DefaultReadTimeout   = 30 * time.Second
	DefaultWriteTimeout  = time.Minute
)

// LoggerConfig converts the log section for the logger package
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:  c.Log.Level,
		Format: c.Log.Format,
		Output: c.Log.Output,
	}
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	cfg := &Config{XML: XMLConfig{SearchWorkers: DefaultSearchWorkers}}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.Output.Path == "" {
		cfg.Output.Path = DefaultOutputPath
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stderr"
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = DefaultAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
}

// Validate performs validation on the configuration
func (c *Config) Validate() error {
	if c.XML.SearchWorkers <= 0 {
		return fmt.Errorf("xml.search_workers must be positive, got %d", c.XML.SearchWorkers)
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level %q is invalid: %w", c.Log.Level, err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return fmt.Errorf("server timeouts cannot be negative")
	}
	return nil
}
