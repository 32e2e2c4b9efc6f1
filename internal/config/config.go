// Package config loads and validates the serveindex server configuration.
//
// Configuration sources, highest precedence first: CLI flags, environment
// variables (SERVEINDEX_*), a YAML config file, built-in defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds the complete server configuration.
type Config struct {
	// Addr is the listen address, host:port.
	Addr string `mapstructure:"addr" validate:"required,hostname_port"`

	// Root is the directory to serve and list.
	Root string `mapstructure:"root" validate:"required,dir"`

	// Hidden includes dot-files in listings.
	Hidden bool `mapstructure:"hidden"`

	// Icons embeds icon CSS and images into HTML listings.
	Icons bool `mapstructure:"icons"`

	// View is the HTML listing layout.
	View string `mapstructure:"view" validate:"oneof=tiles details"`

	// Stylesheet is an optional CSS file path for HTML listings.
	Stylesheet string `mapstructure:"stylesheet" validate:"omitempty,file"`

	// Template is an optional page template file path.
	Template string `mapstructure:"template" validate:"omitempty,file"`

	// Concurrency caps in-flight per-entry stat calls; zero keeps the
	// library default.
	Concurrency int `mapstructure:"concurrency" validate:"gte=0,lte=128"`

	// Logging controls log output behavior.
	Logging LoggingConfig `mapstructure:"logging"`
}

// LoggingConfig controls log output behavior.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn or error.
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`

	// Format is the log output format: text or json.
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// Load reads, defaults, and validates the configuration. An empty
// configPath searches the working directory for serveindex.yaml; a
// missing config file is not an error. Flags, when given, take
// precedence over environment variables and the config file.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("SERVEINDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for _, key := range []string{"addr", "root", "hidden", "icons", "view", "stylesheet", "template", "concurrency"} {
			if f := flags.Lookup(key); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", key, err)
				}
			}
		}
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("serveindex")
		v.SetConfigType("yaml")
	}

	// Every key needs a default so environment variables resolve during
	// Unmarshal: viper only considers keys it knows about.
	v.SetDefault("addr", "localhost:8080")
	v.SetDefault("root", ".")
	v.SetDefault("hidden", false)
	v.SetDefault("icons", false)
	v.SetDefault("view", "tiles")
	v.SetDefault("stylesheet", "")
	v.SetDefault("template", "")
	v.SetDefault("concurrency", 0)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}
