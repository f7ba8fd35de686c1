// Package config loads lingo settings with precedence
// flags > LINGO_* env > project lingo.yml > global lingo.yml > defaults.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/tturner/lingo/internal/errors"
	"github.com/tturner/lingo/internal/logging"
)

const (
	envPrefix = "LINGO"
	fileName  = "lingo.yml"
)

// Config holds the settings shared by every command.
type Config struct {
	BaseURL        string        `mapstructure:"base_url" yaml:"base_url"`
	Context        string        `mapstructure:"context" yaml:"context"`
	LogLevel       string        `mapstructure:"log_level" yaml:"log_level"`
	LogFile        string        `mapstructure:"log_file" yaml:"log_file"`
	LogFormat      string        `mapstructure:"log_format" yaml:"log_format"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	History        bool          `mapstructure:"history" yaml:"history"`
	Animations     bool          `mapstructure:"animations" yaml:"animations"`

	// Sources lists the files that were read, lowest precedence first.
	Sources []string `mapstructure:"-" yaml:"-"`
}

var defaults = map[string]any{
	"base_url":        "",
	"context":         "",
	"log_level":       "info",
	"log_file":        "",
	"log_format":      "text",
	"request_timeout": "30s",
	"history":         false,
	"animations":      true,
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		RequestTimeout: 30 * time.Second,
		Animations:     true,
	}
}

// Load reads the global and project files, then the environment.
func Load() (*Config, error) {
	return LoadFiles(GlobalPath(), ProjectPath())
}

// LoadFiles is Load with explicit file locations. Missing files are
// skipped; later files override earlier ones.
func LoadFiles(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key := range defaults {
		env := envPrefix + "_" + strings.ToUpper(key)
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	var sources []string
	for _, path := range paths {
		if path == "" || !fileExists(path) {
			continue
		}
		v.SetConfigFile(path)
		read := v.MergeInConfig
		if len(sources) == 0 {
			read = v.ReadInConfig
		}
		if err := read(); err != nil {
			return nil, errors.WrapConfigError(fmt.Errorf("read config file: %w", err), path)
		}
		sources = append(sources, path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapConfigError(fmt.Errorf("decode config: %w", err), strings.Join(sources, ", "))
	}
	cfg.Sources = sources

	if err := cfg.Validate(); err != nil {
		where := "environment"
		if len(sources) > 0 {
			where = sources[len(sources)-1]
		}
		return nil, errors.WrapConfigError(err, where)
	}
	return &cfg, nil
}

// Validate checks values that viper cannot type-check.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil {
			return fmt.Errorf("base_url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("base_url must be an http or https url, got %q", c.BaseURL)
		}
	}
	return nil
}

// Level returns the parsed log level. Validate has already accepted it.
func (c *Config) Level() logging.LogLevel {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return logging.LogLevelInfo
	}
	return level
}

// Exists reports whether a global or project file is present.
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath is $XDG_CONFIG_HOME/lingo/lingo.yml, falling back to
// ~/.config/lingo/lingo.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "lingo", fileName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "lingo", fileName)
}

// ProjectPath is lingo.yml in the working directory.
func ProjectPath() string {
	return fileName
}

// Write saves cfg as YAML, creating the parent directory.
func Write(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := cfg.YAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// YAML renders the configuration.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
