// Package config loads pmemkit settings from a YAML file and PMEMKIT_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/joshuapare/pmemkit/internal/logger"
	"github.com/joshuapare/pmemkit/pmem/persist"
)

// EnvPrefix is prepended to every environment override, e.g.
// PMEMKIT_LOGGING_LEVEL=debug.
const EnvPrefix = "PMEMKIT"

// Config is the complete pmemkit configuration.
type Config struct {
	Logging LoggingConfig        `mapstructure:"logging" yaml:"logging"`
	Sysfs   SysfsConfig          `mapstructure:"sysfs" yaml:"sysfs"`
	Persist persist.DetectConfig `mapstructure:"persist" yaml:"persist"`
	Metrics MetricsConfig        `mapstructure:"metrics" yaml:"metrics"`
}

// LoggingConfig controls internal/logger.
type LoggingConfig struct {
	// Level is DEBUG, INFO, WARN or ERROR.
	Level string `mapstructure:"level" yaml:"level"`
	// Format is "text" or "json".
	Format string `mapstructure:"format" yaml:"format"`
	// Output is "stderr", "stdout" or a file path.
	Output string `mapstructure:"output" yaml:"output"`
}

// SysfsConfig locates the sysfs tree.
type SysfsConfig struct {
	// Root is prepended to every /sys path. "/" on a live system.
	Root string `mapstructure:"root" yaml:"root"`
}

// MetricsConfig controls Prometheus export.
type MetricsConfig struct {
	// Textfile, if set, receives the metrics in text exposition format
	// after each command.
	Textfile string `mapstructure:"textfile" yaml:"textfile"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "INFO",
			Format: "text",
			Output: "stderr",
		},
		Sysfs: SysfsConfig{Root: "/"},
	}
}

// Load reads configuration from configPath, or from the default location
// when configPath is empty. A missing file is not an error; defaults and
// environment overrides still apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	if _, err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks cfg for values the rest of pmemkit cannot use.
func Validate(cfg *Config) error {
	var errs []error
	if _, err := logger.ParseLevel(cfg.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	switch strings.ToLower(cfg.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format: must be text or json, got %q", cfg.Logging.Format))
	}
	if cfg.Logging.Output == "" {
		errs = append(errs, errors.New("logging.output: must not be empty"))
	}
	if !filepath.IsAbs(cfg.Sysfs.Root) {
		errs = append(errs, fmt.Errorf("sysfs.root: must be an absolute path, got %q", cfg.Sysfs.Root))
	}
	return errors.Join(errs...)
}

// Save writes cfg to path as YAML, creating parent directories as needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultPath returns $XDG_CONFIG_HOME/pmemkit/config.yaml, or the
// ~/.config equivalent.
func DefaultPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

func setupViper(v *viper.Viper, configPath string) {
	// Defaults are registered key by key so that AutomaticEnv can override
	// keys that no config file mentions.
	d := Default()
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output", d.Logging.Output)
	v.SetDefault("sysfs.root", d.Sysfs.Root)
	v.SetDefault("persist.no_clwb", d.Persist.NoCLWB)
	v.SetDefault("persist.no_clflushopt", d.Persist.NoCLFlushOpt)
	v.SetDefault("metrics.textfile", d.Metrics.Textfile)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	v.AddConfigPath(configDir())
	v.SetConfigName("config")
	v.SetConfigType("yaml")
}

// readConfigFile reports whether a config file was read.
func readConfigFile(v *viper.Viper) (bool, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read config file: %w", err)
	}
	return true, nil
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "pmemkit")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "pmemkit")
}
