package config

import (
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// AppName names the config directory and the environment prefix.
const AppName = "formskema"

// Config is the CLI configuration.
type Config struct {
	Strategy    string `mapstructure:"strategy" yaml:"strategy"`
	Language    string `mapstructure:"language" yaml:"language"`
	MaxVariants int    `mapstructure:"max_variants" yaml:"max_variants"`
	Output      string `mapstructure:"output" yaml:"output"`
	LogLevel    string `mapstructure:"log_level" yaml:"log_level"`
	LogFormat   string `mapstructure:"log_format" yaml:"log_format"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Strategy:  "direct",
		Language:  "en",
		Output:    "text",
		LogLevel:  "warn",
		LogFormat: "text",
	}
}

// New returns a Viper instance with defaults, search paths and environment
// binding set up. Callers may bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(filepath.Join(xdg.ConfigHome, AppName))

	v.SetEnvPrefix(strings.ToUpper(AppName))
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	d := Default()
	v.SetDefault("strategy", d.Strategy)
	v.SetDefault("language", d.Language)
	v.SetDefault("max_variants", d.MaxVariants)
	v.SetDefault("output", d.Output)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_format", d.LogFormat)
	return v
}

// Load reads the configuration. An explicit path must exist; without one a
// missing file falls back to defaults. The result is validated.
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
		case errors.As(err, &notFound):
			return nil, errors.Wrapf(err, "config file not found at %s", path)
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &cfg, nil
}
