// Package config loads runtime settings from defaults, an optional YAML file
// and TERMFLOW_ environment variables.
package config

import (
	stderrors "errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"

	errs "github.com/lixenwraith/termflow/errors"
)

// Config holds application configuration
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Render  RenderConfig  `mapstructure:"render"`
	State   StateConfig   `mapstructure:"state"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// LogConfig holds logger settings. The terminal owns stdout, so logs always go to a file.
type LogConfig struct {
	Path   string `mapstructure:"path"`
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RenderConfig holds terminal settings
type RenderConfig struct {
	Scene       string `mapstructure:"scene"`
	SignalHooks bool   `mapstructure:"signal_hooks"`
}

// StateConfig holds state driver settings. An empty path disables persistence.
type StateConfig struct {
	Path string `mapstructure:"path"`
}

// MetricsConfig holds the metrics endpoint. An empty address disables it.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
	Path string `mapstructure:"path"`
}

var (
	levels  = []string{"debug", "info", "warn", "error"}
	formats = []string{"json", "text"}
)

// Load reads configuration. An explicit path must exist; otherwise
// TERMFLOW_CONFIG or the default file under the user config directory is read
// when present. Env var overrides use prefix TERMFLOW_.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("log.path", filepath.Join(os.TempDir(), "termflow.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("render.scene", "")
	v.SetDefault("render.signal_hooks", true)
	v.SetDefault("state.path", "")
	v.SetDefault("metrics.addr", "")
	v.SetDefault("metrics.path", "/metrics")

	v.SetConfigType("yaml")

	required := path != ""
	if path == "" {
		path = os.Getenv("TERMFLOW_CONFIG")
		required = path != ""
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(defaultDir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("TERMFLOW")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if required || !stderrors.As(err, &notFound) {
			return Config{}, errs.WrapInvalid(fmt.Errorf("%w: %w", errs.ErrInvalidConfig, err), "config", "Load", "read config file")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errs.WrapInvalid(fmt.Errorf("%w: %w", errs.ErrInvalidConfig, err), "config", "Load", "unmarshal config")
	}
	return c, nil
}

// defaultDir is $XDG_CONFIG_HOME/termflow, falling back to ~/.config/termflow
func defaultDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "termflow")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "termflow")
}

// Validate checks field values
func (c Config) Validate() error {
	if c.Log.Path == "" {
		return invalid("log.path", "must not be empty")
	}
	if !slices.Contains(levels, strings.ToLower(c.Log.Level)) {
		return errs.WrapInvalid(errs.Invalidf(errs.ErrInvalidConfig, "log.level="+c.Log.Level, prefixed("log.level=", levels)), "config", "Validate", "check log.level")
	}
	if !slices.Contains(formats, strings.ToLower(c.Log.Format)) {
		return errs.WrapInvalid(errs.Invalidf(errs.ErrInvalidConfig, "log.format="+c.Log.Format, prefixed("log.format=", formats)), "config", "Validate", "check log.format")
	}
	if c.Metrics.Addr != "" {
		if _, _, err := net.SplitHostPort(c.Metrics.Addr); err != nil {
			return invalid("metrics.addr", err.Error())
		}
		if !strings.HasPrefix(c.Metrics.Path, "/") {
			return invalid("metrics.path", "must start with /")
		}
	}
	return nil
}

func invalid(field, reason string) error {
	return errs.WrapInvalid(fmt.Errorf("%w: %s %s", errs.ErrInvalidConfig, field, reason), "config", "Validate", "check "+field)
}

func prefixed(prefix string, values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = prefix + v
	}
	return out
}
