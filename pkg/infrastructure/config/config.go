package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the runtime settings of the planning CLI.
type Config struct {
	DatabasePath string `mapstructure:"database_path"`
	ScenarioDir  string `mapstructure:"scenario_dir"`
	Format       string `mapstructure:"format"`
	LogLevel     string `mapstructure:"log_level"`
}

// Load reads configuration with the usual precedence: defaults, then an
// optional config file, then BAKEPLAN_* environment variables. Passing an
// empty path skips the file entirely.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("database_path", "")
	v.SetDefault("scenario_dir", ".")
	v.SetDefault("format", "text")
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("BAKEPLAN")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Format != "text" && cfg.Format != "json" {
		return nil, fmt.Errorf("invalid format %q (expected text or json)", cfg.Format)
	}
	return &cfg, nil
}
