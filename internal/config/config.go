// Package config loads service configuration with Viper: built-in defaults,
// an optional YAML file and APARTMENTS_* environment overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. APARTMENTS_SPANNER_DATABASE.
const EnvPrefix = "APARTMENTS"

// Config holds all application configuration.
type Config struct {
	Environment string         `mapstructure:"environment"`
	Spanner     SpannerConfig  `mapstructure:"spanner"`
	Server      ServerConfig   `mapstructure:"server"`
	Logging     LoggingConfig  `mapstructure:"logging"`
	Query       QueryConfig    `mapstructure:"query"`
	Security    SecurityConfig `mapstructure:"security"`
}

// SpannerConfig identifies the Spanner database.
type SpannerConfig struct {
	Project  string `mapstructure:"project"`
	Instance string `mapstructure:"instance"`
	Database string `mapstructure:"database"`
}

// DatabasePath returns the fully qualified database name.
func (s SpannerConfig) DatabasePath() string {
	return fmt.Sprintf("projects/%s/instances/%s/databases/%s", s.Project, s.Instance, s.Database)
}

// ServerConfig holds the operational HTTP server settings.
type ServerConfig struct {
	HTTPPort        string        `mapstructure:"http_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// QueryConfig bounds list pages.
type QueryConfig struct {
	DefaultLimit int `mapstructure:"default_limit"`
	MaxLimit     int `mapstructure:"max_limit"`
}

// SecurityConfig holds password hashing settings.
type SecurityConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

// IsProduction checks if environment is production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Load reads configuration. An empty path searches for config.yaml in the
// working directory and ./config; a missing file is not an error there.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	// Local emulator defaults
	v.SetDefault("spanner.project", "test-project")
	v.SetDefault("spanner.instance", "dev-instance")
	v.SetDefault("spanner.database", "apartments-db")

	v.SetDefault("server.http_port", "8080")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.shutdown_timeout", "15s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("query.default_limit", 100)
	v.SetDefault("query.max_limit", 1000)

	v.SetDefault("security.bcrypt_cost", 12)
}

// Validate validates configuration.
func (c *Config) Validate() error {
	if c.Spanner.Project == "" || c.Spanner.Instance == "" || c.Spanner.Database == "" {
		return errors.New("spanner.project, spanner.instance and spanner.database are required")
	}

	if c.Server.HTTPPort == "" {
		return errors.New("server.http_port is required")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("server.shutdown_timeout must be positive")
	}

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	if !slices.Contains([]string{"json", "console"}, c.Logging.Format) {
		return fmt.Errorf("logging.format %q is not one of json, console", c.Logging.Format)
	}

	if c.Query.DefaultLimit <= 0 || c.Query.MaxLimit < c.Query.DefaultLimit {
		return errors.New("query.default_limit must be positive and not above query.max_limit")
	}

	// bcrypt.MinCost..bcrypt.MaxCost
	if c.Security.BcryptCost < 4 || c.Security.BcryptCost > 31 {
		return errors.New("security.bcrypt_cost must be between 4 and 31")
	}
	if c.IsProduction() && c.Security.BcryptCost < 10 {
		return errors.New("security.bcrypt_cost must be at least 10 in production")
	}

	return nil
}
