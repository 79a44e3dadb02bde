package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
	Logger   Logger   `mapstructure:"logger"`
	Reports  Reports  `mapstructure:"reports"`
	Exporter Exporter `mapstructure:"exporter"`
}

// Server holds the configuration for the HTTP API server.
type Server struct {
	Port int `mapstructure:"port"`
}

// Database holds the configuration for the database.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Reports holds the configuration for the reporting layer.
type Reports struct {
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds"`
	CacheSize       int `mapstructure:"cache_size"`
	ForecastDays    int `mapstructure:"forecast_days"`
}

// Exporter holds the configuration for the CSV exporter client.
type Exporter struct {
	BaseURL        string  `mapstructure:"base_url"`
	OutputDir      string  `mapstructure:"output_dir"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// ErrMissingDSN is returned when no database DSN is configured.
// The process must not start without a persistence target.
var ErrMissingDSN = errors.New("database.dsn is not set")

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("reports.cache_ttl_seconds", 300) // 5 minutes, matches the old dashboard cache
	viper.SetDefault("reports.cache_size", 128)
	viper.SetDefault("reports.forecast_days", 7)
	viper.SetDefault("exporter.base_url", "http://localhost:8080")
	viper.SetDefault("exporter.output_dir", "./exports")
	viper.SetDefault("exporter.rate_limit", 10) // requests per second
	viper.SetDefault("exporter.rate_limit_burst", 5)

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	err = config.Validate()
	return
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return ErrMissingDSN
	}
	return nil
}
