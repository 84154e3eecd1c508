package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the glyphforge server.
type Config struct {
	Server ServerConfig
	Worker WorkerConfig
	Cache  CacheConfig
	Jobs   JobsConfig
}

type ServerConfig struct {
	Port            int    `mapstructure:"SERVER_PORT"`
	GinMode         string `mapstructure:"GIN_MODE"`
	RateLimitPerMin int    `mapstructure:"RATE_LIMIT_PER_MIN"`
	MaxBodyBytes    int64  `mapstructure:"MAX_BODY_BYTES"`
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
}

type WorkerConfig struct {
	PoolSize int `mapstructure:"WORKER_POOL_SIZE"`
}

type CacheConfig struct {
	DefaultCapacity   int `mapstructure:"CACHE_DEFAULT_CAPACITY"`
	DefaultTTLSeconds int `mapstructure:"CACHE_DEFAULT_TTL_SECONDS"`
}

// DefaultTTL returns the configured TTL as a duration.
func (c CacheConfig) DefaultTTL() time.Duration {
	return time.Duration(c.DefaultTTLSeconds) * time.Second
}

type JobsConfig struct {
	DefaultWorkers         int `mapstructure:"DEFAULT_JOB_WORKERS"`
	RetentionHours         int `mapstructure:"JOB_RETENTION_HOURS"`
	CleanupIntervalMinutes int `mapstructure:"JOB_CLEANUP_INTERVAL_MINUTES"`
}

// Retention returns how long terminal jobs are kept.
func (c JobsConfig) Retention() time.Duration {
	return time.Duration(c.RetentionHours) * time.Hour
}

// CleanupInterval returns how often the retention sweep runs.
func (c JobsConfig) CleanupInterval() time.Duration {
	return time.Duration(c.CleanupIntervalMinutes) * time.Minute
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("GIN_MODE", "release")
	viper.SetDefault("RATE_LIMIT_PER_MIN", 120)
	viper.SetDefault("MAX_BODY_BYTES", 1<<20)
	viper.SetDefault("WORKER_POOL_SIZE", 4)
	viper.SetDefault("CACHE_DEFAULT_CAPACITY", 128)
	viper.SetDefault("CACHE_DEFAULT_TTL_SECONDS", 3600)
	viper.SetDefault("DEFAULT_JOB_WORKERS", 4)
	viper.SetDefault("JOB_RETENTION_HOURS", 24)
	viper.SetDefault("JOB_CLEANUP_INTERVAL_MINUTES", 60)

	_ = viper.ReadInConfig()

	cfg := &Config{}
	cfg.Server.Port = viper.GetInt("SERVER_PORT")
	cfg.Server.GinMode = viper.GetString("GIN_MODE")
	cfg.Server.RateLimitPerMin = viper.GetInt("RATE_LIMIT_PER_MIN")
	cfg.Server.MaxBodyBytes = viper.GetInt64("MAX_BODY_BYTES")
	cfg.Server.ReadTimeout = 10 * time.Second
	cfg.Server.WriteTimeout = 30 * time.Second
	cfg.Worker.PoolSize = viper.GetInt("WORKER_POOL_SIZE")
	cfg.Cache.DefaultCapacity = viper.GetInt("CACHE_DEFAULT_CAPACITY")
	cfg.Cache.DefaultTTLSeconds = viper.GetInt("CACHE_DEFAULT_TTL_SECONDS")
	cfg.Jobs.DefaultWorkers = viper.GetInt("DEFAULT_JOB_WORKERS")
	cfg.Jobs.RetentionHours = viper.GetInt("JOB_RETENTION_HOURS")
	cfg.Jobs.CleanupIntervalMinutes = viper.GetInt("JOB_CLEANUP_INTERVAL_MINUTES")

	return cfg, nil
}
