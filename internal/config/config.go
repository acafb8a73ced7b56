package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"financehub/internal/storage"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Log struct {
		Level string
	}
	Storage struct {
		Driver          storage.Driver
		Path            string
		DSN             string
		RedisAddr       string
		RedisPrefix     string
		Bucket          string
		KeyPrefix       string
		Region          string
		Endpoint        string
		UsersKey        string
		TransactionsKey string
	}
	Latency struct {
		Enabled bool
		Scale   float64
	}
	Cache struct {
		StaleTime time.Duration
	}
	Events struct {
		NATSURL string
		Subject string
	}
	AWS struct {
		Profile string
	}
}

// Load reads configuration from environment variables and optional config files.
// Variables from .env never override the process environment.
func Load() (Config, error) {
	_ = godotenv.Load() // optional file

	v := viper.New()
	v.SetEnvPrefix("FINANCEHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("storage.driver", string(storage.DriverFile))
	v.SetDefault("storage.path", "data/slots")
	v.SetDefault("storage.dsn", "")
	v.SetDefault("storage.redisaddr", "localhost:6379")
	v.SetDefault("storage.redisprefix", "financehub:")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "financehub")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.userskey", "users_data")
	v.SetDefault("storage.transactionskey", "financehub_transactions")
	v.SetDefault("latency.enabled", true)
	v.SetDefault("latency.scale", 1.0)
	v.SetDefault("cache.staletime", "5m")
	v.SetDefault("events.natsurl", "")
	v.SetDefault("events.subject", "financehub.changes")
	v.SetDefault("aws.profile", "")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional file

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	switch c.Storage.Driver {
	case storage.DriverMemory, storage.DriverFile, storage.DriverSQLite, storage.DriverPostgres, storage.DriverRedis, storage.DriverS3:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Storage.UsersKey == c.Storage.TransactionsKey {
		return fmt.Errorf("storage slots must differ, both are %q", c.Storage.UsersKey)
	}
	if c.Latency.Scale < 0 {
		return fmt.Errorf("latency scale must not be negative")
	}
	if c.Cache.StaleTime <= 0 {
		return fmt.Errorf("cache stale time must be positive")
	}
	return nil
}
