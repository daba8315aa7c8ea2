package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds every runtime setting of the client core. The only value a
// deployment must provide is the API base URL; everything else has a
// workable default.
type Config struct {
	// BaseURL is the address of the Kalafo API. It does not need to carry
	// the "/api" suffix; the client normalises it either way.
	BaseURL string `env:"KALAFO_API_URL, default=http://localhost:5000/api"`

	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// RequestTimeout bounds a single outbound request. This is the
	// transport default; no per-call retry or budget exists above it.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT, default=30s"`

	Store StoreConfig
}

// StoreConfig selects and configures the credential store backend.
type StoreConfig struct {
	// Backend is one of: file, redis, memory.
	Backend string `env:"CRED_STORE, default=file"`

	// Dir is the directory holding the file backend's keys. Empty means
	// a "kalafo" directory under the user config dir.
	Dir string `env:"CRED_STORE_DIR"`

	Redis RedisConfig
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
