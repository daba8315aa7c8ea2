// Package redis establishes the connection behind the redis credential
// store backend.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultTimeout matches the credential store's per-operation budget:
// credential reads sit on the request path, so a slow Redis must fail
// fast into the degraded logged-out mode rather than stall dispatches.
const defaultTimeout = 2 * time.Second

// clientName identifies credential-store connections in CLIENT LIST.
const clientName = "kalafo-credstore"

// Config captures the settings for establishing a Redis connection.
type Config struct {
	Addr string
	DB   int
	// Timeout bounds the connect-time ping and every subsequent command.
	// Zero means defaultTimeout.
	Timeout time.Duration
}

// Connect initialises a Redis client for the credential store and
// validates connectivity with a ping. An unreachable backend is a
// construction error; degradation is reserved for backends that break
// after startup.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		DB:           cfg.DB,
		ClientName:   clientName,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
