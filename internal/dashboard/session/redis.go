package session

import (
	"context"
	"fmt"

	"todo_app/internal/config"
	"todo_app/internal/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// Backend is the Redis behind the session store: an external server when
// session.redis_addr is set, otherwise an in-process miniredis.
type Backend struct {
	Client *redis.Client
	mini   *miniredis.Miniredis
}

// OpenBackend connects to the configured Redis or starts an embedded one.
func OpenBackend(ctx context.Context, cfg config.Session, log *logger.Logger) (*Backend, error) {
	if cfg.RedisAddr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, fmt.Errorf("start embedded redis: %w", err)
		}
		log.Infow("embedded redis started", "addr", mr.Addr())
		return &Backend{
			Client: redis.NewClient(&redis.Options{Addr: mr.Addr()}),
			mini:   mr,
		}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	log.Infow("connected to redis", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	return &Backend{Client: client}, nil
}

// Embedded reports whether the backend is an in-process miniredis.
func (b *Backend) Embedded() bool {
	return b.mini != nil
}

// Close closes the client and stops the embedded server if any.
func (b *Backend) Close() error {
	err := b.Client.Close()
	if b.mini != nil {
		b.mini.Close()
	}
	return err
}
