// Package rds wraps go-redis as a small byte-oriented key/value client
package rds

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config configures the redis client
type Config struct {
	URL          string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RDS is a redis client exposing only the calls the caches need
type RDS struct {
	c *redis.Client
}

// Open parses a redis:// URL and builds a client; no round trip happens until first use
func Open(_ context.Context, cfg Config) (*RDS, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return &RDS{c: redis.NewClient(opts)}, nil
}

// Get returns the value and whether the key existed
func (r *RDS) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

// Set stores val under key with ttl; ttl <= 0 keeps the key forever
func (r *RDS) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return r.c.Set(ctx, key, val, ttl).Err()
}

// Del removes keys
func (r *RDS) Del(ctx context.Context, keys ...string) error {
	return r.c.Del(ctx, keys...).Err()
}

// Ping checks connectivity
func (r *RDS) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

// Close releases the pool
func (r *RDS) Close() error {
	if r == nil || r.c == nil {
		return nil
	}
	return r.c.Close()
}
