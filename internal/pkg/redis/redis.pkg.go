package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"uploadkit-go/internal/pkg/logger"

	_redis "github.com/redis/go-redis/v9"
)

func Setup(ctx context.Context, config *Config) (IRedis, error) {
	ctx, cancel := context.WithCancel(ctx)

	client := _redis.NewClient(&_redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password: config.Password,
		PoolSize: config.PoolSize,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		cancel()
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	r := &Client{
		client: client,
		config: config,
		ctx:    ctx,
		cancel: cancel,
	}
	go r.watch()

	return r, nil
}

// watch pings the server every second. The pool redials per command on its
// own, so a transient outage heals without rebuilding the client. A
// sustained one cancels the context, callers then fail fast instead of
// hanging on every grant lookup.
func (r *Client) watch() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			if r.client.Ping(r.ctx).Err() == nil {
				continue
			}

			if !r.awaitRecovery() {
				logger.Error.Println("Redis is unreachable, giving up")
				r.cancel()
				return
			}
		}
	}
}

func (r *Client) awaitRecovery() bool {
	for attempt := 1; attempt <= 10; attempt++ {
		select {
		case <-r.ctx.Done():
			return false
		case <-time.After(time.Duration(attempt) * time.Second):
		}

		if err := r.client.Ping(r.ctx).Err(); err != nil {
			logger.Warning.Println("Redis still unreachable: ", err)
			continue
		}

		logger.Info.Println("Redis connection recovered")
		return true
	}

	return false
}

func (r *Client) Close() error {
	r.cancel()
	return r.client.Close()
}

// Set stores value under key as JSON with the given expiration.
func (r *Client) Set(key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if err := r.client.Set(r.ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("setting key %s: %w", key, err)
	}
	return nil
}

// Get returns the raw value under key, or "" when the key does not exist.
func (r *Client) Get(key string) (string, error) {
	result, err := r.client.Get(r.ctx, key).Result()
	if err != nil {
		if errors.Is(err, _redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("getting key %s: %w", key, err)
	}
	return result, nil
}

func (r *Client) Del(key string) error {
	if err := r.client.Del(r.ctx, key).Err(); err != nil {
		return fmt.Errorf("deleting key %s: %w", key, err)
	}
	return nil
}
