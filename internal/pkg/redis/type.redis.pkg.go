package redis

import (
	"context"
	"time"

	_redis "github.com/redis/go-redis/v9"
)

type Config struct {
	Host     string
	Port     int
	Password string
	PoolSize int
}

// Client wraps the go-redis pool with the narrow surface grant storage
// needs. Values go in JSON-encoded, readers see the raw encoding.
type Client struct {
	client *_redis.Client
	config *Config
	cancel context.CancelFunc
	ctx    context.Context
}

type IRedis interface {
	Close() error
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string) (string, error)
	Del(key string) error
}
