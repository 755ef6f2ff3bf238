package store

import (
	"context"
	"errors"
	"net"

	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
)

type NewRedisClientParams struct {
	Host           string
	Port           string
	Password       string
	TracingEnabled bool
}

func NewRedisClient(params NewRedisClientParams) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Host, params.Port),
		Password: params.Password,
		DB:       0, // use default DB
	})
	if params.TracingEnabled {
		rdb.AddHook(redisotel.NewTracingHook())
	}
	return rdb
}

var _ Backend = (*RedisBackend)(nil)

// RedisBackend keeps the blob under a single key, without expiration.
type RedisBackend struct {
	rdb *redis.Client
	key string
}

func NewRedisBackend(rdb *redis.Client, key string) *RedisBackend {
	return &RedisBackend{
		rdb: rdb,
		key: key,
	}
}

func (b *RedisBackend) Name() string {
	return "redis"
}

func (b *RedisBackend) Read(ctx context.Context) ([]byte, error) {
	blob, err := b.rdb.Get(ctx, b.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return blob, nil
}

func (b *RedisBackend) Write(ctx context.Context, blob []byte) error {
	return b.rdb.Set(ctx, b.key, string(blob), 0).Err()
}
