package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores each collection document under <prefix><collection>.
type RedisBackend struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisBackend(rdb *redis.Client, prefix string) *RedisBackend {
	return &RedisBackend{rdb: rdb, prefix: prefix}
}

func (b *RedisBackend) Name() string { return "redis" }

func (b *RedisBackend) key(collection string) string {
	return b.prefix + collection
}

func (b *RedisBackend) Read(ctx context.Context, collection string) ([]byte, error) {
	data, err := b.rdb.Get(ctx, b.key(collection)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCollectionNotFound
	}
	return data, err
}

func (b *RedisBackend) Write(ctx context.Context, collection string, data []byte) error {
	return b.rdb.Set(ctx, b.key(collection), data, 0).Err()
}

func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.rdb.Ping(ctx).Err()
}
