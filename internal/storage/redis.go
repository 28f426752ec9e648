package storage

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisBackend stores each document under <prefix><name>. Documents are
// whole-state snapshots, so plain SET/GET is enough.
type RedisBackend struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisBackend(rdb *redis.Client, prefix string) *RedisBackend {
	return &RedisBackend{rdb: rdb, prefix: prefix}
}

func (b *RedisBackend) key(name string) string {
	return b.prefix + name
}

func (b *RedisBackend) Load(ctx context.Context, name string) ([]byte, error) {
	data, err := b.rdb.Get(ctx, b.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (b *RedisBackend) Save(ctx context.Context, name string, data []byte) error {
	return b.rdb.Set(ctx, b.key(name), data, 0).Err()
}
