package blob

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps blobs in a Redis instance under a namespaced key.
// It exists for self-hosted setups where the vault should live next to
// other Redis-backed services instead of on local disk.
type RedisStore struct {
	rdb *redis.Client
}

// OpenRedis connects and pings the server at addr.
func OpenRedis(addr string) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

func (s *RedisStore) Read(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.rdb.Get(ctx, "kbvault:"+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (s *RedisStore) Write(ctx context.Context, key string, data []byte) error {
	return s.rdb.Set(ctx, "kbvault:"+key, data, 0).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
