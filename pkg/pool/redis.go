package pool

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists the pool as a Redis hash: one field per item.
// Saves replace the hash in a MULTI/EXEC transaction.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to addr and stores the pool under key.
func NewRedisStore(ctx context.Context, addr, key string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return &RedisStore{client: client, key: key}, nil
}

func (r *RedisStore) Name() string { return "redis" }

// Load reads the hash.
func (r *RedisStore) Load(ctx context.Context) (Stock, error) {
	fields, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("reading pool hash: %w", err)
	}
	stock := make(Stock, len(fields))
	for name, v := range fields {
		q, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("pool field %q: %w", name, err)
		}
		stock[name] = q
	}
	return stock, nil
}

// Save replaces the hash atomically.
func (r *RedisStore) Save(ctx context.Context, stock Stock) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key)
		if len(stock) == 0 {
			return nil
		}
		values := make([]any, 0, 2*len(stock))
		for _, name := range stock.Items() {
			values = append(values, name, stock[name])
		}
		pipe.HSet(ctx, r.key, values...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("writing pool hash: %w", err)
	}
	return nil
}

// Close closes the client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

var _ Store = (*RedisStore)(nil)
