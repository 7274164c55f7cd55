package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/xvierd/chorebook/internal/ports"
)

// RedisKV implements ports.KVStore on Redis. Keys are namespaced as
// {namespace}:{key} so several households can share one server.
type RedisKV struct {
	client    *redis.Client
	namespace string
}

var _ ports.KVStore = (*RedisKV)(nil)

// NewRedisKV connects to url (redis://...) and verifies the connection.
func NewRedisKV(ctx context.Context, url, namespace string) (*RedisKV, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisKVFromClient(client, namespace), nil
}

// NewRedisKVFromClient wraps an existing client.
func NewRedisKVFromClient(client *redis.Client, namespace string) *RedisKV {
	if namespace == "" {
		namespace = "chorebook"
	}
	return &RedisKV{client: client, namespace: namespace}
}

func (r *RedisKV) namespaceKey(key string) string {
	return r.namespace + ":" + key
}

// Get returns the value for key, or nil when absent.
func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.namespaceKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return val, nil
}

// Set stores value without expiration.
func (r *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.namespaceKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Remove deletes key.
func (r *RedisKV) Remove(ctx context.Context, key string) error {
	return r.RemoveMany(ctx, []string{key})
}

// RemoveMany deletes keys in a single DEL.
func (r *RedisKV) RemoveMany(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.namespaceKey(k)
	}
	if err := r.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("failed to remove keys: %w", err)
	}
	return nil
}

// Close closes the client.
func (r *RedisKV) Close() error {
	return r.client.Close()
}
