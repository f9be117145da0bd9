package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisClient struct {
	client     redis.UniversalClient
	defaultTTL time.Duration
}

// NewRedisClient aceita um ou mais endereços separados por vírgula;
// com vários, o client universal opera em modo cluster.
func NewRedisClient(addrs string, poolSize int, defaultTTL time.Duration) *RedisClient {
	client := redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs: strings.Split(addrs, ","),

		PoolSize:     poolSize,
		MinIdleConns: 2,

		// Timeouts otimizados para cache
		DialTimeout:  5 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,

		MaxRetries:      3,
		MinRetryBackoff: 50 * time.Millisecond,
		MaxRetryBackoff: 500 * time.Millisecond,
	})

	return &RedisClient{
		client:     client,
		defaultTTL: defaultTTL,
	}
}

func (rc *RedisClient) SetKey(ctx context.Context, key string, value string) error {
	fields := map[string]interface{}{
		"data":      value,
		"cached_at": time.Now().Unix(),
	}

	err := rc.client.HSet(ctx, key, fields).Err()
	if err != nil {
		return err
	}

	return rc.client.Expire(ctx, key, rc.defaultTTL).Err()
}

// SetWithRegistry grava o cache e registra a chave em sets de registro,
// para invalidação em lote depois de um import.
func (rc *RedisClient) SetWithRegistry(ctx context.Context, cacheKey string, cacheValue string, registryKeys []string) error {
	pipe := rc.client.Pipeline()

	fields := map[string]interface{}{
		"data":      cacheValue,
		"cached_at": time.Now().Unix(),
	}
	pipe.HSet(ctx, cacheKey, fields)
	pipe.Expire(ctx, cacheKey, rc.defaultTTL)

	for _, registryKey := range registryKeys {
		pipe.SAdd(ctx, registryKey, cacheKey)
		pipe.Expire(ctx, registryKey, rc.defaultTTL)
	}

	_, err := pipe.Exec(ctx)
	return err
}

func (rc *RedisClient) GetKey(ctx context.Context, key string) (string, bool, error) {
	result := rc.client.HGet(ctx, key, "data")

	// Cache miss
	if result.Err() == redis.Nil {
		return "", false, nil
	}
	if result.Err() != nil {
		return "", false, result.Err()
	}

	return result.Val(), true, nil
}

func (rc *RedisClient) GetSetMembers(ctx context.Context, key string) ([]string, error) {
	members, err := rc.client.SMembers(ctx, key).Result()
	if err != nil && err != redis.Nil {
		return nil, err
	}
	return members, nil
}

func (rc *RedisClient) DeleteKeys(ctx context.Context, keys []string) error {
	var errors []string

	for _, key := range keys {
		if err := rc.client.Del(ctx, key).Err(); err != nil {
			errors = append(errors, fmt.Sprintf("key %s: %v", key, err))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("invalidation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// Health check
func (rc *RedisClient) HealthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}
