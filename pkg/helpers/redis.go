package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient initializes a redis client
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

// RedisGetJSON reports false without error when the key does not exist.
func RedisGetJSON[T any](ctx context.Context, rdb *redis.Client, key string, dest *T) (bool, error) {
	res, err := rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(res, dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// RedisVersion returns the counter stored at versionKey, "" when unset.
func RedisVersion(ctx context.Context, rdb *redis.Client, versionKey string) (string, error) {
	v, err := rdb.Get(ctx, versionKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

// RedisBumpVersion advances versionKey and deletes key in one transaction.
// Readers holding the old version can then no longer fill key.
func RedisBumpVersion(ctx context.Context, rdb *redis.Client, versionKey, key string, versionTTL time.Duration) error {
	_, err := rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey)
		pipe.PExpire(ctx, versionKey, versionTTL)
		pipe.Del(ctx, key)
		return nil
	})
	return err
}

var setIfVersionScript = redis.NewScript(`
local current = redis.call("GET", KEYS[2]) or ""
if current ~= ARGV[1] then
  return 0
end
redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
return 1
`)

// RedisSetJSONIfVersion stores value at key only while versionKey still holds version.
// It reports whether the value was written.
func RedisSetJSONIfVersion(ctx context.Context, rdb *redis.Client, key, versionKey, version string, value any, ttl time.Duration) (bool, error) {
	b, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("encode %s: %w", key, err)
	}
	n, err := setIfVersionScript.Run(ctx, rdb, []string{key, versionKey}, version, b, ttl.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
