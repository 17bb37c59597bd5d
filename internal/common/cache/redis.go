package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/architect/natural-teacher/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	client *redis.Client
	ctx    = context.Background()
)

// Init connects to Redis. The cache is optional: when the connection
// fails the server keeps running and every lookup misses.
func Init(addr, password string, db int) {
	client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		logger.Warn("redis unavailable, caching and token revocation disabled",
			zap.String("addr", addr), zap.Error(err))
		client = nil
		return
	}

	logger.Info("connected to redis", zap.String("addr", addr))
}

// Available reports whether the cache can be used.
func Available() bool {
	return client != nil
}

// Close releases the Redis connection.
func Close() {
	if client != nil {
		_ = client.Close()
		client = nil
	}
}

// Set stores a JSON-encoded value under key.
func Set(key string, value interface{}, expiration time.Duration) error {
	if client == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, data, expiration).Err()
}

// Get loads a JSON-encoded value into dest. Returns false on miss.
func Get(key string, dest interface{}) bool {
	if client == nil {
		return false
	}
	val, err := client.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), dest) == nil
}

// Delete removes keys.
func Delete(keys ...string) {
	if client == nil || len(keys) == 0 {
		return
	}
	client.Del(ctx, keys...)
}

// DeleteByPrefix removes every key with the given prefix.
func DeleteByPrefix(prefix string) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}

// BlacklistToken marks a JWT as revoked until it would have expired.
func BlacklistToken(token string, ttl time.Duration) {
	if client == nil || ttl <= 0 {
		return
	}
	client.Set(ctx, "token_blacklist:"+token, "1", ttl)
}

// IsTokenBlacklisted reports whether a token was revoked via logout.
func IsTokenBlacklisted(token string) bool {
	if client == nil {
		return false
	}
	n, err := client.Exists(ctx, "token_blacklist:"+token).Result()
	return err == nil && n > 0
}
