// Package riskcache keeps pincode risk scores in Redis in front of the pincode
// risk store.
package riskcache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/abhijeetraiiit/nccart/internal/core/domain/model/pincode"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultPrefix = "nccart"
	DefaultTTL    = 10 * time.Minute
)

// Config selects the Redis server and the key namespace.
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	Prefix   string
	TTL      time.Duration
}

// NewClient builds a client for cfg, defaulting to 127.0.0.1:6379.
func NewClient(cfg Config) *redis.Client {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// RedisRiskCache implements trust.RiskCache. Scores are stored as decimal strings
// under "<prefix>:pincode_risk:<pincode>" and expire after the TTL.
type RedisRiskCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisRiskCache(client *redis.Client, prefix string, ttl time.Duration) *RedisRiskCache {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisRiskCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisRiskCache) Get(ctx context.Context, code pincode.Code) (float64, bool, error) {
	score, err := c.client.Get(ctx, c.key(code)).Float64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return score, true, nil
}

func (c *RedisRiskCache) Set(ctx context.Context, code pincode.Code, score float64) error {
	return c.client.Set(ctx, c.key(code), strconv.FormatFloat(score, 'f', -1, 64), c.ttl).Err()
}

// Fill is SET NX: an entry written by Set in the meantime wins.
func (c *RedisRiskCache) Fill(ctx context.Context, code pincode.Code, score float64) error {
	return c.client.SetNX(ctx, c.key(code), strconv.FormatFloat(score, 'f', -1, 64), c.ttl).Err()
}

func (c *RedisRiskCache) Delete(ctx context.Context, code pincode.Code) error {
	return c.client.Del(ctx, c.key(code)).Err()
}

// Ping checks that the server answers.
func (c *RedisRiskCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the client's connections.
func (c *RedisRiskCache) Close() error {
	return c.client.Close()
}

func (c *RedisRiskCache) key(code pincode.Code) string {
	return c.prefix + ":pincode_risk:" + code.String()
}
