package data

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"keywordsearch/cmd/keyword-service/internal/domain"
	"keywordsearch/cmd/keyword-service/internal/metrics"

	"github.com/redis/go-redis/v9"
)

// 缓存键前缀
const keywordCachePrefix = "keyword:text:"

// 默认 TTL
const defaultKeywordTTL = 10 * time.Minute

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewRedisClient 创建 Redis 客户端
func NewRedisClient(config *RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

// KeywordCache 按文本缓存关键词实体
type KeywordCache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewKeywordCache 创建关键词缓存，ttl <= 0 时使用默认值
func NewKeywordCache(client *redis.Client, ttl time.Duration) *KeywordCache {
	if ttl <= 0 {
		ttl = defaultKeywordTTL
	}
	return &KeywordCache{
		redis: client,
		ttl:   ttl,
	}
}

// Get 获取缓存的关键词，未命中返回 nil, nil
func (c *KeywordCache) Get(ctx context.Context, text string) (*domain.Keyword, error) {
	data, err := c.redis.Get(ctx, keywordCachePrefix+text).Bytes()
	if err == redis.Nil {
		metrics.KeywordCacheMisses.Inc()
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get error: %w", err)
	}

	var keyword domain.Keyword
	if err := json.Unmarshal(data, &keyword); err != nil {
		return nil, fmt.Errorf("json unmarshal error: %w", err)
	}

	metrics.KeywordCacheHits.Inc()
	return &keyword, nil
}

// Set 缓存关键词实体
func (c *KeywordCache) Set(ctx context.Context, keyword *domain.Keyword) error {
	data, err := json.Marshal(keyword)
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}
	return c.redis.Set(ctx, keywordCachePrefix+keyword.Keyword, data, c.ttl).Err()
}

// Delete 按文本失效缓存
func (c *KeywordCache) Delete(ctx context.Context, text string) error {
	return c.redis.Del(ctx, keywordCachePrefix+text).Err()
}
