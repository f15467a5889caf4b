package data

import (
	"context"
	"testing"
	"time"

	"keywordsearch/cmd/keyword-service/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordCache(t *testing.T) {
	// 创建测试用Redis客户端
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1, // 使用测试数据库
	})

	ctx := context.Background()
	if _, err := client.Ping(ctx).Result(); err != nil {
		t.Skip("Redis not available, skipping integration test")
	}

	defer client.FlushDB(ctx)

	cache := NewKeywordCache(client, time.Minute)

	t.Run("SetAndGet", func(t *testing.T) {
		keyword := &domain.Keyword{
			ID:      "kw-1",
			Keyword: "运动鞋",
			Weight:  2.0,
			Valid:   true,
		}

		require.NoError(t, cache.Set(ctx, keyword))

		got, err := cache.Get(ctx, "运动鞋")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, keyword.ID, got.ID)
		assert.Equal(t, keyword.Weight, got.Weight)
	})

	t.Run("Get_Miss", func(t *testing.T) {
		got, err := cache.Get(ctx, "不存在的词")
		assert.NoError(t, err)
		assert.Nil(t, got, "未命中返回 nil, nil")
	})

	t.Run("Delete", func(t *testing.T) {
		keyword := &domain.Keyword{ID: "kw-2", Keyword: "皮鞋", Valid: true}
		require.NoError(t, cache.Set(ctx, keyword))

		require.NoError(t, cache.Delete(ctx, "皮鞋"))

		got, err := cache.Get(ctx, "皮鞋")
		assert.NoError(t, err)
		assert.Nil(t, got)
	})
}
