package biz

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"keywordsearch/cmd/keyword-service/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSearchLogUsecaseForTest(config *SearchLogConfig) (*SearchLogUsecase, *fakeSearchLogRepo, *capturePublisher) {
	repo := newFakeSearchLogRepo()
	publisher := newCapturePublisher()
	uc := NewSearchLogUsecase(repo, publisher, config, log.NewStdLogger(os.Stdout))
	return uc, repo, publisher
}

func TestAnonymizeUser(t *testing.T) {
	hash := AnonymizeUser("user-1", "salt")

	assert.Len(t, hash, 64, "SHA-256 十六进制长度")
	assert.NotEqual(t, "user-1", hash)
	assert.Equal(t, hash, AnonymizeUser("user-1", "salt"), "同样输入产出同样哈希")
	assert.NotEqual(t, hash, AnonymizeUser("user-1", "other-salt"), "盐不同哈希不同")
	assert.NotEqual(t, hash, AnonymizeUser("user-2", "salt"))
}

func TestSearchLogUsecase_Log(t *testing.T) {
	uc, _, publisher := newSearchLogUsecaseForTest(&SearchLogConfig{DefaultSalt: "salt"})
	defer uc.Close()

	entry, err := uc.Log(context.Background(), &domain.SearchLogInput{
		Keyword:     "运动鞋",
		UserID:      "user-1",
		ResultCount: 5,
		Source:      "web",
	})
	require.NoError(t, err)

	assert.Equal(t, AnonymizeUser("user-1", "salt"), entry.UserHash)
	assert.False(t, entry.CreateTime.IsZero())
	assert.Equal(t, []string{domain.EventSearchExecuted}, publisher.eventTypes())
}

func TestSearchLogUsecase_Log_NoResultEvent(t *testing.T) {
	uc, _, publisher := newSearchLogUsecaseForTest(&SearchLogConfig{DefaultSalt: "salt"})
	defer uc.Close()

	_, err := uc.Log(context.Background(), &domain.SearchLogInput{
		Keyword: "不存在的商品",
		UserID:  "user-1",
	})
	require.NoError(t, err)

	types := publisher.eventTypes()
	assert.Contains(t, types, domain.EventSearchExecuted)
	assert.Contains(t, types, domain.EventSearchNoResult)
}

func TestSearchLogUsecase_LogAsync_DrainsOnClose(t *testing.T) {
	uc, repo, _ := newSearchLogUsecaseForTest(&SearchLogConfig{
		DefaultSalt:     "salt",
		AsyncEnabled:    true,
		AsyncBufferSize: 16,
	})

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, uc.LogAsync(ctx, &domain.SearchLogInput{Keyword: "运动鞋", UserID: "user-1"}))
	}

	// Close 等待缓冲排空，之后全部记录可见
	uc.Close()

	count, err := repo.CountByDateRange(ctx, time.Now().Add(-time.Minute), time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(5), count)
}

func TestSearchLogUsecase_LogAsync_FallsBackWhenDisabled(t *testing.T) {
	uc, repo, _ := newSearchLogUsecaseForTest(&SearchLogConfig{DefaultSalt: "salt"})
	defer uc.Close()

	ctx := context.Background()
	require.NoError(t, uc.LogAsync(ctx, &domain.SearchLogInput{Keyword: "运动鞋", UserID: "user-1"}))

	count, err := repo.CountByDateRange(ctx, time.Now().Add(-time.Minute), time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "未开启异步时同步落库")
}

func TestSearchLogUsecase_LogAsync_ConcurrentClose(t *testing.T) {
	// 小缓冲放大投递与关闭的交错，关闭后的投递走同步路径，不丢记录不崩溃
	for i := 0; i < 50; i++ {
		uc, repo, _ := newSearchLogUsecaseForTest(&SearchLogConfig{
			DefaultSalt:     "salt",
			AsyncEnabled:    true,
			AsyncBufferSize: 1,
		})

		ctx := context.Background()
		const writers, perWriter = 4, 25

		errCh := make(chan error, writers*perWriter)
		var wg sync.WaitGroup
		wg.Add(writers + 1)
		for w := 0; w < writers; w++ {
			go func() {
				defer wg.Done()
				for j := 0; j < perWriter; j++ {
					if err := uc.LogAsync(ctx, &domain.SearchLogInput{Keyword: "运动鞋", UserID: "user-1"}); err != nil {
						errCh <- err
					}
				}
			}()
		}
		go func() {
			defer wg.Done()
			uc.Close()
		}()
		wg.Wait()
		uc.Close()

		close(errCh)
		for err := range errCh {
			require.NoError(t, err)
		}

		count, err := repo.CountByDateRange(ctx, time.Now().Add(-time.Minute), time.Now().Add(time.Minute))
		require.NoError(t, err)
		require.Equal(t, int64(writers*perWriter), count)
	}
}

func TestSearchLogUsecase_FindLogs_DateRange(t *testing.T) {
	uc, _, _ := newSearchLogUsecaseForTest(&SearchLogConfig{DefaultSalt: "salt"})
	defer uc.Close()

	ctx := context.Background()
	now := time.Now()
	_, err := uc.Log(ctx, &domain.SearchLogInput{Keyword: "窗口前", UserID: "user-1", ResultCount: 1, CreateTime: now.AddDate(0, 0, -10)})
	require.NoError(t, err)
	_, err = uc.Log(ctx, &domain.SearchLogInput{Keyword: "窗口内", UserID: "user-1", ResultCount: 1, CreateTime: now.AddDate(0, 0, -3)})
	require.NoError(t, err)
	_, err = uc.Log(ctx, &domain.SearchLogInput{Keyword: "窗口后", UserID: "user-1", ResultCount: 1, CreateTime: now})
	require.NoError(t, err)

	start := now.AddDate(0, 0, -7)
	end := now.AddDate(0, 0, -1)
	logs, err := uc.FindLogs(ctx, &domain.SearchLogCriteria{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "窗口内", logs[0].Keyword)

	// 只给起点时终点不设上限
	logs, err = uc.FindLogs(ctx, &domain.SearchLogCriteria{StartDate: &start})
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestSearchLogUsecase_LogBatch(t *testing.T) {
	uc, repo, publisher := newSearchLogUsecaseForTest(&SearchLogConfig{DefaultSalt: "salt"})
	defer uc.Close()

	ctx := context.Background()
	entries, err := uc.LogBatch(ctx, []*domain.SearchLogInput{
		{Keyword: "运动鞋", UserID: "user-1", ResultCount: 3, Source: "web"},
		{Keyword: "不存在的商品", UserID: "user-2", Source: "app"},
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// 哈希语义与单条路径一致
	assert.Equal(t, AnonymizeUser("user-1", "salt"), entries[0].UserHash)
	assert.False(t, entries[0].CreateTime.IsZero())

	count, err := repo.CountByDateRange(ctx, time.Now().Add(-time.Minute), time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// 每条都发执行事件，零结果的额外发无结果事件
	types := publisher.eventTypes()
	assert.Contains(t, types, domain.EventSearchNoResult)
	var executed int
	for _, et := range types {
		if et == domain.EventSearchExecuted {
			executed++
		}
	}
	assert.Equal(t, 2, executed)

	// 空集合直接返回
	entries, err = uc.LogBatch(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSearchLogUsecase_FindLogs_HashesUserCriteria(t *testing.T) {
	uc, _, _ := newSearchLogUsecaseForTest(&SearchLogConfig{DefaultSalt: "salt"})
	defer uc.Close()

	ctx := context.Background()
	_, err := uc.Log(ctx, &domain.SearchLogInput{Keyword: "运动鞋", UserID: "user-1", ResultCount: 3})
	require.NoError(t, err)
	_, err = uc.Log(ctx, &domain.SearchLogInput{Keyword: "皮鞋", UserID: "user-2", ResultCount: 1})
	require.NoError(t, err)

	userID := "user-1"
	logs, err := uc.FindLogs(ctx, &domain.SearchLogCriteria{UserID: &userID})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "运动鞋", logs[0].Keyword)
}

func TestSearchLogUsecase_DeleteUserLogs(t *testing.T) {
	uc, repo, _ := newSearchLogUsecaseForTest(&SearchLogConfig{DefaultSalt: "salt"})
	defer uc.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := uc.Log(ctx, &domain.SearchLogInput{Keyword: "运动鞋", UserID: "user-1"})
		require.NoError(t, err)
	}
	_, err := uc.Log(ctx, &domain.SearchLogInput{Keyword: "皮鞋", UserID: "user-2", ResultCount: 1})
	require.NoError(t, err)

	deleted, err := uc.DeleteUserLogs(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	remaining, err := repo.CountByDateRange(ctx, time.Now().Add(-time.Minute), time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), remaining)
}

func TestSearchLogUsecase_ArchiveLogs(t *testing.T) {
	uc, repo, _ := newSearchLogUsecaseForTest(&SearchLogConfig{DefaultSalt: "salt"})
	defer uc.Close()

	ctx := context.Background()
	old := time.Now().AddDate(0, 0, -100)
	_, err := uc.Log(ctx, &domain.SearchLogInput{Keyword: "旧记录", UserID: "user-1", ResultCount: 1, CreateTime: old})
	require.NoError(t, err)
	_, err = uc.Log(ctx, &domain.SearchLogInput{Keyword: "新记录", UserID: "user-1", ResultCount: 1})
	require.NoError(t, err)

	deleted, err := uc.ArchiveLogs(ctx, time.Now().AddDate(0, 0, -90))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	logs, err := repo.FindByCriteria(ctx, &domain.SearchLogCriteria{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "新记录", logs[0].Keyword)
}
