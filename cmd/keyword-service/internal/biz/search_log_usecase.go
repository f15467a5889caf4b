package biz

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"keywordsearch/cmd/keyword-service/internal/domain"
	"keywordsearch/cmd/keyword-service/internal/metrics"

	"github.com/go-kratos/kratos/v2/log"
)

// SearchLogConfig 搜索日志配置
type SearchLogConfig struct {
	// DefaultSalt 进程级默认盐，构造时注入，不在调用点读环境
	DefaultSalt string
	// AsyncEnabled 开启异步写入通道
	AsyncEnabled bool
	// AsyncBufferSize 异步通道容量，写满时降级为同步
	AsyncBufferSize int
}

// SearchLogUsecase 搜索日志用例
type SearchLogUsecase struct {
	repo      domain.SearchLogRepository
	publisher domain.EventPublisher
	salt      string
	log       *log.Helper

	asyncCh chan *domain.SearchLogInput
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
	once    sync.Once
}

// NewSearchLogUsecase 创建搜索日志用例。异步开启时启动后台写入协程
func NewSearchLogUsecase(
	repo domain.SearchLogRepository,
	publisher domain.EventPublisher,
	config *SearchLogConfig,
	logger log.Logger,
) *SearchLogUsecase {
	uc := &SearchLogUsecase{
		repo:      repo,
		publisher: publisher,
		salt:      config.DefaultSalt,
		log:       log.NewHelper(logger),
	}

	if config.AsyncEnabled {
		size := config.AsyncBufferSize
		if size <= 0 {
			size = 1024
		}
		uc.asyncCh = make(chan *domain.SearchLogInput, size)
		uc.wg.Add(1)
		go uc.asyncWorker()
	}

	return uc
}

// Log 同步记录一次搜索，使用默认盐哈希用户ID
func (uc *SearchLogUsecase) Log(ctx context.Context, input *domain.SearchLogInput) (*domain.SearchLog, error) {
	return uc.LogWithSalt(ctx, input, uc.salt)
}

// LogWithSalt 同步记录一次搜索，使用调用方指定的盐
func (uc *SearchLogUsecase) LogWithSalt(ctx context.Context, input *domain.SearchLogInput, salt string) (*domain.SearchLog, error) {
	createTime := input.CreateTime
	if createTime.IsZero() {
		createTime = time.Now()
	}

	entry := &domain.SearchLog{
		Keyword:     input.Keyword,
		UserHash:    AnonymizeUser(input.UserID, salt),
		ResultCount: input.ResultCount,
		Source:      input.Source,
		SessionID:   input.SessionID,
		CreateTime:  createTime,
	}

	if err := uc.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	metrics.SearchLogsTotal.WithLabelValues(entry.Source).Inc()
	uc.publishSearchEvents(ctx, entry)

	return entry, nil
}

// LogAsync 异步记录。通道关闭、未开启或已写满时透明降级为同步路径，
// 两条路径的哈希与持久化保证一致
func (uc *SearchLogUsecase) LogAsync(ctx context.Context, input *domain.SearchLogInput) error {
	if input.CreateTime.IsZero() {
		input.CreateTime = time.Now()
	}

	if uc.asyncCh == nil {
		_, err := uc.Log(ctx, input)
		return err
	}

	if uc.trySend(input) {
		return nil
	}

	metrics.AsyncLogFallbackTotal.Inc()
	_, err := uc.Log(ctx, input)
	return err
}

// trySend 读锁内投递，Close 持写锁关闭通道，投递与关闭互斥
func (uc *SearchLogUsecase) trySend(input *domain.SearchLogInput) bool {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	if uc.closed {
		return false
	}
	select {
	case uc.asyncCh <- input:
		return true
	default:
		return false
	}
}

// LogBatch 批量记录搜索，单个事务内写入。哈希与事件语义和单条路径一致
func (uc *SearchLogUsecase) LogBatch(ctx context.Context, inputs []*domain.SearchLogInput) ([]*domain.SearchLog, error) {
	if len(inputs) == 0 {
		return []*domain.SearchLog{}, nil
	}

	entries := make([]*domain.SearchLog, 0, len(inputs))
	for _, input := range inputs {
		createTime := input.CreateTime
		if createTime.IsZero() {
			createTime = time.Now()
		}
		entries = append(entries, &domain.SearchLog{
			Keyword:     input.Keyword,
			UserHash:    AnonymizeUser(input.UserID, uc.salt),
			ResultCount: input.ResultCount,
			Source:      input.Source,
			SessionID:   input.SessionID,
			CreateTime:  createTime,
		})
	}

	if err := uc.repo.BatchInsert(ctx, entries); err != nil {
		return nil, err
	}

	for _, entry := range entries {
		metrics.SearchLogsTotal.WithLabelValues(entry.Source).Inc()
		uc.publishSearchEvents(ctx, entry)
	}

	return entries, nil
}

// FindLogs 按条件查询。UserID 条件先按默认盐哈希再匹配
func (uc *SearchLogUsecase) FindLogs(ctx context.Context, criteria *domain.SearchLogCriteria) ([]*domain.SearchLog, error) {
	if criteria.Page < 1 {
		criteria.Page = 1
	}
	if criteria.PageSize < 1 {
		criteria.PageSize = 100
	}
	if criteria.OrderBy == "" {
		criteria.OrderBy = "create_time"
	}
	if criteria.OrderDir == "" {
		criteria.OrderDir = "DESC"
	}
	if criteria.UserID != nil {
		hash := AnonymizeUser(*criteria.UserID, uc.salt)
		criteria.UserID = &hash
	}
	return uc.repo.FindByCriteria(ctx, criteria)
}

// DeleteUserLogs 隐私删除，按默认盐哈希定位该用户的全部记录
func (uc *SearchLogUsecase) DeleteUserLogs(ctx context.Context, userID string) (int64, error) {
	return uc.repo.DeleteByUserHash(ctx, AnonymizeUser(userID, uc.salt))
}

// ArchiveLogs 删除 before 之前的记录。目前只删除，没有冷存储落盘
func (uc *SearchLogUsecase) ArchiveLogs(ctx context.Context, before time.Time) (int64, error) {
	return uc.repo.DeleteOlderThan(ctx, before)
}

// Close 停止异步通道并等待缓冲写完。之后的 LogAsync 降级为同步路径
func (uc *SearchLogUsecase) Close() {
	uc.once.Do(func() {
		uc.mu.Lock()
		uc.closed = true
		if uc.asyncCh != nil {
			close(uc.asyncCh)
		}
		uc.mu.Unlock()

		if uc.asyncCh != nil {
			uc.wg.Wait()
		}
	})
}

func (uc *SearchLogUsecase) asyncWorker() {
	defer uc.wg.Done()
	for input := range uc.asyncCh {
		if _, err := uc.Log(context.Background(), input); err != nil {
			uc.log.Errorf("async search log write failed: %v", err)
		}
	}
}

func (uc *SearchLogUsecase) publishSearchEvents(ctx context.Context, entry *domain.SearchLog) {
	event := &domain.SearchEvent{
		Keyword:     entry.Keyword,
		UserHash:    entry.UserHash,
		ResultCount: entry.ResultCount,
		Source:      entry.Source,
		SessionID:   entry.SessionID,
		OccurredAt:  entry.CreateTime,
	}

	if err := uc.publisher.Publish(ctx, domain.EventSearchExecuted, entry.Keyword, event); err != nil {
		uc.log.WithContext(ctx).Warnf("publish %s failed: %v", domain.EventSearchExecuted, err)
	}

	if entry.ResultCount == 0 {
		metrics.NoResultSearchesTotal.Inc()
		if err := uc.publisher.Publish(ctx, domain.EventSearchNoResult, entry.Keyword, event); err != nil {
			uc.log.WithContext(ctx).Warnf("publish %s failed: %v", domain.EventSearchNoResult, err)
		}
	}
}

// AnonymizeUser 对用户ID加盐做 SHA-256，单向不可逆
func AnonymizeUser(userID, salt string) string {
	sum := sha256.Sum256([]byte(userID + salt))
	return hex.EncodeToString(sum[:])
}
