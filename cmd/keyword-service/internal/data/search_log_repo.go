package data

import (
	"context"
	"strings"
	"time"

	"keywordsearch/cmd/keyword-service/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

// 批量写入的单批行数
const searchLogBatchSize = 100

// SearchLogDO 搜索日志数据对象
type SearchLogDO struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Keyword     string    `gorm:"size:200;not null;index"`
	UserHash    string    `gorm:"size:64;not null;index"`
	ResultCount int       `gorm:"not null;default:0"`
	Source      string    `gorm:"size:20;not null"`
	SessionID   string    `gorm:"size:100;not null"`
	CreateTime  time.Time `gorm:"not null;index"`
}

// TableName 指定表名
func (SearchLogDO) TableName() string {
	return "search_log"
}

// 查询条件允许的排序字段
var searchLogOrderFields = map[string]string{
	"id":           "id",
	"keyword":      "keyword",
	"result_count": "result_count",
	"create_time":  "create_time",
}

type searchLogRepo struct {
	db  *gorm.DB
	log *log.Helper
}

// NewSearchLogRepository 创建搜索日志仓储
func NewSearchLogRepository(db *gorm.DB, logger log.Logger) domain.SearchLogRepository {
	return &searchLogRepo{
		db:  db,
		log: log.NewHelper(logger),
	}
}

func (r *searchLogRepo) Create(ctx context.Context, entry *domain.SearchLog) error {
	do := searchLogToDO(entry)
	if err := r.db.WithContext(ctx).Create(do).Error; err != nil {
		r.log.WithContext(ctx).Errorf("failed to create search log: %v", err)
		return err
	}
	entry.ID = do.ID
	return nil
}

// BatchInsert 在单个事务内分批写入，提交前对并发读不可见
func (r *searchLogRepo) BatchInsert(ctx context.Context, logs []*domain.SearchLog) error {
	if len(logs) == 0 {
		return nil
	}

	dos := make([]*SearchLogDO, len(logs))
	for i, entry := range logs {
		dos[i] = searchLogToDO(entry)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(dos, searchLogBatchSize).Error
	})
}

// FindByCriteria 按条件查询，未设置的条件不参与过滤。UserID 字段在
// 业务层已被哈希，这里直接按 user_hash 匹配
func (r *searchLogRepo) FindByCriteria(ctx context.Context, criteria *domain.SearchLogCriteria) ([]*domain.SearchLog, error) {
	query := r.db.WithContext(ctx).Model(&SearchLogDO{})

	if criteria.Keyword != nil {
		query = query.Where("keyword LIKE ?", "%"+*criteria.Keyword+"%")
	}
	if criteria.UserID != nil {
		query = query.Where("user_hash = ?", *criteria.UserID)
	}
	if criteria.Source != nil {
		query = query.Where("source = ?", *criteria.Source)
	}
	if criteria.StartDate != nil {
		query = query.Where("create_time >= ?", *criteria.StartDate)
	}
	if criteria.EndDate != nil {
		query = query.Where("create_time <= ?", *criteria.EndDate)
	}
	if criteria.MinResultCount != nil {
		query = query.Where("result_count >= ?", *criteria.MinResultCount)
	}
	if criteria.MaxResultCount != nil {
		query = query.Where("result_count <= ?", *criteria.MaxResultCount)
	}

	orderField, ok := searchLogOrderFields[criteria.OrderBy]
	if !ok {
		orderField = "create_time"
	}
	direction := "DESC"
	if strings.EqualFold(criteria.OrderDir, "ASC") {
		direction = "ASC"
	}

	var dos []SearchLogDO
	err := query.
		Order(orderField + " " + direction).
		Offset(pageOffset(criteria.Page, criteria.PageSize)).
		Limit(criteria.PageSize).
		Find(&dos).Error
	if err != nil {
		return nil, err
	}

	logs := make([]*domain.SearchLog, len(dos))
	for i := range dos {
		logs[i] = searchLogToDomain(&dos[i])
	}
	return logs, nil
}

func (r *searchLogRepo) DeleteByUserHash(ctx context.Context, userHash string) (int64, error) {
	result := r.db.WithContext(ctx).Where("user_hash = ?", userHash).Delete(&SearchLogDO{})
	return result.RowsAffected, result.Error
}

func (r *searchLogRepo) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("create_time < ?", before).Delete(&SearchLogDO{})
	return result.RowsAffected, result.Error
}

func (r *searchLogRepo) CountByDateRange(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&SearchLogDO{}).
		Where("create_time BETWEEN ? AND ?", start, end).
		Count(&count).Error
	return count, err
}

func (r *searchLogRepo) HotKeywords(ctx context.Context, start, end time.Time, limit int) ([]*domain.KeywordCount, error) {
	var counts []*domain.KeywordCount
	err := r.db.WithContext(ctx).Model(&SearchLogDO{}).
		Select("keyword, COUNT(id) AS count").
		Where("create_time BETWEEN ? AND ?", start, end).
		Group("keyword").
		Order("count DESC").
		Limit(limit).
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *searchLogRepo) NoResultKeywords(ctx context.Context, start, end time.Time, limit int) ([]*domain.KeywordCount, error) {
	var counts []*domain.KeywordCount
	err := r.db.WithContext(ctx).Model(&SearchLogDO{}).
		Select("keyword, COUNT(id) AS count").
		Where("create_time BETWEEN ? AND ?", start, end).
		Where("result_count = 0").
		Group("keyword").
		Order("count DESC").
		Limit(limit).
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *searchLogRepo) CountDistinctNoResultKeywords(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&SearchLogDO{}).
		Where("create_time BETWEEN ? AND ?", start, end).
		Where("result_count = 0").
		Distinct("keyword").
		Count(&count).Error
	return count, err
}

func searchLogToDO(entry *domain.SearchLog) *SearchLogDO {
	return &SearchLogDO{
		ID:          entry.ID,
		Keyword:     entry.Keyword,
		UserHash:    entry.UserHash,
		ResultCount: entry.ResultCount,
		Source:      entry.Source,
		SessionID:   entry.SessionID,
		CreateTime:  entry.CreateTime,
	}
}

func searchLogToDomain(do *SearchLogDO) *domain.SearchLog {
	return &domain.SearchLog{
		ID:          do.ID,
		Keyword:     do.Keyword,
		UserHash:    do.UserHash,
		ResultCount: do.ResultCount,
		Source:      do.Source,
		SessionID:   do.SessionID,
		CreateTime:  do.CreateTime,
	}
}
