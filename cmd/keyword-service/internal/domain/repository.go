package domain

import (
	"context"
	"time"
)

// KeywordRepository 关键词仓储接口
type KeywordRepository interface {
	Create(ctx context.Context, keyword *Keyword) error
	Update(ctx context.Context, keyword *Keyword) error
	Delete(ctx context.Context, id string) error

	// FindByID 按ID查找，未命中返回 nil, nil
	FindByID(ctx context.Context, id string) (*Keyword, error)

	// FindByKeyword 按文本精确查找，未命中返回 nil, nil
	FindByKeyword(ctx context.Context, text string) (*Keyword, error)

	// FindValidByKeywords 批量查找有效关键词，未命中的文本被跳过
	FindValidByKeywords(ctx context.Context, texts []string) ([]*Keyword, error)

	Search(ctx context.Context, criteria *KeywordSearchCriteria) ([]*Keyword, error)

	// BatchUpdateValid 批量更新有效标记，返回受影响行数
	BatchUpdateValid(ctx context.Context, ids []string, valid bool) (int64, error)

	// SaveAll 在单个事务内批量保存，事务提交前写入对外不可见
	SaveAll(ctx context.Context, keywords []*Keyword) error
}

// ProductKeywordRepository 商品-关键词关联仓储接口
type ProductKeywordRepository interface {
	Create(ctx context.Context, pk *ProductKeyword) error
	Update(ctx context.Context, pk *ProductKeyword) error
	Delete(ctx context.Context, id string) error

	// FindBySpuAndKeyword (spuId, keywordId) 唯一，未命中返回 nil, nil
	FindBySpuAndKeyword(ctx context.Context, spuID, keywordID string) (*ProductKeyword, error)

	// ListByKeywordIDs 按关键词ID集合取全部关联
	ListByKeywordIDs(ctx context.Context, keywordIDs []string) ([]*ProductKeyword, error)

	ListByProduct(ctx context.Context, spuID string, page, pageSize int) ([]*ProductKeyword, error)
	ListByKeyword(ctx context.Context, keywordID string, page, pageSize int) ([]*ProductKeyword, error)
	ListByProductOrderByWeight(ctx context.Context, spuID string, page, pageSize int) ([]*ProductKeyword, error)
	ListBySource(ctx context.Context, source string, page, pageSize int) ([]*ProductKeyword, error)

	DeleteByProduct(ctx context.Context, spuID string) (int64, error)
	DeleteBySource(ctx context.Context, spuID, source string) (int64, error)

	// SaveAll 在单个事务内批量保存
	SaveAll(ctx context.Context, pks []*ProductKeyword) error
}

// SearchLogRepository 搜索日志仓储接口
type SearchLogRepository interface {
	Create(ctx context.Context, log *SearchLog) error

	// BatchInsert 在单个事务内分批写入
	BatchInsert(ctx context.Context, logs []*SearchLog) error

	FindByCriteria(ctx context.Context, criteria *SearchLogCriteria) ([]*SearchLog, error)

	DeleteByUserHash(ctx context.Context, userHash string) (int64, error)
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)

	CountByDateRange(ctx context.Context, start, end time.Time) (int64, error)

	// HotKeywords 范围内按出现次数降序的搜索词
	HotKeywords(ctx context.Context, start, end time.Time, limit int) ([]*KeywordCount, error)

	// NoResultKeywords 范围内零结果搜索词，按出现次数降序
	NoResultKeywords(ctx context.Context, start, end time.Time, limit int) ([]*KeywordCount, error)

	// CountDistinctNoResultKeywords 范围内出现过零结果的不同搜索词数量
	CountDistinctNoResultKeywords(ctx context.Context, start, end time.Time) (int64, error)
}
