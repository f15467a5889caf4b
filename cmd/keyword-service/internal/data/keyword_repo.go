package data

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"keywordsearch/cmd/keyword-service/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

// KeywordDO 关键词数据对象
type KeywordDO struct {
	ID          string  `gorm:"primaryKey;size:36"`
	Keyword     string  `gorm:"size:100;not null;uniqueIndex"`
	ParentID    *string `gorm:"size:36;index"`
	Weight      float64 `gorm:"not null;default:1;index"`
	Valid       bool    `gorm:"not null;default:false;index"`
	Recommend   bool    `gorm:"not null;default:false"`
	Description string  `gorm:"type:text"`
	Thumb       string  `gorm:"size:255"`
	CreatedBy   string  `gorm:"size:64"`
	UpdatedBy   string  `gorm:"size:64"`
	CreateTime  time.Time
	UpdateTime  time.Time
}

// TableName 指定表名
func (KeywordDO) TableName() string {
	return "product_keyword"
}

// 查询条件允许的排序字段
var keywordOrderFields = map[string]string{
	"id":          "id",
	"keyword":     "keyword",
	"weight":      "weight",
	"valid":       "valid",
	"create_time": "create_time",
	"update_time": "update_time",
}

type keywordRepo struct {
	db    *gorm.DB
	cache *KeywordCache
	log   *log.Helper
}

// NewKeywordRepository 创建关键词仓储，cache 可为 nil
func NewKeywordRepository(db *gorm.DB, cache *KeywordCache, logger log.Logger) domain.KeywordRepository {
	return &keywordRepo{
		db:    db,
		cache: cache,
		log:   log.NewHelper(logger),
	}
}

// Create 持久化关键词，唯一索引冲突映射为 ErrDuplicateKeyword
func (r *keywordRepo) Create(ctx context.Context, keyword *domain.Keyword) error {
	do := keywordToDO(keyword)
	if err := r.db.WithContext(ctx).Create(do).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateKeyword, keyword.Keyword)
		}
		r.log.WithContext(ctx).Errorf("failed to create keyword: %v", err)
		return err
	}
	return nil
}

// Update 保存关键词，同时失效旧文本与新文本的缓存条目
func (r *keywordRepo) Update(ctx context.Context, keyword *domain.Keyword) error {
	var oldText string
	var old KeywordDO
	if err := r.db.WithContext(ctx).Select("keyword").Where("id = ?", keyword.ID).First(&old).Error; err == nil {
		oldText = old.Keyword
	}

	do := keywordToDO(keyword)
	if err := r.db.WithContext(ctx).Save(do).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateKeyword, keyword.Keyword)
		}
		r.log.WithContext(ctx).Errorf("failed to update keyword: %v", err)
		return err
	}

	r.invalidate(ctx, oldText, keyword.Keyword)
	return nil
}

// Delete 删除关键词，关联由外键 ON DELETE CASCADE 级联清理
func (r *keywordRepo) Delete(ctx context.Context, id string) error {
	var do KeywordDO
	if err := r.db.WithContext(ctx).Select("keyword").Where("id = ?", id).First(&do).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", domain.ErrKeywordNotFound, id)
		}
		return err
	}

	if err := r.db.WithContext(ctx).Delete(&KeywordDO{}, "id = ?", id).Error; err != nil {
		r.log.WithContext(ctx).Errorf("failed to delete keyword: %v", err)
		return err
	}

	r.invalidate(ctx, do.Keyword)
	return nil
}

func (r *keywordRepo) FindByID(ctx context.Context, id string) (*domain.Keyword, error) {
	var do KeywordDO
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&do).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return keywordToDomain(&do), nil
}

func (r *keywordRepo) FindByKeyword(ctx context.Context, text string) (*domain.Keyword, error) {
	if r.cache != nil {
		if cached, err := r.cache.Get(ctx, text); err == nil && cached != nil {
			return cached, nil
		}
	}

	var do KeywordDO
	if err := r.db.WithContext(ctx).Where("keyword = ?", text).First(&do).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	keyword := keywordToDomain(&do)
	if r.cache != nil {
		if err := r.cache.Set(ctx, keyword); err != nil {
			r.log.WithContext(ctx).Warnf("keyword cache set failed: %v", err)
		}
	}
	return keyword, nil
}

func (r *keywordRepo) FindValidByKeywords(ctx context.Context, texts []string) ([]*domain.Keyword, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var dos []KeywordDO
	err := r.db.WithContext(ctx).
		Where("keyword IN ?", texts).
		Where("valid = ?", true).
		Find(&dos).Error
	if err != nil {
		return nil, err
	}

	keywords := make([]*domain.Keyword, len(dos))
	for i := range dos {
		keywords[i] = keywordToDomain(&dos[i])
	}
	return keywords, nil
}

// Search 按条件查询，未设置的条件不参与过滤
func (r *keywordRepo) Search(ctx context.Context, criteria *domain.KeywordSearchCriteria) ([]*domain.Keyword, error) {
	query := r.db.WithContext(ctx).Model(&KeywordDO{})

	if criteria.Keyword != nil {
		query = query.Where("keyword LIKE ?", "%"+*criteria.Keyword+"%")
	}
	if criteria.ParentID != nil {
		query = query.Where("parent_id = ?", *criteria.ParentID)
	}
	if criteria.Valid != nil {
		query = query.Where("valid = ?", *criteria.Valid)
	}
	if criteria.Recommend != nil {
		query = query.Where("recommend = ?", *criteria.Recommend)
	}
	if criteria.MinWeight != nil {
		query = query.Where("weight >= ?", *criteria.MinWeight)
	}
	if criteria.MaxWeight != nil {
		query = query.Where("weight <= ?", *criteria.MaxWeight)
	}

	orderField, ok := keywordOrderFields[criteria.OrderBy]
	if !ok {
		orderField = "id"
	}
	direction := "DESC"
	if strings.EqualFold(criteria.OrderDir, "ASC") {
		direction = "ASC"
	}

	var dos []KeywordDO
	err := query.
		Order(orderField + " " + direction).
		Offset((criteria.Page - 1) * criteria.PageSize).
		Limit(criteria.PageSize).
		Find(&dos).Error
	if err != nil {
		return nil, err
	}

	keywords := make([]*domain.Keyword, len(dos))
	for i := range dos {
		keywords[i] = keywordToDomain(&dos[i])
	}
	return keywords, nil
}

// BatchUpdateValid 单条 UPDATE 批量修改有效标记
func (r *keywordRepo) BatchUpdateValid(ctx context.Context, ids []string, valid bool) (int64, error) {
	result := r.db.WithContext(ctx).Model(&KeywordDO{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"valid":       valid,
			"update_time": time.Now(),
		})
	if result.Error != nil {
		r.log.WithContext(ctx).Errorf("failed to batch update keywords: %v", result.Error)
		return 0, result.Error
	}

	if r.cache != nil {
		var texts []string
		if err := r.db.WithContext(ctx).Model(&KeywordDO{}).Where("id IN ?", ids).Pluck("keyword", &texts).Error; err == nil {
			r.invalidate(ctx, texts...)
		}
	}

	return result.RowsAffected, nil
}

// SaveAll 在单个事务内批量保存，提交前写入对外不可见
func (r *keywordRepo) SaveAll(ctx context.Context, keywords []*domain.Keyword) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, keyword := range keywords {
			if err := tx.Save(keywordToDO(keyword)).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return fmt.Errorf("%w: %s", domain.ErrDuplicateKeyword, keyword.Keyword)
				}
				return err
			}
		}
		return nil
	})
}

func (r *keywordRepo) invalidate(ctx context.Context, texts ...string) {
	if r.cache == nil {
		return
	}
	for _, text := range texts {
		if text == "" {
			continue
		}
		if err := r.cache.Delete(ctx, text); err != nil {
			r.log.WithContext(ctx).Warnf("keyword cache invalidate failed: %v", err)
		}
	}
}

func keywordToDO(k *domain.Keyword) *KeywordDO {
	return &KeywordDO{
		ID:          k.ID,
		Keyword:     k.Keyword,
		ParentID:    k.ParentID,
		Weight:      k.Weight,
		Valid:       k.Valid,
		Recommend:   k.Recommend,
		Description: k.Description,
		Thumb:       k.Thumb,
		CreatedBy:   k.CreatedBy,
		UpdatedBy:   k.UpdatedBy,
		CreateTime:  k.CreateTime,
		UpdateTime:  k.UpdateTime,
	}
}

func keywordToDomain(do *KeywordDO) *domain.Keyword {
	return &domain.Keyword{
		ID:          do.ID,
		Keyword:     do.Keyword,
		ParentID:    do.ParentID,
		Weight:      do.Weight,
		Valid:       do.Valid,
		Recommend:   do.Recommend,
		Description: do.Description,
		Thumb:       do.Thumb,
		CreatedBy:   do.CreatedBy,
		UpdatedBy:   do.UpdatedBy,
		CreateTime:  do.CreateTime,
		UpdateTime:  do.UpdateTime,
	}
}
