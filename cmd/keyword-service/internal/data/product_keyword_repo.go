package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"keywordsearch/cmd/keyword-service/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
	"gorm.io/gorm"
)

// ProductKeywordDO 商品-关键词关联数据对象。(spu_id, keyword_id) 唯一，
// 外键级联删除随关键词一起清理
type ProductKeywordDO struct {
	ID         string    `gorm:"primaryKey;size:36"`
	SpuID      string    `gorm:"size:50;not null;index;uniqueIndex:uk_spu_keyword"`
	KeywordID  string    `gorm:"size:36;not null;uniqueIndex:uk_spu_keyword;index"`
	Keyword    KeywordDO `gorm:"foreignKey:KeywordID;constraint:OnDelete:CASCADE"`
	Weight     float64   `gorm:"not null;default:1;index"`
	Source     string    `gorm:"size:20;not null;default:manual;index"`
	CreatedBy  string    `gorm:"size:64"`
	UpdatedBy  string    `gorm:"size:64"`
	CreateTime time.Time
	UpdateTime time.Time
}

// TableName 指定表名
func (ProductKeywordDO) TableName() string {
	return "product_keyword_relation"
}

type productKeywordRepo struct {
	db  *gorm.DB
	log *log.Helper
}

// NewProductKeywordRepository 创建商品-关键词关联仓储
func NewProductKeywordRepository(db *gorm.DB, logger log.Logger) domain.ProductKeywordRepository {
	return &productKeywordRepo{
		db:  db,
		log: log.NewHelper(logger),
	}
}

func (r *productKeywordRepo) Create(ctx context.Context, pk *domain.ProductKeyword) error {
	do := productKeywordToDO(pk)
	if err := r.db.WithContext(ctx).Create(do).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: association (%s, %s)", domain.ErrDuplicateKeyword, pk.SpuID, pk.KeywordID)
		}
		r.log.WithContext(ctx).Errorf("failed to create association: %v", err)
		return err
	}
	return nil
}

func (r *productKeywordRepo) Update(ctx context.Context, pk *domain.ProductKeyword) error {
	if err := r.db.WithContext(ctx).Save(productKeywordToDO(pk)).Error; err != nil {
		r.log.WithContext(ctx).Errorf("failed to update association: %v", err)
		return err
	}
	return nil
}

func (r *productKeywordRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&ProductKeywordDO{}, "id = ?", id).Error
}

func (r *productKeywordRepo) FindBySpuAndKeyword(ctx context.Context, spuID, keywordID string) (*domain.ProductKeyword, error) {
	var do ProductKeywordDO
	err := r.db.WithContext(ctx).
		Where("spu_id = ? AND keyword_id = ?", spuID, keywordID).
		First(&do).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return productKeywordToDomain(&do), nil
}

func (r *productKeywordRepo) ListByKeywordIDs(ctx context.Context, keywordIDs []string) ([]*domain.ProductKeyword, error) {
	if len(keywordIDs) == 0 {
		return nil, nil
	}

	var dos []ProductKeywordDO
	if err := r.db.WithContext(ctx).Where("keyword_id IN ?", keywordIDs).Find(&dos).Error; err != nil {
		return nil, err
	}
	return productKeywordsToDomain(dos), nil
}

func (r *productKeywordRepo) ListByProduct(ctx context.Context, spuID string, page, pageSize int) ([]*domain.ProductKeyword, error) {
	var dos []ProductKeywordDO
	err := r.db.WithContext(ctx).
		Where("spu_id = ?", spuID).
		Offset(pageOffset(page, pageSize)).
		Limit(pageSize).
		Find(&dos).Error
	if err != nil {
		return nil, err
	}
	return productKeywordsToDomain(dos), nil
}

func (r *productKeywordRepo) ListByKeyword(ctx context.Context, keywordID string, page, pageSize int) ([]*domain.ProductKeyword, error) {
	var dos []ProductKeywordDO
	err := r.db.WithContext(ctx).
		Where("keyword_id = ?", keywordID).
		Offset(pageOffset(page, pageSize)).
		Limit(pageSize).
		Find(&dos).Error
	if err != nil {
		return nil, err
	}
	return productKeywordsToDomain(dos), nil
}

func (r *productKeywordRepo) ListByProductOrderByWeight(ctx context.Context, spuID string, page, pageSize int) ([]*domain.ProductKeyword, error) {
	var dos []ProductKeywordDO
	err := r.db.WithContext(ctx).
		Where("spu_id = ?", spuID).
		Order("weight DESC").
		Offset(pageOffset(page, pageSize)).
		Limit(pageSize).
		Find(&dos).Error
	if err != nil {
		return nil, err
	}
	return productKeywordsToDomain(dos), nil
}

func (r *productKeywordRepo) ListBySource(ctx context.Context, source string, page, pageSize int) ([]*domain.ProductKeyword, error) {
	var dos []ProductKeywordDO
	err := r.db.WithContext(ctx).
		Where("source = ?", source).
		Offset(pageOffset(page, pageSize)).
		Limit(pageSize).
		Find(&dos).Error
	if err != nil {
		return nil, err
	}
	return productKeywordsToDomain(dos), nil
}

func (r *productKeywordRepo) DeleteByProduct(ctx context.Context, spuID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("spu_id = ?", spuID).Delete(&ProductKeywordDO{})
	return result.RowsAffected, result.Error
}

func (r *productKeywordRepo) DeleteBySource(ctx context.Context, spuID, source string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("spu_id = ? AND source = ?", spuID, source).
		Delete(&ProductKeywordDO{})
	return result.RowsAffected, result.Error
}

// SaveAll 在单个事务内批量保存，提交前写入对外不可见
func (r *productKeywordRepo) SaveAll(ctx context.Context, pks []*domain.ProductKeyword) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, pk := range pks {
			if err := tx.Save(productKeywordToDO(pk)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func pageOffset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}

func productKeywordToDO(pk *domain.ProductKeyword) *ProductKeywordDO {
	return &ProductKeywordDO{
		ID:         pk.ID,
		SpuID:      pk.SpuID,
		KeywordID:  pk.KeywordID,
		Weight:     pk.Weight,
		Source:     pk.Source,
		CreatedBy:  pk.CreatedBy,
		UpdatedBy:  pk.UpdatedBy,
		CreateTime: pk.CreateTime,
		UpdateTime: pk.UpdateTime,
	}
}

func productKeywordToDomain(do *ProductKeywordDO) *domain.ProductKeyword {
	return &domain.ProductKeyword{
		ID:         do.ID,
		SpuID:      do.SpuID,
		KeywordID:  do.KeywordID,
		Weight:     do.Weight,
		Source:     do.Source,
		CreatedBy:  do.CreatedBy,
		UpdatedBy:  do.UpdatedBy,
		CreateTime: do.CreateTime,
		UpdateTime: do.UpdateTime,
	}
}

func productKeywordsToDomain(dos []ProductKeywordDO) []*domain.ProductKeyword {
	pks := make([]*domain.ProductKeyword, len(dos))
	for i := range dos {
		pks[i] = productKeywordToDomain(&dos[i])
	}
	return pks
}
