package biz

import (
	"context"
	"sort"
	"time"

	"keywordsearch/cmd/keyword-service/internal/domain"
	"keywordsearch/cmd/keyword-service/internal/metrics"

	"github.com/go-kratos/kratos/v2/log"
)

// SearchUsecase 关键词-商品相关度查询用例
type SearchUsecase struct {
	keywordRepo domain.KeywordRepository
	pkRepo      domain.ProductKeywordRepository
	log         *log.Helper
}

// NewSearchUsecase 创建相关度查询用例
func NewSearchUsecase(
	keywordRepo domain.KeywordRepository,
	pkRepo domain.ProductKeywordRepository,
	logger log.Logger,
) *SearchUsecase {
	return &SearchUsecase{
		keywordRepo: keywordRepo,
		pkRepo:      pkRepo,
		log:         log.NewHelper(logger),
	}
}

// FindProductsByKeyword 单关键词检索。关键词不存在或无效时返回空列表，
// 组合权重 = 关联权重 * 关键词权重，降序排列
func (uc *SearchUsecase) FindProductsByKeyword(ctx context.Context, keyword string) ([]*domain.ProductWeight, error) {
	start := time.Now()
	defer func() {
		metrics.RelevanceQueryDuration.WithLabelValues("single").Observe(time.Since(start).Seconds())
	}()

	entity, err := uc.keywordRepo.FindByKeyword(ctx, keyword)
	if err != nil {
		return nil, err
	}
	if entity == nil || !entity.Valid {
		return []*domain.ProductWeight{}, nil
	}

	associations, err := uc.pkRepo.ListByKeywordIDs(ctx, []string{entity.ID})
	if err != nil {
		return nil, err
	}

	results := make([]*domain.ProductWeight, 0, len(associations))
	for _, pk := range associations {
		results = append(results, &domain.ProductWeight{
			ProductID: pk.SpuID,
			Weight:    pk.Weight * entity.Weight,
		})
	}

	sortByWeightDesc(results)
	return results, nil
}

// FindProductsByKeywords 多关键词检索。无效文本被静默丢弃，同一商品在
// 不同关键词上的组合权重做累加
func (uc *SearchUsecase) FindProductsByKeywords(ctx context.Context, keywords []string) ([]*domain.ProductWeight, error) {
	if len(keywords) == 0 {
		return []*domain.ProductWeight{}, nil
	}

	start := time.Now()
	defer func() {
		metrics.RelevanceQueryDuration.WithLabelValues("multi").Observe(time.Since(start).Seconds())
	}()

	entities, err := uc.keywordRepo.FindValidByKeywords(ctx, keywords)
	if err != nil {
		return nil, err
	}
	if len(entities) == 0 {
		return []*domain.ProductWeight{}, nil
	}

	weightByID := make(map[string]float64, len(entities))
	ids := make([]string, 0, len(entities))
	for _, k := range entities {
		weightByID[k.ID] = k.Weight
		ids = append(ids, k.ID)
	}

	associations, err := uc.pkRepo.ListByKeywordIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	sums := make(map[string]float64)
	for _, pk := range associations {
		kw, ok := weightByID[pk.KeywordID]
		if !ok {
			continue
		}
		sums[pk.SpuID] += pk.Weight * kw
	}

	results := make([]*domain.ProductWeight, 0, len(sums))
	for spuID, weight := range sums {
		results = append(results, &domain.ProductWeight{ProductID: spuID, Weight: weight})
	}

	sortByWeightDesc(results)
	return results, nil
}

// sortByWeightDesc 权重降序，权重相同时按商品ID升序保证结果稳定
func sortByWeightDesc(results []*domain.ProductWeight) {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Weight != results[j].Weight {
			return results[i].Weight > results[j].Weight
		}
		return results[i].ProductID < results[j].ProductID
	})
}
