package biz

import (
	"context"

	"keywordsearch/cmd/keyword-service/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
)

// OptimizerUsecase 搜索优化用例
type OptimizerUsecase struct {
	keywordRepo domain.KeywordRepository
	logRepo     domain.SearchLogRepository
	log         *log.Helper
}

// NewOptimizerUsecase 创建搜索优化用例
func NewOptimizerUsecase(
	keywordRepo domain.KeywordRepository,
	logRepo domain.SearchLogRepository,
	logger log.Logger,
) *OptimizerUsecase {
	return &OptimizerUsecase{
		keywordRepo: keywordRepo,
		logRepo:     logRepo,
		log:         log.NewHelper(logger),
	}
}

// Recommend 按前缀/子串推荐有效且标记推荐的关键词，按权重降序
func (uc *OptimizerUsecase) Recommend(ctx context.Context, query string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}

	valid := true
	recommend := true
	criteria := &domain.KeywordSearchCriteria{
		Keyword:   &query,
		Valid:     &valid,
		Recommend: &recommend,
		Page:      1,
		PageSize:  limit,
		OrderBy:   "weight",
		OrderDir:  "DESC",
	}

	keywords, err := uc.keywordRepo.Search(ctx, criteria)
	if err != nil {
		return nil, err
	}

	results := make([]string, 0, len(keywords))
	for _, k := range keywords {
		results = append(results, k.Keyword)
	}
	return results, nil
}

// ExtractKeywords 提取范围内的高频搜索词
func (uc *OptimizerUsecase) ExtractKeywords(ctx context.Context, r domain.DateRange, limit int) ([]*domain.KeywordFrequency, error) {
	if limit <= 0 {
		limit = DefaultAnalyticsLimit
	}

	hot, err := uc.logRepo.HotKeywords(ctx, r.Start(), r.End(), limit)
	if err != nil {
		return nil, err
	}

	results := make([]*domain.KeywordFrequency, 0, len(hot))
	for _, item := range hot {
		results = append(results, &domain.KeywordFrequency{
			Keyword:   item.Keyword,
			Frequency: item.Count,
		})
	}
	return results, nil
}

// Correct 拼写纠错。尚未实现，返回空串
func (uc *OptimizerUsecase) Correct(ctx context.Context, query string) (string, error) {
	return "", nil
}

// Synonyms 同义词获取。尚未实现，返回空列表
func (uc *OptimizerUsecase) Synonyms(ctx context.Context, keyword string) ([]string, error) {
	return []string{}, nil
}

// OptimizeWeights 权重优化策略。尚未实现，空操作
func (uc *OptimizerUsecase) OptimizeWeights(ctx context.Context, strategy string) error {
	return nil
}
