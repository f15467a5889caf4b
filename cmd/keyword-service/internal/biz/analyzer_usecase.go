package biz

import (
	"context"

	"keywordsearch/cmd/keyword-service/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
)

// DefaultAnalyticsLimit 分析结果默认条数
const DefaultAnalyticsLimit = 100

// AnalyzerUsecase 搜索分析用例
type AnalyzerUsecase struct {
	logRepo domain.SearchLogRepository
	log     *log.Helper
}

// NewAnalyzerUsecase 创建搜索分析用例
func NewAnalyzerUsecase(logRepo domain.SearchLogRepository, logger log.Logger) *AnalyzerUsecase {
	return &AnalyzerUsecase{
		logRepo: logRepo,
		log:     log.NewHelper(logger),
	}
}

// HotKeywords 范围内按出现次数降序的搜索词排行
func (uc *AnalyzerUsecase) HotKeywords(ctx context.Context, r domain.DateRange, limit int) ([]*domain.KeywordCount, error) {
	if limit <= 0 {
		limit = DefaultAnalyticsLimit
	}
	return uc.logRepo.HotKeywords(ctx, r.Start(), r.End(), limit)
}

// HitRate 命中率统计。分母是范围内全部搜索次数，分子中扣除的是
// 出现过零结果的不同搜索词数量
func (uc *AnalyzerUsecase) HitRate(ctx context.Context, r domain.DateRange) (*domain.HitRateStats, error) {
	total, err := uc.logRepo.CountByDateRange(ctx, r.Start(), r.End())
	if err != nil {
		return nil, err
	}

	noResult, err := uc.logRepo.CountDistinctNoResultKeywords(ctx, r.Start(), r.End())
	if err != nil {
		return nil, err
	}

	stats := &domain.HitRateStats{
		TotalSearches:    total,
		NoResultSearches: noResult,
	}
	if total > 0 {
		stats.HitRate = float64(total-noResult) / float64(total)
	}

	return stats, nil
}

// NoResultKeywords 范围内零结果搜索词排行
func (uc *AnalyzerUsecase) NoResultKeywords(ctx context.Context, r domain.DateRange, limit int) ([]*domain.KeywordCount, error) {
	if limit <= 0 {
		limit = DefaultAnalyticsLimit
	}
	return uc.logRepo.NoResultKeywords(ctx, r.Start(), r.End(), limit)
}

// TrendsForKeyword 关键词趋势分析。尚未实现，保持空结果契约
func (uc *AnalyzerUsecase) TrendsForKeyword(ctx context.Context, keyword string, r domain.DateRange) ([]*domain.KeywordTrend, error) {
	return []*domain.KeywordTrend{}, nil
}

// ConversionAnalysis 转化率分析。尚未实现，保持空结果契约
func (uc *AnalyzerUsecase) ConversionAnalysis(ctx context.Context, r domain.DateRange) (map[string]float64, error) {
	return map[string]float64{}, nil
}
