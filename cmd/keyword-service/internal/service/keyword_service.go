package service

import (
	"context"
	"time"

	"keywordsearch/cmd/keyword-service/internal/biz"
	"keywordsearch/cmd/keyword-service/internal/domain"
)

// KeywordService 关键词服务实现
type KeywordService struct {
	keywordUc   *biz.KeywordUsecase
	searchUc    *biz.SearchUsecase
	logUc       *biz.SearchLogUsecase
	analyzerUc  *biz.AnalyzerUsecase
	optimizerUc *biz.OptimizerUsecase
}

// NewKeywordService 创建关键词服务
func NewKeywordService(
	keywordUc *biz.KeywordUsecase,
	searchUc *biz.SearchUsecase,
	logUc *biz.SearchLogUsecase,
	analyzerUc *biz.AnalyzerUsecase,
	optimizerUc *biz.OptimizerUsecase,
) *KeywordService {
	return &KeywordService{
		keywordUc:   keywordUc,
		searchUc:    searchUc,
		logUc:       logUc,
		analyzerUc:  analyzerUc,
		optimizerUc: optimizerUc,
	}
}

// CreateKeyword 创建关键词
func (s *KeywordService) CreateKeyword(ctx context.Context, input *domain.KeywordInput) (*domain.Keyword, error) {
	return s.keywordUc.Create(ctx, input)
}

// UpdateKeyword 更新关键词
func (s *KeywordService) UpdateKeyword(ctx context.Context, id string, input *domain.KeywordInput) (*domain.Keyword, error) {
	return s.keywordUc.Update(ctx, id, input)
}

// DeleteKeyword 删除关键词及其商品关联
func (s *KeywordService) DeleteKeyword(ctx context.Context, id string) error {
	return s.keywordUc.Delete(ctx, id)
}

// GetKeyword 按 ID 查询关键词
func (s *KeywordService) GetKeyword(ctx context.Context, id string) (*domain.Keyword, error) {
	return s.keywordUc.Find(ctx, id)
}

// GetKeywordByText 按文本查询关键词
func (s *KeywordService) GetKeywordByText(ctx context.Context, keyword string) (*domain.Keyword, error) {
	return s.keywordUc.FindByKeyword(ctx, keyword)
}

// SearchKeywords 按条件分页查询关键词
func (s *KeywordService) SearchKeywords(ctx context.Context, criteria *domain.KeywordSearchCriteria) ([]*domain.Keyword, error) {
	return s.keywordUc.Search(ctx, criteria)
}

// BatchUpdateStatus 批量启用或停用关键词
func (s *KeywordService) BatchUpdateStatus(ctx context.Context, ids []string, valid bool) (int64, error) {
	return s.keywordUc.BatchUpdateStatus(ctx, ids, valid)
}

// ImportKeywords 批量导入关键词，整批成功或整批失败
func (s *KeywordService) ImportKeywords(ctx context.Context, inputs []*domain.KeywordInput) ([]*domain.Keyword, error) {
	return s.keywordUc.Import(ctx, inputs)
}

// AttachToProduct 将关键词挂接到商品
func (s *KeywordService) AttachToProduct(ctx context.Context, spuID, keywordID string, weight float64, source string) (*domain.ProductKeyword, error) {
	return s.keywordUc.AttachToProduct(ctx, spuID, keywordID, weight, source)
}

// DetachFromProduct 解除关键词与商品的关联
func (s *KeywordService) DetachFromProduct(ctx context.Context, spuID, keywordID string) (bool, error) {
	return s.keywordUc.DetachFromProduct(ctx, spuID, keywordID)
}

// AttachBatchToProduct 批量挂接关键词到商品
func (s *KeywordService) AttachBatchToProduct(ctx context.Context, spuID string, inputs []*domain.ProductKeywordInput) ([]*domain.ProductKeyword, error) {
	return s.keywordUc.AttachBatch(ctx, spuID, inputs)
}

// DetachAllFromProduct 解除商品的全部关联，可按来源过滤
func (s *KeywordService) DetachAllFromProduct(ctx context.Context, spuID, source string) (int64, error) {
	return s.keywordUc.DetachAllFromProduct(ctx, spuID, source)
}

// ListProductKeywords 商品侧关联列表，按权重降序
func (s *KeywordService) ListProductKeywords(ctx context.Context, spuID string, page, pageSize int) ([]*domain.ProductKeyword, error) {
	return s.keywordUc.ListProductKeywords(ctx, spuID, page, pageSize)
}

// ListKeywordProducts 关键词侧关联列表
func (s *KeywordService) ListKeywordProducts(ctx context.Context, keywordID string, page, pageSize int) ([]*domain.ProductKeyword, error) {
	return s.keywordUc.ListKeywordProducts(ctx, keywordID, page, pageSize)
}

// ListAssociationsBySource 按来源渠道列出商品关联
func (s *KeywordService) ListAssociationsBySource(ctx context.Context, source string, page, pageSize int) ([]*domain.ProductKeyword, error) {
	return s.keywordUc.ListAssociationsBySource(ctx, source, page, pageSize)
}

// FindProductsByKeyword 单关键词商品检索
func (s *KeywordService) FindProductsByKeyword(ctx context.Context, keyword string) ([]*domain.ProductWeight, error) {
	return s.searchUc.FindProductsByKeyword(ctx, keyword)
}

// FindProductsByKeywords 多关键词商品检索，权重按商品累加
func (s *KeywordService) FindProductsByKeywords(ctx context.Context, keywords []string) ([]*domain.ProductWeight, error) {
	return s.searchUc.FindProductsByKeywords(ctx, keywords)
}

// LogSearch 记录搜索日志
func (s *KeywordService) LogSearch(ctx context.Context, input *domain.SearchLogInput) (*domain.SearchLog, error) {
	return s.logUc.Log(ctx, input)
}

// LogSearchAsync 异步记录搜索日志
func (s *KeywordService) LogSearchAsync(ctx context.Context, input *domain.SearchLogInput) error {
	return s.logUc.LogAsync(ctx, input)
}

// LogSearchBatch 批量记录搜索日志
func (s *KeywordService) LogSearchBatch(ctx context.Context, inputs []*domain.SearchLogInput) ([]*domain.SearchLog, error) {
	return s.logUc.LogBatch(ctx, inputs)
}

// FindSearchLogs 按条件查询搜索日志
func (s *KeywordService) FindSearchLogs(ctx context.Context, criteria *domain.SearchLogCriteria) ([]*domain.SearchLog, error) {
	return s.logUc.FindLogs(ctx, criteria)
}

// DeleteUserLogs 删除指定用户的全部搜索日志
func (s *KeywordService) DeleteUserLogs(ctx context.Context, userID string) (int64, error) {
	return s.logUc.DeleteUserLogs(ctx, userID)
}

// ArchiveLogs 清理保留期之外的搜索日志
func (s *KeywordService) ArchiveLogs(ctx context.Context, retentionDays int) (int64, error) {
	before := time.Now().AddDate(0, 0, -retentionDays)
	return s.logUc.ArchiveLogs(ctx, before)
}

// HotKeywords 热门搜索词排行
func (s *KeywordService) HotKeywords(ctx context.Context, dateRange domain.DateRange, limit int) ([]*domain.KeywordCount, error) {
	return s.analyzerUc.HotKeywords(ctx, dateRange, limit)
}

// HitRate 搜索命中率统计
func (s *KeywordService) HitRate(ctx context.Context, dateRange domain.DateRange) (*domain.HitRateStats, error) {
	return s.analyzerUc.HitRate(ctx, dateRange)
}

// NoResultKeywords 无结果搜索词排行
func (s *KeywordService) NoResultKeywords(ctx context.Context, dateRange domain.DateRange, limit int) ([]*domain.KeywordCount, error) {
	return s.analyzerUc.NoResultKeywords(ctx, dateRange, limit)
}

// TrendsForKeyword 关键词搜索趋势
func (s *KeywordService) TrendsForKeyword(ctx context.Context, keyword string, dateRange domain.DateRange) ([]*domain.KeywordTrend, error) {
	return s.analyzerUc.TrendsForKeyword(ctx, keyword, dateRange)
}

// ConversionAnalysis 搜索转化分析
func (s *KeywordService) ConversionAnalysis(ctx context.Context, dateRange domain.DateRange) (map[string]float64, error) {
	return s.analyzerUc.ConversionAnalysis(ctx, dateRange)
}

// RecommendKeywords 推荐关键词
func (s *KeywordService) RecommendKeywords(ctx context.Context, query string, limit int) ([]string, error) {
	return s.optimizerUc.Recommend(ctx, query, limit)
}

// ExtractKeywords 从搜索日志提取高频词
func (s *KeywordService) ExtractKeywords(ctx context.Context, dateRange domain.DateRange, limit int) ([]*domain.KeywordFrequency, error) {
	return s.optimizerUc.ExtractKeywords(ctx, dateRange, limit)
}
