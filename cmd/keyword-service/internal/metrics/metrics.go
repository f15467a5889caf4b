package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// KeywordOperationsTotal 关键词变更操作计数
	KeywordOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "keyword_operations_total",
		Help: "Total number of keyword mutations",
	}, []string{"operation"})

	// SearchLogsTotal 记录的搜索次数
	SearchLogsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "search_logs_total",
		Help: "Total number of logged searches",
	}, []string{"source"})

	// NoResultSearchesTotal 零结果搜索次数
	NoResultSearchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "no_result_searches_total",
		Help: "Total number of searches that returned no results",
	})

	// AsyncLogFallbackTotal 异步日志降级为同步写入的次数
	AsyncLogFallbackTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "async_log_fallback_total",
		Help: "Total number of async log writes that fell back to the sync path",
	})

	// RelevanceQueryDuration 相关度查询耗时
	RelevanceQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "relevance_query_duration_seconds",
		Help:    "Relevance query duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
	}, []string{"type"})

	// KeywordCacheHits 关键词缓存命中数
	KeywordCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "keyword_cache_hits_total",
		Help: "Total number of keyword cache hits",
	})

	// KeywordCacheMisses 关键词缓存未命中数
	KeywordCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "keyword_cache_misses_total",
		Help: "Total number of keyword cache misses",
	})
)
