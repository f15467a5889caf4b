package domain

import "time"

// SearchLog 搜索日志，只追加；仅保留期清理和隐私删除会移除记录
type SearchLog struct {
	ID          int64
	Keyword     string // 原始搜索词
	UserHash    string // 用户ID的加盐 SHA-256，永不落库明文
	ResultCount int
	Source      string // 搜索来源渠道 web/mobile/api/admin
	SessionID   string
	CreateTime  time.Time
}

// SearchLogInput 搜索日志写入参数，UserID 为明文，仅在入库前参与哈希
type SearchLogInput struct {
	Keyword     string
	UserID      string
	ResultCount int
	Source      string
	SessionID   string
	CreateTime  time.Time // 零值时取当前时间
}

// SearchLogCriteria 搜索日志查询条件，nil 字段不参与过滤
type SearchLogCriteria struct {
	Keyword        *string // 模糊匹配
	UserID         *string // 明文用户ID，入库前按默认盐哈希后匹配
	Source         *string
	StartDate      *time.Time
	EndDate        *time.Time
	MinResultCount *int
	MaxResultCount *int
	Page           int
	PageSize       int
	OrderBy        string
	OrderDir       string
}

// KeywordCount 关键词出现次数统计项
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int64  `json:"count"`
}

// HitRateStats 命中率统计。NoResultSearches 统计的是出现过零结果的
// 不同搜索词数量，不是零结果搜索事件数
type HitRateStats struct {
	TotalSearches    int64   `json:"total_searches"`
	NoResultSearches int64   `json:"no_result_searches"`
	HitRate          float64 `json:"hit_rate"`
}

// KeywordTrend 关键词趋势点
type KeywordTrend struct {
	Date  time.Time `json:"date"`
	Count int64     `json:"count"`
}

// KeywordFrequency 关键词词频统计项
type KeywordFrequency struct {
	Keyword   string `json:"keyword"`
	Frequency int64  `json:"frequency"`
}
