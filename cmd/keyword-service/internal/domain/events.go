package domain

import (
	"context"
	"time"
)

// 事件类型
const (
	EventKeywordCreated = "keyword.created"
	EventKeywordUpdated = "keyword.updated"
	EventKeywordDeleted = "keyword.deleted"
	EventSearchExecuted = "search.executed"
	EventSearchNoResult = "search.no_result"
)

// KeywordEvent 关键词变更事件载荷
type KeywordEvent struct {
	KeywordID  string    `json:"keyword_id"`
	Keyword    string    `json:"keyword"`
	Weight     float64   `json:"weight"`
	Valid      bool      `json:"valid"`
	Recommend  bool      `json:"recommend"`
	OccurredAt time.Time `json:"occurred_at"`
}

// SearchEvent 搜索执行事件载荷，用户仅以哈希形式出现
type SearchEvent struct {
	Keyword     string    `json:"keyword"`
	UserHash    string    `json:"user_hash"`
	ResultCount int       `json:"result_count"`
	Source      string    `json:"source"`
	SessionID   string    `json:"session_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// EventPublisher 事件发布接口，发布即忘，失败不影响主流程
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, payload interface{}) error
	Close() error
}
