package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidKeyword 关键词文本非法（长度或字符）
	ErrInvalidKeyword = errors.New("invalid keyword")

	// ErrDuplicateKeyword 关键词文本已存在
	ErrDuplicateKeyword = errors.New("duplicate keyword")

	// ErrKeywordNotFound 关键词不存在
	ErrKeywordNotFound = errors.New("keyword not found")

	// ErrKeywordCycle 父级指定会形成环
	ErrKeywordCycle = errors.New("keyword parent cycle")

	// ErrInvalidDateRange 日期范围起点晚于终点
	ErrInvalidDateRange = errors.New("invalid date range: start after end")
)

// InvalidKeywordError 带明细的校验错误，errors.Is 匹配 ErrInvalidKeyword
type InvalidKeywordError struct {
	Keyword string
	Reason  string // "length" 或 "character"
	Min     int
	Max     int
	Length  int
	Char    rune
}

func (e *InvalidKeywordError) Error() string {
	if e.Reason == "length" {
		return fmt.Sprintf("invalid keyword %q: length %d out of range [%d, %d]", e.Keyword, e.Length, e.Min, e.Max)
	}
	return fmt.Sprintf("invalid keyword %q: forbidden character %q", e.Keyword, e.Char)
}

func (e *InvalidKeywordError) Is(target error) bool {
	return target == ErrInvalidKeyword
}
