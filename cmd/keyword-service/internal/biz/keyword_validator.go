package biz

import (
	"unicode/utf8"

	"keywordsearch/cmd/keyword-service/internal/domain"
)

// 关键词长度限制，按 Unicode 码点计数
const (
	MinKeywordLength = 1
	MaxKeywordLength = 100
)

// KeywordValidator 关键词校验器
type KeywordValidator struct{}

// NewKeywordValidator 创建关键词校验器
func NewKeywordValidator() *KeywordValidator {
	return &KeywordValidator{}
}

// Validate 校验关键词文本。先校验长度再校验字符，不做任何归一化
func (v *KeywordValidator) Validate(keyword string) error {
	length := utf8.RuneCountInString(keyword)
	if length < MinKeywordLength || length > MaxKeywordLength {
		return &domain.InvalidKeywordError{
			Keyword: keyword,
			Reason:  "length",
			Min:     MinKeywordLength,
			Max:     MaxKeywordLength,
			Length:  length,
		}
	}

	for _, r := range keyword {
		switch r {
		case '<', '>', '"', '\'':
			return &domain.InvalidKeywordError{
				Keyword: keyword,
				Reason:  "character",
				Char:    r,
			}
		}
	}

	return nil
}
