package biz

import (
	"context"
	"os"
	"testing"

	"keywordsearch/cmd/keyword-service/internal/domain"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptimizerUsecase_Recommend(t *testing.T) {
	keywordRepo := newFakeKeywordRepo()
	logRepo := newFakeSearchLogRepo()
	logger := log.NewStdLogger(os.Stdout)
	keywordUc := NewKeywordUsecase(keywordRepo, newFakeProductKeywordRepo(), NewKeywordValidator(), newCapturePublisher(), logger)
	uc := NewOptimizerUsecase(keywordRepo, logRepo, logger)

	ctx := context.Background()
	_, err := keywordUc.Create(ctx, &domain.KeywordInput{Keyword: "运动鞋", Weight: 3.0, Valid: true, Recommend: true})
	require.NoError(t, err)
	_, err = keywordUc.Create(ctx, &domain.KeywordInput{Keyword: "运动裤", Weight: 1.0, Valid: true, Recommend: true})
	require.NoError(t, err)
	// 未标记推荐与已停用的词不出现在结果里
	_, err = keywordUc.Create(ctx, &domain.KeywordInput{Keyword: "运动袜", Weight: 5.0, Valid: true, Recommend: false})
	require.NoError(t, err)
	_, err = keywordUc.Create(ctx, &domain.KeywordInput{Keyword: "运动帽", Weight: 5.0, Valid: false, Recommend: true})
	require.NoError(t, err)

	results, err := uc.Recommend(ctx, "运动", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"运动鞋", "运动裤"}, results, "权重降序")
}

func TestOptimizerUsecase_ExtractKeywords(t *testing.T) {
	logRepo := newFakeSearchLogRepo()
	uc := NewOptimizerUsecase(newFakeKeywordRepo(), logRepo, log.NewStdLogger(os.Stdout))

	seedSearchLogs(t, logRepo, "运动鞋", 4, 3)
	seedSearchLogs(t, logRepo, "皮鞋", 2, 1)

	freqs, err := uc.ExtractKeywords(context.Background(), domain.LastDays(7), 10)
	require.NoError(t, err)
	require.Len(t, freqs, 2)
	assert.Equal(t, "运动鞋", freqs[0].Keyword)
	assert.Equal(t, int64(4), freqs[0].Frequency)
}
