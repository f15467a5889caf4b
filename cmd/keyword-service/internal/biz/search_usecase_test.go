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

func newSearchUsecaseForTest(t *testing.T) (*SearchUsecase, *KeywordUsecase) {
	t.Helper()
	keywordRepo := newFakeKeywordRepo()
	pkRepo := newFakeProductKeywordRepo()
	keywordRepo.pks = pkRepo
	logger := log.NewStdLogger(os.Stdout)
	keywordUc := NewKeywordUsecase(keywordRepo, pkRepo, NewKeywordValidator(), newCapturePublisher(), logger)
	return NewSearchUsecase(keywordRepo, pkRepo, logger), keywordUc
}

func TestSearchUsecase_FindProductsByKeyword(t *testing.T) {
	searchUc, keywordUc := newSearchUsecaseForTest(t)
	ctx := context.Background()

	keyword, err := keywordUc.Create(ctx, &domain.KeywordInput{Keyword: "运动鞋", Weight: 2.0, Valid: true})
	require.NoError(t, err)
	_, err = keywordUc.AttachToProduct(ctx, "SPU-1", keyword.ID, 3.0, "")
	require.NoError(t, err)
	_, err = keywordUc.AttachToProduct(ctx, "SPU-2", keyword.ID, 1.5, "")
	require.NoError(t, err)

	results, err := searchUc.FindProductsByKeyword(ctx, "运动鞋")
	require.NoError(t, err)
	require.Len(t, results, 2)

	// 组合权重 = 关联权重 * 关键词权重，降序
	assert.Equal(t, "SPU-1", results[0].ProductID)
	assert.Equal(t, 6.0, results[0].Weight)
	assert.Equal(t, "SPU-2", results[1].ProductID)
	assert.Equal(t, 3.0, results[1].Weight)
}

func TestSearchUsecase_FindProductsByKeyword_MissingOrInvalid(t *testing.T) {
	searchUc, keywordUc := newSearchUsecaseForTest(t)
	ctx := context.Background()

	results, err := searchUc.FindProductsByKeyword(ctx, "不存在的词")
	require.NoError(t, err)
	assert.Empty(t, results)

	disabled, err := keywordUc.Create(ctx, &domain.KeywordInput{Keyword: "停用词", Valid: false})
	require.NoError(t, err)
	_, err = keywordUc.AttachToProduct(ctx, "SPU-1", disabled.ID, 3.0, "")
	require.NoError(t, err)

	results, err = searchUc.FindProductsByKeyword(ctx, "停用词")
	require.NoError(t, err)
	assert.Empty(t, results, "无效关键词不参与检索")
}

func TestSearchUsecase_FindProductsByKeywords_SumsPerProduct(t *testing.T) {
	searchUc, keywordUc := newSearchUsecaseForTest(t)
	ctx := context.Background()

	shoes, err := keywordUc.Create(ctx, &domain.KeywordInput{Keyword: "运动鞋", Weight: 2.0, Valid: true})
	require.NoError(t, err)
	running, err := keywordUc.Create(ctx, &domain.KeywordInput{Keyword: "跑步", Weight: 1.0, Valid: true})
	require.NoError(t, err)

	// SPU-1 命中两个词: 2.0*1.0 + 1.0*3.0 = 5.0
	_, err = keywordUc.AttachToProduct(ctx, "SPU-1", shoes.ID, 1.0, "")
	require.NoError(t, err)
	_, err = keywordUc.AttachToProduct(ctx, "SPU-1", running.ID, 3.0, "")
	require.NoError(t, err)
	// SPU-2 只命中一个词: 2.0*2.0 = 4.0
	_, err = keywordUc.AttachToProduct(ctx, "SPU-2", shoes.ID, 2.0, "")
	require.NoError(t, err)

	results, err := searchUc.FindProductsByKeywords(ctx, []string{"运动鞋", "跑步", "不存在的词"})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "SPU-1", results[0].ProductID)
	assert.Equal(t, 5.0, results[0].Weight)
	assert.Equal(t, "SPU-2", results[1].ProductID)
	assert.Equal(t, 4.0, results[1].Weight)
}

func TestSearchUsecase_FindProductsByKeywords_Empty(t *testing.T) {
	searchUc, _ := newSearchUsecaseForTest(t)

	results, err := searchUc.FindProductsByKeywords(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSearchUsecase_StableOrderOnTie(t *testing.T) {
	searchUc, keywordUc := newSearchUsecaseForTest(t)
	ctx := context.Background()

	keyword, err := keywordUc.Create(ctx, &domain.KeywordInput{Keyword: "运动鞋", Weight: 1.0, Valid: true})
	require.NoError(t, err)
	_, err = keywordUc.AttachToProduct(ctx, "SPU-B", keyword.ID, 2.0, "")
	require.NoError(t, err)
	_, err = keywordUc.AttachToProduct(ctx, "SPU-A", keyword.ID, 2.0, "")
	require.NoError(t, err)

	results, err := searchUc.FindProductsByKeyword(ctx, "运动鞋")
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "SPU-A", results[0].ProductID, "同权重按商品ID升序")
	assert.Equal(t, "SPU-B", results[1].ProductID)
}
