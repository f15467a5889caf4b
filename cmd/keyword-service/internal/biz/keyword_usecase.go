package biz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"keywordsearch/cmd/keyword-service/internal/domain"
	"keywordsearch/cmd/keyword-service/internal/metrics"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/google/uuid"
)

// KeywordUsecase 关键词管理用例
type KeywordUsecase struct {
	keywordRepo domain.KeywordRepository
	pkRepo      domain.ProductKeywordRepository
	validator   *KeywordValidator
	publisher   domain.EventPublisher
	log         *log.Helper
}

// NewKeywordUsecase 创建关键词管理用例
func NewKeywordUsecase(
	keywordRepo domain.KeywordRepository,
	pkRepo domain.ProductKeywordRepository,
	validator *KeywordValidator,
	publisher domain.EventPublisher,
	logger log.Logger,
) *KeywordUsecase {
	return &KeywordUsecase{
		keywordRepo: keywordRepo,
		pkRepo:      pkRepo,
		validator:   validator,
		publisher:   publisher,
		log:         log.NewHelper(logger),
	}
}

// Create 创建关键词。应用层查重是快路径，唯一索引是最终保障
func (uc *KeywordUsecase) Create(ctx context.Context, input *domain.KeywordInput) (*domain.Keyword, error) {
	if err := uc.validator.Validate(input.Keyword); err != nil {
		return nil, err
	}

	existing, err := uc.keywordRepo.FindByKeyword(ctx, input.Keyword)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateKeyword, input.Keyword)
	}

	if input.ParentID != nil {
		parent, err := uc.keywordRepo.FindByID(ctx, *input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, fmt.Errorf("%w: parent %s", domain.ErrKeywordNotFound, *input.ParentID)
		}
	}

	now := time.Now()
	keyword := &domain.Keyword{
		ID:          uuid.New().String(),
		Keyword:     input.Keyword,
		ParentID:    input.ParentID,
		Weight:      defaultWeight(input.Weight),
		Valid:       input.Valid,
		Recommend:   input.Recommend,
		Description: input.Description,
		Thumb:       input.Thumb,
		CreatedBy:   input.Operator,
		UpdatedBy:   input.Operator,
		CreateTime:  now,
		UpdateTime:  now,
	}

	if err := uc.keywordRepo.Create(ctx, keyword); err != nil {
		return nil, err
	}

	metrics.KeywordOperationsTotal.WithLabelValues("create").Inc()
	uc.publishKeywordEvent(ctx, domain.EventKeywordCreated, keyword)

	return keyword, nil
}

// Update 更新关键词。文本变更时重新校验并查重；ParentID 为 nil 时脱离层级
func (uc *KeywordUsecase) Update(ctx context.Context, id string, input *domain.KeywordInput) (*domain.Keyword, error) {
	keyword, err := uc.keywordRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if keyword == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrKeywordNotFound, id)
	}

	if input.Keyword != keyword.Keyword {
		if err := uc.validator.Validate(input.Keyword); err != nil {
			return nil, err
		}

		existing, err := uc.keywordRepo.FindByKeyword(ctx, input.Keyword)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateKeyword, input.Keyword)
		}

		keyword.Keyword = input.Keyword
	}

	keyword.Weight = defaultWeight(input.Weight)
	keyword.Valid = input.Valid
	keyword.Recommend = input.Recommend
	keyword.Description = input.Description
	keyword.Thumb = input.Thumb

	if input.ParentID != nil {
		parent, err := uc.keywordRepo.FindByID(ctx, *input.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, fmt.Errorf("%w: parent %s", domain.ErrKeywordNotFound, *input.ParentID)
		}
		if err := uc.checkCycle(ctx, id, *input.ParentID); err != nil {
			return nil, err
		}
		keyword.ParentID = input.ParentID
	} else {
		keyword.ParentID = nil
	}

	keyword.UpdatedBy = input.Operator
	keyword.UpdateTime = time.Now()

	if err := uc.keywordRepo.Update(ctx, keyword); err != nil {
		return nil, err
	}

	metrics.KeywordOperationsTotal.WithLabelValues("update").Inc()
	uc.publishKeywordEvent(ctx, domain.EventKeywordUpdated, keyword)

	return keyword, nil
}

// Delete 删除关键词，关联记录由存储层级联删除
func (uc *KeywordUsecase) Delete(ctx context.Context, id string) error {
	keyword, err := uc.keywordRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if keyword == nil {
		return fmt.Errorf("%w: %s", domain.ErrKeywordNotFound, id)
	}

	if err := uc.keywordRepo.Delete(ctx, id); err != nil {
		return err
	}

	metrics.KeywordOperationsTotal.WithLabelValues("delete").Inc()
	uc.publishKeywordEvent(ctx, domain.EventKeywordDeleted, keyword)

	return nil
}

// Find 按ID查找，未命中返回 nil, nil
func (uc *KeywordUsecase) Find(ctx context.Context, id string) (*domain.Keyword, error) {
	return uc.keywordRepo.FindByID(ctx, id)
}

// FindByKeyword 按文本精确查找，未命中返回 nil, nil
func (uc *KeywordUsecase) FindByKeyword(ctx context.Context, text string) (*domain.Keyword, error) {
	return uc.keywordRepo.FindByKeyword(ctx, text)
}

// Search 按条件分页查询
func (uc *KeywordUsecase) Search(ctx context.Context, criteria *domain.KeywordSearchCriteria) ([]*domain.Keyword, error) {
	if criteria.Page < 1 {
		criteria.Page = 1
	}
	if criteria.PageSize < 1 {
		criteria.PageSize = 20
	}
	if criteria.OrderBy == "" {
		criteria.OrderBy = "id"
	}
	if criteria.OrderDir == "" {
		criteria.OrderDir = "DESC"
	}
	return uc.keywordRepo.Search(ctx, criteria)
}

// AttachToProduct 建立商品关联。(spuId, keywordId) 已存在时原地更新权重和来源
func (uc *KeywordUsecase) AttachToProduct(ctx context.Context, spuID, keywordID string, weight float64, source string) (*domain.ProductKeyword, error) {
	keyword, err := uc.keywordRepo.FindByID(ctx, keywordID)
	if err != nil {
		return nil, err
	}
	if keyword == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrKeywordNotFound, keywordID)
	}

	if source == "" {
		source = domain.SourceManual
	}

	existing, err := uc.pkRepo.FindBySpuAndKeyword(ctx, spuID, keywordID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Weight = weight
		existing.Source = source
		existing.UpdateTime = time.Now()
		if err := uc.pkRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	now := time.Now()
	pk := &domain.ProductKeyword{
		ID:         uuid.New().String(),
		SpuID:      spuID,
		KeywordID:  keywordID,
		Weight:     weight,
		Source:     source,
		CreateTime: now,
		UpdateTime: now,
	}

	if err := uc.pkRepo.Create(ctx, pk); err != nil {
		// 并发下唯一约束兜底，重取一次原地更新，不再重试
		if errors.Is(err, domain.ErrDuplicateKeyword) {
			existing, ferr := uc.pkRepo.FindBySpuAndKeyword(ctx, spuID, keywordID)
			if ferr != nil {
				return nil, ferr
			}
			if existing != nil {
				existing.Weight = weight
				existing.Source = source
				existing.UpdateTime = time.Now()
				if uerr := uc.pkRepo.Update(ctx, existing); uerr != nil {
					return nil, uerr
				}
				return existing, nil
			}
		}
		return nil, err
	}

	return pk, nil
}

// DetachFromProduct 解除商品关联，任一侧不存在时返回 false 而非错误
func (uc *KeywordUsecase) DetachFromProduct(ctx context.Context, spuID, keywordID string) (bool, error) {
	keyword, err := uc.keywordRepo.FindByID(ctx, keywordID)
	if err != nil {
		return false, err
	}
	if keyword == nil {
		return false, nil
	}

	pk, err := uc.pkRepo.FindBySpuAndKeyword(ctx, spuID, keywordID)
	if err != nil {
		return false, err
	}
	if pk == nil {
		return false, nil
	}

	if err := uc.pkRepo.Delete(ctx, pk.ID); err != nil {
		return false, err
	}

	return true, nil
}

// Import 批量导入关键词。先整体校验再入库，任何一条非法或重复都让
// 整批失败，持久化在单个事务内完成
func (uc *KeywordUsecase) Import(ctx context.Context, inputs []*domain.KeywordInput) ([]*domain.Keyword, error) {
	if len(inputs) == 0 {
		return []*domain.Keyword{}, nil
	}

	seen := make(map[string]bool, len(inputs))
	for _, input := range inputs {
		if err := uc.validator.Validate(input.Keyword); err != nil {
			return nil, err
		}
		if seen[input.Keyword] {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateKeyword, input.Keyword)
		}
		seen[input.Keyword] = true

		existing, err := uc.keywordRepo.FindByKeyword(ctx, input.Keyword)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateKeyword, input.Keyword)
		}
	}

	now := time.Now()
	keywords := make([]*domain.Keyword, 0, len(inputs))
	for _, input := range inputs {
		keywords = append(keywords, &domain.Keyword{
			ID:          uuid.New().String(),
			Keyword:     input.Keyword,
			ParentID:    input.ParentID,
			Weight:      defaultWeight(input.Weight),
			Valid:       input.Valid,
			Recommend:   input.Recommend,
			Description: input.Description,
			Thumb:       input.Thumb,
			CreatedBy:   input.Operator,
			UpdatedBy:   input.Operator,
			CreateTime:  now,
			UpdateTime:  now,
		})
	}

	if err := uc.keywordRepo.SaveAll(ctx, keywords); err != nil {
		return nil, err
	}

	metrics.KeywordOperationsTotal.WithLabelValues("import").Add(float64(len(keywords)))
	for _, keyword := range keywords {
		uc.publishKeywordEvent(ctx, domain.EventKeywordCreated, keyword)
	}

	return keywords, nil
}

// AttachBatch 批量挂接关键词到商品，单个事务内完成；已存在的关联原地更新
func (uc *KeywordUsecase) AttachBatch(ctx context.Context, spuID string, inputs []*domain.ProductKeywordInput) ([]*domain.ProductKeyword, error) {
	if len(inputs) == 0 {
		return []*domain.ProductKeyword{}, nil
	}

	now := time.Now()
	pks := make([]*domain.ProductKeyword, 0, len(inputs))
	for _, input := range inputs {
		keyword, err := uc.keywordRepo.FindByID(ctx, input.KeywordID)
		if err != nil {
			return nil, err
		}
		if keyword == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrKeywordNotFound, input.KeywordID)
		}

		source := input.Source
		if source == "" {
			source = domain.SourceManual
		}

		existing, err := uc.pkRepo.FindBySpuAndKeyword(ctx, spuID, input.KeywordID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			existing.Weight = input.Weight
			existing.Source = source
			existing.UpdateTime = now
			pks = append(pks, existing)
			continue
		}

		pks = append(pks, &domain.ProductKeyword{
			ID:         uuid.New().String(),
			SpuID:      spuID,
			KeywordID:  input.KeywordID,
			Weight:     input.Weight,
			Source:     source,
			CreateTime: now,
			UpdateTime: now,
		})
	}

	if err := uc.pkRepo.SaveAll(ctx, pks); err != nil {
		return nil, err
	}

	return pks, nil
}

// ListProductKeywords 商品侧关联列表，按关联权重降序
func (uc *KeywordUsecase) ListProductKeywords(ctx context.Context, spuID string, page, pageSize int) ([]*domain.ProductKeyword, error) {
	page, pageSize = defaultPage(page, pageSize)
	return uc.pkRepo.ListByProductOrderByWeight(ctx, spuID, page, pageSize)
}

// ListKeywordProducts 关键词侧关联列表
func (uc *KeywordUsecase) ListKeywordProducts(ctx context.Context, keywordID string, page, pageSize int) ([]*domain.ProductKeyword, error) {
	page, pageSize = defaultPage(page, pageSize)
	return uc.pkRepo.ListByKeyword(ctx, keywordID, page, pageSize)
}

// ListAssociationsBySource 按来源渠道列出关联
func (uc *KeywordUsecase) ListAssociationsBySource(ctx context.Context, source string, page, pageSize int) ([]*domain.ProductKeyword, error) {
	page, pageSize = defaultPage(page, pageSize)
	return uc.pkRepo.ListBySource(ctx, source, page, pageSize)
}

// DetachAllFromProduct 解除商品的全部关联；source 非空时只解除该来源的
func (uc *KeywordUsecase) DetachAllFromProduct(ctx context.Context, spuID, source string) (int64, error) {
	if source != "" {
		return uc.pkRepo.DeleteBySource(ctx, spuID, source)
	}
	return uc.pkRepo.DeleteByProduct(ctx, spuID)
}

// BatchUpdateStatus 批量更新有效标记，空ID集合直接返回 0
func (uc *KeywordUsecase) BatchUpdateStatus(ctx context.Context, ids []string, valid bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	return uc.keywordRepo.BatchUpdateValid(ctx, ids, valid)
}

// checkCycle 沿祖先链上溯，发现回到自身即拒绝
func (uc *KeywordUsecase) checkCycle(ctx context.Context, id, parentID string) error {
	visited := map[string]bool{id: true}

	current := parentID
	for {
		if visited[current] {
			return fmt.Errorf("%w: keyword %s", domain.ErrKeywordCycle, id)
		}
		visited[current] = true

		ancestor, err := uc.keywordRepo.FindByID(ctx, current)
		if err != nil {
			return err
		}
		if ancestor == nil || ancestor.ParentID == nil {
			return nil
		}
		current = *ancestor.ParentID
	}
}

func (uc *KeywordUsecase) publishKeywordEvent(ctx context.Context, eventType string, keyword *domain.Keyword) {
	event := &domain.KeywordEvent{
		KeywordID:  keyword.ID,
		Keyword:    keyword.Keyword,
		Weight:     keyword.Weight,
		Valid:      keyword.Valid,
		Recommend:  keyword.Recommend,
		OccurredAt: time.Now(),
	}
	if err := uc.publisher.Publish(ctx, eventType, keyword.ID, event); err != nil {
		uc.log.WithContext(ctx).Warnf("publish %s failed: %v", eventType, err)
	}
}

func defaultPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return page, pageSize
}

func defaultWeight(weight float64) float64 {
	if weight == 0 {
		return 1.0
	}
	return weight
}
