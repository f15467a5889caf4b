package biz

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"keywordsearch/cmd/keyword-service/internal/domain"
)

// 内存仓储实现，行为对齐存储层：未命中返回 nil, nil，
// 删除关键词时级联删除商品关联

type fakeKeywordRepo struct {
	mu       sync.Mutex
	keywords map[string]*domain.Keyword
	pks      *fakeProductKeywordRepo // 级联删除目标，可为 nil
}

func newFakeKeywordRepo() *fakeKeywordRepo {
	return &fakeKeywordRepo{keywords: make(map[string]*domain.Keyword)}
}

func (r *fakeKeywordRepo) Create(ctx context.Context, keyword *domain.Keyword) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range r.keywords {
		if k.Keyword == keyword.Keyword {
			return domain.ErrDuplicateKeyword
		}
	}
	clone := *keyword
	r.keywords[keyword.ID] = &clone
	return nil
}

func (r *fakeKeywordRepo) Update(ctx context.Context, keyword *domain.Keyword) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, k := range r.keywords {
		if k.Keyword == keyword.Keyword && id != keyword.ID {
			return domain.ErrDuplicateKeyword
		}
	}
	clone := *keyword
	r.keywords[keyword.ID] = &clone
	return nil
}

func (r *fakeKeywordRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	delete(r.keywords, id)
	r.mu.Unlock()
	if r.pks != nil {
		r.pks.deleteByKeywordID(id)
	}
	return nil
}

func (r *fakeKeywordRepo) FindByID(ctx context.Context, id string) (*domain.Keyword, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k, ok := r.keywords[id]
	if !ok {
		return nil, nil
	}
	clone := *k
	return &clone, nil
}

func (r *fakeKeywordRepo) FindByKeyword(ctx context.Context, text string) (*domain.Keyword, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range r.keywords {
		if k.Keyword == text {
			clone := *k
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeKeywordRepo) FindValidByKeywords(ctx context.Context, texts []string) ([]*domain.Keyword, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[string]bool, len(texts))
	for _, t := range texts {
		wanted[t] = true
	}
	var results []*domain.Keyword
	for _, k := range r.keywords {
		if wanted[k.Keyword] && k.Valid {
			clone := *k
			results = append(results, &clone)
		}
	}
	return results, nil
}

func (r *fakeKeywordRepo) Search(ctx context.Context, criteria *domain.KeywordSearchCriteria) ([]*domain.Keyword, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var results []*domain.Keyword
	for _, k := range r.keywords {
		if criteria.Keyword != nil && !strings.Contains(k.Keyword, *criteria.Keyword) {
			continue
		}
		if criteria.Valid != nil && k.Valid != *criteria.Valid {
			continue
		}
		if criteria.Recommend != nil && k.Recommend != *criteria.Recommend {
			continue
		}
		if criteria.ParentID != nil && (k.ParentID == nil || *k.ParentID != *criteria.ParentID) {
			continue
		}
		if criteria.MinWeight != nil && k.Weight < *criteria.MinWeight {
			continue
		}
		if criteria.MaxWeight != nil && k.Weight > *criteria.MaxWeight {
			continue
		}
		clone := *k
		results = append(results, &clone)
	}
	sort.Slice(results, func(i, j int) bool {
		if criteria.OrderBy == "weight" {
			if criteria.OrderDir == "DESC" {
				return results[i].Weight > results[j].Weight
			}
			return results[i].Weight < results[j].Weight
		}
		if criteria.OrderDir == "DESC" {
			return results[i].ID > results[j].ID
		}
		return results[i].ID < results[j].ID
	})
	if criteria.PageSize > 0 && len(results) > criteria.PageSize {
		results = results[:criteria.PageSize]
	}
	return results, nil
}

func (r *fakeKeywordRepo) BatchUpdateValid(ctx context.Context, ids []string, valid bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var affected int64
	for _, id := range ids {
		if k, ok := r.keywords[id]; ok {
			k.Valid = valid
			affected++
		}
	}
	return affected, nil
}

func (r *fakeKeywordRepo) SaveAll(ctx context.Context, keywords []*domain.Keyword) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range keywords {
		clone := *k
		r.keywords[k.ID] = &clone
	}
	return nil
}

type fakeProductKeywordRepo struct {
	mu  sync.Mutex
	pks map[string]*domain.ProductKeyword
}

func newFakeProductKeywordRepo() *fakeProductKeywordRepo {
	return &fakeProductKeywordRepo{pks: make(map[string]*domain.ProductKeyword)}
}

func (r *fakeProductKeywordRepo) deleteByKeywordID(keywordID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, pk := range r.pks {
		if pk.KeywordID == keywordID {
			delete(r.pks, id)
		}
	}
}

func (r *fakeProductKeywordRepo) Create(ctx context.Context, pk *domain.ProductKeyword) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.pks {
		if existing.SpuID == pk.SpuID && existing.KeywordID == pk.KeywordID {
			return domain.ErrDuplicateKeyword
		}
	}
	clone := *pk
	r.pks[pk.ID] = &clone
	return nil
}

func (r *fakeProductKeywordRepo) Update(ctx context.Context, pk *domain.ProductKeyword) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *pk
	r.pks[pk.ID] = &clone
	return nil
}

func (r *fakeProductKeywordRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pks, id)
	return nil
}

func (r *fakeProductKeywordRepo) FindBySpuAndKeyword(ctx context.Context, spuID, keywordID string) (*domain.ProductKeyword, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, pk := range r.pks {
		if pk.SpuID == spuID && pk.KeywordID == keywordID {
			clone := *pk
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeProductKeywordRepo) ListByKeywordIDs(ctx context.Context, keywordIDs []string) ([]*domain.ProductKeyword, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[string]bool, len(keywordIDs))
	for _, id := range keywordIDs {
		wanted[id] = true
	}
	var results []*domain.ProductKeyword
	for _, pk := range r.pks {
		if wanted[pk.KeywordID] {
			clone := *pk
			results = append(results, &clone)
		}
	}
	return results, nil
}

func (r *fakeProductKeywordRepo) ListByProduct(ctx context.Context, spuID string, page, pageSize int) ([]*domain.ProductKeyword, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var results []*domain.ProductKeyword
	for _, pk := range r.pks {
		if pk.SpuID == spuID {
			clone := *pk
			results = append(results, &clone)
		}
	}
	return results, nil
}

func (r *fakeProductKeywordRepo) ListByKeyword(ctx context.Context, keywordID string, page, pageSize int) ([]*domain.ProductKeyword, error) {
	return r.ListByKeywordIDs(ctx, []string{keywordID})
}

func (r *fakeProductKeywordRepo) ListByProductOrderByWeight(ctx context.Context, spuID string, page, pageSize int) ([]*domain.ProductKeyword, error) {
	results, _ := r.ListByProduct(ctx, spuID, page, pageSize)
	sort.Slice(results, func(i, j int) bool { return results[i].Weight > results[j].Weight })
	return results, nil
}

func (r *fakeProductKeywordRepo) ListBySource(ctx context.Context, source string, page, pageSize int) ([]*domain.ProductKeyword, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var results []*domain.ProductKeyword
	for _, pk := range r.pks {
		if pk.Source == source {
			clone := *pk
			results = append(results, &clone)
		}
	}
	return results, nil
}

func (r *fakeProductKeywordRepo) DeleteByProduct(ctx context.Context, spuID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, pk := range r.pks {
		if pk.SpuID == spuID {
			delete(r.pks, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeProductKeywordRepo) DeleteBySource(ctx context.Context, spuID, source string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, pk := range r.pks {
		if pk.SpuID == spuID && pk.Source == source {
			delete(r.pks, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeProductKeywordRepo) SaveAll(ctx context.Context, pks []*domain.ProductKeyword) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, pk := range pks {
		clone := *pk
		r.pks[pk.ID] = &clone
	}
	return nil
}

type fakeSearchLogRepo struct {
	mu     sync.Mutex
	logs   []*domain.SearchLog
	nextID int64
}

func newFakeSearchLogRepo() *fakeSearchLogRepo {
	return &fakeSearchLogRepo{}
}

func (r *fakeSearchLogRepo) Create(ctx context.Context, entry *domain.SearchLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	entry.ID = r.nextID
	clone := *entry
	r.logs = append(r.logs, &clone)
	return nil
}

func (r *fakeSearchLogRepo) BatchInsert(ctx context.Context, logs []*domain.SearchLog) error {
	for _, entry := range logs {
		if err := r.Create(ctx, entry); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeSearchLogRepo) FindByCriteria(ctx context.Context, criteria *domain.SearchLogCriteria) ([]*domain.SearchLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var results []*domain.SearchLog
	for _, entry := range r.logs {
		if criteria.Keyword != nil && !strings.Contains(entry.Keyword, *criteria.Keyword) {
			continue
		}
		if criteria.UserID != nil && entry.UserHash != *criteria.UserID {
			continue
		}
		if criteria.Source != nil && entry.Source != *criteria.Source {
			continue
		}
		if criteria.MinResultCount != nil && entry.ResultCount < *criteria.MinResultCount {
			continue
		}
		if criteria.MaxResultCount != nil && entry.ResultCount > *criteria.MaxResultCount {
			continue
		}
		if criteria.StartDate != nil && entry.CreateTime.Before(*criteria.StartDate) {
			continue
		}
		if criteria.EndDate != nil && entry.CreateTime.After(*criteria.EndDate) {
			continue
		}
		clone := *entry
		results = append(results, &clone)
	}
	return results, nil
}

func (r *fakeSearchLogRepo) DeleteByUserHash(ctx context.Context, userHash string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*domain.SearchLog
	var deleted int64
	for _, entry := range r.logs {
		if entry.UserHash == userHash {
			deleted++
			continue
		}
		kept = append(kept, entry)
	}
	r.logs = kept
	return deleted, nil
}

func (r *fakeSearchLogRepo) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kept []*domain.SearchLog
	var deleted int64
	for _, entry := range r.logs {
		if entry.CreateTime.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, entry)
	}
	r.logs = kept
	return deleted, nil
}

func (r *fakeSearchLogRepo) CountByDateRange(ctx context.Context, start, end time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, entry := range r.logs {
		if r.inRange(entry, start, end) {
			count++
		}
	}
	return count, nil
}

func (r *fakeSearchLogRepo) HotKeywords(ctx context.Context, start, end time.Time, limit int) ([]*domain.KeywordCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, entry := range r.logs {
		if r.inRange(entry, start, end) {
			counts[entry.Keyword]++
		}
	}
	return topCounts(counts, limit), nil
}

func (r *fakeSearchLogRepo) NoResultKeywords(ctx context.Context, start, end time.Time, limit int) ([]*domain.KeywordCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[string]int64)
	for _, entry := range r.logs {
		if r.inRange(entry, start, end) && entry.ResultCount == 0 {
			counts[entry.Keyword]++
		}
	}
	return topCounts(counts, limit), nil
}

func (r *fakeSearchLogRepo) CountDistinctNoResultKeywords(ctx context.Context, start, end time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	distinct := make(map[string]bool)
	for _, entry := range r.logs {
		if r.inRange(entry, start, end) && entry.ResultCount == 0 {
			distinct[entry.Keyword] = true
		}
	}
	return int64(len(distinct)), nil
}

func (r *fakeSearchLogRepo) inRange(entry *domain.SearchLog, start, end time.Time) bool {
	return !entry.CreateTime.Before(start) && !entry.CreateTime.After(end)
}

func topCounts(counts map[string]int64, limit int) []*domain.KeywordCount {
	results := make([]*domain.KeywordCount, 0, len(counts))
	for keyword, count := range counts {
		results = append(results, &domain.KeywordCount{Keyword: keyword, Count: count})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Count != results[j].Count {
			return results[i].Count > results[j].Count
		}
		return results[i].Keyword < results[j].Keyword
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// capturePublisher 记录发布的事件
type capturePublisher struct {
	mu     sync.Mutex
	events []capturedEvent
}

type capturedEvent struct {
	EventType string
	Key       string
}

func newCapturePublisher() *capturePublisher {
	return &capturePublisher{}
}

func (p *capturePublisher) Publish(ctx context.Context, eventType, key string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, capturedEvent{EventType: eventType, Key: key})
	return nil
}

func (p *capturePublisher) Close() error {
	return nil
}

func (p *capturePublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.EventType)
	}
	return types
}
