package server

import (
	"net/http"
	"strconv"

	"keywordsearch/cmd/keyword-service/internal/domain"

	"github.com/gin-gonic/gin"
)

// keywordRequest 关键词创建/更新请求
type keywordRequest struct {
	Keyword     string  `json:"keyword" binding:"required"`
	Weight      float64 `json:"weight"`
	ParentID    *string `json:"parent_id"`
	Valid       bool    `json:"valid"`
	Recommend   bool    `json:"recommend"`
	Description string  `json:"description"`
	Thumb       string  `json:"thumb"`
	Operator    string  `json:"operator"`
}

func (r *keywordRequest) toInput() *domain.KeywordInput {
	return &domain.KeywordInput{
		Keyword:     r.Keyword,
		Weight:      r.Weight,
		ParentID:    r.ParentID,
		Valid:       r.Valid,
		Recommend:   r.Recommend,
		Description: r.Description,
		Thumb:       r.Thumb,
		Operator:    r.Operator,
	}
}

// createKeyword 创建关键词
func (s *HTTPServer) createKeyword(c *gin.Context) {
	var req keywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	keyword, err := s.service.CreateKeyword(c.Request.Context(), req.toInput())
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, keyword)
}

// updateKeyword 更新关键词
func (s *HTTPServer) updateKeyword(c *gin.Context) {
	var req keywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	keyword, err := s.service.UpdateKeyword(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, keyword)
}

// deleteKeyword 删除关键词
func (s *HTTPServer) deleteKeyword(c *gin.Context) {
	if err := s.service.DeleteKeyword(c.Request.Context(), c.Param("id")); err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// getKeyword 按 ID 查询关键词
func (s *HTTPServer) getKeyword(c *gin.Context) {
	keyword, err := s.service.GetKeyword(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, keyword)
}

// getKeywordByText 按文本查询关键词
func (s *HTTPServer) getKeywordByText(c *gin.Context) {
	keyword, err := s.service.GetKeywordByText(c.Request.Context(), c.Param("keyword"))
	if err != nil {
		s.handleServiceError(c, err)
		return
	}
	if keyword == nil {
		s.respondError(c, http.StatusNotFound, domain.ErrKeywordNotFound.Error())
		return
	}

	c.JSON(http.StatusOK, keyword)
}

// searchKeywords 按条件分页查询关键词
func (s *HTTPServer) searchKeywords(c *gin.Context) {
	criteria := &domain.KeywordSearchCriteria{
		OrderBy:  c.Query("order_by"),
		OrderDir: c.Query("order_dir"),
	}

	if v := c.Query("keyword"); v != "" {
		criteria.Keyword = &v
	}
	if v := c.Query("parent_id"); v != "" {
		criteria.ParentID = &v
	}
	if v := c.Query("valid"); v != "" {
		valid, err := strconv.ParseBool(v)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, "invalid valid, must be a boolean")
			return
		}
		criteria.Valid = &valid
	}
	if v := c.Query("recommend"); v != "" {
		recommend, err := strconv.ParseBool(v)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, "invalid recommend, must be a boolean")
			return
		}
		criteria.Recommend = &recommend
	}
	if v := c.Query("min_weight"); v != "" {
		w, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, "invalid min_weight, must be a number")
			return
		}
		criteria.MinWeight = &w
	}
	if v := c.Query("max_weight"); v != "" {
		w, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, "invalid max_weight, must be a number")
			return
		}
		criteria.MaxWeight = &w
	}
	criteria.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	criteria.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	keywords, err := s.service.SearchKeywords(c.Request.Context(), criteria)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"keywords":  keywords,
		"page":      criteria.Page,
		"page_size": criteria.PageSize,
	})
}

// batchUpdateStatus 批量启用或停用关键词
func (s *HTTPServer) batchUpdateStatus(c *gin.Context) {
	var req struct {
		IDs   []string `json:"ids" binding:"required"`
		Valid bool     `json:"valid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	affected, err := s.service.BatchUpdateStatus(c.Request.Context(), req.IDs, req.Valid)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"affected": affected})
}

// attachToProduct 将关键词挂接到商品
func (s *HTTPServer) attachToProduct(c *gin.Context) {
	var req struct {
		SpuID  string  `json:"spu_id" binding:"required"`
		Weight float64 `json:"weight"`
		Source string  `json:"source"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	relation, err := s.service.AttachToProduct(c.Request.Context(), req.SpuID, c.Param("id"), req.Weight, req.Source)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, relation)
}

// detachFromProduct 解除关键词与商品的关联
func (s *HTTPServer) detachFromProduct(c *gin.Context) {
	removed, err := s.service.DetachFromProduct(c.Request.Context(), c.Param("spu_id"), c.Param("id"))
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// importKeywords 批量导入关键词
func (s *HTTPServer) importKeywords(c *gin.Context) {
	var req struct {
		Keywords []keywordRequest `json:"keywords" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	inputs := make([]*domain.KeywordInput, 0, len(req.Keywords))
	for i := range req.Keywords {
		inputs = append(inputs, req.Keywords[i].toInput())
	}

	keywords, err := s.service.ImportKeywords(c.Request.Context(), inputs)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"keywords": keywords,
		"imported": len(keywords),
	})
}

// listKeywordProducts 关键词侧关联列表
func (s *HTTPServer) listKeywordProducts(c *gin.Context) {
	page, pageSize := s.parsePage(c)

	relations, err := s.service.ListKeywordProducts(c.Request.Context(), c.Param("id"), page, pageSize)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"relations": relations,
		"page":      page,
		"page_size": pageSize,
	})
}

// listProductKeywords 商品侧关联列表，按权重降序
func (s *HTTPServer) listProductKeywords(c *gin.Context) {
	page, pageSize := s.parsePage(c)

	relations, err := s.service.ListProductKeywords(c.Request.Context(), c.Param("spu_id"), page, pageSize)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"relations": relations,
		"page":      page,
		"page_size": pageSize,
	})
}

// attachBatchToProduct 批量挂接关键词到商品
func (s *HTTPServer) attachBatchToProduct(c *gin.Context) {
	var req struct {
		Keywords []struct {
			KeywordID string  `json:"keyword_id" binding:"required"`
			Weight    float64 `json:"weight"`
			Source    string  `json:"source"`
		} `json:"keywords" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	inputs := make([]*domain.ProductKeywordInput, 0, len(req.Keywords))
	for _, item := range req.Keywords {
		inputs = append(inputs, &domain.ProductKeywordInput{
			KeywordID: item.KeywordID,
			Weight:    item.Weight,
			Source:    item.Source,
		})
	}

	relations, err := s.service.AttachBatchToProduct(c.Request.Context(), c.Param("spu_id"), inputs)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"relations": relations})
}

// detachAllFromProduct 解除商品的全部关联，source 参数非空时只解除该来源
func (s *HTTPServer) detachAllFromProduct(c *gin.Context) {
	removed, err := s.service.DetachAllFromProduct(c.Request.Context(), c.Param("spu_id"), c.Query("source"))
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": removed})
}

// listAssociationsBySource 按来源渠道列出商品关联
func (s *HTTPServer) listAssociationsBySource(c *gin.Context) {
	source := c.Query("source")
	if source == "" {
		s.respondError(c, http.StatusBadRequest, "source is required")
		return
	}

	page, pageSize := s.parsePage(c)

	relations, err := s.service.ListAssociationsBySource(c.Request.Context(), source, page, pageSize)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"relations": relations,
		"page":      page,
		"page_size": pageSize,
	})
}

// recommendKeywords 推荐关键词
func (s *HTTPServer) recommendKeywords(c *gin.Context) {
	limit, err := s.parseLimit(c, 10)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	keywords, err := s.service.RecommendKeywords(c.Request.Context(), c.Query("prefix"), limit)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"keywords": keywords})
}
