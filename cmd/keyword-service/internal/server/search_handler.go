package server

import (
	"net/http"
	"strconv"
	"strings"

	"keywordsearch/cmd/keyword-service/internal/domain"

	"github.com/gin-gonic/gin"
)

// findProducts 关键词商品检索。keyword 单词检索，keywords 逗号分隔多词检索
func (s *HTTPServer) findProducts(c *gin.Context) {
	single := c.Query("keyword")
	multi := c.Query("keywords")

	if single == "" && multi == "" {
		s.respondError(c, http.StatusBadRequest, "keyword or keywords is required")
		return
	}

	var (
		products []*domain.ProductWeight
		err      error
	)
	if multi != "" {
		var keywords []string
		for _, kw := range strings.Split(multi, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				keywords = append(keywords, kw)
			}
		}
		products, err = s.service.FindProductsByKeywords(c.Request.Context(), keywords)
	} else {
		products, err = s.service.FindProductsByKeyword(c.Request.Context(), single)
	}
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// searchLogRequest 搜索日志写入请求
type searchLogRequest struct {
	Keyword     string `json:"keyword" binding:"required"`
	UserID      string `json:"user_id" binding:"required"`
	ResultCount int    `json:"result_count"`
	Source      string `json:"source"`
	SessionID   string `json:"session_id"`
	Async       bool   `json:"async"`
}

// logSearch 记录搜索日志
func (s *HTTPServer) logSearch(c *gin.Context) {
	var req searchLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	input := &domain.SearchLogInput{
		Keyword:     req.Keyword,
		UserID:      req.UserID,
		ResultCount: req.ResultCount,
		Source:      req.Source,
		SessionID:   req.SessionID,
	}

	if req.Async {
		if err := s.service.LogSearchAsync(c.Request.Context(), input); err != nil {
			s.handleServiceError(c, err)
			return
		}
		c.Status(http.StatusAccepted)
		return
	}

	logEntry, err := s.service.LogSearch(c.Request.Context(), input)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, logEntry)
}

// logSearchBatch 批量记录搜索日志，单个事务内写入
func (s *HTTPServer) logSearchBatch(c *gin.Context) {
	var req struct {
		Logs []struct {
			Keyword     string `json:"keyword" binding:"required"`
			UserID      string `json:"user_id" binding:"required"`
			ResultCount int    `json:"result_count"`
			Source      string `json:"source"`
			SessionID   string `json:"session_id"`
		} `json:"logs" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	inputs := make([]*domain.SearchLogInput, 0, len(req.Logs))
	for _, item := range req.Logs {
		inputs = append(inputs, &domain.SearchLogInput{
			Keyword:     item.Keyword,
			UserID:      item.UserID,
			ResultCount: item.ResultCount,
			Source:      item.Source,
			SessionID:   item.SessionID,
		})
	}

	entries, err := s.service.LogSearchBatch(c.Request.Context(), inputs)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"inserted": len(entries)})
}

// findSearchLogs 按条件查询搜索日志
func (s *HTTPServer) findSearchLogs(c *gin.Context) {
	criteria := &domain.SearchLogCriteria{
		OrderBy:  c.Query("order_by"),
		OrderDir: c.Query("order_dir"),
	}

	if v := c.Query("keyword"); v != "" {
		criteria.Keyword = &v
	}
	if v := c.Query("user_id"); v != "" {
		criteria.UserID = &v
	}
	if v := c.Query("source"); v != "" {
		criteria.Source = &v
	}
	if v := c.Query("min_result_count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, "invalid min_result_count, must be an integer")
			return
		}
		criteria.MinResultCount = &n
	}
	if v := c.Query("max_result_count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, "invalid max_result_count, must be an integer")
			return
		}
		criteria.MaxResultCount = &n
	}
	if c.Query("start") != "" || c.Query("end") != "" {
		dateRange, err := s.parseDateRange(c)
		if err != nil {
			s.respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		start, end := dateRange.Start(), dateRange.End()
		criteria.StartDate = &start
		criteria.EndDate = &end
	}
	criteria.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	criteria.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "100"))

	logs, err := s.service.FindSearchLogs(c.Request.Context(), criteria)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":      logs,
		"page":      criteria.Page,
		"page_size": criteria.PageSize,
	})
}

// deleteUserLogs 删除指定用户的全部搜索日志
func (s *HTTPServer) deleteUserLogs(c *gin.Context) {
	deleted, err := s.service.DeleteUserLogs(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// archiveLogs 清理保留期之外的搜索日志
func (s *HTTPServer) archiveLogs(c *gin.Context) {
	var req struct {
		RetentionDays int `json:"retention_days" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	deleted, err := s.service.ArchiveLogs(c.Request.Context(), req.RetentionDays)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
