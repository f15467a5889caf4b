package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// hotKeywords 热门搜索词排行
func (s *HTTPServer) hotKeywords(c *gin.Context) {
	dateRange, err := s.parseDateRange(c)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := s.parseLimit(c, 100)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	keywords, err := s.service.HotKeywords(c.Request.Context(), dateRange, limit)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"keywords": keywords})
}

// hitRate 搜索命中率统计
func (s *HTTPServer) hitRate(c *gin.Context) {
	dateRange, err := s.parseDateRange(c)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := s.service.HitRate(c.Request.Context(), dateRange)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// noResultKeywords 无结果搜索词排行
func (s *HTTPServer) noResultKeywords(c *gin.Context) {
	dateRange, err := s.parseDateRange(c)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := s.parseLimit(c, 100)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	keywords, err := s.service.NoResultKeywords(c.Request.Context(), dateRange, limit)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"keywords": keywords})
}

// keywordTrends 关键词搜索趋势
func (s *HTTPServer) keywordTrends(c *gin.Context) {
	dateRange, err := s.parseDateRange(c)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	trends, err := s.service.TrendsForKeyword(c.Request.Context(), c.Param("keyword"), dateRange)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trends": trends})
}

// conversionAnalysis 搜索转化分析
func (s *HTTPServer) conversionAnalysis(c *gin.Context) {
	dateRange, err := s.parseDateRange(c)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	analysis, err := s.service.ConversionAnalysis(c.Request.Context(), dateRange)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversion": analysis})
}

// extractKeywords 从搜索日志提取高频词
func (s *HTTPServer) extractKeywords(c *gin.Context) {
	dateRange, err := s.parseDateRange(c)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := s.parseLimit(c, 100)
	if err != nil {
		s.respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	keywords, err := s.service.ExtractKeywords(c.Request.Context(), dateRange, limit)
	if err != nil {
		s.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"keywords": keywords})
}
