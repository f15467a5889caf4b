package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"keywordsearch/cmd/keyword-service/internal/domain"
	"keywordsearch/cmd/keyword-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger 日志接口
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
}

// HTTPServer HTTP 服务器
type HTTPServer struct {
	engine  *gin.Engine
	service *service.KeywordService
	logger  Logger
}

// NewHTTPServer 创建 HTTP 服务器
func NewHTTPServer(srv *service.KeywordService, logger Logger) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()

	s := &HTTPServer{
		engine:  engine,
		service: srv,
		logger:  logger,
	}

	s.registerMiddlewares()
	s.registerRoutes()

	return s
}

// registerMiddlewares 注册中间件
func (s *HTTPServer) registerMiddlewares() {
	s.engine.Use(gin.Recovery())
	s.engine.Use(s.requestLogger())
	s.engine.Use(s.corsMiddleware())
}

// requestLogger 请求日志中间件
func (s *HTTPServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		s.logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// corsMiddleware CORS 中间件
func (s *HTTPServer) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// registerRoutes 注册路由
func (s *HTTPServer) registerRoutes() {
	api := s.engine.Group("/api/v1")

	// 关键词管理接口
	keywords := api.Group("/keywords")
	{
		keywords.POST("", s.createKeyword)
		keywords.GET("", s.searchKeywords)
		keywords.POST("/import", s.importKeywords)
		keywords.GET("/recommend", s.recommendKeywords)
		keywords.GET("/text/:keyword", s.getKeywordByText)
		keywords.GET("/:id", s.getKeyword)
		keywords.PUT("/:id", s.updateKeyword)
		keywords.DELETE("/:id", s.deleteKeyword)
		keywords.POST("/batch-status", s.batchUpdateStatus)
		keywords.GET("/:id/products", s.listKeywordProducts)
		keywords.POST("/:id/products", s.attachToProduct)
		keywords.DELETE("/:id/products/:spu_id", s.detachFromProduct)
	}

	// 商品侧关联接口
	products := api.Group("/products")
	{
		products.GET("/:spu_id/keywords", s.listProductKeywords)
		products.POST("/:spu_id/keywords", s.attachBatchToProduct)
		products.DELETE("/:spu_id/keywords", s.detachAllFromProduct)
	}

	// 按来源查询关联
	api.GET("/associations", s.listAssociationsBySource)

	// 商品检索接口
	search := api.Group("/search")
	{
		search.GET("/products", s.findProducts)
	}

	// 搜索日志接口
	logs := api.Group("/search-logs")
	{
		logs.POST("", s.logSearch)
		logs.POST("/batch", s.logSearchBatch)
		logs.GET("", s.findSearchLogs)
		logs.DELETE("/user/:user_id", s.deleteUserLogs)
		logs.POST("/archive", s.archiveLogs)
	}

	// 分析接口
	analytics := api.Group("/analytics")
	{
		analytics.GET("/hot-keywords", s.hotKeywords)
		analytics.GET("/hit-rate", s.hitRate)
		analytics.GET("/no-result-keywords", s.noResultKeywords)
		analytics.GET("/trends/:keyword", s.keywordTrends)
		analytics.GET("/conversion", s.conversionAnalysis)
		analytics.GET("/extract", s.extractKeywords)
	}

	// 健康检查
	s.engine.GET("/health", s.healthCheck)
	s.engine.GET("/ready", s.readinessCheck)
}

// healthCheck 健康检查
func (s *HTTPServer) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// readinessCheck 就绪检查
func (s *HTTPServer) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Engine 返回 Gin 引擎
func (s *HTTPServer) Engine() *gin.Engine {
	return s.engine
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// respondError 响应错误
func (s *HTTPServer) respondError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ErrorResponse{
		Code:    statusCode,
		Message: message,
	})
}

// handleServiceError 处理服务层错误
func (s *HTTPServer) handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrKeywordNotFound):
		s.respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicateKeyword):
		s.respondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidKeyword),
		errors.Is(err, domain.ErrKeywordCycle),
		errors.Is(err, domain.ErrInvalidDateRange):
		s.respondError(c, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("Service error", zap.Error(err))
		s.respondError(c, http.StatusInternalServerError, "internal server error")
	}
}

// parseDateRange 解析日期范围，未指定 start/end 时回退到最近 days 天
func (s *HTTPServer) parseDateRange(c *gin.Context) (domain.DateRange, error) {
	startStr := c.Query("start")
	endStr := c.Query("end")

	if startStr == "" && endStr == "" {
		days, err := strconv.Atoi(c.DefaultQuery("days", "7"))
		if err != nil || days <= 0 {
			return domain.DateRange{}, errors.New("invalid days, must be a positive integer")
		}
		return domain.LastDays(days), nil
	}

	start, err := time.Parse("2006-01-02", startStr)
	if err != nil {
		return domain.DateRange{}, errors.New("invalid start date, expected YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", endStr)
	if err != nil {
		return domain.DateRange{}, errors.New("invalid end date, expected YYYY-MM-DD")
	}
	// 终点取当天末尾，闭区间覆盖整天
	end = end.Add(24*time.Hour - time.Nanosecond)

	return domain.NewDateRange(start, end)
}

// parsePage 解析分页参数，非法值回退到默认
func (s *HTTPServer) parsePage(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 || pageSize > 500 {
		pageSize = 20
	}
	return page, pageSize
}

// parseLimit 解析 limit 参数
func (s *HTTPServer) parseLimit(c *gin.Context, def int) (int, error) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(def)))
	if err != nil || limit <= 0 || limit > 1000 {
		return 0, errors.New("invalid limit, must be between 1 and 1000")
	}
	return limit, nil
}
