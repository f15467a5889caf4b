package app

import (
	"keywordsearch/cmd/keyword-service/internal/biz"
	"keywordsearch/cmd/keyword-service/internal/domain"
	"keywordsearch/cmd/keyword-service/internal/server"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App 应用程序
type App struct {
	Logger     *zap.Logger
	HTTPServer *server.HTTPServer
	DB         *gorm.DB
	Redis      *redis.Client
	Publisher  domain.EventPublisher
	SearchLog  *biz.SearchLogUsecase
}

// NewApp 创建应用程序
func NewApp(
	logger *zap.Logger,
	httpServer *server.HTTPServer,
	db *gorm.DB,
	redisClient *redis.Client,
	publisher domain.EventPublisher,
	searchLog *biz.SearchLogUsecase,
) *App {
	return &App{
		Logger:     logger,
		HTTPServer: httpServer,
		DB:         db,
		Redis:      redisClient,
		Publisher:  publisher,
		SearchLog:  searchLog,
	}
}

// Cleanup 清理资源。先排空异步日志通道，再关闭事件与连接
func (a *App) Cleanup() {
	a.Logger.Info("Cleaning up resources...")

	if a.SearchLog != nil {
		a.SearchLog.Close()
	}

	if a.Publisher != nil {
		if err := a.Publisher.Close(); err != nil {
			a.Logger.Error("Failed to close event publisher", zap.Error(err))
		}
	}

	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Error("Failed to close redis", zap.Error(err))
		}
	}

	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				a.Logger.Error("Failed to close database", zap.Error(err))
			}
		}
	}
}
