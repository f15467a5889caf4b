//go:build wireinject
// +build wireinject

package main

import (
	"keywordsearch/cmd/keyword-service/internal/app"
	"keywordsearch/cmd/keyword-service/internal/biz"
	"keywordsearch/cmd/keyword-service/internal/conf"
	"keywordsearch/cmd/keyword-service/internal/data"
	"keywordsearch/cmd/keyword-service/internal/server"
	"keywordsearch/cmd/keyword-service/internal/service"

	kratoslog "github.com/go-kratos/kratos/v2/log"
	"github.com/google/wire"
	"go.uber.org/zap"
)

// initApp 初始化应用
func initApp(config *conf.Config, zapLogger *zap.Logger, logger kratoslog.Logger) (*app.App, func(), error) {
	wire.Build(
		// 配置
		provideDBConfig,
		provideRedisConfig,
		provideSearchLogConfig,
		provideEventPublisher,

		// Data 层
		data.NewDB,
		data.NewRedisClient,
		provideKeywordCache,
		data.NewKeywordRepository,
		data.NewProductKeywordRepository,
		data.NewSearchLogRepository,

		// Biz 层
		biz.NewKeywordValidator,
		biz.NewKeywordUsecase,
		biz.NewSearchUsecase,
		biz.NewSearchLogUsecase,
		biz.NewAnalyzerUsecase,
		biz.NewOptimizerUsecase,

		// Service 层
		service.NewKeywordService,

		// Server 层
		wire.Bind(new(server.Logger), new(*zap.Logger)),
		server.NewHTTPServer,

		app.NewApp,
	)

	return nil, nil, nil
}
