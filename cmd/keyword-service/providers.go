package main

import (
	"keywordsearch/cmd/keyword-service/internal/biz"
	"keywordsearch/cmd/keyword-service/internal/conf"
	"keywordsearch/cmd/keyword-service/internal/data"
	"keywordsearch/cmd/keyword-service/internal/domain"
	"keywordsearch/cmd/keyword-service/internal/infra/kafka"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/redis/go-redis/v9"
)

// provideDBConfig 数据库配置
func provideDBConfig(config *conf.Config) *data.DBConfig {
	return &data.DBConfig{
		Host:            config.Database.Host,
		Port:            config.Database.Port,
		User:            config.Database.User,
		Password:        config.Database.Password,
		Database:        config.Database.DBName,
		SSLMode:         config.Database.SSLMode,
		MaxOpenConns:    config.Database.MaxOpenConns,
		MaxIdleConns:    config.Database.MaxIdleConns,
		ConnMaxLifetime: config.Database.ConnMaxLifetime,
	}
}

// provideRedisConfig Redis 配置
func provideRedisConfig(config *conf.Config) *data.RedisConfig {
	return &data.RedisConfig{
		Addr:         config.Redis.Addr,
		Password:     config.Redis.Password,
		DB:           config.Redis.DB,
		PoolSize:     config.Redis.PoolSize,
		MinIdleConns: config.Redis.MinIdleConns,
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
	}
}

// provideKeywordCache 关键词缓存
func provideKeywordCache(client *redis.Client, config *conf.Config) *data.KeywordCache {
	return data.NewKeywordCache(client, config.Cache.KeywordTTL)
}

// provideEventPublisher 事件发布器。未配置 broker 时降级为空实现
func provideEventPublisher(config *conf.Config, logger log.Logger) (domain.EventPublisher, error) {
	if len(config.Kafka.Brokers) == 0 {
		log.NewHelper(logger).Info("kafka brokers not configured, events disabled")
		return kafka.NewNopPublisher(), nil
	}
	return kafka.NewEventProducer(&kafka.ProducerConfig{
		Brokers:     config.Kafka.Brokers,
		Topic:       config.Kafka.Topic,
		Compression: config.Kafka.Compression,
		MaxRetries:  config.Kafka.MaxRetries,
		Timeout:     config.Kafka.Timeout,
	})
}

// provideSearchLogConfig 搜索日志配置
func provideSearchLogConfig(config *conf.Config) *biz.SearchLogConfig {
	return &biz.SearchLogConfig{
		DefaultSalt:     config.Search.UserSalt,
		AsyncEnabled:    config.Search.AsyncLog,
		AsyncBufferSize: config.Search.AsyncBufferSize,
	}
}
