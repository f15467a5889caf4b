package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"keywordsearch/cmd/keyword-service/internal/domain"

	"github.com/IBM/sarama"
)

// ProducerConfig 生产者配置
type ProducerConfig struct {
	Brokers     []string
	Topic       string
	Compression string // none, gzip, snappy, lz4, zstd
	MaxRetries  int
	Timeout     time.Duration
}

// EventProducer Kafka 事件生产者，实现 domain.EventPublisher
type EventProducer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewEventProducer 创建事件生产者
func NewEventProducer(config *ProducerConfig) (*EventProducer, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal
	saramaConfig.Producer.Retry.Max = config.MaxRetries
	if config.Timeout > 0 {
		saramaConfig.Producer.Timeout = config.Timeout
	}

	switch config.Compression {
	case "gzip":
		saramaConfig.Producer.Compression = sarama.CompressionGZIP
	case "snappy":
		saramaConfig.Producer.Compression = sarama.CompressionSnappy
	case "lz4":
		saramaConfig.Producer.Compression = sarama.CompressionLZ4
	case "zstd":
		saramaConfig.Producer.Compression = sarama.CompressionZSTD
	default:
		saramaConfig.Producer.Compression = sarama.CompressionNone
	}

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("create producer: %w", err)
	}

	return &EventProducer{
		producer: producer,
		topic:    config.Topic,
	}, nil
}

// Publish 发布事件，事件类型写入消息头，key 用于分区
func (p *EventProducer) Publish(ctx context.Context, eventType, key string, payload interface{}) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(eventType)},
		},
		Timestamp: time.Now(),
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// Close 关闭生产者
func (p *EventProducer) Close() error {
	return p.producer.Close()
}

// NopPublisher 空发布器，未配置 Kafka 时使用
type NopPublisher struct{}

// NewNopPublisher 创建空发布器
func NewNopPublisher() *NopPublisher {
	return &NopPublisher{}
}

// Publish 丢弃事件
func (p *NopPublisher) Publish(ctx context.Context, eventType, key string, payload interface{}) error {
	return nil
}

// Close 无资源可释放
func (p *NopPublisher) Close() error {
	return nil
}

var (
	_ domain.EventPublisher = (*EventProducer)(nil)
	_ domain.EventPublisher = (*NopPublisher)(nil)
)
