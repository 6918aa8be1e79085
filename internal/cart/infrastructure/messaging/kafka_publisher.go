package messaging

import (
	"context"

	"github.com/wyfcoding/electronicsstore/pkg/mq"
)

// KafkaEventPublisher 基于 Kafka 的事件发布适配器，
// topic 即事件类型，key 用于分区保序。
type KafkaEventPublisher struct {
	producer *mq.KafkaProducer
}

// NewKafkaEventPublisher 创建事件发布器实例
func NewKafkaEventPublisher(producer *mq.KafkaProducer) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer}
}

// Publish 发布领域事件
func (p *KafkaEventPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	return p.producer.SendMessage(ctx, topic, key, event)
}
