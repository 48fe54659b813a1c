package kafka

import (
	"context"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/aq2208/gorder-storefront/internal/usecase"
)

// Producer publishes outbox messages to Kafka, one topic per outbox channel.
type Producer struct {
	sp     sarama.SyncProducer
	prefix string
}

func NewProducer(sp sarama.SyncProducer, topicPrefix string) *Producer {
	return &Producer{sp: sp, prefix: topicPrefix}
}

func (p *Producer) Publish(ctx context.Context, channel string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, _, err := p.sp.SendMessage(&sarama.ProducerMessage{
		Topic: p.prefix + channel,
		Value: sarama.ByteEncoder(body),
	})
	if err != nil {
		return fmt.Errorf("kafka publish %s: %w", channel, err)
	}
	return nil
}

func (p *Producer) Close() error { return p.sp.Close() }

var _ usecase.Publisher = (*Producer)(nil)
