package queue

import (
	"context"
	"fmt"

	"github.com/aq2208/gorder-storefront/internal/usecase"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName     = "order.events"
	OrderPlacedQueue = "order.placed.q"
)

// RabbitProducer implements usecase.Publisher. The outbox channel is used as the routing key.
type RabbitProducer struct {
	ch *amqp.Channel
}

// NewRabbitProducer sets up the exchange, queue, and binding once at startup.
func NewRabbitProducer(ch *amqp.Channel) (*RabbitProducer, error) {
	// 1. declare exchange (topic type, durable)
	if err := ch.ExchangeDeclare(
		ExchangeName,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	// 2. declare queue
	q, err := ch.QueueDeclare(
		OrderPlacedQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	// 3. bind queue → exchange
	if err := ch.QueueBind(
		q.Name,
		usecase.ChannelOrderPlaced,
		ExchangeName,
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("queue bind: %w", err)
	}

	// 4. publisher confirms
	if err := ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("enable confirm mode: %w", err)
	}

	return &RabbitProducer{ch: ch}, nil
}

// Publish sends body to the exchange and waits for the broker's confirm.
func (p *RabbitProducer) Publish(ctx context.Context, channel string, body []byte) error {
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // survive broker restarts
		Body:         body,
	}

	conf, err := p.ch.PublishWithDeferredConfirmWithContext(
		ctx,
		ExchangeName, // exchange
		channel,      // routing key
		false,        // mandatory
		false,        // immediate
		pub,
	)
	if err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	if conf == nil {
		return nil
	}
	acked, err := conf.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("publish confirm: %w", err)
	}
	if !acked {
		return fmt.Errorf("publish %s: broker nacked", channel)
	}
	return nil
}

var _ usecase.Publisher = (*RabbitProducer)(nil)
