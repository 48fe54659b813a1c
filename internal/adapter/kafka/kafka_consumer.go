package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/IBM/sarama"
	"github.com/aq2208/gorder-storefront/internal/usecase"
)

// ErrSkip tells the consumer to commit past a message that can never be applied.
var ErrSkip = errors.New("skip message")

// HandlerFunc processes a decoded event.
type HandlerFunc func(ctx context.Context, ev usecase.OrderStatusChangedMsg) error

// Consumer consumes a topic with a single handler.
type Consumer struct {
	Group  sarama.ConsumerGroup
	Topics []string
	Handle HandlerFunc
	Logger *slog.Logger
}

func NewConsumer(group sarama.ConsumerGroup, topics []string, h HandlerFunc, log *slog.Logger) *Consumer {
	return &Consumer{
		Group:  group,
		Topics: topics,
		Handle: h,
		Logger: log,
	}
}

func (c *Consumer) Start(ctx context.Context) error {
	handler := &cgHandler{handle: c.Handle, logger: c.Logger}
	for {
		if err := c.Group.Consume(ctx, c.Topics, handler); err != nil {
			return err
		}
		// Consume returns on ctx cancel or rebalance.
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

type cgHandler struct {
	handle HandlerFunc
	logger *slog.Logger
}

func (h *cgHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *cgHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *cgHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		h.process(sess, msg)
	}
	return nil
}

func (h *cgHandler) process(sess sarama.ConsumerGroupSession, msg *sarama.ConsumerMessage) {
	var ev usecase.OrderStatusChangedMsg
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		h.logger.Warn("kafka decode error", "topic", msg.Topic, "off", msg.Offset, "err", err)
		// mark to avoid reprocessing poison
		sess.MarkMessage(msg, "decode-error")
		return
	}
	if err := h.handle(sess.Context(), ev); err != nil {
		if errors.Is(err, ErrSkip) {
			h.logger.Warn("kafka event skipped", "order_id", ev.OrderID, "status", ev.Status, "err", err)
			sess.MarkMessage(msg, "skipped")
			return
		}
		// Not marked; redelivered after the next rebalance or restart.
		h.logger.Error("kafka handler error", "key", string(msg.Key), "off", msg.Offset, "err", err)
		return
	}
	sess.MarkMessage(msg, "")
}
