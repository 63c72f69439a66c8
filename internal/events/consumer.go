package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/fjod/bookmood/internal/logger"
	"github.com/segmentio/kafka-go"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// CheckoutConsumer follows the checkout topic so an instance can refresh
// its cached cart after another instance checked out.
type CheckoutConsumer struct {
	reader     messageReader
	log        *logger.Logger
	onCheckout func(ctx context.Context, receiptID string)
	retryDelay time.Duration // pause after a failed read
}

// NewCheckoutConsumer reads with its own consumer group; every instance
// needs to see every checkout.
func NewCheckoutConsumer(groupID string, log *logger.Logger, onCheckout func(ctx context.Context, receiptID string), brokers ...string) *CheckoutConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    CheckoutTopic,
		GroupID:  groupID,
		MaxBytes: 10e6, // 10MB
	})
	return &CheckoutConsumer{reader: reader, log: log, onCheckout: onCheckout, retryDelay: time.Second}
}

func (c *CheckoutConsumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		if err := c.handleNext(ctx); err != nil {
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.retryDelay):
			}
		}
	}
}

func (c *CheckoutConsumer) Close() {
	if err := c.reader.Close(); err != nil {
		c.log.Warn("error closing checkout reader", "error", err)
	}
}

// handleNext returns an error only when the read itself failed; bad
// messages are logged and skipped.
func (c *CheckoutConsumer) handleNext(ctx context.Context) error {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.log.Warn("error reading checkout message", "error", err)
		}
		return err
	}

	if eventType(m) != CheckoutCompletedType {
		return nil
	}

	var payload checkoutPayload
	if errUnmarshal := json.Unmarshal(m.Value, &payload); errUnmarshal != nil {
		c.log.Warn("error parsing checkout message", "error", errUnmarshal)
		return nil
	}
	if payload.ReceiptID == "" {
		c.log.Warn("checkout message without receipt_id")
		return nil
	}

	c.onCheckout(ctx, payload.ReceiptID)
	return nil
}

func eventType(m kafka.Message) string {
	for _, h := range m.Headers {
		if h.Key == "event_type" {
			return string(h.Value)
		}
	}
	return ""
}
