package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fjod/bookmood/internal/domain"
	"github.com/segmentio/kafka-go"
)

const (
	CheckoutTopic         = "checkout-completed"
	CheckoutCompletedType = "checkout.completed"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher announces completed checkouts on a Kafka topic. The
// receipt id is the message key.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  CheckoutTopic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

type checkoutPayload struct {
	ReceiptID   string            `json:"receipt_id"`
	Items       []domain.CartItem `json:"items"`
	ItemCount   int               `json:"item_count"`
	Subtotal    float64           `json:"subtotal"`
	Tax         float64           `json:"tax"`
	TotalAmount float64           `json:"total_amount"`
	CompletedAt string            `json:"completed_at"`
}

func (p *KafkaPublisher) PublishCheckout(ctx context.Context, r domain.Receipt) error {
	payload, err := json.Marshal(checkoutPayload{
		ReceiptID:   r.ID,
		Items:       r.Items,
		ItemCount:   r.ItemCount,
		Subtotal:    r.Subtotal,
		Tax:         r.Tax,
		TotalAmount: r.Total,
		CompletedAt: r.CompletedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal checkout payload: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(r.ID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(CheckoutCompletedType)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish checkout %s: %w", r.ID, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
