package cart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/fjod/bookmood/internal/domain"
	"github.com/fjod/bookmood/internal/logger"
	"github.com/google/uuid"
)

const DefaultTaxRate = 0.08

// CheckoutPublisher is told about every completed checkout.
type CheckoutPublisher interface {
	PublishCheckout(ctx context.Context, receipt domain.Receipt) error
}

// Checkout simulates payment: it turns the cart into a receipt, announces
// it and clears the cart. No money moves.
type Checkout struct {
	store     *Store
	publisher CheckoutPublisher
	log       *logger.Logger
	taxRate   float64
	now       func() time.Time
}

type CheckoutOption func(*Checkout)

func WithTaxRate(rate float64) CheckoutOption {
	return func(c *Checkout) { c.taxRate = rate }
}

func WithCheckoutClock(now func() time.Time) CheckoutOption {
	return func(c *Checkout) { c.now = now }
}

// NewCheckout wires a checkout to store. publisher may be nil.
func NewCheckout(store *Store, publisher CheckoutPublisher, log *logger.Logger, opts ...CheckoutOption) *Checkout {
	c := &Checkout{
		store:     store,
		publisher: publisher,
		log:       log,
		taxRate:   DefaultTaxRate,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Summary prices the current cart. Shipping is always free.
func (c *Checkout) Summary() domain.OrderSummary {
	return c.summarize(c.store.Cart())
}

func (c *Checkout) summarize(cart domain.Cart) domain.OrderSummary {
	subtotal := roundCents(cart.Total)
	tax := roundCents(cart.Total * c.taxRate)
	return domain.OrderSummary{
		ItemCount: cart.ItemCount,
		Subtotal:  subtotal,
		Tax:       tax,
		Shipping:  0,
		Total:     roundCents(subtotal + tax),
	}
}

// Complete empties the cart and turns what it held into a receipt.
// Publishing is best effort; a publisher failure is logged and the checkout
// still completes.
func (c *Checkout) Complete(ctx context.Context) (*domain.Receipt, error) {
	current, err := c.store.Take(ctx)
	if errors.Is(err, ErrEmptyCart) {
		return nil, ErrEmptyCart
	}
	if err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	summary := c.summarize(current)
	receipt := &domain.Receipt{
		ID:          uuid.New().String(),
		Items:       current.Items,
		ItemCount:   summary.ItemCount,
		Subtotal:    summary.Subtotal,
		Tax:         summary.Tax,
		Shipping:    summary.Shipping,
		Total:       summary.Total,
		CompletedAt: c.now().UTC(),
	}

	if c.publisher != nil {
		if err := c.publisher.PublishCheckout(ctx, *receipt); err != nil {
			c.log.WithContext(ctx).Warn("failed to publish checkout", "receipt_id", receipt.ID, "error", err)
		}
	}

	c.log.WithContext(ctx).Info("checkout completed", "receipt_id", receipt.ID, "items", receipt.ItemCount, "total", receipt.Total)
	return receipt, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
