package cart

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fjod/bookmood/internal/domain"
	"github.com/fjod/bookmood/internal/logger"
	"github.com/fjod/bookmood/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	receipts []domain.Receipt
	err      error
}

func (m *mockPublisher) PublishCheckout(_ context.Context, r domain.Receipt) error {
	m.receipts = append(m.receipts, r)
	return m.err
}

func TestCheckout_Summary(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	_, err := s.AddItem(ctx, bookA, 2)
	require.NoError(t, err)
	_, err = s.AddItem(ctx, bookB, 1)
	require.NoError(t, err)

	sum := NewCheckout(s, nil, logger.Nop()).Summary()

	assert.Equal(t, 3, sum.ItemCount)
	assert.Equal(t, 25.0, sum.Subtotal)
	assert.Equal(t, 2.0, sum.Tax)
	assert.Equal(t, 0.0, sum.Shipping)
	assert.Equal(t, 27.0, sum.Total)
}

func TestCheckout_SummaryRoundsToCents(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.AddItem(context.Background(), domain.Book{ID: "x", Price: 12.99}, 1)
	require.NoError(t, err)

	sum := NewCheckout(s, nil, logger.Nop()).Summary()

	assert.Equal(t, 1.04, sum.Tax)
	assert.Equal(t, 14.03, sum.Total)
}

func TestCheckout_Complete(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()
	_, err := s.AddItem(ctx, bookA, 2)
	require.NoError(t, err)

	pub := &mockPublisher{}
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	co := NewCheckout(s, pub, logger.Nop(), WithCheckoutClock(func() time.Time { return now }), WithTaxRate(0.1))

	receipt, err := co.Complete(ctx)
	require.NoError(t, err)

	assert.NotEmpty(t, receipt.ID)
	assert.Equal(t, 20.0, receipt.Subtotal)
	assert.Equal(t, 2.0, receipt.Tax)
	assert.Equal(t, 22.0, receipt.Total)
	assert.Equal(t, 2, receipt.ItemCount)
	assert.Equal(t, now, receipt.CompletedAt)
	require.Len(t, receipt.Items, 1)

	require.Len(t, pub.receipts, 1)
	assert.Equal(t, receipt.ID, pub.receipts[0].ID)

	assert.Empty(t, s.Cart().Items)
	assert.Equal(t, domain.EmptyCart(), kv.stored(t, DefaultKey))
}

func TestCheckout_EmptyCart(t *testing.T) {
	s, _ := newTestStore(t)
	pub := &mockPublisher{}

	_, err := NewCheckout(s, pub, logger.Nop()).Complete(context.Background())

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, pub.receipts)
}

func TestCheckout_PublisherFailureStillCompletes(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	_, err := s.AddItem(ctx, bookB, 1)
	require.NoError(t, err)

	pub := &mockPublisher{err: errors.New("broker down")}
	receipt, err := NewCheckout(s, pub, logger.Nop()).Complete(ctx)

	require.NoError(t, err)
	assert.NotNil(t, receipt)
	assert.Empty(t, s.Cart().Items)
}

func TestCheckout_ClearFailureKeepsCart(t *testing.T) {
	s, kv := newTestStore(t)
	ctx := context.Background()
	_, err := s.AddItem(ctx, bookB, 1)
	require.NoError(t, err)

	kv.setErr = errors.New("read-only")
	pub := &mockPublisher{}

	_, err = NewCheckout(s, pub, logger.Nop()).Complete(ctx)

	assert.ErrorContains(t, err, "failed to clear cart")
	assert.Equal(t, 1, s.QuantityOf("b"))
	assert.Empty(t, pub.receipts)
}

func TestCheckout_ConcurrentAddIsNeverLost(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		s := NewStore(storage.NewMemoryStore(), logger.Nop())
		_, err := s.AddItem(ctx, bookA, 1)
		require.NoError(t, err)
		co := NewCheckout(s, nil, logger.Nop())

		var (
			wg      sync.WaitGroup
			receipt *domain.Receipt
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			receipt, _ = co.Complete(ctx)
		}()
		go func() {
			defer wg.Done()
			_, _ = s.AddItem(ctx, bookB, 1)
		}()
		wg.Wait()

		// b is either on the receipt or still in the cart, never dropped
		onReceipt := 0
		if receipt != nil {
			for _, item := range receipt.Items {
				if item.Book.ID == "b" {
					onReceipt += item.Quantity
				}
			}
		}
		require.Equal(t, 1, onReceipt+s.QuantityOf("b"), "iteration %d", i)
	}
}
