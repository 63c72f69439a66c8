package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/fjod/bookmood/internal/domain"
	"github.com/fjod/bookmood/internal/logger"
	"github.com/fjod/bookmood/internal/storage"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const DefaultKey = "bookstore-cart"

var tracer = otel.Tracer("github.com/fjod/bookmood/internal/cart")

// Store owns the cart lines and their totals. Each mutation recomputes the
// totals and rewrites the whole cart to storage before it returns; if that
// write fails the in-memory cart is rolled back, so memory and storage
// never disagree.
type Store struct {
	mu   sync.Mutex
	kv   storage.KeyValue
	key  string
	log  *logger.Logger
	cart domain.Cart
}

type Option func(*Store)

// WithKey overrides the storage key (default "bookstore-cart").
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

func NewStore(kv storage.KeyValue, log *logger.Logger, opts ...Option) *Store {
	s := &Store{
		kv:   kv,
		key:  DefaultKey,
		log:  log,
		cart: domain.EmptyCart(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory cart with the persisted one. It never fails:
// absent, unreadable or malformed data leaves an empty cart.
func (s *Store) Load(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "cart.Load")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = domain.EmptyCart()

	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.log.WithContext(ctx).Warn("cart load failed, starting empty", "key", s.key, "error", err)
		}
		return
	}

	var stored domain.Cart
	if errUnmarshal := json.Unmarshal([]byte(raw), &stored); errUnmarshal != nil {
		s.log.WithContext(ctx).Warn("malformed cart in storage, starting empty", "key", s.key, "error", errUnmarshal)
		return
	}

	s.cart = normalize(stored)
	span.SetAttributes(attribute.Int("cart.lines", len(s.cart.Items)))
}

// normalize drops non-positive lines, merges duplicate book ids and
// recomputes totals; stored totals are never trusted.
func normalize(stored domain.Cart) domain.Cart {
	out := domain.EmptyCart()
	for _, item := range stored.Items {
		if item.Quantity <= 0 || item.Book.ID == "" {
			continue
		}
		if i := out.Find(item.Book.ID); i >= 0 {
			out.Items[i].Quantity += item.Quantity
			continue
		}
		out.Items = append(out.Items, item)
	}
	out.Recalculate()
	return out
}

// Cart returns a copy of the current cart.
func (s *Store) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// QuantityOf returns the quantity in the cart for bookID, 0 when absent.
func (s *Store) QuantityOf(bookID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.cart.Find(bookID); i >= 0 {
		return s.cart.Items[i].Quantity
	}
	return 0
}

// AddItem appends a line for book or grows the existing one by quantity.
func (s *Store) AddItem(ctx context.Context, book domain.Book, quantity int) (domain.Cart, error) {
	if book.ID == "" {
		return s.Cart(), ErrInvalidBook
	}
	if quantity < 1 {
		return s.Cart(), fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	return s.mutate(ctx, "cart.AddItem", func(c *domain.Cart) error {
		if i := c.Find(book.ID); i >= 0 {
			c.Items[i].Quantity += quantity
			return nil
		}
		c.Items = append(c.Items, domain.CartItem{Book: book, Quantity: quantity})
		return nil
	})
}

// RemoveItem drops the line for bookID. Removing an absent book is not an
// error; the cart is still rewritten unchanged.
func (s *Store) RemoveItem(ctx context.Context, bookID string) (domain.Cart, error) {
	return s.mutate(ctx, "cart.RemoveItem", func(c *domain.Cart) error {
		if i := c.Find(bookID); i >= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		}
		return nil
	})
}

// SetQuantity overwrites the quantity of an existing line. quantity <= 0
// removes the line. A book that is not in the cart is not added.
func (s *Store) SetQuantity(ctx context.Context, bookID string, quantity int) (domain.Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, bookID)
	}
	return s.mutate(ctx, "cart.SetQuantity", func(c *domain.Cart) error {
		if i := c.Find(bookID); i >= 0 {
			c.Items[i].Quantity = quantity
		}
		return nil
	})
}

// Clear empties the cart and persists the empty aggregate.
func (s *Store) Clear(ctx context.Context) (domain.Cart, error) {
	return s.mutate(ctx, "cart.Clear", func(c *domain.Cart) error {
		c.Items = c.Items[:0]
		return nil
	})
}

// Take empties the cart and returns what it held, under a single lock so
// nothing added concurrently can slip between the read and the clear. An
// empty cart yields ErrEmptyCart and nothing is written.
func (s *Store) Take(ctx context.Context) (domain.Cart, error) {
	var taken domain.Cart
	_, err := s.mutate(ctx, "cart.Take", func(c *domain.Cart) error {
		if len(c.Items) == 0 {
			return ErrEmptyCart
		}
		taken = c.Clone()
		c.Items = c.Items[:0]
		return nil
	})
	if err != nil {
		return domain.Cart{}, err
	}
	return taken, nil
}

// mutate applies fn to a copy of the cart, recomputes totals, persists and
// only then swaps the copy in. An error from fn aborts before anything is
// written.
func (s *Store) mutate(ctx context.Context, op string, fn func(*domain.Cart) error) (domain.Cart, error) {
	ctx, span := tracer.Start(ctx, op)
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cart.Clone()
	if err := fn(&next); err != nil {
		return s.cart.Clone(), err
	}
	next.Recalculate()

	if err := s.persist(ctx, next); err != nil {
		span.RecordError(err)
		s.log.WithContext(ctx).Error("cart persist failed", "op", op, "error", err)
		return s.cart.Clone(), err
	}

	s.cart = next
	span.SetAttributes(
		attribute.Int("cart.item_count", next.ItemCount),
		attribute.Float64("cart.total", next.Total),
	)
	return next.Clone(), nil
}

func (s *Store) persist(ctx context.Context, c domain.Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(raw)); err != nil {
		return fmt.Errorf("save cart failed: %w", err)
	}
	return nil
}
