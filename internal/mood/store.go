package mood

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fjod/bookmood/internal/domain"
	"github.com/fjod/bookmood/internal/logger"
	"github.com/fjod/bookmood/internal/notify"
	"github.com/fjod/bookmood/internal/storage"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultKey        = "moodHistory"
	DefaultWindowDays = 7
)

var ErrInvalidMood = errors.New("mood must be between 1 and 5")

var tracer = otel.Tracer("github.com/fjod/bookmood/internal/mood")

// Store appends mood check-ins to a single persisted history and derives
// the daily trend from it. The history is re-read on every query so
// writes made by other processes show up without a restart.
type Store struct {
	mu     sync.Mutex // serializes Record
	kv     storage.KeyValue
	key    string
	log    *logger.Logger
	now    func() time.Time
	loc    *time.Location
	bus    notify.Bus
	origin string
	sfg    singleflight.Group // collapses concurrent history reads

	subMu   sync.RWMutex
	nextSub int
	subs    map[int]func(notify.Event)
}

type Option func(*Store)

func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLocation sets the time zone whose calendar days the trend buckets
// follow. Default UTC.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithBus publishes every recorded entry on bus and lets Watch pick up
// changes made by other writers.
func WithBus(bus notify.Bus) Option {
	return func(s *Store) { s.bus = bus }
}

func NewStore(kv storage.KeyValue, log *logger.Logger, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		key:    DefaultKey,
		log:    log,
		now:    time.Now,
		loc:    time.UTC,
		origin: uuid.New().String(),
		subs:   make(map[int]func(notify.Event)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record appends a new entry stamped with the current time. Observers are
// notified only after the history has been written.
func (s *Store) Record(ctx context.Context, score int, note string) (domain.MoodEntry, error) {
	ctx, span := tracer.Start(ctx, "mood.Record")
	defer span.End()

	if !domain.ValidMood(score) {
		return domain.MoodEntry{}, fmt.Errorf("%w: got %d", ErrInvalidMood, score)
	}

	entry := domain.MoodEntry{
		Mood:      score,
		Note:      note,
		Timestamp: s.now().UTC().Truncate(time.Millisecond),
	}

	s.mu.Lock()
	history, err := s.readHistory(ctx)
	if err != nil {
		s.mu.Unlock()
		span.RecordError(err)
		return domain.MoodEntry{}, err
	}
	history = append(history, entry)
	if err := s.persist(ctx, history); err != nil {
		s.mu.Unlock()
		span.RecordError(err)
		return domain.MoodEntry{}, err
	}
	// a read already in flight may predate this write
	s.sfg.Forget(s.key)
	s.mu.Unlock()

	span.SetAttributes(attribute.Int("mood.score", score), attribute.Int("mood.history_len", len(history)))

	ev := notify.Event{Key: s.key, Origin: s.origin, At: entry.Timestamp}
	s.notifyLocal(ev)
	if s.bus != nil {
		if err := s.bus.Publish(ctx, ev); err != nil {
			s.log.WithContext(ctx).Warn("failed to publish mood change", "error", err)
		}
	}
	return entry, nil
}

// History returns every stored entry in insertion order. Absent or
// malformed data reads as an empty history; only backend failures error.
func (s *Store) History(ctx context.Context) ([]domain.MoodEntry, error) {
	v, err, _ := s.sfg.Do(s.key, func() (interface{}, error) {
		// shared by every joined caller, so one caller's cancellation must
		// not fail the rest
		return s.readHistory(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	shared := v.([]domain.MoodEntry)
	out := make([]domain.MoodEntry, len(shared))
	copy(out, shared)
	return out, nil
}

// Latest returns the most recently appended entry.
func (s *Store) Latest(ctx context.Context) (domain.MoodEntry, bool, error) {
	history, err := s.History(ctx)
	if err != nil {
		return domain.MoodEntry{}, false, err
	}
	if len(history) == 0 {
		return domain.MoodEntry{}, false, nil
	}
	return history[len(history)-1], true, nil
}

// TrailingDailyAverages buckets the history into windowDays calendar days
// ending on ref's date (inclusive), oldest first. windowDays <= 0 means
// DefaultWindowDays.
func (s *Store) TrailingDailyAverages(ctx context.Context, windowDays int, ref time.Time) ([]domain.DayAverage, error) {
	ctx, span := tracer.Start(ctx, "mood.TrailingDailyAverages")
	defer span.End()

	history, err := s.History(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return DailyAverages(history, windowDays, ref, s.loc), nil
}

// Subscribe registers fn for change notifications. The returned func
// removes it.
func (s *Store) Subscribe(fn func(notify.Event)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

// Watch forwards bus events about this history written by someone else to
// the local subscribers, until ctx is done. Without a bus it does nothing.
func (s *Store) Watch(ctx context.Context) error {
	if s.bus == nil {
		return nil
	}
	return s.bus.Subscribe(ctx, func(ev notify.Event) {
		if ev.Key != s.key || ev.Origin == s.origin {
			return
		}
		s.notifyLocal(ev)
	})
}

func (s *Store) notifyLocal(ev notify.Event) {
	s.subMu.RLock()
	handlers := make([]func(notify.Event), 0, len(s.subs))
	for _, fn := range s.subs {
		handlers = append(handlers, fn)
	}
	s.subMu.RUnlock()

	for _, fn := range handlers {
		fn(ev)
	}
}

func (s *Store) readHistory(ctx context.Context) ([]domain.MoodEntry, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return []domain.MoodEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read mood history: %w", err)
	}

	var history []domain.MoodEntry
	if errUnmarshal := json.Unmarshal([]byte(raw), &history); errUnmarshal != nil {
		s.log.WithContext(ctx).Warn("malformed mood history, treating as empty", "key", s.key, "error", errUnmarshal)
		return []domain.MoodEntry{}, nil
	}
	if history == nil {
		history = []domain.MoodEntry{}
	}
	return history, nil
}

func (s *Store) persist(ctx context.Context, history []domain.MoodEntry) error {
	raw, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to marshal mood history: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(raw)); err != nil {
		return fmt.Errorf("failed to save mood history: %w", err)
	}
	return nil
}
