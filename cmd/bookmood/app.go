package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fjod/bookmood/internal/cart"
	"github.com/fjod/bookmood/internal/catalog"
	"github.com/fjod/bookmood/internal/config"
	"github.com/fjod/bookmood/internal/logger"
	"github.com/fjod/bookmood/internal/mood"
	"github.com/fjod/bookmood/internal/notify"
	"github.com/fjod/bookmood/internal/storage"
	goredis "github.com/redis/go-redis/v9"
)

type globalFlags struct {
	backend    string
	sqlitePath string
	redisAddr  string
	logMode    string
}

// loadConfig reads the environment and lets explicitly set flags win.
func (f *globalFlags) loadConfig() *config.Config {
	cfg := config.Load()
	if f.backend != "" {
		cfg.Storage.Backend = f.backend
	}
	if f.sqlitePath != "" {
		cfg.Storage.SQLitePath = f.sqlitePath
	}
	if f.redisAddr != "" {
		cfg.Storage.RedisAddr = f.redisAddr
	}
	if f.logMode != "" {
		cfg.LogMode = f.logMode
	}
	return cfg
}

// app is everything a command needs, built from one config.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	backend storage.Backend
	bus     notify.Bus
	catalog *catalog.Catalog
	cart    *cart.Store
	moods   *mood.Store
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	books, err := catalog.Default()
	if err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.MoodTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid MOOD_TIMEZONE %q: %w", cfg.MoodTimezone, err)
	}

	backend, err := storage.Open(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	bus, err := openBus(cfg, log)
	if err != nil {
		_ = backend.Close()
		return nil, err
	}

	cartStore := cart.NewStore(backend, log)
	cartStore.Load(ctx)

	return &app{
		cfg:     cfg,
		log:     log,
		backend: backend,
		bus:     bus,
		catalog: books,
		cart:    cartStore,
		moods:   mood.NewStore(backend, log, mood.WithLocation(loc), mood.WithBus(bus)),
	}, nil
}

// openBus shares change events through Redis when Redis is the backend,
// otherwise they stay in the process.
func openBus(cfg *config.Config, log *logger.Logger) (notify.Bus, error) {
	if cfg.Storage.Backend != "redis" {
		return notify.NewLocalBus(), nil
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Storage.RedisAddr,
		Password: cfg.Storage.RedisPassword,
	})
	bus, err := notify.NewRedisBus(rdb, cfg.RedisChannel, log)
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to init redis bus: %w", err)
	}
	return bus, nil
}

func (a *app) Close() {
	if err := a.bus.Close(); err != nil {
		a.log.Warn("error closing bus", "error", err)
	}
	if err := a.backend.Close(); err != nil {
		a.log.Warn("error closing storage", "error", err)
	}
	a.log.Sync()
}
