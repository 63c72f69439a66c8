package storage

import (
	"context"
	"fmt"

	"github.com/fjod/bookmood/internal/config"
	"github.com/fjod/bookmood/internal/logger"
	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker/v2"
)

// Open builds the backend named by cfg.Backend. Network backends are
// wrapped in a BreakerStore.
func Open(ctx context.Context, cfg config.Storage, log *logger.Logger) (Backend, error) {
	var (
		backend Backend
		err     error
	)

	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		s, errOpen := NewSQLiteStore(cfg.SQLitePath)
		if errOpen != nil {
			return nil, errOpen
		}
		if err = s.RunMigrations(); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		if err = client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}
		backend = NewRedisStore(client, cfg.RedisPrefix)
	case "postgres":
		s, errOpen := NewPostgresStore(cfg.PostgresDSN)
		if errOpen != nil {
			return nil, errOpen
		}
		if err = s.RunMigrations(); err != nil {
			_ = s.Close()
			return nil, err
		}
		backend = s
	case "mongo", "mongodb":
		db, errConn := ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if errConn != nil {
			return nil, errConn
		}
		backend = NewMongoStore(db)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}

	log.Info("storage backend ready", "backend", cfg.Backend)
	return NewBreakerStore(backend, BreakerSettings{
		Name: cfg.Backend,
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("storage breaker state changed", "backend", name, "from", from.String(), "to", to.String())
		},
	}), nil
}
