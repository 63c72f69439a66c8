package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/bookmood/internal/cart"
	"github.com/fjod/bookmood/internal/events"
	h "github.com/fjod/bookmood/internal/http"
	"github.com/fjod/bookmood/internal/metrics"
	"github.com/fjod/bookmood/internal/mood"
	"github.com/fjod/bookmood/internal/notify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := flags.loadConfig()
			if port != "" {
				cfg.HTTPPort = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			return serve(ctx, a)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "HTTP port (default $HTTP_PORT or 8080)")
	return cmd
}

func serve(ctx context.Context, a *app) error {
	cfg := a.cfg
	log := a.log

	var publisher cart.CheckoutPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers...)
		defer func() {
			if err := kp.Close(); err != nil {
				log.Warn("error closing kafka publisher", "error", err)
			}
		}()
		publisher = kp

		// each instance reads every checkout so its cached cart follows
		consumer := events.NewCheckoutConsumer("bookmood-"+uuid.New().String(), log,
			func(ctx context.Context, receiptID string) {
				log.WithContext(ctx).Info("checkout seen, reloading cart", "receipt_id", receiptID)
				a.cart.Load(ctx)
			}, cfg.KafkaBrokers...)
		go consumer.Run(ctx)
		defer consumer.Close()
	}

	if err := a.moods.Watch(ctx); err != nil {
		log.Warn("mood change feed unavailable", "error", err)
	}
	cancelSub := a.moods.Subscribe(func(ev notify.Event) {
		log.Debug("mood history changed", "key", ev.Key, "origin", ev.Origin)
	})
	defer cancelSub()

	m := metrics.New()
	checkout := cart.NewCheckout(a.cart, publisher, log)
	router := h.NewRouter(
		h.RouterConfig{RequestTimeout: cfg.RequestTimeout},
		h.NewCatalogHandler(a.catalog, log),
		h.NewCartHandler(a.cart, checkout, a.catalog, m, log),
		h.NewMoodHandler(a.moods, mood.NewRecommender(a.moods, nil), m, log),
		m, log,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "bookmood"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("bookmood starting", "port", cfg.HTTPPort, "backend", cfg.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("server exited")
	return nil
}
