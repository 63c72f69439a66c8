package http

import (
	"net/http"
	"time"

	"github.com/fjod/bookmood/internal/logger"
	"github.com/fjod/bookmood/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterConfig struct {
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
}

// NewRouter mounts the API under /api/v1 next to /health and /metrics.
func NewRouter(cfg RouterConfig, catalogH *CatalogHandler, cartH *CartHandler, moodH *MoodHandler, m *metrics.Metrics, log *logger.Logger) http.Handler {
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.MaxRequestBodySize == 0 {
		cfg.MaxRequestBodySize = 1 << 20 // 1MB
	}

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(RequestLogger(log))
	r.Use(Instrument(m))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.RequestSize(cfg.MaxRequestBodySize))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/books", catalogH.ListBooks)
		r.Get("/books/featured", catalogH.FeaturedBooks)
		r.Get("/books/{id}", catalogH.GetBook)
		r.Get("/genres", catalogH.ListGenres)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartH.GetCart)
			r.Delete("/", cartH.ClearCart)
			r.Get("/summary", cartH.Summary)
			r.Post("/items", cartH.AddItem)
			r.Put("/items/{book_id}", cartH.UpdateQuantity)
			r.Delete("/items/{book_id}", cartH.RemoveItem)
		})
		r.Post("/checkout", cartH.Checkout)

		r.Route("/moods", func(r chi.Router) {
			r.Get("/", moodH.History)
			r.Post("/", moodH.RecordMood)
			r.Get("/trend", moodH.Trend)
		})
		r.Get("/recommendations", moodH.Recommendations)
	})

	return r
}
