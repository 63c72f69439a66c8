package http

import (
	"net/http"

	"github.com/fjod/bookmood/internal/catalog"
	"github.com/fjod/bookmood/internal/logger"
	"github.com/go-chi/chi/v5"
)

type CatalogHandler struct {
	catalog *catalog.Catalog
	log     *logger.Logger
}

func NewCatalogHandler(c *catalog.Catalog, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: c, log: log}
}

// GET /api/v1/books?q=&genre=&sort=
func (h *CatalogHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	books := h.catalog.List(catalog.Filter{
		Query: q.Get("q"),
		Genre: q.Get("genre"),
		Sort:  q.Get("sort"),
	})
	respondJSON(w, http.StatusOK, books)
}

// GET /api/v1/books/featured
func (h *CatalogHandler) FeaturedBooks(w http.ResponseWriter, _ *http.Request) {
	books := h.catalog.Featured()
	if books == nil {
		respondJSON(w, http.StatusOK, []struct{}{})
		return
	}
	respondJSON(w, http.StatusOK, books)
}

// GET /api/v1/books/{id}
func (h *CatalogHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.catalog.Get(chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, book)
}

// GET /api/v1/genres
func (h *CatalogHandler) ListGenres(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.catalog.Genres())
}
