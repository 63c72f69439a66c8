package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/fjod/bookmood/internal/cart"
	"github.com/fjod/bookmood/internal/catalog"
	"github.com/fjod/bookmood/internal/logger"
	"github.com/fjod/bookmood/internal/metrics"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	store    *cart.Store
	checkout *cart.Checkout
	catalog  *catalog.Catalog
	metrics  *metrics.Metrics
	log      *logger.Logger
}

func NewCartHandler(store *cart.Store, checkout *cart.Checkout, c *catalog.Catalog, m *metrics.Metrics, log *logger.Logger) *CartHandler {
	return &CartHandler{
		store:    store,
		checkout: checkout,
		catalog:  c,
		metrics:  m,
		log:      log,
	}
}

type AddItemRequestDTO struct {
	BookID   string `json:"book_id"`
	Quantity int    `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.store.Cart())
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.BookID == "" {
		respondError(w, http.StatusBadRequest, "invalid_book_id", "book_id is required")
		return
	}
	if req.Quantity < 1 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at least 1")
		return
	}

	book, err := h.catalog.Get(req.BookID)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	if inCart := h.store.QuantityOf(book.ID); inCart+req.Quantity > book.InStock {
		respondError(w, http.StatusConflict, "insufficient_stock",
			fmt.Sprintf("only %d in stock, %d already in cart", book.InStock, inCart))
		return
	}

	c, err := h.store.AddItem(r.Context(), book, req.Quantity)
	h.metrics.CartMutation("add", err)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusCreated, c)
}

// PUT /api/v1/cart/items/{book_id}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	bookID := chi.URLParam(r, "book_id")

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity < 0 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must not be negative")
		return
	}

	// a book that left the catalog can still be reduced or removed
	book, err := h.catalog.Get(bookID)
	switch {
	case err == nil && req.Quantity > book.InStock:
		respondError(w, http.StatusConflict, "insufficient_stock",
			fmt.Sprintf("only %d in stock", book.InStock))
		return
	case err != nil && !errors.Is(err, catalog.ErrBookNotFound):
		handleError(w, r, h.log, err)
		return
	}

	c, err := h.store.SetQuantity(r.Context(), bookID, req.Quantity)
	h.metrics.CartMutation("set", err)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// DELETE /api/v1/cart/items/{book_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.RemoveItem(r.Context(), chi.URLParam(r, "book_id"))
	h.metrics.CartMutation("remove", err)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.Clear(r.Context())
	h.metrics.CartMutation("clear", err)
	if err != nil {
		handleError(w, r, h.log, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// GET /api/v1/cart/summary
func (h *CartHandler) Summary(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, h.checkout.Summary())
}

// POST /api/v1/checkout
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.checkout.Complete(r.Context())
	if err != nil {
		h.metrics.Checkout(0, err)
		handleError(w, r, h.log, err)
		return
	}
	h.metrics.Checkout(receipt.Total, nil)
	respondJSON(w, http.StatusCreated, receipt)
}
