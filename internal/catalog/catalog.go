package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/fjod/bookmood/internal/domain"
)

const AllGenres = "All"

// Sort orders accepted by List.
const (
	SortFeatured  = "featured"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortRating    = "rating"
	SortNewest    = "newest"
)

var ErrBookNotFound = errors.New("book not found")

//go:embed books.json
var seed []byte

// Catalog is a read-only set of books. It never changes after construction
// so it is safe for concurrent use.
type Catalog struct {
	books []domain.Book
	byID  map[string]int
}

type Filter struct {
	Query string
	Genre string
	Sort  string
}

// Default returns the catalog built from the embedded seed.
func Default() (*Catalog, error) {
	return Parse(seed)
}

// Parse builds a catalog from a JSON array of books. Ids must be unique.
func Parse(raw []byte) (*Catalog, error) {
	var books []domain.Book
	if err := json.Unmarshal(raw, &books); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return New(books)
}

func New(books []domain.Book) (*Catalog, error) {
	c := &Catalog{
		books: make([]domain.Book, len(books)),
		byID:  make(map[string]int, len(books)),
	}
	copy(c.books, books)
	for i, b := range c.books {
		if b.ID == "" {
			return nil, fmt.Errorf("book at index %d has no id", i)
		}
		if _, dup := c.byID[b.ID]; dup {
			return nil, fmt.Errorf("duplicate book id %q", b.ID)
		}
		c.byID[b.ID] = i
	}
	return c, nil
}

func (c *Catalog) All() []domain.Book {
	out := make([]domain.Book, len(c.books))
	copy(out, c.books)
	return out
}

func (c *Catalog) Get(id string) (domain.Book, error) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Book{}, fmt.Errorf("%w: %s", ErrBookNotFound, id)
	}
	return c.books[i], nil
}

func (c *Catalog) Featured() []domain.Book {
	var out []domain.Book
	for _, b := range c.books {
		if b.Featured {
			out = append(out, b)
		}
	}
	return out
}

// Genres lists AllGenres followed by each genre in catalog order.
func (c *Catalog) Genres() []string {
	out := []string{AllGenres}
	seen := make(map[string]bool)
	for _, b := range c.books {
		if b.Genre == "" || seen[b.Genre] {
			continue
		}
		seen[b.Genre] = true
		out = append(out, b.Genre)
	}
	return out
}

// List applies the search query, the genre filter and the sort order, in
// that order. Unknown sort values fall back to SortFeatured.
func (c *Catalog) List(f Filter) []domain.Book {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]domain.Book, 0, len(c.books))
	for _, b := range c.books {
		if query != "" && !matches(b, query) {
			continue
		}
		if f.Genre != "" && f.Genre != AllGenres && b.Genre != f.Genre {
			continue
		}
		out = append(out, b)
	}

	sort.SliceStable(out, less(out, f.Sort))
	return out
}

func matches(b domain.Book, query string) bool {
	return strings.Contains(strings.ToLower(b.Title), query) ||
		strings.Contains(strings.ToLower(b.Author), query) ||
		strings.Contains(strings.ToLower(b.Genre), query)
}

func less(books []domain.Book, order string) func(i, j int) bool {
	switch order {
	case SortPriceLow:
		return func(i, j int) bool { return books[i].Price < books[j].Price }
	case SortPriceHigh:
		return func(i, j int) bool { return books[i].Price > books[j].Price }
	case SortRating:
		return func(i, j int) bool { return books[i].Rating > books[j].Rating }
	case SortNewest:
		// ISO dates compare correctly as strings
		return func(i, j int) bool { return books[i].PublishedDate > books[j].PublishedDate }
	default:
		return func(i, j int) bool { return books[i].Featured && !books[j].Featured }
	}
}
