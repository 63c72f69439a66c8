package catalog

import (
	"testing"

	"github.com/fjod/bookmood/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(books []domain.Book) []string {
	out := make([]string, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := New([]domain.Book{
		{ID: "a", Title: "Alpha", Author: "Ann", Genre: "Fiction", Price: 12, Rating: 4.1, PublishedDate: "2019-01-01"},
		{ID: "b", Title: "Beta", Author: "Bob", Genre: "Poetry", Price: 8, Rating: 4.9, PublishedDate: "2022-06-01", Featured: true},
		{ID: "c", Title: "Gamma", Author: "Cy", Genre: "Fiction", Price: 20, Rating: 3.5, PublishedDate: "2021-03-15"},
		{ID: "d", Title: "Delta Poems", Author: "Dee", Genre: "Poetry", Price: 8, Rating: 4.1, PublishedDate: "2010-11-30", Featured: true},
	})
	require.NoError(t, err)
	return c
}

func TestDefault_Seed(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.NotEmpty(t, c.All())
	assert.NotEmpty(t, c.Featured())
	for _, b := range c.All() {
		assert.NotEmpty(t, b.Title, "book %s", b.ID)
		assert.Greater(t, b.Price, 0.0, "book %s", b.ID)
		assert.GreaterOrEqual(t, b.InStock, 0, "book %s", b.ID)
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New([]domain.Book{{ID: "x"}, {ID: "x"}})
	assert.ErrorContains(t, err, "duplicate")

	_, err = New([]domain.Book{{Title: "nameless"}})
	assert.ErrorContains(t, err, "no id")

	_, err = Parse([]byte("not json"))
	assert.Error(t, err)
}

func TestGet(t *testing.T) {
	c := testCatalog(t)

	b, err := c.Get("c")
	require.NoError(t, err)
	assert.Equal(t, "Gamma", b.Title)

	_, err = c.Get("zzz")
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestAll_ReturnsCopy(t *testing.T) {
	c := testCatalog(t)
	books := c.All()
	books[0].Price = 999

	b, err := c.Get("a")
	require.NoError(t, err)
	assert.Equal(t, 12.0, b.Price)
}

func TestFeaturedAndGenres(t *testing.T) {
	c := testCatalog(t)

	assert.Equal(t, []string{"b", "d"}, ids(c.Featured()))
	assert.Equal(t, []string{"All", "Fiction", "Poetry"}, c.Genres())
}

func TestList(t *testing.T) {
	c := testCatalog(t)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "default is featured first, stable", filter: Filter{}, want: []string{"b", "d", "a", "c"}},
		{name: "unknown sort falls back", filter: Filter{Sort: "bogus"}, want: []string{"b", "d", "a", "c"}},
		{name: "price low is stable on ties", filter: Filter{Sort: SortPriceLow}, want: []string{"b", "d", "a", "c"}},
		{name: "price high", filter: Filter{Sort: SortPriceHigh}, want: []string{"c", "a", "b", "d"}},
		{name: "rating", filter: Filter{Sort: SortRating}, want: []string{"b", "a", "d", "c"}},
		{name: "newest", filter: Filter{Sort: SortNewest}, want: []string{"b", "c", "a", "d"}},
		{name: "genre", filter: Filter{Genre: "Fiction"}, want: []string{"a", "c"}},
		{name: "genre all", filter: Filter{Genre: AllGenres, Sort: SortPriceHigh}, want: []string{"c", "a", "b", "d"}},
		{name: "query title case insensitive", filter: Filter{Query: "  gAMma "}, want: []string{"c"}},
		{name: "query author", filter: Filter{Query: "bob"}, want: []string{"b"}},
		{name: "query genre", filter: Filter{Query: "poe", Sort: SortNewest}, want: []string{"b", "d"}},
		{name: "query and genre", filter: Filter{Query: "a", Genre: "Poetry"}, want: []string{"b", "d"}},
		{name: "no match", filter: Filter{Query: "nothing like this"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(c.List(tt.filter)))
		})
	}
}
