package domain

// Book is a catalog entry. The cart keeps a full copy of it on every line,
// the same way the browser storefront stored it.
type Book struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Author        string   `json:"author"`
	Genre         string   `json:"genre"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	Rating        float64  `json:"rating"`
	ReviewCount   int      `json:"reviewCount"`
	Description   string   `json:"description,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
	ISBN          string   `json:"isbn,omitempty"`
	Pages         int      `json:"pages,omitempty"`
	Publisher     string   `json:"publisher,omitempty"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	InStock       int      `json:"inStock"`
	Featured      bool     `json:"featured,omitempty"`
}

type CartItem struct {
	Book     Book `json:"book"`
	Quantity int  `json:"quantity"`
}

// Subtotal is price times quantity for a single line.
func (i CartItem) Subtotal() float64 {
	return i.Book.Price * float64(i.Quantity)
}

type Cart struct {
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	ItemCount int        `json:"itemCount"`
}

// Recalculate derives Total and ItemCount from Items. Nothing else writes
// those two fields.
func (c *Cart) Recalculate() {
	total := 0.0
	count := 0
	for _, item := range c.Items {
		total += item.Subtotal()
		count += item.Quantity
	}
	c.Total = total
	c.ItemCount = count
}

// Clone returns a deep copy so callers can't reach into the store's lines.
func (c Cart) Clone() Cart {
	items := make([]CartItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items, Total: c.Total, ItemCount: c.ItemCount}
}

// Find returns the index of the line for bookID, or -1.
func (c Cart) Find(bookID string) int {
	for i, item := range c.Items {
		if item.Book.ID == bookID {
			return i
		}
	}
	return -1
}

func EmptyCart() Cart {
	return Cart{Items: []CartItem{}}
}
