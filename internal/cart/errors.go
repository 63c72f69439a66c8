package cart

import "errors"

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidBook     = errors.New("book id must not be empty")
	ErrEmptyCart       = errors.New("cart is empty")
)
