package domain

import "time"

// Receipt is what a completed (simulated) checkout hands back.
type Receipt struct {
	ID          string     `json:"id"`
	Items       []CartItem `json:"items"`
	ItemCount   int        `json:"itemCount"`
	Subtotal    float64    `json:"subtotal"`
	Tax         float64    `json:"tax"`
	Shipping    float64    `json:"shipping"`
	Total       float64    `json:"total"`
	CompletedAt time.Time  `json:"completedAt"`
}

// OrderSummary is the price breakdown shown before checkout.
type OrderSummary struct {
	ItemCount int     `json:"itemCount"`
	Subtotal  float64 `json:"subtotal"`
	Tax       float64 `json:"tax"`
	Shipping  float64 `json:"shipping"`
	Total     float64 `json:"total"`
}
