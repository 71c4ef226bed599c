package domain

import "time"

// ReviewStatus toggles public visibility. Hidden reviews are retained but
// excluded from aggregates (soft delete).
type ReviewStatus string

const (
	ReviewStatusActive ReviewStatus = "active"
	ReviewStatusHidden ReviewStatus = "hidden"
)

// Review is a public-facing satisfaction signal.
type Review struct {
	ID           string       `json:"id"`
	StoreID      string       `json:"store_id"`
	ProductID    *string      `json:"product_id,omitempty"`
	ProductName  *string      `json:"product_name,omitempty"`
	CustomerName string       `json:"customer_name"`
	Rating       int          `json:"rating"`
	Comment      string       `json:"comment"`
	Reply        *string      `json:"reply,omitempty"`
	Status       ReviewStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
}

// ClampRating forces a rating into the [1,5] range.
func ClampRating(rating int) int {
	if rating < 1 {
		return 1
	}
	if rating > 5 {
		return 5
	}
	return rating
}

// SatisfactionStats is the derived aggregate over a store's active reviews.
// Distribution buckets are ordered descending by star count (5-star first).
type SatisfactionStats struct {
	Average      float64 `json:"average"`
	Total        int     `json:"total"`
	Distribution [5]int  `json:"distribution"`
}
