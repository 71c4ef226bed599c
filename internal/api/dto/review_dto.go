package dto

// CreateReviewRequest payload. Rating outside [1,5] is clamped, not
// rejected.
type CreateReviewRequest struct {
	ProductID    *string `json:"product_id"`
	ProductName  *string `json:"product_name"`
	CustomerName string  `json:"customer_name" validate:"required"`
	Rating       int     `json:"rating"`
	Comment      string  `json:"comment"`
}

// ReplyReviewRequest payload.
type ReplyReviewRequest struct {
	Reply string `json:"reply" validate:"required"`
}
