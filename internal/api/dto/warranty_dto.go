package dto

import (
	"time"

	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/domain"
)

// RegisterWarrantyRequest payload.
type RegisterWarrantyRequest struct {
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name" validate:"required"`
	CustomerName  string    `json:"customer_name" validate:"required"`
	CustomerPhone string    `json:"customer_phone"`
	SerialNumber  string    `json:"serial_number" validate:"required"`
	PurchaseDate  time.Time `json:"purchase_date" validate:"required"`
	ExpiryDate    time.Time `json:"expiry_date" validate:"required"`
}

// FileClaimRequest payload.
type FileClaimRequest struct {
	TicketID     string `json:"ticket_id" validate:"required"`
	SerialNumber string `json:"serial_number" validate:"required"`
	ClaimReason  string `json:"claim_reason" validate:"required"`
	Category     string `json:"category"`
}

// DecideClaimRequest payload.
type DecideClaimRequest struct {
	Status domain.ClaimStatus `json:"status" validate:"required"`
}

// CoverageResponse reports the derived coverage predicate.
type CoverageResponse struct {
	SerialNumber string    `json:"serial_number"`
	At           time.Time `json:"at"`
	Covered      bool      `json:"covered"`
}
