package domain

import "time"

// WarrantyRegistration binds a coverage window to a serial number. Records
// are immutable after creation except for the IsActive kill-switch.
type WarrantyRegistration struct {
	ID            string    `json:"id"`
	StoreID       string    `json:"store_id"`
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone"`
	SerialNumber  string    `json:"serial_number"`
	PurchaseDate  time.Time `json:"purchase_date"`
	ExpiryDate    time.Time `json:"expiry_date"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

// CoversAt reports whether the registration covers the given instant.
// Validity is a pure function of the coverage window ANDed with the
// IsActive kill-switch; no stored flag duplicates the window check.
func (w *WarrantyRegistration) CoversAt(at time.Time) bool {
	return w.IsActive && !at.Before(w.PurchaseDate) && !at.After(w.ExpiryDate)
}

// ClaimStatus enumerates warranty claim decisions.
type ClaimStatus string

const (
	ClaimStatusPending  ClaimStatus = "PENDING"
	ClaimStatusApproved ClaimStatus = "APPROVED"
	ClaimStatusRejected ClaimStatus = "REJECTED"
)

// WarrantyClaim is a dispute filed against a registration. The ticket link
// is a logical reference resolved at read time, not an enforced constraint.
type WarrantyClaim struct {
	ID             string      `json:"id"`
	StoreID        string      `json:"store_id"`
	TicketID       string      `json:"ticket_id"`
	CustomerName   string      `json:"customer_name"`
	SerialNumber   string      `json:"serial_number"`
	ClaimReason    string      `json:"claim_reason"`
	Category       string      `json:"category"`
	Status         ClaimStatus `json:"status"`
	AbuseRiskScore int         `json:"abuse_risk_score"`
	CreatedAt      time.Time   `json:"created_at"`
}

// Decided reports whether the claim has reached its terminal decision.
func (c *WarrantyClaim) Decided() bool {
	return c.Status == ClaimStatusApproved || c.Status == ClaimStatusRejected
}
