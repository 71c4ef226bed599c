package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/domain"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/events"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/storage"
	apperrors "github.com/adninrahman19-debug/SeuramoeTechV3-sub002/pkg/util"
)

// claimLookback bounds how far back prior claims count toward the abuse
// risk score.
const claimLookback = 180 * 24 * time.Hour

// WarrantyService owns warranty registrations and claims, including the
// advisory abuse-risk scoring on claim intake.
type WarrantyService struct {
	registrations storage.Collection[domain.WarrantyRegistration]
	claims        storage.Collection[domain.WarrantyClaim]
	tickets       storage.Collection[domain.SupportTicket]
	changeLog     storage.Collection[domain.ChangeLogEntry]
	dispatcher    events.Dispatcher
	locks         *keyedMutex
	now           func() time.Time
}

// WarrantyDependencies bundles collaborators for the warranty service.
type WarrantyDependencies struct {
	Store      storage.EntityStore
	Dispatcher events.Dispatcher
	Clock      func() time.Time
}

// WarrantyRegisterInput describes registration payload.
type WarrantyRegisterInput struct {
	ProductID     string
	ProductName   string
	CustomerName  string
	CustomerPhone string
	SerialNumber  string
	PurchaseDate  time.Time
	ExpiryDate    time.Time
}

// ClaimFileInput describes claim intake payload.
type ClaimFileInput struct {
	TicketID     string
	SerialNumber string
	ClaimReason  string
	Category     string
}

// NewWarrantyService constructs the service.
func NewWarrantyService(deps WarrantyDependencies) *WarrantyService {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &WarrantyService{
		registrations: storage.NewCollection[domain.WarrantyRegistration](deps.Store, storage.CollectionRegistrations),
		claims:        storage.NewCollection[domain.WarrantyClaim](deps.Store, storage.CollectionClaims),
		tickets:       storage.NewCollection[domain.SupportTicket](deps.Store, storage.CollectionTickets),
		changeLog:     storage.NewCollection[domain.ChangeLogEntry](deps.Store, storage.CollectionChangeLog),
		dispatcher:    deps.Dispatcher,
		locks:         newKeyedMutex(),
		now:           now,
	}
}

// RegisterWarranty creates a coverage record. The serial number must be
// unique within the store; a duplicate is a conflict, never an overwrite.
func (s *WarrantyService) RegisterWarranty(ctx context.Context, storeID string, input WarrantyRegisterInput) (*domain.WarrantyRegistration, error) {
	serial := strings.TrimSpace(input.SerialNumber)
	if serial == "" || strings.TrimSpace(input.CustomerName) == "" {
		return nil, apperrors.NewValidationError("serial_number and customer_name are required", nil)
	}
	if !input.ExpiryDate.After(input.PurchaseDate) {
		return nil, apperrors.NewValidationError("expiry_date must be after purchase_date", map[string]any{
			"purchase_date": input.PurchaseDate,
			"expiry_date":   input.ExpiryDate,
		})
	}

	unlock := s.locks.Lock(storeID + "/" + serial)
	defer unlock()

	existing, err := s.findRegistration(ctx, storeID, serial)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.NewConflict("serial number already registered", map[string]any{
			"serial_number": serial,
		})
	}

	registration := &domain.WarrantyRegistration{
		ID:            uuid.NewString(),
		StoreID:       storeID,
		ProductID:     strings.TrimSpace(input.ProductID),
		ProductName:   strings.TrimSpace(input.ProductName),
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerPhone: strings.TrimSpace(input.CustomerPhone),
		SerialNumber:  serial,
		PurchaseDate:  input.PurchaseDate,
		ExpiryDate:    input.ExpiryDate,
		IsActive:      true,
		CreatedAt:     s.now(),
	}
	if err := s.registrations.Put(ctx, registration.ID, registration); err != nil {
		return nil, apperrors.MapError(err)
	}
	return registration, nil
}

// RevokeRegistration flips the IsActive kill-switch. Registrations are
// otherwise immutable after creation.
func (s *WarrantyService) RevokeRegistration(ctx context.Context, storeID, id string) (*domain.WarrantyRegistration, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	registration, err := s.registrations.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.NewNotFound("warranty registration", map[string]any{"registration_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if registration.StoreID != storeID {
		return nil, apperrors.NewNotFound("warranty registration", map[string]any{"registration_id": id})
	}
	registration.IsActive = false
	if err := s.registrations.Put(ctx, registration.ID, registration); err != nil {
		return nil, apperrors.MapError(err)
	}
	return registration, nil
}

// ListRegistrations returns the store's registrations, newest first.
func (s *WarrantyService) ListRegistrations(ctx context.Context, storeID string) ([]domain.WarrantyRegistration, error) {
	all, err := s.registrations.All(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	out := make([]domain.WarrantyRegistration, 0, len(all))
	for _, registration := range all {
		if registration.StoreID == storeID {
			out = append(out, registration)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// IsCovered reports whether an active registration for the serial covers
// the given instant. Pure read; validity is never a stored flag.
func (s *WarrantyService) IsCovered(ctx context.Context, storeID, serialNumber string, at time.Time) (bool, error) {
	registration, err := s.findRegistration(ctx, storeID, strings.TrimSpace(serialNumber))
	if err != nil {
		return false, err
	}
	if registration == nil {
		return false, nil
	}
	return registration.CoversAt(at), nil
}

// FileClaim opens a dispute against a registration. Coverage must hold at
// filing time. The abuse-risk score is advisory only: it is surfaced to a
// human reviewer and never auto-approves or auto-rejects.
func (s *WarrantyService) FileClaim(ctx context.Context, storeID string, input ClaimFileInput) (*domain.WarrantyClaim, error) {
	serial := strings.TrimSpace(input.SerialNumber)
	if serial == "" || strings.TrimSpace(input.ClaimReason) == "" {
		return nil, apperrors.NewValidationError("serial_number and claim_reason are required", nil)
	}

	now := s.now()
	registration, err := s.findRegistration(ctx, storeID, serial)
	if err != nil {
		return nil, err
	}
	if registration == nil || !registration.CoversAt(now) {
		return nil, apperrors.NewValidationError("serial number is not covered at filing time", map[string]any{
			"serial_number": serial,
		})
	}

	ticket, err := s.tickets.Get(ctx, input.TicketID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": input.TicketID})
		}
		return nil, apperrors.MapError(err)
	}
	if ticket.StoreID != storeID {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": input.TicketID})
	}
	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = ticket.IssueCategory
	}

	prior, err := s.priorClaims(ctx, storeID, serial)
	if err != nil {
		return nil, err
	}

	claim := &domain.WarrantyClaim{
		ID:             uuid.NewString(),
		StoreID:        storeID,
		TicketID:       ticket.ID,
		CustomerName:   ticket.CustomerName,
		SerialNumber:   serial,
		ClaimReason:    strings.TrimSpace(input.ClaimReason),
		Category:       category,
		Status:         domain.ClaimStatusPending,
		AbuseRiskScore: scoreClaimRisk(prior, category, now),
		CreatedAt:      now,
	}
	if err := s.claims.Put(ctx, claim.ID, claim); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:    events.EventWarrantyClaimFiled,
		StoreID: storeID,
		Payload: events.WarrantyClaimFiledPayload{
			ClaimID:   claim.ID,
			TicketID:  claim.TicketID,
			RiskScore: claim.AbuseRiskScore,
		},
	})
	return claim, nil
}

// DecideClaim records the human decision. The decision is terminal: once a
// claim leaves PENDING it never transitions again.
func (s *WarrantyService) DecideClaim(ctx context.Context, storeID, actor, id string, status domain.ClaimStatus) (*domain.WarrantyClaim, error) {
	if status != domain.ClaimStatusApproved && status != domain.ClaimStatusRejected {
		return nil, apperrors.NewValidationError("decision must be APPROVED or REJECTED", map[string]any{"status": status})
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	claim, err := s.claims.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.NewNotFound("warranty claim", map[string]any{"claim_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if claim.StoreID != storeID {
		return nil, apperrors.NewNotFound("warranty claim", map[string]any{"claim_id": id})
	}
	if claim.Decided() {
		return nil, apperrors.NewInvalidTransition(string(claim.Status), string(status))
	}

	oldStatus := claim.Status
	claim.Status = status
	if err := s.claims.Put(ctx, claim.ID, claim); err != nil {
		return nil, apperrors.MapError(err)
	}

	entry := &domain.ChangeLogEntry{
		ID:         uuid.NewString(),
		EntityKind: domain.ChangeEntityClaim,
		EntityID:   claim.ID,
		StoreID:    storeID,
		Actor:      actor,
		OldValue:   map[string]any{"status": oldStatus},
		NewValue:   map[string]any{"status": claim.Status},
		CreatedAt:  s.now(),
	}
	_ = s.changeLog.Put(ctx, entry.ID, entry)
	return claim, nil
}

// ListClaims returns the store's claims, newest first.
func (s *WarrantyService) ListClaims(ctx context.Context, storeID string) ([]domain.WarrantyClaim, error) {
	all, err := s.claims.All(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	out := make([]domain.WarrantyClaim, 0, len(all))
	for _, claim := range all {
		if claim.StoreID == storeID {
			out = append(out, claim)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *WarrantyService) findRegistration(ctx context.Context, storeID, serial string) (*domain.WarrantyRegistration, error) {
	all, err := s.registrations.All(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	for i := range all {
		if all[i].StoreID == storeID && strings.EqualFold(all[i].SerialNumber, serial) {
			return &all[i], nil
		}
	}
	return nil, nil
}

func (s *WarrantyService) priorClaims(ctx context.Context, storeID, serial string) ([]domain.WarrantyClaim, error) {
	all, err := s.claims.All(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	var out []domain.WarrantyClaim
	for _, claim := range all {
		if claim.StoreID == storeID && strings.EqualFold(claim.SerialNumber, serial) {
			out = append(out, claim)
		}
	}
	return out, nil
}

// scoreClaimRisk estimates how likely a claim is fraudulent or repeated.
// Weights: 25 points per prior claim on the serial within the lookback
// window (capped at 50), recency of the latest prior claim (30 points
// inside 30 days, 15 inside 90), and 20 points when the issue category
// matches a prior claim. Clamped to [0,100].
func scoreClaimRisk(prior []domain.WarrantyClaim, category string, now time.Time) int {
	score := 0
	recent := 0
	var latest time.Time
	categoryMatch := false

	for _, claim := range prior {
		if now.Sub(claim.CreatedAt) > claimLookback {
			continue
		}
		recent++
		if claim.CreatedAt.After(latest) {
			latest = claim.CreatedAt
		}
		if category != "" && strings.EqualFold(claim.Category, category) {
			categoryMatch = true
		}
	}

	frequency := recent * 25
	if frequency > 50 {
		frequency = 50
	}
	score += frequency

	if recent > 0 {
		switch age := now.Sub(latest); {
		case age <= 30*24*time.Hour:
			score += 30
		case age <= 90*24*time.Hour:
			score += 15
		}
	}
	if categoryMatch {
		score += 20
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

func (s *WarrantyService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
