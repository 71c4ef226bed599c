package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/domain"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/storage"
	apperrors "github.com/adninrahman19-debug/SeuramoeTechV3-sub002/pkg/util"
)

// StatsCache caches derived satisfaction aggregates per store. A nil cache
// or any cache failure degrades to recomputation.
type StatsCache interface {
	GetStats(ctx context.Context, storeID string) (*domain.SatisfactionStats, bool)
	SetStats(ctx context.Context, storeID string, stats domain.SatisfactionStats)
	InvalidateStats(ctx context.Context, storeID string)
}

// ReviewService owns public reviews and their derived satisfaction
// statistics. Reviews share the moderable-record pattern: a visibility
// toggle instead of deletion.
type ReviewService struct {
	reviews storage.Collection[domain.Review]
	cache   StatsCache
	locks   *keyedMutex
	now     func() time.Time
}

// ReviewDependencies bundles collaborators for the review service.
type ReviewDependencies struct {
	Store storage.EntityStore
	Cache StatsCache
	Clock func() time.Time
}

// ReviewCreateInput describes review intake payload.
type ReviewCreateInput struct {
	ProductID    *string
	ProductName  *string
	CustomerName string
	Rating       int
	Comment      string
}

// NewReviewService constructs the service.
func NewReviewService(deps ReviewDependencies) *ReviewService {
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &ReviewService{
		reviews: storage.NewCollection[domain.Review](deps.Store, storage.CollectionReviews),
		cache:   deps.Cache,
		locks:   newKeyedMutex(),
		now:     now,
	}
}

// CreateReview records a new review. The rating is strictly clamped to
// [1,5] rather than rejected.
func (s *ReviewService) CreateReview(ctx context.Context, storeID string, input ReviewCreateInput) (*domain.Review, error) {
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, apperrors.NewValidationError("customer_name is required", nil)
	}

	review := &domain.Review{
		ID:           uuid.NewString(),
		StoreID:      storeID,
		ProductID:    input.ProductID,
		ProductName:  input.ProductName,
		CustomerName: strings.TrimSpace(input.CustomerName),
		Rating:       domain.ClampRating(input.Rating),
		Comment:      strings.TrimSpace(input.Comment),
		Status:       domain.ReviewStatusActive,
		CreatedAt:    s.now(),
	}
	if err := s.reviews.Put(ctx, review.ID, review); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.invalidate(ctx, storeID)
	return review, nil
}

// ListReviews returns the store's reviews, newest first. Hidden reviews are
// included; visibility filtering is the caller's concern.
func (s *ReviewService) ListReviews(ctx context.Context, storeID string) ([]domain.Review, error) {
	all, err := s.reviews.All(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	out := make([]domain.Review, 0, len(all))
	for _, review := range all {
		if review.StoreID == storeID {
			out = append(out, review)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ToggleVisibility flips a review between active and hidden. Applying it
// twice returns the review to its original state.
func (s *ReviewService) ToggleVisibility(ctx context.Context, storeID, id string) (*domain.Review, error) {
	unlock := s.locks.Lock(id)
	defer unlock()

	review, err := s.load(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if review.Status == domain.ReviewStatusActive {
		review.Status = domain.ReviewStatusHidden
	} else {
		review.Status = domain.ReviewStatusActive
	}
	if err := s.reviews.Put(ctx, review.ID, review); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.invalidate(ctx, storeID)
	return review, nil
}

// Reply sets the single authoritative store reply, overwriting any
// previous one.
func (s *ReviewService) Reply(ctx context.Context, storeID, id, text string) (*domain.Review, error) {
	reply := strings.TrimSpace(text)
	if reply == "" {
		return nil, apperrors.NewValidationError("reply text is required", nil)
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	review, err := s.load(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	review.Reply = &reply
	if err := s.reviews.Put(ctx, review.ID, review); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.invalidate(ctx, storeID)
	return review, nil
}

// ComputeSatisfactionStats aggregates the store's active reviews: mean
// rating rounded to one decimal and a five-bucket histogram ordered 5-star
// first. Zero active reviews yield the neutral zero result; no division
// by zero.
func (s *ReviewService) ComputeSatisfactionStats(ctx context.Context, storeID string) (domain.SatisfactionStats, error) {
	if s.cache != nil {
		if cached, ok := s.cache.GetStats(ctx, storeID); ok {
			return *cached, nil
		}
	}

	all, err := s.reviews.All(ctx)
	if err != nil {
		return domain.SatisfactionStats{}, apperrors.MapError(err)
	}

	var stats domain.SatisfactionStats
	sum := 0
	for _, review := range all {
		if review.StoreID != storeID || review.Status != domain.ReviewStatusActive {
			continue
		}
		stats.Total++
		sum += review.Rating
		stats.Distribution[5-review.Rating]++
	}
	if stats.Total > 0 {
		stats.Average = math.Round(float64(sum)/float64(stats.Total)*10) / 10
	}

	if s.cache != nil {
		s.cache.SetStats(ctx, storeID, stats)
	}
	return stats, nil
}

func (s *ReviewService) load(ctx context.Context, storeID, id string) (*domain.Review, error) {
	review, err := s.reviews.Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.NewNotFound("review", map[string]any{"review_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	if review.StoreID != storeID {
		return nil, apperrors.NewNotFound("review", map[string]any{"review_id": id})
	}
	return review, nil
}

func (s *ReviewService) invalidate(ctx context.Context, storeID string) {
	if s.cache != nil {
		s.cache.InvalidateStats(ctx, storeID)
	}
}
