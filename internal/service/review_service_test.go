package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/domain"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/storage"
	apperrors "github.com/adninrahman19-debug/SeuramoeTechV3-sub002/pkg/util"
)

type fakeStatsCache struct {
	stats       map[string]domain.SatisfactionStats
	invalidated int
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{stats: make(map[string]domain.SatisfactionStats)}
}

func (c *fakeStatsCache) GetStats(_ context.Context, storeID string) (*domain.SatisfactionStats, bool) {
	stats, ok := c.stats[storeID]
	if !ok {
		return nil, false
	}
	return &stats, true
}

func (c *fakeStatsCache) SetStats(_ context.Context, storeID string, stats domain.SatisfactionStats) {
	c.stats[storeID] = stats
}

func (c *fakeStatsCache) InvalidateStats(_ context.Context, storeID string) {
	delete(c.stats, storeID)
	c.invalidated++
}

func newReviewFixture(clock func() time.Time) (*ReviewService, *fakeStatsCache) {
	cache := newFakeStatsCache()
	svc := NewReviewService(ReviewDependencies{
		Store: storage.NewMemoryStore(),
		Cache: cache,
		Clock: clock,
	})
	return svc, cache
}

func addReview(t *testing.T, svc *ReviewService, rating int) *domain.Review {
	t.Helper()
	review, err := svc.CreateReview(context.Background(), "store-1", ReviewCreateInput{
		CustomerName: "Ani",
		Rating:       rating,
		Comment:      "ok",
	})
	require.NoError(t, err)
	return review
}

func TestCreateReviewClampsRating(t *testing.T) {
	svc, _ := newReviewFixture(fixedClock(baseTime))

	require.Equal(t, 5, addReview(t, svc, 9).Rating)
	require.Equal(t, 1, addReview(t, svc, 0).Rating)
	require.Equal(t, 3, addReview(t, svc, 3).Rating)
}

func TestSatisfactionStatsZeroState(t *testing.T) {
	svc, _ := newReviewFixture(fixedClock(baseTime))

	stats, err := svc.ComputeSatisfactionStats(context.Background(), "store-1")
	require.NoError(t, err)
	require.Equal(t, domain.SatisfactionStats{}, stats)
}

func TestSatisfactionStatsAggregation(t *testing.T) {
	svc, _ := newReviewFixture(fixedClock(baseTime))
	ctx := context.Background()

	for _, rating := range []int{5, 5, 4, 1} {
		addReview(t, svc, rating)
	}

	stats, err := svc.ComputeSatisfactionStats(ctx, "store-1")
	require.NoError(t, err)
	require.Equal(t, 4, stats.Total)
	require.Equal(t, 3.8, stats.Average)
	require.Equal(t, [5]int{2, 1, 0, 0, 1}, stats.Distribution)
}

func TestHiddenReviewsExcludedFromStats(t *testing.T) {
	svc, cache := newReviewFixture(fixedClock(baseTime))
	ctx := context.Background()

	kept := addReview(t, svc, 5)
	hidden := addReview(t, svc, 1)

	toggled, err := svc.ToggleVisibility(ctx, "store-1", hidden.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ReviewStatusHidden, toggled.Status)

	stats, err := svc.ComputeSatisfactionStats(ctx, "store-1")
	require.NoError(t, err)
	require.Equal(t, 1, stats.Total)
	require.Equal(t, 5.0, stats.Average)

	// A second toggle restores the review, and the mutation invalidates
	// the cached aggregate.
	restored, err := svc.ToggleVisibility(ctx, "store-1", hidden.ID)
	require.NoError(t, err)
	require.Equal(t, domain.ReviewStatusActive, restored.Status)

	stats, err = svc.ComputeSatisfactionStats(ctx, "store-1")
	require.NoError(t, err)
	require.Equal(t, 2, stats.Total)
	require.Equal(t, 3.0, stats.Average)

	require.Greater(t, cache.invalidated, 0)
	_ = kept
}

func TestStatsServedFromCache(t *testing.T) {
	svc, cache := newReviewFixture(fixedClock(baseTime))
	ctx := context.Background()

	addReview(t, svc, 4)

	first, err := svc.ComputeSatisfactionStats(ctx, "store-1")
	require.NoError(t, err)

	// Poison the cache to prove the second read does not recompute.
	cache.stats["store-1"] = domain.SatisfactionStats{Average: 1.1, Total: 99}
	second, err := svc.ComputeSatisfactionStats(ctx, "store-1")
	require.NoError(t, err)
	require.Equal(t, 99, second.Total)
	require.NotEqual(t, first.Total, second.Total)
}

func TestReplyOverwrites(t *testing.T) {
	svc, _ := newReviewFixture(fixedClock(baseTime))
	ctx := context.Background()
	review := addReview(t, svc, 4)

	_, err := svc.Reply(ctx, "store-1", review.ID, " ")
	require.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	replied, err := svc.Reply(ctx, "store-1", review.ID, "thanks!")
	require.NoError(t, err)
	require.Equal(t, "thanks!", *replied.Reply)

	replied, err = svc.Reply(ctx, "store-1", review.ID, "updated reply")
	require.NoError(t, err)
	require.Equal(t, "updated reply", *replied.Reply)
}

func TestReviewScopedToStore(t *testing.T) {
	svc, _ := newReviewFixture(fixedClock(baseTime))
	review := addReview(t, svc, 4)

	_, err := svc.ToggleVisibility(context.Background(), "store-2", review.ID)
	require.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}
