package stats

import (
	"context"

	"github.com/example/anihub/internal/store"
)

// AnimeRatings is the slice of the anime store the rating aggregator needs.
type AnimeRatings interface {
	RatingSnapshot(ctx context.Context, animeID string) (store.RatingSnapshot, error)
	StoreRating(ctx context.Context, animeID string, average float64, quantity int) error
}

// RatingAggregator maintains averageRating and ratingsQuantity on an anime
// record as reviews are created, edited and removed. The average is
// re-derived from a running sum (average * quantity) on every operation
// rather than stored as a sum.
type RatingAggregator struct {
	Animes AnimeRatings
}

func NewRatingAggregator(animes AnimeRatings) *RatingAggregator {
	return &RatingAggregator{Animes: animes}
}

// OnReviewCreated folds a new rating into the anime's average. The caller
// must have validated that the anime exists before writing the review;
// store.ErrNotFound here means that sequencing was violated.
func (a *RatingAggregator) OnReviewCreated(ctx context.Context, animeID string, rating float64) error {
	snap, err := a.Animes.RatingSnapshot(ctx, animeID)
	if err != nil {
		return err
	}
	total := snap.AverageRating*float64(snap.RatingsQuantity) + rating
	quantity := snap.RatingsQuantity + 1
	return a.Animes.StoreRating(ctx, animeID, total/float64(quantity), quantity)
}

// OnReviewRatingChanged replaces oldRating with newRating in the average.
// The old rating is a single-use value the caller captured from a fresh read
// of the review before mutating it; it is never persisted anywhere.
func (a *RatingAggregator) OnReviewRatingChanged(ctx context.Context, animeID string, oldRating, newRating float64) error {
	if oldRating == newRating {
		return nil
	}
	snap, err := a.Animes.RatingSnapshot(ctx, animeID)
	if err != nil {
		return err
	}
	total := snap.AverageRating*float64(snap.RatingsQuantity) - oldRating + newRating
	return a.Animes.StoreRating(ctx, animeID, total/float64(snap.RatingsQuantity), snap.RatingsQuantity)
}

// OnReviewDeleted removes a rating from the average. When the last review
// goes, the average resets to zero. The reset applies only at exactly zero:
// a quantity driven negative by a double delete is stored as-is so the
// caller defect stays visible instead of being absorbed.
func (a *RatingAggregator) OnReviewDeleted(ctx context.Context, animeID string, rating float64) error {
	snap, err := a.Animes.RatingSnapshot(ctx, animeID)
	if err != nil {
		return err
	}
	quantity := snap.RatingsQuantity - 1
	if quantity == 0 {
		return a.Animes.StoreRating(ctx, animeID, 0, 0)
	}
	total := snap.AverageRating*float64(snap.RatingsQuantity) - rating
	return a.Animes.StoreRating(ctx, animeID, total/float64(quantity), quantity)
}
