package stats

import (
	"context"
	"math"
	"testing"

	"github.com/example/anihub/internal/store"
)

const ratingEpsilon = 1e-9

func newRatedAnime(t *testing.T) (*store.InMemoryAnimeStore, *RatingAggregator, string) {
	t.Helper()
	animes := store.NewInMemoryAnimeStore()
	created, err := animes.Create(context.Background(), store.Anime{TitleEnglish: "Cowboy Bebop"})
	if err != nil {
		t.Fatalf("create anime: %v", err)
	}
	return animes, NewRatingAggregator(animes), created.ID
}

func snapshot(t *testing.T, animes *store.InMemoryAnimeStore, id string) store.RatingSnapshot {
	t.Helper()
	snap, err := animes.RatingSnapshot(context.Background(), id)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	return snap
}

func wantAverage(t *testing.T, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > ratingEpsilon {
		t.Fatalf("expected average %v, got %v", want, got)
	}
}

func TestRating_FirstReview(t *testing.T) {
	animes, agg, animeID := newRatedAnime(t)

	if err := agg.OnReviewCreated(context.Background(), animeID, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := snapshot(t, animes, animeID)
	wantAverage(t, snap.AverageRating, 4)
	if snap.RatingsQuantity != 1 {
		t.Fatalf("expected quantity 1, got %d", snap.RatingsQuantity)
	}
}

func TestRating_SequenceMatchesArithmeticMean(t *testing.T) {
	animes, agg, animeID := newRatedAnime(t)

	ratings := []float64{3.5, 4.75, 1.5, 5, 3.25, 4, 0.5}
	sum := 0.0
	for _, r := range ratings {
		if err := agg.OnReviewCreated(context.Background(), animeID, r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		sum += r
	}

	snap := snapshot(t, animes, animeID)
	wantAverage(t, snap.AverageRating, sum/float64(len(ratings)))
	if snap.RatingsQuantity != len(ratings) {
		t.Fatalf("expected quantity %d, got %d", len(ratings), snap.RatingsQuantity)
	}
}

func TestRating_EditReplacesOldValue(t *testing.T) {
	animes, agg, animeID := newRatedAnime(t)

	for _, r := range []float64{2, 3} {
		if err := agg.OnReviewCreated(context.Background(), animeID, r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	// 2 -> 4.5: mean of {4.5, 3}
	if err := agg.OnReviewRatingChanged(context.Background(), animeID, 2, 4.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := snapshot(t, animes, animeID)
	wantAverage(t, snap.AverageRating, 3.75)
	if snap.RatingsQuantity != 2 {
		t.Fatalf("expected quantity unchanged at 2, got %d", snap.RatingsQuantity)
	}
}

func TestRating_EditSameValueIsNoop(t *testing.T) {
	animes, agg, animeID := newRatedAnime(t)

	if err := agg.OnReviewCreated(context.Background(), animeID, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := agg.OnReviewRatingChanged(context.Background(), animeID, 5, 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := snapshot(t, animes, animeID)
	wantAverage(t, snap.AverageRating, 5)
	if snap.RatingsQuantity != 1 {
		t.Fatalf("expected quantity 1, got %d", snap.RatingsQuantity)
	}
}

func TestRating_DeleteRemovesValue(t *testing.T) {
	animes, agg, animeID := newRatedAnime(t)

	for _, r := range []float64{1, 4, 2.5} {
		if err := agg.OnReviewCreated(context.Background(), animeID, r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := agg.OnReviewDeleted(context.Background(), animeID, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := snapshot(t, animes, animeID)
	wantAverage(t, snap.AverageRating, 3.25)
	if snap.RatingsQuantity != 2 {
		t.Fatalf("expected quantity 2, got %d", snap.RatingsQuantity)
	}
}

func TestRating_LastDeleteResetsToZero(t *testing.T) {
	animes, agg, animeID := newRatedAnime(t)

	if err := agg.OnReviewCreated(context.Background(), animeID, 4.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := agg.OnReviewDeleted(context.Background(), animeID, 4.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := snapshot(t, animes, animeID)
	if snap.AverageRating != 0 || snap.RatingsQuantity != 0 {
		t.Fatalf("expected (0, 0) after last delete, got (%v, %d)", snap.AverageRating, snap.RatingsQuantity)
	}
}

func TestRating_DoubleDeleteSurfacesUnderflow(t *testing.T) {
	animes, agg, animeID := newRatedAnime(t)
	ctx := context.Background()

	if err := agg.OnReviewCreated(ctx, animeID, 4.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := agg.OnReviewDeleted(ctx, animeID, 4.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := agg.OnReviewDeleted(ctx, animeID, 4.5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// the second delete is a caller defect; the quantity must go negative
	// rather than being silently reset to a clean zero state
	snap := snapshot(t, animes, animeID)
	if snap.RatingsQuantity != -1 {
		t.Fatalf("expected quantity -1 after a double delete, got %d", snap.RatingsQuantity)
	}
}

func TestRating_DriftStaysBoundedUnderChurn(t *testing.T) {
	animes, agg, animeID := newRatedAnime(t)
	ctx := context.Background()

	// Interleave creates, edits and deletes and compare against a directly
	// maintained multiset of live ratings.
	live := []float64{}
	add := func(r float64) {
		if err := agg.OnReviewCreated(ctx, animeID, r); err != nil {
			t.Fatalf("create: %v", err)
		}
		live = append(live, r)
	}
	edit := func(i int, r float64) {
		if err := agg.OnReviewRatingChanged(ctx, animeID, live[i], r); err != nil {
			t.Fatalf("edit: %v", err)
		}
		live[i] = r
	}
	remove := func(i int) {
		if err := agg.OnReviewDeleted(ctx, animeID, live[i]); err != nil {
			t.Fatalf("delete: %v", err)
		}
		live = append(live[:i], live[i+1:]...)
	}

	for i := 0; i < 50; i++ {
		add(float64(i%10)/2 + 0.25)
	}
	for i := 0; i < 25; i++ {
		edit(i, float64((i*7)%10)/2 + 0.1)
	}
	for i := 0; i < 20; i++ {
		remove(0)
	}

	sum := 0.0
	for _, r := range live {
		sum += r
	}

	snap := snapshot(t, animes, animeID)
	wantAverage(t, snap.AverageRating, sum/float64(len(live)))
	if snap.RatingsQuantity != len(live) {
		t.Fatalf("expected quantity %d, got %d", len(live), snap.RatingsQuantity)
	}
}
