// Package stats contains the aggregate-statistics and voting consistency
// engine: the components that keep derived counters on animes, reviews,
// comments and users synchronized as primary records change.
//
// Each counter is owned by exactly one component. The components perform
// ordered sequences of independent document writes with no multi-document
// transactions: the primary record is always written first, and the first
// failing dependent write aborts the rest without rolling back.
package stats

import (
	"context"

	"github.com/example/anihub/internal/store"
)

// StatWriter applies a stats delta to a user record with per-field atomic
// increments.
type StatWriter interface {
	AddStats(ctx context.Context, userID string, d store.StatsDelta) error
}

// UserStats is the accumulator for the counters embedded on the User
// aggregate. It is the only writer of those counters.
type UserStats struct {
	Users StatWriter
}

func NewUserStats(users StatWriter) *UserStats {
	return &UserStats{Users: users}
}

// Apply writes the delta in a single store round trip.
func (s *UserStats) Apply(ctx context.Context, userID string, d store.StatsDelta) error {
	if d.IsZero() {
		return nil
	}
	return s.Users.AddStats(ctx, userID, d)
}

// ReviewGiven records a new review by the user.
func (s *UserStats) ReviewGiven(ctx context.Context, userID string) error {
	return s.Apply(ctx, userID, store.StatsDelta{ReviewsGiven: 1})
}

// ReviewRemoved records the deletion of the user's review.
func (s *UserStats) ReviewRemoved(ctx context.Context, userID string) error {
	return s.Apply(ctx, userID, store.StatsDelta{ReviewsGiven: -1})
}

// CommentMade records a new comment by the user. Comment deletion does not
// decrement the counter.
func (s *UserStats) CommentMade(ctx context.Context, userID string) error {
	return s.Apply(ctx, userID, store.StatsDelta{CommentsMade: 1})
}
