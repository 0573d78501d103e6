package stats

import (
	"context"
	"errors"

	"github.com/example/anihub/internal/store"
)

// DuplicateVoteError reports a repeat vote with the same polarity. The
// message is target-specific and safe to show to the user.
type DuplicateVoteError struct {
	message string
}

func (e *DuplicateVoteError) Error() string { return e.message }

// VoteTarget adapts one votable entity kind (reviews with helpfulness votes,
// comments with likes/dislikes) to the ledger. V is the concrete vote record
// type.
type VoteTarget[V any] interface {
	// Owner returns the id of the user who owns the target, or
	// store.ErrNotFound when the target does not exist.
	Owner(ctx context.Context, targetID string) (string, error)
	// Find returns the voter's existing record and its polarity, or
	// store.ErrNotFound.
	Find(ctx context.Context, targetID, voterID string) (V, bool, error)
	Insert(ctx context.Context, targetID, voterID string, positive bool) (V, error)
	SetPolarity(ctx context.Context, v V, positive bool) (V, error)
	// AddCounts applies atomic increments to the target's two counters.
	AddCounts(ctx context.Context, targetID string, positiveDelta, negativeDelta int) error
	// MirrorOwnerStats reports whether the target owner's user stats track
	// these votes.
	MirrorOwnerStats() bool
	AlreadyVoted(positive bool) error
}

// VoteLedger enforces one vote per (target, user) with toggle semantics:
// the first vote creates a record, an opposite-polarity repeat flips it in
// place, and a same-polarity repeat is rejected without mutation.
//
// Write order per operation: vote record first, then target counters, then
// owner stats. A failure mid-sequence aborts the remaining writes and is
// surfaced unchanged; already-applied writes are not rolled back.
type VoteLedger[V any] struct {
	Target VoteTarget[V]
	Users  *UserStats
}

func NewVoteLedger[V any](target VoteTarget[V], users *UserStats) *VoteLedger[V] {
	return &VoteLedger[V]{Target: target, Users: users}
}

// CastVote records or toggles a vote. isNew is true when a new vote record
// was created.
func (l *VoteLedger[V]) CastVote(ctx context.Context, targetID, voterID string, positive bool) (v V, isNew bool, err error) {
	ownerID, err := l.Target.Owner(ctx, targetID)
	if err != nil {
		return v, false, err
	}

	existing, existingPositive, err := l.Target.Find(ctx, targetID, voterID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		created, err := l.Target.Insert(ctx, targetID, voterID, positive)
		if err != nil {
			return v, false, err
		}
		pos, neg := 0, 1
		if positive {
			pos, neg = 1, 0
		}
		if err := l.Target.AddCounts(ctx, targetID, pos, neg); err != nil {
			return v, false, err
		}
		if err := l.mirror(ctx, ownerID, pos, neg); err != nil {
			return v, false, err
		}
		return created, true, nil

	case err != nil:
		return v, false, err
	}

	if existingPositive == positive {
		return v, false, l.Target.AlreadyVoted(positive)
	}

	flipped, err := l.Target.SetPolarity(ctx, existing, positive)
	if err != nil {
		return v, false, err
	}
	pos, neg := -1, 1
	if positive {
		pos, neg = 1, -1
	}
	if err := l.Target.AddCounts(ctx, targetID, pos, neg); err != nil {
		return v, false, err
	}
	if err := l.mirror(ctx, ownerID, pos, neg); err != nil {
		return v, false, err
	}
	return flipped, false, nil
}

func (l *VoteLedger[V]) mirror(ctx context.Context, ownerID string, positiveDelta, negativeDelta int) error {
	if !l.Target.MirrorOwnerStats() || l.Users == nil {
		return nil
	}
	return l.Users.Apply(ctx, ownerID, store.StatsDelta{
		HelpfulVotes:    positiveDelta,
		NotHelpfulVotes: negativeDelta,
	})
}
