package store

import (
	"context"
	"time"
)

// Review is a single user's review of an anime. One review per (user, anime).
type Review struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user"`
	AnimeID         string     `json:"anime"`
	Title           string     `json:"title,omitempty"`
	Body            string     `json:"review,omitempty"`
	Rating          float64    `json:"rating"`
	Spoiler         bool       `json:"spoiler,omitempty"`
	HelpfulVotes    int        `json:"helpfulVotes"`
	NotHelpfulVotes int        `json:"notHelpfulVotes"`
	CreatedAt       time.Time  `json:"createdAt"`
	ModifiedAt      *time.Time `json:"modifiedAt,omitempty"`
}

// ReviewVote is a helpfulness vote. One vote per (review, user); the polarity
// is toggled in place on a repeat vote and the record is never auto-deleted.
type ReviewVote struct {
	ID       string `json:"id"`
	ReviewID string `json:"review"`
	AnimeID  string `json:"anime"`
	UserID   string `json:"user"`
	Helpful  bool   `json:"helpful"`
}

// ReviewPatch carries the updatable review fields.
type ReviewPatch struct {
	Title   *string
	Body    *string
	Rating  *float64
	Spoiler *bool
}

type ReviewFilter struct {
	AnimeID string
	UserID  string
	Sort    string // "rating", "helpful", "newest" or ""
	Limit   int
	Offset  int
}

// ReviewStore defines the contract for review and review-vote persistence.
type ReviewStore interface {
	// Create returns ErrDuplicate when the user already reviewed the anime.
	Create(ctx context.Context, r Review) (Review, error)
	GetByID(ctx context.Context, id string) (Review, error)
	GetByUserAndAnime(ctx context.Context, userID, animeID string) (Review, error)
	List(ctx context.Context, f ReviewFilter) ([]Review, error)
	UpdateOwned(ctx context.Context, userID, animeID string, p ReviewPatch) (Review, error)
	// DeleteOwned removes the review and returns the deleted record.
	DeleteOwned(ctx context.Context, userID, animeID string) (Review, error)

	// AddVoteCounts applies atomic increments to the helpful/not-helpful
	// counters. Used exclusively by the vote ledger.
	AddVoteCounts(ctx context.Context, reviewID string, helpfulDelta, notHelpfulDelta int) error
	GetVote(ctx context.Context, reviewID, userID string) (ReviewVote, error)
	CreateVote(ctx context.Context, v ReviewVote) (ReviewVote, error)
	SetVotePolarity(ctx context.Context, voteID string, helpful bool) error
}
