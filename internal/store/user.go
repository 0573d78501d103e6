package store

import (
	"context"
	"time"
)

// WatchlistStats is the denormalized per-user watchlist aggregate block.
type WatchlistStats struct {
	Watching        int `json:"watching"`
	PlanToWatch     int `json:"planToWatch"`
	Completed       int `json:"completed"`
	OnHold          int `json:"onHold"`
	Dropped         int `json:"dropped"`
	TotalEntries    int `json:"totalEntries"`
	EpisodesWatched int `json:"episodesWatched"`
	TotalWatchTime  int `json:"totalWatchTime"` // minutes
}

// Stats holds every derived counter owned by the aggregator components.
// Route handlers never write these fields directly.
type Stats struct {
	HelpfulVotes    int            `json:"helpfulVotes"`
	NotHelpfulVotes int            `json:"notHelpfulVotes"`
	ReviewsGiven    int            `json:"reviewsGiven"`
	CommentsMade    int            `json:"commentsMade"`
	Watchlist       WatchlistStats `json:"watchlistStats"`
}

type User struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	PasswordHash    string    `json:"-"`
	ProfilePicture  string    `json:"profilePicture,omitempty"`
	ProfileIsPublic bool      `json:"profileIsPublic"`
	CreatedAt       time.Time `json:"createdAt"`
	Stats           Stats     `json:"stats"`
}

// StatsDelta carries signed increments for the user stat counters. A zero
// field leaves the counter untouched, so one store round trip can update any
// combination atomically.
type StatsDelta struct {
	HelpfulVotes    int
	NotHelpfulVotes int
	ReviewsGiven    int
	CommentsMade    int

	Watching        int
	PlanToWatch     int
	Completed       int
	OnHold          int
	Dropped         int
	TotalEntries    int
	EpisodesWatched int
	TotalWatchTime  int
}

// IsZero reports whether applying the delta would be a no-op.
func (d StatsDelta) IsZero() bool {
	return d == StatsDelta{}
}

// UserStore defines the contract for user persistence.
type UserStore interface {
	Create(ctx context.Context, u User) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateProfilePicture(ctx context.Context, id, key string) error

	// AddStats applies the delta with per-field atomic increments.
	AddStats(ctx context.Context, id string, d StatsDelta) error
}
