package store

import (
	"context"
	"fmt"
	"time"
)

// WatchStatus is the lifecycle state of a watchlist entry. The values are
// the wire-level strings accepted by the API.
type WatchStatus string

const (
	StatusWatching    WatchStatus = "watching"
	StatusPlanToWatch WatchStatus = "plan to watch"
	StatusCompleted   WatchStatus = "completed"
	StatusOnHold      WatchStatus = "on hold"
	StatusDropped     WatchStatus = "dropped"
)

// ParseWatchStatus validates a wire-level status string.
func ParseWatchStatus(s string) (WatchStatus, error) {
	switch WatchStatus(s) {
	case StatusWatching, StatusPlanToWatch, StatusCompleted, StatusOnHold, StatusDropped:
		return WatchStatus(s), nil
	}
	return "", fmt.Errorf("status value can only be (watching | plan to watch | completed | dropped | on hold), got %q", s)
}

// WatchlistEntry ties a user to an anime with a watch status.
// One entry per (user, anime). Title and thumbnail are denormalized copies
// taken from the anime at creation time.
type WatchlistEntry struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user"`
	AnimeID   string      `json:"anime"`
	Status    WatchStatus `json:"status"`
	Title     string      `json:"title"`
	Thumbnail string      `json:"thumbnail,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

type WatchlistFilter struct {
	Status WatchStatus // optional
	Sort   string      // "title", "newest" or ""
	Limit  int
	Offset int
}

// WatchlistStore defines the contract for watchlist persistence.
type WatchlistStore interface {
	// Create returns ErrDuplicate when the user already has an entry for
	// the anime.
	Create(ctx context.Context, e WatchlistEntry) (WatchlistEntry, error)
	GetOwned(ctx context.Context, entryID, userID string) (WatchlistEntry, error)
	ListByUser(ctx context.Context, userID string, f WatchlistFilter) ([]WatchlistEntry, error)
	// SetStatusOwned updates the status and returns the pre-update entry so
	// the caller can compute the status-transition delta.
	SetStatusOwned(ctx context.Context, entryID, userID string, status WatchStatus) (WatchlistEntry, error)
	// DeleteOwned removes the entry and returns the deleted record.
	DeleteOwned(ctx context.Context, entryID, userID string) (WatchlistEntry, error)
}
