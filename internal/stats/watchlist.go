package stats

import (
	"context"

	"github.com/example/anihub/internal/store"
)

// WatchlistTracker maintains the per-user watchlist aggregates: one counter
// per status, total entries, episodes watched and total watch time.
//
// Episodes watched and watch time only move when an entry crosses the
// "completed" boundary. The tracker does not clamp; a counter going negative
// means a caller violated the sequencing contract.
type WatchlistTracker struct {
	Users *UserStats
}

func NewWatchlistTracker(users *UserStats) *WatchlistTracker {
	return &WatchlistTracker{Users: users}
}

// OnEntryCreated records a new watchlist entry with its initial status.
func (t *WatchlistTracker) OnEntryCreated(ctx context.Context, userID string, initialStatus store.WatchStatus) error {
	d := store.StatsDelta{TotalEntries: 1}
	addStatusDelta(&d, initialStatus, 1)
	return t.Users.Apply(ctx, userID, d)
}

// OnStatusChanged records a status transition. episodes and episodeDuration
// describe the anime the entry points at.
func (t *WatchlistTracker) OnStatusChanged(ctx context.Context, userID string, episodes, episodeDuration int, oldStatus, newStatus store.WatchStatus) error {
	if oldStatus == newStatus {
		return nil
	}
	var d store.StatsDelta
	addStatusDelta(&d, oldStatus, -1)
	addStatusDelta(&d, newStatus, 1)

	if newStatus == store.StatusCompleted && oldStatus != store.StatusCompleted {
		d.EpisodesWatched = episodes
		d.TotalWatchTime = episodes * episodeDuration
	} else if newStatus != store.StatusCompleted && oldStatus == store.StatusCompleted {
		d.EpisodesWatched = -episodes
		d.TotalWatchTime = -episodes * episodeDuration
	}

	return t.Users.Apply(ctx, userID, d)
}

// OnEntryDeleted records the removal of an entry.
func (t *WatchlistTracker) OnEntryDeleted(ctx context.Context, userID string, status store.WatchStatus, episodes, episodeDuration int) error {
	d := store.StatsDelta{TotalEntries: -1}
	addStatusDelta(&d, status, -1)
	if status == store.StatusCompleted {
		d.EpisodesWatched = -episodes
		d.TotalWatchTime = -episodes * episodeDuration
	}
	return t.Users.Apply(ctx, userID, d)
}

func addStatusDelta(d *store.StatsDelta, status store.WatchStatus, delta int) {
	switch status {
	case store.StatusWatching:
		d.Watching += delta
	case store.StatusPlanToWatch:
		d.PlanToWatch += delta
	case store.StatusCompleted:
		d.Completed += delta
	case store.StatusOnHold:
		d.OnHold += delta
	case store.StatusDropped:
		d.Dropped += delta
	}
}
