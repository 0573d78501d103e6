package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryWatchlistStore is a development and test implementation.
type InMemoryWatchlistStore struct {
	mu      sync.RWMutex
	entries map[string]WatchlistEntry
}

func NewInMemoryWatchlistStore() *InMemoryWatchlistStore {
	return &InMemoryWatchlistStore{entries: make(map[string]WatchlistEntry)}
}

func (s *InMemoryWatchlistStore) Create(_ context.Context, e WatchlistEntry) (WatchlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.entries {
		if existing.UserID == e.UserID && existing.AnimeID == e.AnimeID {
			return WatchlistEntry{}, ErrDuplicate
		}
	}

	e.ID = uuid.NewString()
	e.CreatedAt = time.Now().UTC()
	if e.Status == "" {
		e.Status = StatusWatching
	}
	s.entries[e.ID] = e
	return e, nil
}

func (s *InMemoryWatchlistStore) GetOwned(_ context.Context, entryID, userID string) (WatchlistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[entryID]
	if !ok || e.UserID != userID {
		return WatchlistEntry{}, ErrNotFound
	}
	return e, nil
}

func (s *InMemoryWatchlistStore) ListByUser(_ context.Context, userID string, f WatchlistFilter) ([]WatchlistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []WatchlistEntry
	for _, e := range s.entries {
		if e.UserID != userID {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		out = append(out, e)
	}

	switch f.Sort {
	case "title":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}

	return paginate(out, f.Limit, f.Offset), nil
}

func (s *InMemoryWatchlistStore) SetStatusOwned(_ context.Context, entryID, userID string, status WatchStatus) (WatchlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[entryID]
	if !ok || e.UserID != userID {
		return WatchlistEntry{}, ErrNotFound
	}
	prev := e
	e.Status = status
	s.entries[entryID] = e
	return prev, nil
}

func (s *InMemoryWatchlistStore) DeleteOwned(_ context.Context, entryID, userID string) (WatchlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[entryID]
	if !ok || e.UserID != userID {
		return WatchlistEntry{}, ErrNotFound
	}
	delete(s.entries, entryID)
	return e, nil
}
