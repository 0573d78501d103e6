package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryUserStore is a development and test implementation.
type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[string]User)}
}

func (s *InMemoryUserStore) Create(_ context.Context, u User) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == u.Username || existing.Email == u.Email {
			return User{}, ErrDuplicate
		}
	}

	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()
	u.Stats = Stats{}
	if u.Role == "" {
		u.Role = "user"
	}
	s.users[u.ID] = u
	return u, nil
}

func (s *InMemoryUserStore) GetByID(_ context.Context, id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *InMemoryUserStore) GetByUsername(_ context.Context, username string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (s *InMemoryUserStore) GetByEmail(_ context.Context, email string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (s *InMemoryUserStore) UpdatePassword(_ context.Context, id, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = passwordHash
	s.users[id] = u
	return nil
}

func (s *InMemoryUserStore) UpdateProfilePicture(_ context.Context, id, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.ProfilePicture = key
	s.users[id] = u
	return nil
}

func (s *InMemoryUserStore) AddStats(_ context.Context, id string, d StatsDelta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Stats.HelpfulVotes += d.HelpfulVotes
	u.Stats.NotHelpfulVotes += d.NotHelpfulVotes
	u.Stats.ReviewsGiven += d.ReviewsGiven
	u.Stats.CommentsMade += d.CommentsMade
	u.Stats.Watchlist.Watching += d.Watching
	u.Stats.Watchlist.PlanToWatch += d.PlanToWatch
	u.Stats.Watchlist.Completed += d.Completed
	u.Stats.Watchlist.OnHold += d.OnHold
	u.Stats.Watchlist.Dropped += d.Dropped
	u.Stats.Watchlist.TotalEntries += d.TotalEntries
	u.Stats.Watchlist.EpisodesWatched += d.EpisodesWatched
	u.Stats.Watchlist.TotalWatchTime += d.TotalWatchTime
	s.users[id] = u
	return nil
}
