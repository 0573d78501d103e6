package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryEpisodeStore is a development and test implementation.
type InMemoryEpisodeStore struct {
	mu       sync.RWMutex
	episodes map[string]Episode
}

func NewInMemoryEpisodeStore() *InMemoryEpisodeStore {
	return &InMemoryEpisodeStore{episodes: make(map[string]Episode)}
}

func (s *InMemoryEpisodeStore) Create(_ context.Context, e Episode) (Episode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.episodes {
		if existing.AnimeID == e.AnimeID && existing.Number == e.Number {
			return Episode{}, ErrDuplicate
		}
	}

	e.ID = uuid.NewString()
	e.CreatedAt = time.Now().UTC()
	s.episodes[e.ID] = e
	return e, nil
}

func (s *InMemoryEpisodeStore) GetByID(_ context.Context, id string) (Episode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.episodes[id]
	if !ok {
		return Episode{}, ErrNotFound
	}
	return e, nil
}

func (s *InMemoryEpisodeStore) ListByAnime(_ context.Context, animeID string) ([]Episode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Episode
	for _, e := range s.episodes {
		if e.AnimeID == animeID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (s *InMemoryEpisodeStore) Update(_ context.Context, id string, p EpisodePatch) (Episode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.episodes[id]
	if !ok {
		return Episode{}, ErrNotFound
	}
	if p.Number != nil {
		e.Number = *p.Number
	}
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Thumbnail != nil {
		e.Thumbnail = *p.Thumbnail
	}
	s.episodes[id] = e
	return e, nil
}

func (s *InMemoryEpisodeStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.episodes[id]; !ok {
		return ErrNotFound
	}
	delete(s.episodes, id)
	return nil
}

func (s *InMemoryEpisodeStore) SetVideoKey(_ context.Context, id, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.episodes[id]
	if !ok {
		return ErrNotFound
	}
	e.VideoKey = key
	s.episodes[id] = e
	return nil
}
