package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// InMemoryHomeSectionStore is a development and test implementation.
type InMemoryHomeSectionStore struct {
	mu       sync.RWMutex
	sections map[string]HomeSection
}

func NewInMemoryHomeSectionStore() *InMemoryHomeSectionStore {
	return &InMemoryHomeSectionStore{sections: make(map[string]HomeSection)}
}

func (s *InMemoryHomeSectionStore) Create(_ context.Context, sec HomeSection) (HomeSection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec.ID = uuid.NewString()
	s.sections[sec.ID] = sec
	return sec, nil
}

func (s *InMemoryHomeSectionStore) GetByID(_ context.Context, id string) (HomeSection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sec, ok := s.sections[id]
	if !ok {
		return HomeSection{}, ErrNotFound
	}
	return sec, nil
}

func (s *InMemoryHomeSectionStore) List(_ context.Context) ([]HomeSection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]HomeSection, 0, len(s.sections))
	for _, sec := range s.sections {
		out = append(out, sec)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (s *InMemoryHomeSectionStore) Update(_ context.Context, id string, p HomeSectionPatch) (HomeSection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sec, ok := s.sections[id]
	if !ok {
		return HomeSection{}, ErrNotFound
	}
	if p.Title != nil {
		sec.Title = *p.Title
	}
	if p.AnimeIDs != nil {
		sec.AnimeIDs = p.AnimeIDs
	}
	if p.Position != nil {
		sec.Position = *p.Position
	}
	s.sections[id] = sec
	return sec, nil
}

func (s *InMemoryHomeSectionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sections[id]; !ok {
		return ErrNotFound
	}
	delete(s.sections, id)
	return nil
}
