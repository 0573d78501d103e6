package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryAnimeStore is a development and test implementation.
type InMemoryAnimeStore struct {
	mu     sync.RWMutex
	animes map[string]Anime
	order  []string
}

func NewInMemoryAnimeStore() *InMemoryAnimeStore {
	return &InMemoryAnimeStore{animes: make(map[string]Anime)}
}

func (s *InMemoryAnimeStore) Create(_ context.Context, a Anime) (Anime, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a.ID = uuid.NewString()
	a.CreatedAt = time.Now().UTC()
	a.AverageRating = 0
	a.RatingsQuantity = 0
	s.animes[a.ID] = a
	s.order = append(s.order, a.ID)
	return a, nil
}

func (s *InMemoryAnimeStore) GetByID(_ context.Context, id string) (Anime, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.animes[id]
	if !ok {
		return Anime{}, ErrNotFound
	}
	return a, nil
}

func (s *InMemoryAnimeStore) List(_ context.Context, f AnimeFilter) ([]Anime, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Anime
	for _, id := range s.order {
		a := s.animes[id]
		if f.Genre != "" && !containsString(a.Genres, f.Genre) {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.Type != "" && a.Type != f.Type {
			continue
		}
		if a.AverageRating < f.MinRating {
			continue
		}
		out = append(out, a)
	}

	switch f.Sort {
	case "rating":
		sort.SliceStable(out, func(i, j int) bool { return out[i].AverageRating > out[j].AverageRating })
	case "newest":
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}

	return paginate(out, f.Limit, f.Offset), nil
}

func (s *InMemoryAnimeStore) Update(_ context.Context, id string, p AnimePatch) (Anime, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.animes[id]
	if !ok {
		return Anime{}, ErrNotFound
	}
	if p.TitleEnglish != nil {
		a.TitleEnglish = *p.TitleEnglish
	}
	if p.TitleJapanese != nil {
		a.TitleJapanese = *p.TitleJapanese
	}
	if p.Synonyms != nil {
		a.Synonyms = p.Synonyms
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Genres != nil {
		a.Genres = p.Genres
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Status != nil {
		a.Status = *p.Status
	}
	if p.Aired != nil {
		a.Aired = *p.Aired
	}
	if p.Episodes != nil {
		a.Episodes = *p.Episodes
	}
	if p.Duration != nil {
		a.Duration = *p.Duration
	}
	if p.Thumbnail != nil {
		a.Thumbnail = *p.Thumbnail
	}
	if p.Banner != nil {
		a.Banner = *p.Banner
	}
	now := time.Now().UTC()
	a.UpdatedAt = &now
	s.animes[id] = a
	return a, nil
}

func (s *InMemoryAnimeStore) RatingSnapshot(_ context.Context, id string) (RatingSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.animes[id]
	if !ok {
		return RatingSnapshot{}, ErrNotFound
	}
	return RatingSnapshot{AverageRating: a.AverageRating, RatingsQuantity: a.RatingsQuantity}, nil
}

func (s *InMemoryAnimeStore) StoreRating(_ context.Context, id string, average float64, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.animes[id]
	if !ok {
		return ErrNotFound
	}
	a.AverageRating = average
	a.RatingsQuantity = quantity
	s.animes[id] = a
	return nil
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return []T{}
		}
		list = list[offset:]
	}
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}
