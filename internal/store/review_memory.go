package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryReviewStore is a development and test implementation. It holds
// both the reviews and their helpfulness vote records.
type InMemoryReviewStore struct {
	mu      sync.RWMutex
	reviews map[string]Review
	votes   map[string]ReviewVote // vote id -> vote
}

func NewInMemoryReviewStore() *InMemoryReviewStore {
	return &InMemoryReviewStore{
		reviews: make(map[string]Review),
		votes:   make(map[string]ReviewVote),
	}
}

func (s *InMemoryReviewStore) Create(_ context.Context, r Review) (Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.reviews {
		if existing.UserID == r.UserID && existing.AnimeID == r.AnimeID {
			return Review{}, ErrDuplicate
		}
	}

	r.ID = uuid.NewString()
	r.CreatedAt = time.Now().UTC()
	r.HelpfulVotes = 0
	r.NotHelpfulVotes = 0
	s.reviews[r.ID] = r
	return r, nil
}

func (s *InMemoryReviewStore) GetByID(_ context.Context, id string) (Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reviews[id]
	if !ok {
		return Review{}, ErrNotFound
	}
	return r, nil
}

func (s *InMemoryReviewStore) GetByUserAndAnime(_ context.Context, userID, animeID string) (Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.reviews {
		if r.UserID == userID && r.AnimeID == animeID {
			return r, nil
		}
	}
	return Review{}, ErrNotFound
}

func (s *InMemoryReviewStore) List(_ context.Context, f ReviewFilter) ([]Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Review
	for _, r := range s.reviews {
		if f.AnimeID != "" && r.AnimeID != f.AnimeID {
			continue
		}
		if f.UserID != "" && r.UserID != f.UserID {
			continue
		}
		out = append(out, r)
	}

	switch f.Sort {
	case "rating":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case "helpful":
		sort.SliceStable(out, func(i, j int) bool { return out[i].HelpfulVotes > out[j].HelpfulVotes })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	}

	return paginate(out, f.Limit, f.Offset), nil
}

func (s *InMemoryReviewStore) UpdateOwned(_ context.Context, userID, animeID string, p ReviewPatch) (Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, r := range s.reviews {
		if r.UserID != userID || r.AnimeID != animeID {
			continue
		}
		if p.Title != nil {
			r.Title = *p.Title
		}
		if p.Body != nil {
			r.Body = *p.Body
		}
		if p.Rating != nil {
			r.Rating = *p.Rating
		}
		if p.Spoiler != nil {
			r.Spoiler = *p.Spoiler
		}
		now := time.Now().UTC()
		r.ModifiedAt = &now
		s.reviews[id] = r
		return r, nil
	}
	return Review{}, ErrNotFound
}

func (s *InMemoryReviewStore) DeleteOwned(_ context.Context, userID, animeID string) (Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, r := range s.reviews {
		if r.UserID == userID && r.AnimeID == animeID {
			delete(s.reviews, id)
			return r, nil
		}
	}
	return Review{}, ErrNotFound
}

func (s *InMemoryReviewStore) AddVoteCounts(_ context.Context, reviewID string, helpfulDelta, notHelpfulDelta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reviews[reviewID]
	if !ok {
		return ErrNotFound
	}
	r.HelpfulVotes += helpfulDelta
	r.NotHelpfulVotes += notHelpfulDelta
	s.reviews[reviewID] = r
	return nil
}

func (s *InMemoryReviewStore) GetVote(_ context.Context, reviewID, userID string) (ReviewVote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, v := range s.votes {
		if v.ReviewID == reviewID && v.UserID == userID {
			return v, nil
		}
	}
	return ReviewVote{}, ErrNotFound
}

func (s *InMemoryReviewStore) CreateVote(_ context.Context, v ReviewVote) (ReviewVote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.votes {
		if existing.ReviewID == v.ReviewID && existing.UserID == v.UserID {
			return ReviewVote{}, ErrDuplicate
		}
	}
	v.ID = uuid.NewString()
	s.votes[v.ID] = v
	return v, nil
}

func (s *InMemoryReviewStore) SetVotePolarity(_ context.Context, voteID string, helpful bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.votes[voteID]
	if !ok {
		return ErrNotFound
	}
	v.Helpful = helpful
	s.votes[voteID] = v
	return nil
}

// VoteRecords returns every vote for a review. Test helper.
func (s *InMemoryReviewStore) VoteRecords(reviewID string) []ReviewVote {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []ReviewVote
	for _, v := range s.votes {
		if v.ReviewID == reviewID {
			out = append(out, v)
		}
	}
	return out
}
