package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemoryCommentStore is a development and test implementation. It holds
// both the comments and their reaction records.
type InMemoryCommentStore struct {
	mu       sync.RWMutex
	comments map[string]Comment
	likes    map[string]CommentLike // like id -> like
}

func NewInMemoryCommentStore() *InMemoryCommentStore {
	return &InMemoryCommentStore{
		comments: make(map[string]Comment),
		likes:    make(map[string]CommentLike),
	}
}

func (s *InMemoryCommentStore) Create(_ context.Context, c Comment) (Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = uuid.NewString()
	c.CreatedAt = time.Now().UTC()
	c.Likes = 0
	c.Dislikes = 0
	c.NumberOfReplies = 0
	s.comments[c.ID] = c
	return c, nil
}

func (s *InMemoryCommentStore) GetByID(_ context.Context, id string) (Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.comments[id]
	if !ok {
		return Comment{}, ErrNotFound
	}
	return c, nil
}

func (s *InMemoryCommentStore) ListTopLevel(_ context.Context, episodeID string, limit, offset int) ([]Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Comment
	for _, c := range s.comments {
		if c.EpisodeID == episodeID && c.ParentID == nil {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, limit, offset), nil
}

func (s *InMemoryCommentStore) ListReplies(_ context.Context, episodeID, parentID string) ([]Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Comment
	for _, c := range s.comments {
		if c.EpisodeID == episodeID && c.ParentID != nil && *c.ParentID == parentID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *InMemoryCommentStore) UpdateBodyOwned(_ context.Context, commentID, userID, body string) (Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[commentID]
	if !ok || c.UserID != userID {
		return Comment{}, ErrNotFound
	}
	c.Body = body
	now := time.Now().UTC()
	c.ModifiedAt = &now
	s.comments[commentID] = c
	return c, nil
}

func (s *InMemoryCommentStore) DeleteOwned(_ context.Context, commentID, userID string) (Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[commentID]
	if !ok || c.UserID != userID {
		return Comment{}, ErrNotFound
	}
	delete(s.comments, commentID)
	return c, nil
}

func (s *InMemoryCommentStore) DeleteReplies(_ context.Context, parentID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted []string
	for id, c := range s.comments {
		if c.ParentID != nil && *c.ParentID == parentID {
			delete(s.comments, id)
			deleted = append(deleted, id)
		}
	}
	return deleted, nil
}

func (s *InMemoryCommentStore) DeleteLikesFor(_ context.Context, commentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, l := range s.likes {
		if l.CommentID == commentID {
			delete(s.likes, id)
		}
	}
	return nil
}

func (s *InMemoryCommentStore) AddReactionCounts(_ context.Context, commentID string, likesDelta, dislikesDelta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[commentID]
	if !ok {
		return ErrNotFound
	}
	c.Likes += likesDelta
	c.Dislikes += dislikesDelta
	s.comments[commentID] = c
	return nil
}

func (s *InMemoryCommentStore) AddReplyCount(_ context.Context, commentID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[commentID]
	if !ok {
		return ErrNotFound
	}
	c.NumberOfReplies += delta
	s.comments[commentID] = c
	return nil
}

func (s *InMemoryCommentStore) GetLike(_ context.Context, commentID, userID string) (CommentLike, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.likes {
		if l.CommentID == commentID && l.UserID == userID {
			return l, nil
		}
	}
	return CommentLike{}, ErrNotFound
}

func (s *InMemoryCommentStore) CreateLike(_ context.Context, l CommentLike) (CommentLike, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.likes {
		if existing.CommentID == l.CommentID && existing.UserID == l.UserID {
			return CommentLike{}, ErrDuplicate
		}
	}
	l.ID = uuid.NewString()
	s.likes[l.ID] = l
	return l, nil
}

func (s *InMemoryCommentStore) SetLikePolarity(_ context.Context, likeID string, like bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.likes[likeID]
	if !ok {
		return ErrNotFound
	}
	l.Like = like
	s.likes[likeID] = l
	return nil
}

// LikeRecords returns every reaction for a comment. Test helper.
func (s *InMemoryCommentStore) LikeRecords(commentID string) []CommentLike {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []CommentLike
	for _, l := range s.likes {
		if l.CommentID == commentID {
			out = append(out, l)
		}
	}
	return out
}
