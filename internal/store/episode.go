package store

import (
	"context"
	"time"
)

// Episode is a single episode of an anime.
type Episode struct {
	ID        string    `json:"id"`
	AnimeID   string    `json:"anime"`
	Number    int       `json:"number"`
	Title     string    `json:"title,omitempty"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	VideoKey  string    `json:"-"` // blob-store key, exposed only as a signed playback URL
	CreatedAt time.Time `json:"createdAt"`
}

type EpisodePatch struct {
	Number    *int
	Title     *string
	Thumbnail *string
}

// EpisodeStore defines the contract for episode persistence.
type EpisodeStore interface {
	// Create returns ErrDuplicate when the anime already has an episode
	// with the same number.
	Create(ctx context.Context, e Episode) (Episode, error)
	GetByID(ctx context.Context, id string) (Episode, error)
	ListByAnime(ctx context.Context, animeID string) ([]Episode, error)
	Update(ctx context.Context, id string, p EpisodePatch) (Episode, error)
	Delete(ctx context.Context, id string) error
	SetVideoKey(ctx context.Context, id, key string) error
}
