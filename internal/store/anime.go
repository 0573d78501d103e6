package store

import (
	"context"
	"time"
)

// Anime is the catalogue representation of a single title.
type Anime struct {
	ID              string     `json:"id"`
	TitleEnglish    string     `json:"titleEnglish"`
	TitleJapanese   string     `json:"titleJapanese,omitempty"`
	Synonyms        []string   `json:"synonyms,omitempty"`
	Description     string     `json:"description,omitempty"`
	Genres          []string   `json:"genres,omitempty"`
	Type            string     `json:"type,omitempty"`
	Status          string     `json:"status,omitempty"`
	Aired           string     `json:"aired,omitempty"`
	Episodes        int        `json:"episodes"`
	Duration        int        `json:"duration"` // minutes per episode
	Thumbnail       string     `json:"thumbnail,omitempty"`
	Banner          string     `json:"banner,omitempty"`
	AverageRating   float64    `json:"averageRating"`
	RatingsQuantity int        `json:"ratingsQuantity"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}

// RatingSnapshot is the pair of denormalized rating fields on an anime record.
type RatingSnapshot struct {
	AverageRating   float64
	RatingsQuantity int
}

// AnimePatch carries the updatable anime fields. Rating fields are absent on
// purpose: averageRating and ratingsQuantity are owned by the rating
// aggregator and cannot be written through an update.
type AnimePatch struct {
	TitleEnglish  *string
	TitleJapanese *string
	Synonyms      []string
	Description   *string
	Genres        []string
	Type          *string
	Status        *string
	Aired         *string
	Episodes      *int
	Duration      *int
	Thumbnail     *string
	Banner        *string
}

// AnimeFilter selects animes by simple equality/range predicates.
type AnimeFilter struct {
	Genre     string
	Status    string
	Type      string
	MinRating float64
	Sort      string // "rating", "newest" or "" for insertion order
	Limit     int
	Offset    int
}

// AnimeStore defines the contract for anime persistence.
type AnimeStore interface {
	Create(ctx context.Context, a Anime) (Anime, error)
	GetByID(ctx context.Context, id string) (Anime, error)
	List(ctx context.Context, f AnimeFilter) ([]Anime, error)
	Update(ctx context.Context, id string, p AnimePatch) (Anime, error)

	// RatingSnapshot and StoreRating are used exclusively by the rating
	// aggregator. No other caller writes the rating fields.
	RatingSnapshot(ctx context.Context, id string) (RatingSnapshot, error)
	StoreRating(ctx context.Context, id string, average float64, quantity int) error
}
