package store

import "context"

// HomeSection is a curated, ordered block of animes shown on the home page.
type HomeSection struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	AnimeIDs []string `json:"animes"`
	Position int      `json:"position"`
}

type HomeSectionPatch struct {
	Title    *string
	AnimeIDs []string
	Position *int
}

// HomeSectionStore defines the contract for home-page section persistence.
type HomeSectionStore interface {
	Create(ctx context.Context, s HomeSection) (HomeSection, error)
	GetByID(ctx context.Context, id string) (HomeSection, error)
	// List returns every section ordered by position.
	List(ctx context.Context) ([]HomeSection, error)
	Update(ctx context.Context, id string, p HomeSectionPatch) (HomeSection, error)
	Delete(ctx context.Context, id string) error
}
