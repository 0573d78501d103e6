package store

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresAnimeStore persists animes in Postgres.
type PostgresAnimeStore struct {
	pool *pgxpool.Pool
}

func NewPostgresAnimeStore(pool *pgxpool.Pool) *PostgresAnimeStore {
	return &PostgresAnimeStore{pool: pool}
}

const animeColumns = `id, title_english, title_japanese, synonyms, description, genres, type, status, aired,
episodes, duration, thumbnail, banner, average_rating, ratings_quantity, created_at, updated_at`

func (s *PostgresAnimeStore) Create(ctx context.Context, a Anime) (Anime, error) {
	synonyms, _ := json.Marshal(a.Synonyms)
	genres, _ := json.Marshal(a.Genres)
	const q = `INSERT INTO animes (title_english, title_japanese, synonyms, description, genres, type, status, aired,
	             episodes, duration, thumbnail, banner)
	           VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	           RETURNING ` + animeColumns
	row := s.pool.QueryRow(ctx, q, a.TitleEnglish, a.TitleJapanese, synonyms, a.Description, genres,
		a.Type, a.Status, a.Aired, a.Episodes, a.Duration, a.Thumbnail, a.Banner)
	return scanAnime(row)
}

func (s *PostgresAnimeStore) GetByID(ctx context.Context, id string) (Anime, error) {
	const q = `SELECT ` + animeColumns + ` FROM animes WHERE id = $1`
	return scanAnime(s.pool.QueryRow(ctx, q, id))
}

func (s *PostgresAnimeStore) List(ctx context.Context, f AnimeFilter) ([]Anime, error) {
	q := `SELECT ` + animeColumns + ` FROM animes WHERE average_rating >= $1`
	args := []any{f.MinRating}

	if f.Genre != "" {
		args = append(args, f.Genre)
		q += ` AND genres ? $` + strconv.Itoa(len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		q += ` AND status = $` + strconv.Itoa(len(args))
	}
	if f.Type != "" {
		args = append(args, f.Type)
		q += ` AND type = $` + strconv.Itoa(len(args))
	}

	switch f.Sort {
	case "rating":
		q += ` ORDER BY average_rating DESC, id`
	case "newest":
		q += ` ORDER BY created_at DESC, id`
	default:
		q += ` ORDER BY created_at, id`
	}

	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	args = append(args, limit)
	q += ` LIMIT $` + strconv.Itoa(len(args))
	args = append(args, f.Offset)
	q += ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var out []Anime
	for rows.Next() {
		a, err := scanAnime(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PostgresAnimeStore) Update(ctx context.Context, id string, p AnimePatch) (Anime, error) {
	q := `UPDATE animes SET updated_at = now()`
	args := []any{}

	set := func(column string, v any) {
		args = append(args, v)
		q += `, ` + column + ` = $` + strconv.Itoa(len(args))
	}
	if p.TitleEnglish != nil {
		set("title_english", *p.TitleEnglish)
	}
	if p.TitleJapanese != nil {
		set("title_japanese", *p.TitleJapanese)
	}
	if p.Synonyms != nil {
		b, _ := json.Marshal(p.Synonyms)
		set("synonyms", b)
	}
	if p.Description != nil {
		set("description", *p.Description)
	}
	if p.Genres != nil {
		b, _ := json.Marshal(p.Genres)
		set("genres", b)
	}
	if p.Type != nil {
		set("type", *p.Type)
	}
	if p.Status != nil {
		set("status", *p.Status)
	}
	if p.Aired != nil {
		set("aired", *p.Aired)
	}
	if p.Episodes != nil {
		set("episodes", *p.Episodes)
	}
	if p.Duration != nil {
		set("duration", *p.Duration)
	}
	if p.Thumbnail != nil {
		set("thumbnail", *p.Thumbnail)
	}
	if p.Banner != nil {
		set("banner", *p.Banner)
	}

	args = append(args, id)
	q += ` WHERE id = $` + strconv.Itoa(len(args)) + ` RETURNING ` + animeColumns

	return scanAnime(s.pool.QueryRow(ctx, q, args...))
}

func (s *PostgresAnimeStore) RatingSnapshot(ctx context.Context, id string) (RatingSnapshot, error) {
	const q = `SELECT average_rating, ratings_quantity FROM animes WHERE id = $1`
	var snap RatingSnapshot
	if err := s.pool.QueryRow(ctx, q, id).Scan(&snap.AverageRating, &snap.RatingsQuantity); err != nil {
		return RatingSnapshot{}, translateErr(err)
	}
	return snap, nil
}

func (s *PostgresAnimeStore) StoreRating(ctx context.Context, id string, average float64, quantity int) error {
	const q = `UPDATE animes SET average_rating = $1, ratings_quantity = $2 WHERE id = $3`
	tag, err := s.pool.Exec(ctx, q, average, quantity, id)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnime(row rowScanner) (Anime, error) {
	var a Anime
	var synonyms, genres []byte
	err := row.Scan(&a.ID, &a.TitleEnglish, &a.TitleJapanese, &synonyms, &a.Description, &genres,
		&a.Type, &a.Status, &a.Aired, &a.Episodes, &a.Duration, &a.Thumbnail, &a.Banner,
		&a.AverageRating, &a.RatingsQuantity, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return Anime{}, translateErr(err)
	}
	_ = json.Unmarshal(synonyms, &a.Synonyms)
	_ = json.Unmarshal(genres, &a.Genres)
	return a, nil
}
