package store

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresEpisodeStore persists episodes.
type PostgresEpisodeStore struct {
	pool *pgxpool.Pool
}

func NewPostgresEpisodeStore(pool *pgxpool.Pool) *PostgresEpisodeStore {
	return &PostgresEpisodeStore{pool: pool}
}

const episodeColumns = `id, anime_id, number, title, thumbnail, video_key, created_at`

func (s *PostgresEpisodeStore) Create(ctx context.Context, e Episode) (Episode, error) {
	const q = `INSERT INTO episodes (anime_id, number, title, thumbnail)
	           VALUES ($1, $2, $3, $4)
	           RETURNING ` + episodeColumns
	return scanEpisode(s.pool.QueryRow(ctx, q, e.AnimeID, e.Number, e.Title, e.Thumbnail))
}

func (s *PostgresEpisodeStore) GetByID(ctx context.Context, id string) (Episode, error) {
	const q = `SELECT ` + episodeColumns + ` FROM episodes WHERE id = $1`
	return scanEpisode(s.pool.QueryRow(ctx, q, id))
}

func (s *PostgresEpisodeStore) ListByAnime(ctx context.Context, animeID string) ([]Episode, error) {
	const q = `SELECT ` + episodeColumns + ` FROM episodes WHERE anime_id = $1 ORDER BY number`
	rows, err := s.pool.Query(ctx, q, animeID)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var out []Episode
	for rows.Next() {
		e, err := scanEpisode(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PostgresEpisodeStore) Update(ctx context.Context, id string, p EpisodePatch) (Episode, error) {
	q := `UPDATE episodes SET id = id`
	var args []any

	set := func(column string, v any) {
		args = append(args, v)
		q += `, ` + column + ` = $` + strconv.Itoa(len(args))
	}
	if p.Number != nil {
		set("number", *p.Number)
	}
	if p.Title != nil {
		set("title", *p.Title)
	}
	if p.Thumbnail != nil {
		set("thumbnail", *p.Thumbnail)
	}

	args = append(args, id)
	q += ` WHERE id = $` + strconv.Itoa(len(args)) + ` RETURNING ` + episodeColumns

	return scanEpisode(s.pool.QueryRow(ctx, q, args...))
}

func (s *PostgresEpisodeStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM episodes WHERE id = $1`, id)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresEpisodeStore) SetVideoKey(ctx context.Context, id, key string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE episodes SET video_key = $1 WHERE id = $2`, key, id)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanEpisode(row rowScanner) (Episode, error) {
	var e Episode
	err := row.Scan(&e.ID, &e.AnimeID, &e.Number, &e.Title, &e.Thumbnail, &e.VideoKey, &e.CreatedAt)
	if err != nil {
		return Episode{}, translateErr(err)
	}
	return e, nil
}
