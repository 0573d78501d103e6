package store

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresHomeSectionStore persists home-page sections.
type PostgresHomeSectionStore struct {
	pool *pgxpool.Pool
}

func NewPostgresHomeSectionStore(pool *pgxpool.Pool) *PostgresHomeSectionStore {
	return &PostgresHomeSectionStore{pool: pool}
}

func (s *PostgresHomeSectionStore) Create(ctx context.Context, sec HomeSection) (HomeSection, error) {
	ids, _ := json.Marshal(sec.AnimeIDs)
	const q = `INSERT INTO home_sections (title, anime_ids, position)
	           VALUES ($1, $2, $3)
	           RETURNING id, title, anime_ids, position`
	return scanHomeSection(s.pool.QueryRow(ctx, q, sec.Title, ids, sec.Position))
}

func (s *PostgresHomeSectionStore) GetByID(ctx context.Context, id string) (HomeSection, error) {
	const q = `SELECT id, title, anime_ids, position FROM home_sections WHERE id = $1`
	return scanHomeSection(s.pool.QueryRow(ctx, q, id))
}

func (s *PostgresHomeSectionStore) List(ctx context.Context) ([]HomeSection, error) {
	const q = `SELECT id, title, anime_ids, position FROM home_sections ORDER BY position, id`
	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var out []HomeSection
	for rows.Next() {
		sec, err := scanHomeSection(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sec)
	}
	return out, rows.Err()
}

func (s *PostgresHomeSectionStore) Update(ctx context.Context, id string, p HomeSectionPatch) (HomeSection, error) {
	q := `UPDATE home_sections SET id = id`
	var args []any

	set := func(column string, v any) {
		args = append(args, v)
		q += `, ` + column + ` = $` + strconv.Itoa(len(args))
	}
	if p.Title != nil {
		set("title", *p.Title)
	}
	if p.AnimeIDs != nil {
		b, _ := json.Marshal(p.AnimeIDs)
		set("anime_ids", b)
	}
	if p.Position != nil {
		set("position", *p.Position)
	}

	args = append(args, id)
	q += ` WHERE id = $` + strconv.Itoa(len(args)) + ` RETURNING id, title, anime_ids, position`

	return scanHomeSection(s.pool.QueryRow(ctx, q, args...))
}

func (s *PostgresHomeSectionStore) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM home_sections WHERE id = $1`, id)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanHomeSection(row rowScanner) (HomeSection, error) {
	var sec HomeSection
	var ids []byte
	if err := row.Scan(&sec.ID, &sec.Title, &ids, &sec.Position); err != nil {
		return HomeSection{}, translateErr(err)
	}
	_ = json.Unmarshal(ids, &sec.AnimeIDs)
	return sec, nil
}
