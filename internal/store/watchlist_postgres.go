package store

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresWatchlistStore persists watchlist entries.
type PostgresWatchlistStore struct {
	pool *pgxpool.Pool
}

func NewPostgresWatchlistStore(pool *pgxpool.Pool) *PostgresWatchlistStore {
	return &PostgresWatchlistStore{pool: pool}
}

const watchlistColumns = `id, user_id, anime_id, status, title, thumbnail, created_at`

func (s *PostgresWatchlistStore) Create(ctx context.Context, e WatchlistEntry) (WatchlistEntry, error) {
	status := e.Status
	if status == "" {
		status = StatusWatching
	}
	const q = `INSERT INTO watchlist_entries (user_id, anime_id, status, title, thumbnail)
	           VALUES ($1, $2, $3, $4, $5)
	           RETURNING ` + watchlistColumns
	row := s.pool.QueryRow(ctx, q, e.UserID, e.AnimeID, string(status), e.Title, e.Thumbnail)
	return scanWatchlistEntry(row)
}

func (s *PostgresWatchlistStore) GetOwned(ctx context.Context, entryID, userID string) (WatchlistEntry, error) {
	const q = `SELECT ` + watchlistColumns + ` FROM watchlist_entries WHERE id = $1 AND user_id = $2`
	return scanWatchlistEntry(s.pool.QueryRow(ctx, q, entryID, userID))
}

func (s *PostgresWatchlistStore) ListByUser(ctx context.Context, userID string, f WatchlistFilter) ([]WatchlistEntry, error) {
	q := `SELECT ` + watchlistColumns + ` FROM watchlist_entries WHERE user_id = $1`
	args := []any{userID}

	if f.Status != "" {
		args = append(args, string(f.Status))
		q += ` AND status = $` + strconv.Itoa(len(args))
	}

	switch f.Sort {
	case "title":
		q += ` ORDER BY title, id`
	default:
		q += ` ORDER BY created_at DESC, id DESC`
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

	var out []WatchlistEntry
	for rows.Next() {
		e, err := scanWatchlistEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *PostgresWatchlistStore) SetStatusOwned(ctx context.Context, entryID, userID string, status WatchStatus) (WatchlistEntry, error) {
	// RETURNING exposes only post-update values, so read the prior state
	// first. A concurrent writer can slip between the two statements; the
	// same window exists in every read-modify-write in this design.
	prev, err := s.GetOwned(ctx, entryID, userID)
	if err != nil {
		return WatchlistEntry{}, err
	}
	const q = `UPDATE watchlist_entries SET status = $1 WHERE id = $2 AND user_id = $3`
	tag, err := s.pool.Exec(ctx, q, string(status), entryID, userID)
	if err != nil {
		return WatchlistEntry{}, translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return WatchlistEntry{}, ErrNotFound
	}
	return prev, nil
}

func (s *PostgresWatchlistStore) DeleteOwned(ctx context.Context, entryID, userID string) (WatchlistEntry, error) {
	const q = `DELETE FROM watchlist_entries WHERE id = $1 AND user_id = $2 RETURNING ` + watchlistColumns
	return scanWatchlistEntry(s.pool.QueryRow(ctx, q, entryID, userID))
}

func scanWatchlistEntry(row rowScanner) (WatchlistEntry, error) {
	var e WatchlistEntry
	var status string
	err := row.Scan(&e.ID, &e.UserID, &e.AnimeID, &status, &e.Title, &e.Thumbnail, &e.CreatedAt)
	if err != nil {
		return WatchlistEntry{}, translateErr(err)
	}
	e.Status = WatchStatus(status)
	return e, nil
}
