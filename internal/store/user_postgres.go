package store

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresUserStore persists users in Postgres. Every stat counter is a
// dedicated column so deltas can be applied with atomic increments.
type PostgresUserStore struct {
	pool *pgxpool.Pool
}

func NewPostgresUserStore(pool *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{pool: pool}
}

const userColumns = `id, username, email, role, password_hash, profile_picture, profile_is_public, created_at,
helpful_votes, not_helpful_votes, reviews_given, comments_made,
wl_watching, wl_plan_to_watch, wl_completed, wl_on_hold, wl_dropped,
wl_total_entries, wl_episodes_watched, wl_total_watch_time`

func (s *PostgresUserStore) Create(ctx context.Context, u User) (User, error) {
	role := u.Role
	if role == "" {
		role = "user"
	}
	const q = `INSERT INTO users (username, email, role, password_hash, profile_is_public)
	           VALUES ($1, $2, $3, $4, $5)
	           RETURNING ` + userColumns
	row := s.pool.QueryRow(ctx, q, u.Username, u.Email, role, u.PasswordHash, u.ProfileIsPublic)
	return scanUser(row)
}

func (s *PostgresUserStore) GetByID(ctx context.Context, id string) (User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.pool.QueryRow(ctx, q, id))
}

func (s *PostgresUserStore) GetByUsername(ctx context.Context, username string) (User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(s.pool.QueryRow(ctx, q, username))
}

func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(s.pool.QueryRow(ctx, q, email))
}

func (s *PostgresUserStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const q = `UPDATE users SET password_hash = $1 WHERE id = $2`
	tag, err := s.pool.Exec(ctx, q, passwordHash, id)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresUserStore) UpdateProfilePicture(ctx context.Context, id, key string) error {
	const q = `UPDATE users SET profile_picture = $1 WHERE id = $2`
	tag, err := s.pool.Exec(ctx, q, key, id)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresUserStore) AddStats(ctx context.Context, id string, d StatsDelta) error {
	if d.IsZero() {
		return nil
	}

	q := `UPDATE users SET `
	var args []any
	first := true
	add := func(column string, delta int) {
		if delta == 0 {
			return
		}
		if !first {
			q += `, `
		}
		first = false
		args = append(args, delta)
		q += column + ` = ` + column + ` + $` + strconv.Itoa(len(args))
	}

	add("helpful_votes", d.HelpfulVotes)
	add("not_helpful_votes", d.NotHelpfulVotes)
	add("reviews_given", d.ReviewsGiven)
	add("comments_made", d.CommentsMade)
	add("wl_watching", d.Watching)
	add("wl_plan_to_watch", d.PlanToWatch)
	add("wl_completed", d.Completed)
	add("wl_on_hold", d.OnHold)
	add("wl_dropped", d.Dropped)
	add("wl_total_entries", d.TotalEntries)
	add("wl_episodes_watched", d.EpisodesWatched)
	add("wl_total_watch_time", d.TotalWatchTime)

	args = append(args, id)
	q += ` WHERE id = $` + strconv.Itoa(len(args))

	tag, err := s.pool.Exec(ctx, q, args...)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row rowScanner) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.PasswordHash, &u.ProfilePicture,
		&u.ProfileIsPublic, &u.CreatedAt,
		&u.Stats.HelpfulVotes, &u.Stats.NotHelpfulVotes, &u.Stats.ReviewsGiven, &u.Stats.CommentsMade,
		&u.Stats.Watchlist.Watching, &u.Stats.Watchlist.PlanToWatch, &u.Stats.Watchlist.Completed,
		&u.Stats.Watchlist.OnHold, &u.Stats.Watchlist.Dropped, &u.Stats.Watchlist.TotalEntries,
		&u.Stats.Watchlist.EpisodesWatched, &u.Stats.Watchlist.TotalWatchTime)
	if err != nil {
		return User{}, translateErr(err)
	}
	return u, nil
}
