package store

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresReviewStore persists reviews and their helpfulness votes.
type PostgresReviewStore struct {
	pool *pgxpool.Pool
}

func NewPostgresReviewStore(pool *pgxpool.Pool) *PostgresReviewStore {
	return &PostgresReviewStore{pool: pool}
}

const reviewColumns = `id, user_id, anime_id, title, body, rating, spoiler,
helpful_votes, not_helpful_votes, created_at, modified_at`

func (s *PostgresReviewStore) Create(ctx context.Context, r Review) (Review, error) {
	const q = `INSERT INTO reviews (user_id, anime_id, title, body, rating, spoiler)
	           VALUES ($1, $2, $3, $4, $5, $6)
	           RETURNING ` + reviewColumns
	row := s.pool.QueryRow(ctx, q, r.UserID, r.AnimeID, r.Title, r.Body, r.Rating, r.Spoiler)
	return scanReview(row)
}

func (s *PostgresReviewStore) GetByID(ctx context.Context, id string) (Review, error) {
	const q = `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`
	return scanReview(s.pool.QueryRow(ctx, q, id))
}

func (s *PostgresReviewStore) GetByUserAndAnime(ctx context.Context, userID, animeID string) (Review, error) {
	const q = `SELECT ` + reviewColumns + ` FROM reviews WHERE user_id = $1 AND anime_id = $2`
	return scanReview(s.pool.QueryRow(ctx, q, userID, animeID))
}

func (s *PostgresReviewStore) List(ctx context.Context, f ReviewFilter) ([]Review, error) {
	q := `SELECT ` + reviewColumns + ` FROM reviews WHERE 1=1`
	var args []any

	if f.AnimeID != "" {
		args = append(args, f.AnimeID)
		q += ` AND anime_id = $` + strconv.Itoa(len(args))
	}
	if f.UserID != "" {
		args = append(args, f.UserID)
		q += ` AND user_id = $` + strconv.Itoa(len(args))
	}

	switch f.Sort {
	case "rating":
		q += ` ORDER BY rating DESC, id`
	case "helpful":
		q += ` ORDER BY helpful_votes DESC, id`
	default:
		q += ` ORDER BY created_at DESC, id`
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

	var out []Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresReviewStore) UpdateOwned(ctx context.Context, userID, animeID string, p ReviewPatch) (Review, error) {
	q := `UPDATE reviews SET modified_at = now()`
	var args []any

	set := func(column string, v any) {
		args = append(args, v)
		q += `, ` + column + ` = $` + strconv.Itoa(len(args))
	}
	if p.Title != nil {
		set("title", *p.Title)
	}
	if p.Body != nil {
		set("body", *p.Body)
	}
	if p.Rating != nil {
		set("rating", *p.Rating)
	}
	if p.Spoiler != nil {
		set("spoiler", *p.Spoiler)
	}

	args = append(args, userID)
	q += ` WHERE user_id = $` + strconv.Itoa(len(args))
	args = append(args, animeID)
	q += ` AND anime_id = $` + strconv.Itoa(len(args)) + ` RETURNING ` + reviewColumns

	return scanReview(s.pool.QueryRow(ctx, q, args...))
}

func (s *PostgresReviewStore) DeleteOwned(ctx context.Context, userID, animeID string) (Review, error) {
	const q = `DELETE FROM reviews WHERE user_id = $1 AND anime_id = $2 RETURNING ` + reviewColumns
	return scanReview(s.pool.QueryRow(ctx, q, userID, animeID))
}

func (s *PostgresReviewStore) AddVoteCounts(ctx context.Context, reviewID string, helpfulDelta, notHelpfulDelta int) error {
	const q = `UPDATE reviews SET helpful_votes = helpful_votes + $1, not_helpful_votes = not_helpful_votes + $2
	           WHERE id = $3`
	tag, err := s.pool.Exec(ctx, q, helpfulDelta, notHelpfulDelta, reviewID)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresReviewStore) GetVote(ctx context.Context, reviewID, userID string) (ReviewVote, error) {
	const q = `SELECT id, review_id, anime_id, user_id, helpful FROM review_votes
	           WHERE review_id = $1 AND user_id = $2`
	var v ReviewVote
	err := s.pool.QueryRow(ctx, q, reviewID, userID).Scan(&v.ID, &v.ReviewID, &v.AnimeID, &v.UserID, &v.Helpful)
	if err != nil {
		return ReviewVote{}, translateErr(err)
	}
	return v, nil
}

func (s *PostgresReviewStore) CreateVote(ctx context.Context, v ReviewVote) (ReviewVote, error) {
	const q = `INSERT INTO review_votes (review_id, anime_id, user_id, helpful)
	           VALUES ($1, $2, $3, $4)
	           RETURNING id`
	err := s.pool.QueryRow(ctx, q, v.ReviewID, v.AnimeID, v.UserID, v.Helpful).Scan(&v.ID)
	if err != nil {
		return ReviewVote{}, translateErr(err)
	}
	return v, nil
}

func (s *PostgresReviewStore) SetVotePolarity(ctx context.Context, voteID string, helpful bool) error {
	const q = `UPDATE review_votes SET helpful = $1 WHERE id = $2`
	tag, err := s.pool.Exec(ctx, q, helpful, voteID)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanReview(row rowScanner) (Review, error) {
	var r Review
	err := row.Scan(&r.ID, &r.UserID, &r.AnimeID, &r.Title, &r.Body, &r.Rating, &r.Spoiler,
		&r.HelpfulVotes, &r.NotHelpfulVotes, &r.CreatedAt, &r.ModifiedAt)
	if err != nil {
		return Review{}, translateErr(err)
	}
	return r, nil
}
