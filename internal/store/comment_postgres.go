package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCommentStore persists comments and their reactions.
type PostgresCommentStore struct {
	pool *pgxpool.Pool
}

func NewPostgresCommentStore(pool *pgxpool.Pool) *PostgresCommentStore {
	return &PostgresCommentStore{pool: pool}
}

const commentColumns = `id, episode_id, user_id, parent_id, body, username, profile_picture,
likes, dislikes, number_of_replies, created_at, modified_at`

func (s *PostgresCommentStore) Create(ctx context.Context, c Comment) (Comment, error) {
	const q = `INSERT INTO comments (episode_id, user_id, parent_id, body, username, profile_picture)
	           VALUES ($1, $2, $3, $4, $5, $6)
	           RETURNING ` + commentColumns
	row := s.pool.QueryRow(ctx, q, c.EpisodeID, c.UserID, c.ParentID, c.Body, c.Username, c.ProfilePicture)
	return scanComment(row)
}

func (s *PostgresCommentStore) GetByID(ctx context.Context, id string) (Comment, error) {
	const q = `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`
	return scanComment(s.pool.QueryRow(ctx, q, id))
}

func (s *PostgresCommentStore) ListTopLevel(ctx context.Context, episodeID string, limit, offset int) ([]Comment, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	const q = `SELECT ` + commentColumns + ` FROM comments
	           WHERE episode_id = $1 AND parent_id IS NULL
	           ORDER BY created_at DESC, id DESC
	           LIMIT $2 OFFSET $3`
	return s.scanComments(ctx, q, episodeID, limit, offset)
}

func (s *PostgresCommentStore) ListReplies(ctx context.Context, episodeID, parentID string) ([]Comment, error) {
	const q = `SELECT ` + commentColumns + ` FROM comments
	           WHERE episode_id = $1 AND parent_id = $2
	           ORDER BY created_at ASC, id ASC`
	return s.scanComments(ctx, q, episodeID, parentID)
}

func (s *PostgresCommentStore) scanComments(ctx context.Context, q string, args ...any) ([]Comment, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var out []Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresCommentStore) UpdateBodyOwned(ctx context.Context, commentID, userID, body string) (Comment, error) {
	const q = `UPDATE comments SET body = $1, modified_at = now()
	           WHERE id = $2 AND user_id = $3
	           RETURNING ` + commentColumns
	return scanComment(s.pool.QueryRow(ctx, q, body, commentID, userID))
}

func (s *PostgresCommentStore) DeleteOwned(ctx context.Context, commentID, userID string) (Comment, error) {
	const q = `DELETE FROM comments WHERE id = $1 AND user_id = $2 RETURNING ` + commentColumns
	return scanComment(s.pool.QueryRow(ctx, q, commentID, userID))
}

func (s *PostgresCommentStore) DeleteReplies(ctx context.Context, parentID string) ([]string, error) {
	const q = `DELETE FROM comments WHERE parent_id = $1 RETURNING id`
	rows, err := s.pool.Query(ctx, q, parentID)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, translateErr(err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *PostgresCommentStore) DeleteLikesFor(ctx context.Context, commentID string) error {
	const q = `DELETE FROM comment_likes WHERE comment_id = $1`
	_, err := s.pool.Exec(ctx, q, commentID)
	return translateErr(err)
}

func (s *PostgresCommentStore) AddReactionCounts(ctx context.Context, commentID string, likesDelta, dislikesDelta int) error {
	const q = `UPDATE comments SET likes = likes + $1, dislikes = dislikes + $2 WHERE id = $3`
	tag, err := s.pool.Exec(ctx, q, likesDelta, dislikesDelta, commentID)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresCommentStore) AddReplyCount(ctx context.Context, commentID string, delta int) error {
	const q = `UPDATE comments SET number_of_replies = number_of_replies + $1 WHERE id = $2`
	tag, err := s.pool.Exec(ctx, q, delta, commentID)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresCommentStore) GetLike(ctx context.Context, commentID, userID string) (CommentLike, error) {
	const q = `SELECT id, comment_id, user_id, is_like FROM comment_likes
	           WHERE comment_id = $1 AND user_id = $2`
	var l CommentLike
	err := s.pool.QueryRow(ctx, q, commentID, userID).Scan(&l.ID, &l.CommentID, &l.UserID, &l.Like)
	if err != nil {
		return CommentLike{}, translateErr(err)
	}
	return l, nil
}

func (s *PostgresCommentStore) CreateLike(ctx context.Context, l CommentLike) (CommentLike, error) {
	const q = `INSERT INTO comment_likes (comment_id, user_id, is_like)
	           VALUES ($1, $2, $3)
	           RETURNING id`
	err := s.pool.QueryRow(ctx, q, l.CommentID, l.UserID, l.Like).Scan(&l.ID)
	if err != nil {
		return CommentLike{}, translateErr(err)
	}
	return l, nil
}

func (s *PostgresCommentStore) SetLikePolarity(ctx context.Context, likeID string, like bool) error {
	const q = `UPDATE comment_likes SET is_like = $1 WHERE id = $2`
	tag, err := s.pool.Exec(ctx, q, like, likeID)
	if err != nil {
		return translateErr(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanComment(row rowScanner) (Comment, error) {
	var c Comment
	err := row.Scan(&c.ID, &c.EpisodeID, &c.UserID, &c.ParentID, &c.Body, &c.Username, &c.ProfilePicture,
		&c.Likes, &c.Dislikes, &c.NumberOfReplies, &c.CreatedAt, &c.ModifiedAt)
	if err != nil {
		return Comment{}, translateErr(err)
	}
	return c, nil
}
