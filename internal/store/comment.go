package store

import (
	"context"
	"time"
)

// Comment is a single episode comment. Top-level comments have a nil
// ParentID; replies point at their parent. Replies do not nest further.
type Comment struct {
	ID              string     `json:"id"`
	EpisodeID       string     `json:"episode"`
	UserID          string     `json:"user"`
	ParentID        *string    `json:"parent,omitempty"`
	Body            string     `json:"comment"`
	Username        string     `json:"username"`
	ProfilePicture  string     `json:"profilePicture,omitempty"`
	Likes           int        `json:"likes"`
	Dislikes        int        `json:"dislikes"`
	NumberOfReplies int        `json:"numberOfReplies"`
	CreatedAt       time.Time  `json:"createdAt"`
	ModifiedAt      *time.Time `json:"modifiedAt,omitempty"`
}

// CommentLike is a like/dislike reaction. One per (comment, user); toggled in
// place on a repeat reaction with the opposite polarity.
type CommentLike struct {
	ID        string `json:"id"`
	CommentID string `json:"comment"`
	UserID    string `json:"user"`
	Like      bool   `json:"like"`
}

// CommentStore defines the contract for comment and reaction persistence.
type CommentStore interface {
	Create(ctx context.Context, c Comment) (Comment, error)
	GetByID(ctx context.Context, id string) (Comment, error)
	ListTopLevel(ctx context.Context, episodeID string, limit, offset int) ([]Comment, error)
	ListReplies(ctx context.Context, episodeID, parentID string) ([]Comment, error)
	UpdateBodyOwned(ctx context.Context, commentID, userID, body string) (Comment, error)
	// DeleteOwned removes the comment only when it is owned by userID and
	// returns the deleted record. Existence and ownership are checked
	// together so non-owners cannot distinguish "missing" from "not yours".
	DeleteOwned(ctx context.Context, commentID, userID string) (Comment, error)
	// DeleteReplies removes all direct replies of parentID and returns their ids.
	DeleteReplies(ctx context.Context, parentID string) ([]string, error)
	// DeleteLikesFor removes every reaction record pointing at commentID.
	DeleteLikesFor(ctx context.Context, commentID string) error

	// Atomic counter increments, used exclusively by the vote ledger and the
	// reply bookkeeping in the comment handlers.
	AddReactionCounts(ctx context.Context, commentID string, likesDelta, dislikesDelta int) error
	AddReplyCount(ctx context.Context, commentID string, delta int) error

	GetLike(ctx context.Context, commentID, userID string) (CommentLike, error)
	CreateLike(ctx context.Context, l CommentLike) (CommentLike, error)
	SetLikePolarity(ctx context.Context, likeID string, like bool) error
}
