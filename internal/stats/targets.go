package stats

import (
	"context"

	"github.com/example/anihub/internal/store"
)

// ReviewVoteTarget adapts review helpfulness votes to the vote ledger.
// Review votes mirror onto the review owner's user stats.
type ReviewVoteTarget struct {
	Reviews store.ReviewStore
}

func (t ReviewVoteTarget) Owner(ctx context.Context, reviewID string) (string, error) {
	r, err := t.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		return "", err
	}
	return r.UserID, nil
}

func (t ReviewVoteTarget) Find(ctx context.Context, reviewID, voterID string) (store.ReviewVote, bool, error) {
	v, err := t.Reviews.GetVote(ctx, reviewID, voterID)
	if err != nil {
		return store.ReviewVote{}, false, err
	}
	return v, v.Helpful, nil
}

func (t ReviewVoteTarget) Insert(ctx context.Context, reviewID, voterID string, positive bool) (store.ReviewVote, error) {
	r, err := t.Reviews.GetByID(ctx, reviewID)
	if err != nil {
		return store.ReviewVote{}, err
	}
	return t.Reviews.CreateVote(ctx, store.ReviewVote{
		ReviewID: reviewID,
		AnimeID:  r.AnimeID,
		UserID:   voterID,
		Helpful:  positive,
	})
}

func (t ReviewVoteTarget) SetPolarity(ctx context.Context, v store.ReviewVote, positive bool) (store.ReviewVote, error) {
	if err := t.Reviews.SetVotePolarity(ctx, v.ID, positive); err != nil {
		return store.ReviewVote{}, err
	}
	v.Helpful = positive
	return v, nil
}

func (t ReviewVoteTarget) AddCounts(ctx context.Context, reviewID string, positiveDelta, negativeDelta int) error {
	return t.Reviews.AddVoteCounts(ctx, reviewID, positiveDelta, negativeDelta)
}

func (t ReviewVoteTarget) MirrorOwnerStats() bool { return true }

func (t ReviewVoteTarget) AlreadyVoted(positive bool) error {
	if positive {
		return &DuplicateVoteError{message: "you have already marked this review as helpful."}
	}
	return &DuplicateVoteError{message: "you have already marked this review as not helpful."}
}

// CommentLikeTarget adapts comment likes/dislikes to the vote ledger.
// Comment reactions do not mirror onto user stats.
type CommentLikeTarget struct {
	Comments store.CommentStore
}

func (t CommentLikeTarget) Owner(ctx context.Context, commentID string) (string, error) {
	c, err := t.Comments.GetByID(ctx, commentID)
	if err != nil {
		return "", err
	}
	return c.UserID, nil
}

func (t CommentLikeTarget) Find(ctx context.Context, commentID, voterID string) (store.CommentLike, bool, error) {
	l, err := t.Comments.GetLike(ctx, commentID, voterID)
	if err != nil {
		return store.CommentLike{}, false, err
	}
	return l, l.Like, nil
}

func (t CommentLikeTarget) Insert(ctx context.Context, commentID, voterID string, positive bool) (store.CommentLike, error) {
	return t.Comments.CreateLike(ctx, store.CommentLike{
		CommentID: commentID,
		UserID:    voterID,
		Like:      positive,
	})
}

func (t CommentLikeTarget) SetPolarity(ctx context.Context, l store.CommentLike, positive bool) (store.CommentLike, error) {
	if err := t.Comments.SetLikePolarity(ctx, l.ID, positive); err != nil {
		return store.CommentLike{}, err
	}
	l.Like = positive
	return l, nil
}

func (t CommentLikeTarget) AddCounts(ctx context.Context, commentID string, positiveDelta, negativeDelta int) error {
	return t.Comments.AddReactionCounts(ctx, commentID, positiveDelta, negativeDelta)
}

func (t CommentLikeTarget) MirrorOwnerStats() bool { return false }

func (t CommentLikeTarget) AlreadyVoted(positive bool) error {
	if positive {
		return &DuplicateVoteError{message: "you have already liked this comment."}
	}
	return &DuplicateVoteError{message: "you have already disliked this comment."}
}
