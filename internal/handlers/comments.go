package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/anihub/internal/platform/analytics"
	"github.com/example/anihub/internal/platform/api"
	"github.com/example/anihub/internal/platform/auth"
	"github.com/example/anihub/internal/stats"
	"github.com/example/anihub/internal/store"
)

// Comments serves the per-episode comment thread: top-level comments,
// single-level replies and like/dislike reactions.
type Comments struct {
	Store    store.CommentStore
	Episodes store.EpisodeStore
	Users    store.UserStore
	Stats    *stats.UserStats
	Likes    *stats.VoteLedger[store.CommentLike]
	Events   *analytics.Publisher
}

type createCommentRequest struct {
	Body     string  `json:"comment"`
	ParentID *string `json:"parent,omitempty"`
}

type updateCommentRequest struct {
	Body string `json:"comment"`
}

// List handles GET /v1/episodes/{episodeId}/comments
func (h Comments) List(w http.ResponseWriter, r *http.Request) {
	episodeID := strings.TrimSpace(chi.URLParam(r, "episodeId"))

	if _, err := h.Episodes.GetByID(r.Context(), episodeID); err != nil {
		respondStoreErr(w, err, "no episode found with that id.", "")
		return
	}

	limit, offset := limitOffset(r, 50, 100)
	comments, err := h.Store.ListTopLevel(r.Context(), episodeID, limit, offset)
	if err != nil {
		api.Internal(w)
		return
	}
	api.SuccessList(w, len(comments), map[string]any{"comments": comments})
}

// Create handles POST /v1/episodes/{episodeId}/comments. A parent id in the
// body makes the comment a reply; replies cannot themselves be replied to.
func (h Comments) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	episodeID := strings.TrimSpace(chi.URLParam(r, "episodeId"))

	var req createCommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		api.BadRequest(w, "invalid JSON body.")
		return
	}
	if strings.TrimSpace(req.Body) == "" {
		api.BadRequest(w, "comment must not be empty.")
		return
	}

	if _, err := h.Episodes.GetByID(r.Context(), episodeID); err != nil {
		respondStoreErr(w, err, "no episode found with that id.", "")
		return
	}

	if req.ParentID != nil {
		parent, err := h.Store.GetByID(r.Context(), *req.ParentID)
		if err != nil || parent.EpisodeID != episodeID {
			api.NotFound(w, "no comment found with that id.")
			return
		}
		if parent.ParentID != nil {
			api.BadRequest(w, "you can only reply to a top-level comment.")
			return
		}
	}

	commenter, err := h.Users.GetByID(r.Context(), userID)
	if err != nil {
		api.Internal(w)
		return
	}

	created, err := h.Store.Create(r.Context(), store.Comment{
		EpisodeID:      episodeID,
		UserID:         userID,
		ParentID:       req.ParentID,
		Body:           req.Body,
		Username:       commenter.Username,
		ProfilePicture: commenter.ProfilePicture,
	})
	if err != nil {
		api.Internal(w)
		return
	}

	if created.ParentID != nil {
		if err := h.Store.AddReplyCount(r.Context(), *created.ParentID, 1); err != nil {
			api.Internal(w)
			return
		}
	}
	if err := h.Stats.CommentMade(r.Context(), userID); err != nil {
		api.Internal(w)
		return
	}

	h.Events.Publish(analytics.SubjectCommentCreated, "comment_created", userID, map[string]any{
		"episode_id": episodeID,
		"reply":      created.ParentID != nil,
	})
	api.Success(w, http.StatusCreated, map[string]any{"comment": created})
}

// Update handles PATCH /v1/episodes/{episodeId}/comments/{commentId}
func (h Comments) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	comment, ok := h.commentForEpisode(w, r)
	if !ok {
		return
	}

	var req updateCommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		api.BadRequest(w, "invalid JSON body.")
		return
	}
	if strings.TrimSpace(req.Body) == "" {
		api.BadRequest(w, "comment must not be empty.")
		return
	}

	updated, err := h.Store.UpdateBodyOwned(r.Context(), comment.ID, userID, req.Body)
	if err != nil {
		respondStoreErr(w, err, "no comment found with that id.", "")
		return
	}
	api.Success(w, http.StatusOK, map[string]any{"comment": updated})
}

// Delete handles DELETE /v1/episodes/{episodeId}/comments/{commentId}.
// Deleting a top-level comment removes its direct replies and its own
// reaction records; reply reactions are left behind. commentsMade on the
// author is not decremented.
func (h Comments) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	comment, ok := h.commentForEpisode(w, r)
	if !ok {
		return
	}

	deleted, err := h.Store.DeleteOwned(r.Context(), comment.ID, userID)
	if err != nil {
		respondStoreErr(w, err, "no comment found with that id.", "")
		return
	}

	repliesRemoved := 0
	if deleted.ParentID == nil {
		replyIDs, err := h.Store.DeleteReplies(r.Context(), deleted.ID)
		if err != nil {
			api.Internal(w)
			return
		}
		repliesRemoved = len(replyIDs)
		if err := h.Store.DeleteLikesFor(r.Context(), deleted.ID); err != nil {
			api.Internal(w)
			return
		}
	} else {
		if err := h.Store.AddReplyCount(r.Context(), *deleted.ParentID, -1); err != nil {
			api.Internal(w)
			return
		}
	}

	h.Events.Publish(analytics.SubjectCommentReacted, "comment_deleted", userID, map[string]any{
		"comment_id":      deleted.ID,
		"replies_removed": repliesRemoved,
	})
	api.NoContent(w)
}

// Replies handles GET /v1/episodes/{episodeId}/comments/{commentId}/replies
func (h Comments) Replies(w http.ResponseWriter, r *http.Request) {
	comment, ok := h.commentForEpisode(w, r)
	if !ok {
		return
	}

	replies, err := h.Store.ListReplies(r.Context(), comment.EpisodeID, comment.ID)
	if err != nil {
		api.Internal(w)
		return
	}
	api.SuccessList(w, len(replies), map[string]any{"comments": replies})
}

// Like handles POST /v1/episodes/{episodeId}/comments/{commentId}/like
func (h Comments) Like(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, true)
}

// Dislike handles POST /v1/episodes/{episodeId}/comments/{commentId}/dislike
func (h Comments) Dislike(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, false)
}

func (h Comments) react(w http.ResponseWriter, r *http.Request, like bool) {
	userID, _ := auth.UserIDFromContext(r.Context())

	comment, ok := h.commentForEpisode(w, r)
	if !ok {
		return
	}

	reaction, isNew, err := h.Likes.CastVote(r.Context(), comment.ID, userID, like)
	if err != nil {
		respondStoreErr(w, err, "no comment found with that id.", "")
		return
	}

	h.Events.Publish(analytics.SubjectCommentReacted, "comment_reacted", userID, map[string]any{
		"comment_id": comment.ID,
		"like":       like,
	})
	status := http.StatusOK
	if isNew {
		status = http.StatusCreated
	}
	api.Success(w, status, map[string]any{"reaction": reaction})
}

// MyReaction handles GET /v1/episodes/{episodeId}/comments/{commentId}/my-reaction
func (h Comments) MyReaction(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	comment, ok := h.commentForEpisode(w, r)
	if !ok {
		return
	}

	reaction, err := h.Store.GetLike(r.Context(), comment.ID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			api.Success(w, http.StatusOK, map[string]any{"reaction": nil})
			return
		}
		api.Internal(w)
		return
	}
	api.Success(w, http.StatusOK, map[string]any{"reaction": reaction})
}

// commentForEpisode resolves {commentId} and confirms it belongs to
// {episodeId}.
func (h Comments) commentForEpisode(w http.ResponseWriter, r *http.Request) (store.Comment, bool) {
	episodeID := strings.TrimSpace(chi.URLParam(r, "episodeId"))
	commentID := strings.TrimSpace(chi.URLParam(r, "commentId"))

	comment, err := h.Store.GetByID(r.Context(), commentID)
	if err != nil {
		respondStoreErr(w, err, "no comment found with that id.", "")
		return store.Comment{}, false
	}
	if comment.EpisodeID != episodeID {
		api.NotFound(w, "no comment found with that id.")
		return store.Comment{}, false
	}
	return comment, true
}
