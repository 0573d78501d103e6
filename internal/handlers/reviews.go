package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/anihub/internal/platform/analytics"
	"github.com/example/anihub/internal/platform/api"
	"github.com/example/anihub/internal/platform/auth"
	"github.com/example/anihub/internal/stats"
	"github.com/example/anihub/internal/store"
)

// Reviews serves the per-anime review endpoints and the helpfulness votes.
// Mutations call the rating aggregator and user-stat accumulator in order
// after the primary write.
type Reviews struct {
	Store   store.ReviewStore
	Animes  store.AnimeStore
	Ratings *stats.RatingAggregator
	Users   *stats.UserStats
	Votes   *stats.VoteLedger[store.ReviewVote]
	Events  *analytics.Publisher
}

type createReviewRequest struct {
	Title   string  `json:"title"`
	Body    string  `json:"review"`
	Rating  float64 `json:"rating"`
	Spoiler bool    `json:"spoiler"`
}

type updateReviewRequest struct {
	Title   *string  `json:"title"`
	Body    *string  `json:"review"`
	Rating  *float64 `json:"rating"`
	Spoiler *bool    `json:"spoiler"`
}

func validRating(rating float64) bool {
	return rating >= 0 && rating <= 5
}

// List handles GET /v1/animes/{animeId}/reviews
func (h Reviews) List(w http.ResponseWriter, r *http.Request) {
	animeID := strings.TrimSpace(chi.URLParam(r, "animeId"))

	if _, err := h.Animes.GetByID(r.Context(), animeID); err != nil {
		respondStoreErr(w, err, "no anime found with that id.", "")
		return
	}

	limit, offset := limitOffset(r, 20, 100)
	reviews, err := h.Store.List(r.Context(), store.ReviewFilter{
		AnimeID: animeID,
		Sort:    sortParam(r),
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		api.Internal(w)
		return
	}
	api.SuccessList(w, len(reviews), map[string]any{"reviews": reviews})
}

// Create handles POST /v1/animes/{animeId}/reviews
func (h Reviews) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	animeID := strings.TrimSpace(chi.URLParam(r, "animeId"))

	var req createReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		api.BadRequest(w, "invalid JSON body.")
		return
	}
	if !validRating(req.Rating) {
		api.BadRequest(w, "rating must be between 0 and 5.")
		return
	}

	if _, err := h.Animes.GetByID(r.Context(), animeID); err != nil {
		respondStoreErr(w, err, "no anime found with that id.", "")
		return
	}

	created, err := h.Store.Create(r.Context(), store.Review{
		UserID:  userID,
		AnimeID: animeID,
		Title:   strings.TrimSpace(req.Title),
		Body:    req.Body,
		Rating:  req.Rating,
		Spoiler: req.Spoiler,
	})
	if err != nil {
		respondStoreErr(w, err, "no anime found with that id.", "you have already reviewed this anime.")
		return
	}

	if err := h.Ratings.OnReviewCreated(r.Context(), animeID, created.Rating); err != nil {
		api.Internal(w)
		return
	}
	if err := h.Users.ReviewGiven(r.Context(), userID); err != nil {
		api.Internal(w)
		return
	}

	h.Events.Publish(analytics.SubjectReviewCreated, "review_created", userID, map[string]any{
		"anime_id": animeID,
		"rating":   created.Rating,
	})
	api.Success(w, http.StatusCreated, map[string]any{"review": created})
}

// Get handles GET /v1/animes/{animeId}/reviews/{reviewId}
func (h Reviews) Get(w http.ResponseWriter, r *http.Request) {
	review, ok := h.reviewForAnime(w, r)
	if !ok {
		return
	}
	api.Success(w, http.StatusOK, map[string]any{"review": review})
}

// MyReview handles GET /v1/animes/{animeId}/reviews/my-review
func (h Reviews) MyReview(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	animeID := strings.TrimSpace(chi.URLParam(r, "animeId"))

	review, err := h.Store.GetByUserAndAnime(r.Context(), userID, animeID)
	if err != nil {
		respondStoreErr(w, err, "you have not reviewed this anime.", "")
		return
	}
	api.Success(w, http.StatusOK, map[string]any{"review": review})
}

// UpdateMyReview handles PATCH /v1/animes/{animeId}/reviews/my-review.
// The pre-update rating is captured from a fresh read and handed to the
// aggregator once; it is never persisted.
func (h Reviews) UpdateMyReview(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	animeID := strings.TrimSpace(chi.URLParam(r, "animeId"))

	var req updateReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		api.BadRequest(w, "invalid JSON body.")
		return
	}
	if req.Rating != nil && !validRating(*req.Rating) {
		api.BadRequest(w, "rating must be between 0 and 5.")
		return
	}

	current, err := h.Store.GetByUserAndAnime(r.Context(), userID, animeID)
	if err != nil {
		respondStoreErr(w, err, "you have not reviewed this anime.", "")
		return
	}
	oldRating := current.Rating

	updated, err := h.Store.UpdateOwned(r.Context(), userID, animeID, store.ReviewPatch{
		Title:   req.Title,
		Body:    req.Body,
		Rating:  req.Rating,
		Spoiler: req.Spoiler,
	})
	if err != nil {
		respondStoreErr(w, err, "you have not reviewed this anime.", "")
		return
	}

	if req.Rating != nil {
		if err := h.Ratings.OnReviewRatingChanged(r.Context(), animeID, oldRating, *req.Rating); err != nil {
			api.Internal(w)
			return
		}
	}
	api.Success(w, http.StatusOK, map[string]any{"review": updated})
}

// DeleteMyReview handles DELETE /v1/animes/{animeId}/reviews/my-review
func (h Reviews) DeleteMyReview(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	animeID := strings.TrimSpace(chi.URLParam(r, "animeId"))

	deleted, err := h.Store.DeleteOwned(r.Context(), userID, animeID)
	if err != nil {
		respondStoreErr(w, err, "you have not reviewed this anime.", "")
		return
	}

	if err := h.Ratings.OnReviewDeleted(r.Context(), animeID, deleted.Rating); err != nil {
		api.Internal(w)
		return
	}
	if err := h.Users.ReviewRemoved(r.Context(), userID); err != nil {
		api.Internal(w)
		return
	}

	h.Events.Publish(analytics.SubjectReviewDeleted, "review_deleted", userID, map[string]any{"anime_id": animeID})
	api.NoContent(w)
}

// Helpful handles POST /v1/animes/{animeId}/reviews/{reviewId}/helpful
func (h Reviews) Helpful(w http.ResponseWriter, r *http.Request) {
	h.castVote(w, r, true)
}

// NotHelpful handles POST /v1/animes/{animeId}/reviews/{reviewId}/not-helpful
func (h Reviews) NotHelpful(w http.ResponseWriter, r *http.Request) {
	h.castVote(w, r, false)
}

func (h Reviews) castVote(w http.ResponseWriter, r *http.Request, helpful bool) {
	userID, _ := auth.UserIDFromContext(r.Context())

	review, ok := h.reviewForAnime(w, r)
	if !ok {
		return
	}

	vote, isNew, err := h.Votes.CastVote(r.Context(), review.ID, userID, helpful)
	if err != nil {
		respondStoreErr(w, err, "no review found with that id.", "")
		return
	}

	h.Events.Publish(analytics.SubjectReviewVoted, "review_voted", userID, map[string]any{
		"review_id": review.ID,
		"helpful":   helpful,
	})
	status := http.StatusOK
	if isNew {
		status = http.StatusCreated
	}
	api.Success(w, status, map[string]any{"vote": vote})
}

// reviewForAnime resolves {reviewId} and confirms it belongs to {animeId}.
// A review under a different anime is reported as missing.
func (h Reviews) reviewForAnime(w http.ResponseWriter, r *http.Request) (store.Review, bool) {
	animeID := strings.TrimSpace(chi.URLParam(r, "animeId"))
	reviewID := strings.TrimSpace(chi.URLParam(r, "reviewId"))

	review, err := h.Store.GetByID(r.Context(), reviewID)
	if err != nil {
		respondStoreErr(w, err, "no review found with that id.", "")
		return store.Review{}, false
	}
	if review.AnimeID != animeID {
		api.NotFound(w, "no review found with that id.")
		return store.Review{}, false
	}
	return review, true
}
