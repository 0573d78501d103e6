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

// Watchlist serves the watchlist endpoints. Status transitions flow through
// the watchlist tracker so the owner's aggregate counters stay consistent.
type Watchlist struct {
	Store   store.WatchlistStore
	Animes  store.AnimeStore
	Users   store.UserStore
	Tracker *stats.WatchlistTracker
	Events  *analytics.Publisher
}

type createWatchlistRequest struct {
	AnimeID string `json:"anime"`
	Status  string `json:"status"`
}

type updateWatchlistRequest struct {
	Status string `json:"status"`
}

func watchlistFilter(r *http.Request) (store.WatchlistFilter, error) {
	limit, offset := limitOffset(r, 50, 200)
	f := store.WatchlistFilter{
		Sort:   sortParam(r),
		Limit:  limit,
		Offset: offset,
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, err := store.ParseWatchStatus(raw)
		if err != nil {
			return store.WatchlistFilter{}, err
		}
		f.Status = status
	}
	return f, nil
}

// Public handles GET /v1/watchlist?username=... A missing user and a
// private profile produce the same 404 so the endpoint cannot be used to
// probe which usernames exist.
func (h Watchlist) Public(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	if username == "" {
		api.BadRequest(w, "please provide a username.")
		return
	}

	owner, err := h.Users.GetByUsername(r.Context(), username)
	if err != nil || !owner.ProfileIsPublic {
		api.NotFound(w, "no user found with that username.")
		return
	}

	f, err := watchlistFilter(r)
	if err != nil {
		api.BadRequest(w, err.Error())
		return
	}
	entries, err := h.Store.ListByUser(r.Context(), owner.ID, f)
	if err != nil {
		api.Internal(w)
		return
	}
	api.SuccessList(w, len(entries), map[string]any{"watchlist": entries})
}

// My handles GET /v1/watchlist/my-watchlist
func (h Watchlist) My(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	f, err := watchlistFilter(r)
	if err != nil {
		api.BadRequest(w, err.Error())
		return
	}
	entries, err := h.Store.ListByUser(r.Context(), userID, f)
	if err != nil {
		api.Internal(w)
		return
	}
	api.SuccessList(w, len(entries), map[string]any{"watchlist": entries})
}

// Create handles POST /v1/watchlist
func (h Watchlist) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req createWatchlistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		api.BadRequest(w, "invalid JSON body.")
		return
	}
	status, err := store.ParseWatchStatus(strings.TrimSpace(req.Status))
	if err != nil {
		api.BadRequest(w, err.Error())
		return
	}

	anime, err := h.Animes.GetByID(r.Context(), strings.TrimSpace(req.AnimeID))
	if err != nil {
		respondStoreErr(w, err, "no anime found with that id.", "")
		return
	}

	created, err := h.Store.Create(r.Context(), store.WatchlistEntry{
		UserID:    userID,
		AnimeID:   anime.ID,
		Status:    status,
		Title:     anime.TitleEnglish,
		Thumbnail: anime.Thumbnail,
	})
	if err != nil {
		respondStoreErr(w, err, "no anime found with that id.", "this anime is already on your watchlist.")
		return
	}

	if err := h.Tracker.OnEntryCreated(r.Context(), userID, status); err != nil {
		api.Internal(w)
		return
	}

	h.Events.Publish(analytics.SubjectWatchlistUpdated, "watchlist_entry_created", userID, map[string]any{
		"anime_id": anime.ID,
		"status":   string(status),
	})
	api.Success(w, http.StatusCreated, map[string]any{"entry": created})
}

// SetStatus handles PATCH /v1/watchlist/{entryId}. The pre-update entry
// returned by the store carries the old status for the transition delta.
func (h Watchlist) SetStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	entryID := strings.TrimSpace(chi.URLParam(r, "entryId"))

	var req updateWatchlistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		api.BadRequest(w, "invalid JSON body.")
		return
	}
	status, err := store.ParseWatchStatus(strings.TrimSpace(req.Status))
	if err != nil {
		api.BadRequest(w, err.Error())
		return
	}

	previous, err := h.Store.SetStatusOwned(r.Context(), entryID, userID, status)
	if err != nil {
		respondStoreErr(w, err, "no watchlist entry found with that id.", "")
		return
	}

	anime, err := h.Animes.GetByID(r.Context(), previous.AnimeID)
	if err != nil {
		api.Internal(w)
		return
	}
	if err := h.Tracker.OnStatusChanged(r.Context(), userID, anime.Episodes, anime.Duration, previous.Status, status); err != nil {
		api.Internal(w)
		return
	}

	h.Events.Publish(analytics.SubjectWatchlistUpdated, "watchlist_status_changed", userID, map[string]any{
		"anime_id": previous.AnimeID,
		"from":     string(previous.Status),
		"to":       string(status),
	})

	updated := previous
	updated.Status = status
	api.Success(w, http.StatusOK, map[string]any{"entry": updated})
}

// Delete handles DELETE /v1/watchlist/{entryId}
func (h Watchlist) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	entryID := strings.TrimSpace(chi.URLParam(r, "entryId"))

	deleted, err := h.Store.DeleteOwned(r.Context(), entryID, userID)
	if err != nil {
		respondStoreErr(w, err, "no watchlist entry found with that id.", "")
		return
	}

	anime, err := h.Animes.GetByID(r.Context(), deleted.AnimeID)
	if err != nil {
		api.Internal(w)
		return
	}
	if err := h.Tracker.OnEntryDeleted(r.Context(), userID, deleted.Status, anime.Episodes, anime.Duration); err != nil {
		api.Internal(w)
		return
	}

	h.Events.Publish(analytics.SubjectWatchlistUpdated, "watchlist_entry_deleted", userID, map[string]any{
		"anime_id": deleted.AnimeID,
	})
	api.NoContent(w)
}
