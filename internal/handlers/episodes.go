package handlers

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/example/anihub/internal/blob"
	"github.com/example/anihub/internal/platform/analytics"
	"github.com/example/anihub/internal/platform/api"
	"github.com/example/anihub/internal/platform/auth"
	"github.com/example/anihub/internal/platform/signing"
	"github.com/example/anihub/internal/store"
)

const maxVideoBytes = 512 << 20
const playbackTTL = 6 * time.Hour

// Episodes serves episode CRUD under an anime plus video upload and the
// signed playback stream.
type Episodes struct {
	Store      store.EpisodeStore
	Animes     store.AnimeStore
	Blobs      blob.Store
	Signer     *signing.Signer
	Events     *analytics.Publisher
	StreamPath string // base path of the Stream handler, e.g. "/v1/stream"
}

type createEpisodeRequest struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail"`
}

type updateEpisodeRequest struct {
	Number    *int    `json:"number"`
	Title     *string `json:"title"`
	Thumbnail *string `json:"thumbnail"`
}

// episodeView is an Episode plus the per-viewer playback URL.
type episodeView struct {
	store.Episode
	PlaybackURL string `json:"playbackUrl,omitempty"`
}

func (h Episodes) view(e store.Episode, viewerID string) episodeView {
	v := episodeView{Episode: e}
	if e.VideoKey == "" || viewerID == "" || h.Signer == nil {
		return v
	}
	tok := h.Signer.Sign(e.VideoKey, viewerID, time.Now().Add(playbackTTL))
	if u, err := signing.PlaybackURL(h.StreamPath, tok); err == nil {
		v.PlaybackURL = u
	}
	return v
}

// Create handles POST /v1/animes/{animeId}/episodes
func (h Episodes) Create(w http.ResponseWriter, r *http.Request) {
	animeID := strings.TrimSpace(chi.URLParam(r, "animeId"))

	var req createEpisodeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		api.BadRequest(w, "invalid JSON body.")
		return
	}
	if req.Number < 1 {
		api.BadRequest(w, "episode number must be positive.")
		return
	}

	if _, err := h.Animes.GetByID(r.Context(), animeID); err != nil {
		respondStoreErr(w, err, "no anime found with that id.", "")
		return
	}

	created, err := h.Store.Create(r.Context(), store.Episode{
		AnimeID:   animeID,
		Number:    req.Number,
		Title:     strings.TrimSpace(req.Title),
		Thumbnail: req.Thumbnail,
	})
	if err != nil {
		respondStoreErr(w, err, "no anime found with that id.", "this anime already has an episode with that number.")
		return
	}
	api.Success(w, http.StatusCreated, map[string]any{"episode": created})
}

// List handles GET /v1/animes/{animeId}/episodes
func (h Episodes) List(w http.ResponseWriter, r *http.Request) {
	animeID := strings.TrimSpace(chi.URLParam(r, "animeId"))

	if _, err := h.Animes.GetByID(r.Context(), animeID); err != nil {
		respondStoreErr(w, err, "no anime found with that id.", "")
		return
	}

	episodes, err := h.Store.ListByAnime(r.Context(), animeID)
	if err != nil {
		api.Internal(w)
		return
	}

	viewerID, _ := auth.UserIDFromContext(r.Context())
	views := make([]episodeView, 0, len(episodes))
	for _, e := range episodes {
		views = append(views, h.view(e, viewerID))
	}
	api.SuccessList(w, len(views), map[string]any{"episodes": views})
}

// Update handles PATCH /v1/animes/{animeId}/episodes/{episodeId}
func (h Episodes) Update(w http.ResponseWriter, r *http.Request) {
	episode, ok := h.episodeForAnime(w, r)
	if !ok {
		return
	}

	var req updateEpisodeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		api.BadRequest(w, "invalid JSON body.")
		return
	}
	if req.Number != nil && *req.Number < 1 {
		api.BadRequest(w, "episode number must be positive.")
		return
	}

	updated, err := h.Store.Update(r.Context(), episode.ID, store.EpisodePatch{
		Number:    req.Number,
		Title:     req.Title,
		Thumbnail: req.Thumbnail,
	})
	if err != nil {
		respondStoreErr(w, err, "no episode found with that id.", "this anime already has an episode with that number.")
		return
	}
	api.Success(w, http.StatusOK, map[string]any{"episode": updated})
}

// Delete handles DELETE /v1/animes/{animeId}/episodes/{episodeId}
func (h Episodes) Delete(w http.ResponseWriter, r *http.Request) {
	episode, ok := h.episodeForAnime(w, r)
	if !ok {
		return
	}

	if err := h.Store.Delete(r.Context(), episode.ID); err != nil {
		respondStoreErr(w, err, "no episode found with that id.", "")
		return
	}
	if episode.VideoKey != "" {
		// best-effort
		_ = h.Blobs.Remove(r.Context(), episode.VideoKey)
	}
	api.NoContent(w)
}

// UploadVideo handles POST /v1/animes/{animeId}/episodes/{episodeId}/video
func (h Episodes) UploadVideo(w http.ResponseWriter, r *http.Request) {
	episode, ok := h.episodeForAnime(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxVideoBytes); err != nil {
		api.BadRequest(w, "could not parse the uploaded file.")
		return
	}
	file, header, err := r.FormFile("video")
	if err != nil {
		api.BadRequest(w, "please provide a file in the video field.")
		return
	}
	defer file.Close()

	key := "episodes/" + episode.ID + "/source" + strings.ToLower(filepath.Ext(header.Filename))
	if err := h.Blobs.Put(r.Context(), key, header.Header.Get("Content-Type"), file); err != nil {
		api.Internal(w)
		return
	}
	if err := h.Store.SetVideoKey(r.Context(), episode.ID, key); err != nil {
		api.Internal(w)
		return
	}

	uploaderID, _ := auth.UserIDFromContext(r.Context())
	h.Events.Publish(analytics.SubjectEpisodeUploaded, "episode_video_uploaded", uploaderID, map[string]any{
		"episode_id": episode.ID,
	})

	updated, err := h.Store.GetByID(r.Context(), episode.ID)
	if err != nil {
		api.Internal(w)
		return
	}
	api.Success(w, http.StatusOK, map[string]any{"episode": h.view(updated, uploaderID)})
}

// Stream handles GET /v1/stream. The signed token in the query is the only
// credential; no session is required.
func (h Episodes) Stream(w http.ResponseWriter, r *http.Request) {
	tok, err := signing.ExtractToken(r.URL.Query())
	if err != nil {
		api.BadRequest(w, "missing or malformed playback token.")
		return
	}
	if h.Signer == nil || !h.Signer.Verify(tok.Key, tok.UID, tok.Exp, tok.Sig) {
		api.Forbidden(w, "invalid or expired playback token.")
		return
	}

	body, contentType, err := h.Blobs.Get(r.Context(), tok.Key)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			api.NotFound(w, "no video found for that episode.")
			return
		}
		api.Internal(w)
		return
	}
	defer body.Close()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = io.Copy(w, body)
}

// episodeForAnime resolves {episodeId} and confirms it belongs to {animeId}.
func (h Episodes) episodeForAnime(w http.ResponseWriter, r *http.Request) (store.Episode, bool) {
	animeID := strings.TrimSpace(chi.URLParam(r, "animeId"))
	episodeID := strings.TrimSpace(chi.URLParam(r, "episodeId"))

	episode, err := h.Store.GetByID(r.Context(), episodeID)
	if err != nil {
		respondStoreErr(w, err, "no episode found with that id.", "")
		return store.Episode{}, false
	}
	if episode.AnimeID != animeID {
		api.NotFound(w, "no episode found with that id.")
		return store.Episode{}, false
	}
	return episode, true
}
