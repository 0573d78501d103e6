package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/anihub/internal/platform/analytics"
	"github.com/example/anihub/internal/platform/api"
	"github.com/example/anihub/internal/store"
)

// Animes serves the public catalogue reads and the admin catalogue writes.
type Animes struct {
	Store  store.AnimeStore
	Events *analytics.Publisher
}

type createAnimeRequest struct {
	TitleEnglish  string   `json:"titleEnglish"`
	TitleJapanese string   `json:"titleJapanese"`
	Synonyms      []string `json:"synonyms"`
	Description   string   `json:"description"`
	Genres        []string `json:"genres"`
	Type          string   `json:"type"`
	Status        string   `json:"status"`
	Aired         string   `json:"aired"`
	Episodes      int      `json:"episodes"`
	Duration      int      `json:"duration"`
	Thumbnail     string   `json:"thumbnail"`
	Banner        string   `json:"banner"`
}

type updateAnimeRequest struct {
	TitleEnglish  *string  `json:"titleEnglish"`
	TitleJapanese *string  `json:"titleJapanese"`
	Synonyms      []string `json:"synonyms"`
	Description   *string  `json:"description"`
	Genres        []string `json:"genres"`
	Type          *string  `json:"type"`
	Status        *string  `json:"status"`
	Aired         *string  `json:"aired"`
	Episodes      *int     `json:"episodes"`
	Duration      *int     `json:"duration"`
	Thumbnail     *string  `json:"thumbnail"`
	Banner        *string  `json:"banner"`
}

// Create handles POST /v1/animes
func (h Animes) Create(w http.ResponseWriter, r *http.Request) {
	var req createAnimeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		api.BadRequest(w, "invalid JSON body.")
		return
	}
	if strings.TrimSpace(req.TitleEnglish) == "" {
		api.BadRequest(w, "titleEnglish is required.")
		return
	}
	if req.Episodes < 0 || req.Duration < 0 {
		api.BadRequest(w, "episodes and duration must not be negative.")
		return
	}

	created, err := h.Store.Create(r.Context(), store.Anime{
		TitleEnglish:  strings.TrimSpace(req.TitleEnglish),
		TitleJapanese: strings.TrimSpace(req.TitleJapanese),
		Synonyms:      req.Synonyms,
		Description:   req.Description,
		Genres:        req.Genres,
		Type:          req.Type,
		Status:        req.Status,
		Aired:         req.Aired,
		Episodes:      req.Episodes,
		Duration:      req.Duration,
		Thumbnail:     req.Thumbnail,
		Banner:        req.Banner,
	})
	if err != nil {
		api.Internal(w)
		return
	}

	h.Events.Publish(analytics.SubjectAnimePublished, "anime_published", "", map[string]any{"anime_id": created.ID})
	api.Success(w, http.StatusCreated, map[string]any{"anime": created})
}

// List handles GET /v1/animes
func (h Animes) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := limitOffset(r, 20, 100)

	var minRating float64
	if v := r.URL.Query().Get("minRating"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			api.BadRequest(w, "minRating must be a number.")
			return
		}
		minRating = parsed
	}

	animes, err := h.Store.List(r.Context(), store.AnimeFilter{
		Genre:     strings.TrimSpace(r.URL.Query().Get("genre")),
		Status:    strings.TrimSpace(r.URL.Query().Get("status")),
		Type:      strings.TrimSpace(r.URL.Query().Get("type")),
		MinRating: minRating,
		Sort:      sortParam(r),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		api.Internal(w)
		return
	}

	api.SuccessList(w, len(animes), map[string]any{"animes": animes})
}

// Get handles GET /v1/animes/{animeId}
func (h Animes) Get(w http.ResponseWriter, r *http.Request) {
	animeID := strings.TrimSpace(chi.URLParam(r, "animeId"))

	anime, err := h.Store.GetByID(r.Context(), animeID)
	if err != nil {
		respondStoreErr(w, err, "no anime found with that id.", "")
		return
	}
	api.Success(w, http.StatusOK, map[string]any{"anime": anime})
}

// Update handles PATCH /v1/animes/{animeId}. The rating aggregates are not
// writable here: a body naming them is rejected outright.
func (h Animes) Update(w http.ResponseWriter, r *http.Request) {
	animeID := strings.TrimSpace(chi.URLParam(r, "animeId"))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		api.BadRequest(w, "invalid JSON body.")
		return
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		api.BadRequest(w, "invalid JSON body.")
		return
	}
	for _, illegal := range []string{"averageRating", "ratingsQuantity"} {
		if _, ok := raw[illegal]; ok {
			api.BadRequest(w, "this route cannot be used to update rating fields.")
			return
		}
	}

	var req updateAnimeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		api.BadRequest(w, "invalid JSON body.")
		return
	}

	updated, err := h.Store.Update(r.Context(), animeID, store.AnimePatch{
		TitleEnglish:  req.TitleEnglish,
		TitleJapanese: req.TitleJapanese,
		Synonyms:      req.Synonyms,
		Description:   req.Description,
		Genres:        req.Genres,
		Type:          req.Type,
		Status:        req.Status,
		Aired:         req.Aired,
		Episodes:      req.Episodes,
		Duration:      req.Duration,
		Thumbnail:     req.Thumbnail,
		Banner:        req.Banner,
	})
	if err != nil {
		respondStoreErr(w, err, "no anime found with that id.", "")
		return
	}
	api.Success(w, http.StatusOK, map[string]any{"anime": updated})
}
