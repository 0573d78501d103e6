package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/example/anihub/internal/platform/api"
	"github.com/example/anihub/internal/store"
)

// HomeSections serves the curated home-page section CRUD. Reads are public,
// writes are admin-only.
type HomeSections struct {
	Store  store.HomeSectionStore
	Animes store.AnimeStore
}

type createHomeSectionRequest struct {
	Title    string   `json:"title"`
	AnimeIDs []string `json:"animes"`
	Position int      `json:"position"`
}

type updateHomeSectionRequest struct {
	Title    *string  `json:"title"`
	AnimeIDs []string `json:"animes"`
	Position *int     `json:"position"`
}

func (h HomeSections) validateAnimeIDs(r *http.Request, ids []string) bool {
	for _, id := range ids {
		if _, err := h.Animes.GetByID(r.Context(), id); err != nil {
			return false
		}
	}
	return true
}

// Create handles POST /v1/home-sections
func (h HomeSections) Create(w http.ResponseWriter, r *http.Request) {
	var req createHomeSectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		api.BadRequest(w, "invalid JSON body.")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		api.BadRequest(w, "title is required.")
		return
	}
	if !h.validateAnimeIDs(r, req.AnimeIDs) {
		api.NotFound(w, "no anime found with that id.")
		return
	}

	created, err := h.Store.Create(r.Context(), store.HomeSection{
		Title:    strings.TrimSpace(req.Title),
		AnimeIDs: req.AnimeIDs,
		Position: req.Position,
	})
	if err != nil {
		api.Internal(w)
		return
	}
	api.Success(w, http.StatusCreated, map[string]any{"section": created})
}

// List handles GET /v1/home-sections
func (h HomeSections) List(w http.ResponseWriter, r *http.Request) {
	sections, err := h.Store.List(r.Context())
	if err != nil {
		api.Internal(w)
		return
	}
	api.SuccessList(w, len(sections), map[string]any{"sections": sections})
}

// Get handles GET /v1/home-sections/{sectionId}
func (h HomeSections) Get(w http.ResponseWriter, r *http.Request) {
	sectionID := strings.TrimSpace(chi.URLParam(r, "sectionId"))

	section, err := h.Store.GetByID(r.Context(), sectionID)
	if err != nil {
		respondStoreErr(w, err, "no home section found with that id.", "")
		return
	}
	api.Success(w, http.StatusOK, map[string]any{"section": section})
}

// Update handles PATCH /v1/home-sections/{sectionId}
func (h HomeSections) Update(w http.ResponseWriter, r *http.Request) {
	sectionID := strings.TrimSpace(chi.URLParam(r, "sectionId"))

	var req updateHomeSectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		api.BadRequest(w, "invalid JSON body.")
		return
	}
	if req.AnimeIDs != nil && !h.validateAnimeIDs(r, req.AnimeIDs) {
		api.NotFound(w, "no anime found with that id.")
		return
	}

	updated, err := h.Store.Update(r.Context(), sectionID, store.HomeSectionPatch{
		Title:    req.Title,
		AnimeIDs: req.AnimeIDs,
		Position: req.Position,
	})
	if err != nil {
		respondStoreErr(w, err, "no home section found with that id.", "")
		return
	}
	api.Success(w, http.StatusOK, map[string]any{"section": updated})
}

// Delete handles DELETE /v1/home-sections/{sectionId}
func (h HomeSections) Delete(w http.ResponseWriter, r *http.Request) {
	sectionID := strings.TrimSpace(chi.URLParam(r, "sectionId"))

	if err := h.Store.Delete(r.Context(), sectionID); err != nil {
		respondStoreErr(w, err, "no home section found with that id.", "")
		return
	}
	api.NoContent(w)
}
