// Package handlers contains the HTTP layer: request decoding, auth checks
// and the ordered calls into the stores and stat aggregators.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/anihub/internal/platform/api"
	"github.com/example/anihub/internal/stats"
	"github.com/example/anihub/internal/store"
)

const maxJSONBody = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(dst)
}

func limitOffset(r *http.Request, def, max int) (limit, offset int) {
	limit = def
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= max {
			limit = parsed
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}

func sortParam(r *http.Request) string {
	return strings.ToLower(strings.TrimSpace(r.URL.Query().Get("sort")))
}

// respondStoreErr maps store and ledger sentinels onto the response
// envelope. Unknown errors become an opaque 500.
func respondStoreErr(w http.ResponseWriter, err error, notFoundMsg, duplicateMsg string) {
	var dup *stats.DuplicateVoteError
	switch {
	case errors.Is(err, store.ErrNotFound):
		api.NotFound(w, notFoundMsg)
	case errors.Is(err, store.ErrDuplicate):
		api.BadRequest(w, duplicateMsg)
	case errors.As(err, &dup):
		api.BadRequest(w, dup.Error())
	default:
		api.Internal(w)
	}
}
