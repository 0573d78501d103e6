package api

import (
	"encoding/json"
	"net/http"
)

// SuccessResponse is the envelope for every 2xx body.
type SuccessResponse struct {
	Status  string `json:"status"`
	Results *int   `json:"results,omitempty"`
	Data    any    `json:"data"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Success writes {status: "success", data: ...} with the given status code.
func Success(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, SuccessResponse{Status: "success", Data: data})
}

// SuccessList writes a success envelope with a results count for collections.
func SuccessList(w http.ResponseWriter, results int, data any) {
	WriteJSON(w, http.StatusOK, SuccessResponse{Status: "success", Results: &results, Data: data})
}

// NoContent writes a bare 204 for deletions.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}
