package api

import (
	"net/http"
)

// ErrorResponse is the envelope for every non-2xx body. Status is "fail"
// for client and business-rule errors, "error" for server errors.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func WriteError(w http.ResponseWriter, status int, message string) {
	kind := "fail"
	if status >= http.StatusInternalServerError {
		kind = "error"
	}
	WriteJSON(w, status, ErrorResponse{Status: kind, Message: message})
}

// Convenience helpers
func BadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message)
}

func Forbidden(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusForbidden, message)
}

func NotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

// Internal hides the underlying failure from the client.
func Internal(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, "Something went wrong.")
}
