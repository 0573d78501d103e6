package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/example/anihub/internal/blob"
	"github.com/example/anihub/internal/platform/analytics"
	"github.com/example/anihub/internal/platform/api"
	"github.com/example/anihub/internal/platform/auth"
	"github.com/example/anihub/internal/store"
	"github.com/example/anihub/internal/tokens"
)

const maxProfilePictureBytes = 5 << 20

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,32}$`)
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func isValidUsername(s string) bool {
	return usernameRe.MatchString(strings.TrimSpace(s))
}

func isValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) > 254 {
		return false
	}
	return emailRe.MatchString(s)
}

// Users serves account lifecycle endpoints: signup, login, password change,
// profile picture upload and the owner's stats view.
type Users struct {
	Store          store.UserStore
	Tokens         tokens.Service
	Blobs          blob.Store
	Events         *analytics.Publisher
	MinPasswordLen int
}

type signupRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ProfileIsPublic *bool  `json:"profileIsPublic,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (h Users) minPasswordLen() int {
	if h.MinPasswordLen > 0 {
		return h.MinPasswordLen
	}
	return 8
}

func (h Users) issueToken(w http.ResponseWriter, u store.User, status int) {
	token, _, err := h.Tokens.NewAccessToken(u.ID, u.Role, time.Now().UTC())
	if err != nil {
		api.Internal(w)
		return
	}
	api.Success(w, status, map[string]any{"user": u, "token": token})
}

// Signup handles POST /v1/users/signup
func (h Users) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		api.BadRequest(w, "invalid JSON body.")
		return
	}
	if !isValidUsername(req.Username) {
		api.BadRequest(w, "username must be 3-32 characters, letters, digits or underscore.")
		return
	}
	if !isValidEmail(req.Email) {
		api.BadRequest(w, "please provide a valid email address.")
		return
	}
	if len(req.Password) < h.minPasswordLen() {
		api.BadRequest(w, fmt.Sprintf("password must be at least %d characters long.", h.minPasswordLen()))
		return
	}

	hash, err := tokens.HashPassword(req.Password)
	if err != nil {
		api.Internal(w)
		return
	}

	public := true
	if req.ProfileIsPublic != nil {
		public = *req.ProfileIsPublic
	}
	created, err := h.Store.Create(r.Context(), store.User{
		Username:        strings.TrimSpace(req.Username),
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		Role:            "user",
		PasswordHash:    hash,
		ProfileIsPublic: public,
	})
	if err != nil {
		respondStoreErr(w, err, "", "a user with that email or username already exists.")
		return
	}

	h.Events.Publish(analytics.SubjectUserRegistered, "user_registered", created.ID, nil)
	h.issueToken(w, created, http.StatusCreated)
}

// Login handles POST /v1/users/login
func (h Users) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		api.BadRequest(w, "invalid JSON body.")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		api.BadRequest(w, "please provide email and password.")
		return
	}

	u, err := h.Store.GetByEmail(r.Context(), strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			api.Unauthorized(w, "incorrect email or password.")
			return
		}
		api.Internal(w)
		return
	}
	if !tokens.CheckPassword(u.PasswordHash, req.Password) {
		api.Unauthorized(w, "incorrect email or password.")
		return
	}

	h.Events.Publish(analytics.SubjectUserLoggedIn, "user_logged_in", u.ID, nil)
	h.issueToken(w, u, http.StatusOK)
}

// UpdatePassword handles PATCH /v1/users/update-my-password
func (h Users) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req updatePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		api.BadRequest(w, "invalid JSON body.")
		return
	}
	if len(req.NewPassword) < h.minPasswordLen() {
		api.BadRequest(w, fmt.Sprintf("password must be at least %d characters long.", h.minPasswordLen()))
		return
	}

	u, err := h.Store.GetByID(r.Context(), userID)
	if err != nil {
		api.Internal(w)
		return
	}
	if !tokens.CheckPassword(u.PasswordHash, req.CurrentPassword) {
		api.Unauthorized(w, "your current password is wrong.")
		return
	}

	hash, err := tokens.HashPassword(req.NewPassword)
	if err != nil {
		api.Internal(w)
		return
	}
	if err := h.Store.UpdatePassword(r.Context(), userID, hash); err != nil {
		api.Internal(w)
		return
	}

	h.issueToken(w, u, http.StatusOK)
}

// ProfilePicture handles PUT /v1/users/profile-picture
func (h Users) ProfilePicture(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := r.ParseMultipartForm(maxProfilePictureBytes); err != nil {
		api.BadRequest(w, "could not parse the uploaded file.")
		return
	}
	file, header, err := r.FormFile("profilePicture")
	if err != nil {
		api.BadRequest(w, "please provide a file in the profilePicture field.")
		return
	}
	defer file.Close()

	key := "profiles/" + userID + strings.ToLower(filepath.Ext(header.Filename))
	contentType := header.Header.Get("Content-Type")
	if err := h.Blobs.Put(r.Context(), key, contentType, file); err != nil {
		api.Internal(w)
		return
	}
	if err := h.Store.UpdateProfilePicture(r.Context(), userID, key); err != nil {
		api.Internal(w)
		return
	}

	api.Success(w, http.StatusOK, map[string]any{"profilePicture": key})
}

// MyStats handles GET /v1/users/me/stats
func (h Users) MyStats(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	u, err := h.Store.GetByID(r.Context(), userID)
	if err != nil {
		respondStoreErr(w, err, "no user found with that id.", "")
		return
	}
	api.Success(w, http.StatusOK, map[string]any{"stats": u.Stats})
}
