package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/packlist/packlist/internal/apperr"
	"github.com/packlist/packlist/internal/middleware"
	"github.com/packlist/packlist/internal/models"
	"github.com/packlist/packlist/internal/session"
)

// AuthService defines the interface for credential operations required by
// the HTTP handlers.
type AuthService interface {
	// Register creates a new user and returns its id.
	Register(ctx context.Context, username, email, password string) (int64, error)
	// Authenticate verifies an identifier (username or email) and password.
	Authenticate(ctx context.Context, identifier, password string) (*models.User, error)
	// GetUser fetches a user by id.
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

// AuthHandler handles HTTP requests for registration, login, logout and the
// current-user endpoints.
type AuthHandler struct {
	// AuthService performs the underlying credential operations.
	AuthService AuthService
	// Sessions is the server-side session store.
	Sessions *session.Manager
	// CookieName is the name of the session cookie.
	CookieName string
}

// RegisterRequest represents the JSON payload for user registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the JSON payload for login. Identifier matches
// either the username or the email.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Register handles user registration requests. It expects a JSON body with
// username, email and password, and replies 201 with the new user's public
// fields.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	id, err := h.AuthService.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":       id,
		"username": req.Username,
		"email":    req.Email,
	})
}

// Login authenticates the identifier/password pair, establishes a session
// and sets the session cookie. A valid session presented on re-login is
// discarded first, so logging in overwrites prior session state. The
// response carries the user and the session's CSRF token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	user, err := h.AuthService.Authenticate(r.Context(), req.Identifier, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	if cookie, err := r.Cookie(h.CookieName); err == nil {
		h.Sessions.Logout(cookie.Value)
	}

	s := h.Sessions.Login(user.ID)
	token, _ := h.Sessions.CSRFToken(s.ID)

	http.SetCookie(w, &http.Cookie{
		Name:     h.CookieName,
		Value:    s.ID,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, map[string]any{
		"user":       user,
		"csrf_token": token,
	})
}

// Logout invalidates the session state entirely and clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if sid := middleware.SessionIDFromContext(r.Context()); sid != "" {
		h.Sessions.Logout(sid)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the currently authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperr.ErrNotFound)
		return
	}
	user, err := h.AuthService.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// CSRFToken returns the session's CSRF token so a client holding a live
// cookie can resume making mutating requests.
func (h *AuthHandler) CSRFToken(w http.ResponseWriter, r *http.Request) {
	sid := middleware.SessionIDFromContext(r.Context())
	token, ok := h.Sessions.CSRFToken(sid)
	if !ok {
		writeError(w, apperr.ErrInvalidRequest)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"csrf_token": token})
}
