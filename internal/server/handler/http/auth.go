package http

import (
	"context"
	"net/http"
	"time"

	"github.com/atinyakov/cardmaster/internal/middleware"
	"github.com/atinyakov/cardmaster/internal/models"
	"github.com/atinyakov/cardmaster/internal/service"
)

// AuthService defines the authentication operations required by AuthHandler.
type AuthService interface {
	// Login returns the account matching the credentials, or
	// service.ErrAuthFailed.
	Login(ctx context.Context, username, password string) (models.User, error)
	// UpdateProfile changes the caller's own name, avatar and password.
	UpdateProfile(ctx context.Context, actor models.User, p service.ProfileUpdate) (models.User, error)
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Issue(u models.User) (token string, expiresAt time.Time, err error)
}

// AuthHandler handles login and the caller's own profile.
type AuthHandler struct {
	AuthService AuthService
	Tokens      TokenIssuer
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the session token and the logged-in account.
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      models.User `json:"user"`
}

// Login handles POST /api/login. It checks the credentials and returns a
// bearer token for the account.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, err := h.AuthService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	token, expires, err := h.Tokens.Issue(u)
	if err != nil {
		http.Error(w, "failed to issue token", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, LoginResponse{Token: token, ExpiresAt: expires, User: publicUser(u)})
}

// Me handles GET /api/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, _ := middleware.UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, publicUser(u))
}

// UpdateMe handles PUT /api/me.
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.UserFromContext(r.Context())

	var req service.ProfileUpdate
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := h.AuthService.UpdateProfile(r.Context(), actor, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, publicUser(u))
}
