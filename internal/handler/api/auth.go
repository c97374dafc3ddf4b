package api

import (
	"net/http"
	"time"

	"github.com/pagecart/bookstore/internal/domain"
	"github.com/pagecart/bookstore/internal/middleware"
)

// AuthHandler serves registration, login, and logout over JSON.
type AuthHandler struct {
	users         domain.UserService
	carts         domain.CartService
	sessionTTL    time.Duration
	secureCookies bool
}

// NewAuthHandler creates a new API auth handler. secureCookies marks
// minted session cookies HTTPS-only.
func NewAuthHandler(users domain.UserService, carts domain.CartService, sessionTTL time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		users:         users,
		carts:         carts,
		sessionTTL:    sessionTTL,
		secureCookies: secureCookies,
	}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		errorResponse(w, r, err)
		return
	}

	user, err := h.users.Register(r.Context(), domain.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, newUserResponse(*user))
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login. The session cookie doubles as the
// API credential, so a cartless client gets a session minted here.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		errorResponse(w, r, err)
		return
	}

	token := sessionToken(r)
	_, newToken, err := h.carts.GetOrCreateCart(r.Context(), token)
	if err != nil {
		errorResponse(w, r, err)
		return
	}
	if newToken != token {
		setSessionCookie(w, newToken, h.sessionTTL, h.secureCookies)
		token = newToken
	}

	user, err := h.users.Login(r.Context(), req.Username, req.Password, token)
	if err != nil {
		errorResponse(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, newUserResponse(*user))
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := sessionToken(r); token != "" {
		if err := h.users.Logout(r.Context(), token); err != nil {
			errorResponse(w, r, err)
			return
		}
	}

	clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func setSessionCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
