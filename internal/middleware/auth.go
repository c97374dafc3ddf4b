package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pagecart/bookstore/internal/domain"
)

type contextKey string

// SessionCookieName is the cookie carrying the browsing session token.
const SessionCookieName = "bookstore_session"

// WithUser resolves the session cookie to a user and stores it in the
// request context. The middleware is optional: anonymous requests and
// stale sessions pass through without a user.
func WithUser(users domain.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetBySessionToken(r.Context(), cookie.Value)
			if err != nil || user == nil {
				// Unknown, expired, or anonymous session.
				next.ServeHTTP(w, r)
				return
			}

			current := &domain.CurrentUser{
				ID:       uuid.UUID(user.ID.Bytes),
				Username: user.Username,
				Email:    user.Email,
				IsAdmin:  user.IsAdmin,
			}
			ctx := domain.NewContextWithUser(r.Context(), current)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth ensures the request is authenticated. Browser requests are
// redirected to the login page with a return_to; API requests get a 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if domain.UserFromContext(r.Context()) == nil {
			if acceptsJSON(r) {
				respondUnauthorized(w, r)
				return
			}
			returnTo := r.URL.Path
			if r.URL.RawQuery != "" {
				returnTo += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, "/login?return_to="+returnTo, http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireAdmin ensures the user is an admin, returning 403 if not.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := domain.UserFromContext(r.Context())
		if user == nil {
			if acceptsJSON(r) {
				respondUnauthorized(w, r)
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		if !user.IsAdmin {
			respondForbidden(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}
