package storefront

import (
	"net/http"
	"time"

	"github.com/pagecart/bookstore/internal/domain"
)

// BaseTemplateData returns common data for all templates
func BaseTemplateData(r *http.Request) map[string]interface{} {
	data := map[string]interface{}{
		"Year": time.Now().Year(),
	}

	// Add user if authenticated
	user := domain.UserFromContext(r.Context())
	if user != nil {
		data["User"] = user
	}

	return data
}

// safeReturnTo restricts post-login redirects to local paths.
func safeReturnTo(returnTo string) string {
	if returnTo == "" || returnTo[0] != '/' {
		return "/"
	}
	if len(returnTo) > 1 && returnTo[1] == '/' {
		return "/"
	}
	return returnTo
}
