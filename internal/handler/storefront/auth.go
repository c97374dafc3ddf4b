package storefront

import (
	"net/http"

	"github.com/pagecart/bookstore/internal/domain"
	"github.com/pagecart/bookstore/internal/handler"
)

// LoginHandler handles the login page and form submission
type LoginHandler struct {
	users    domain.UserService
	resolver *CartResolver
	renderer *handler.Renderer
}

// NewLoginHandler creates a new login handler
func NewLoginHandler(users domain.UserService, resolver *CartResolver, renderer *handler.Renderer) *LoginHandler {
	return &LoginHandler{
		users:    users,
		resolver: resolver,
		renderer: renderer,
	}
}

// ShowForm handles GET /login
func (h *LoginHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	data := BaseTemplateData(r)
	data["ReturnTo"] = safeReturnTo(r.URL.Query().Get("return_to"))
	h.renderer.RenderHTTP(w, "login", data)
}

// Submit handles POST /login
func (h *LoginHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("user.login", "Invalid form data"))
		return
	}

	// Make sure a session exists so the anonymous cart survives login.
	_, token, err := h.resolver.Resolve(w, r)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	_, err = h.users.Login(r.Context(), r.FormValue("username"), r.FormValue("password"), token)
	if err != nil {
		data := BaseTemplateData(r)
		data["Error"] = domain.ErrorMessage(err)
		data["Username"] = r.FormValue("username")
		data["ReturnTo"] = safeReturnTo(r.FormValue("return_to"))
		w.WriteHeader(handler.ErrorCodeToHTTPStatus(domain.ErrorCode(err)))
		h.renderer.RenderHTTP(w, "login", data)
		return
	}

	http.Redirect(w, r, safeReturnTo(r.FormValue("return_to")), http.StatusSeeOther)
}

// RegisterHandler handles the registration page and form submission
type RegisterHandler struct {
	users    domain.UserService
	renderer *handler.Renderer
}

// NewRegisterHandler creates a new register handler
func NewRegisterHandler(users domain.UserService, renderer *handler.Renderer) *RegisterHandler {
	return &RegisterHandler{
		users:    users,
		renderer: renderer,
	}
}

// ShowForm handles GET /register
func (h *RegisterHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.RenderHTTP(w, "register", BaseTemplateData(r))
}

// Submit handles POST /register
func (h *RegisterHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		handler.ErrorResponse(w, r, domain.Invalid("user.register", "Invalid form data"))
		return
	}

	_, err := h.users.Register(r.Context(), domain.RegisterParams{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
	})
	if err != nil {
		data := BaseTemplateData(r)
		data["Username"] = r.FormValue("username")
		data["Email"] = r.FormValue("email")
		if fields := domain.GetValidationFields(err); fields != nil {
			data["FieldErrors"] = fields
		} else {
			data["Error"] = domain.ErrorMessage(err)
		}
		w.WriteHeader(handler.ErrorCodeToHTTPStatus(domain.ErrorCode(err)))
		h.renderer.RenderHTTP(w, "register", data)
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// LogoutHandler handles POST /logout
type LogoutHandler struct {
	users domain.UserService
}

// NewLogoutHandler creates a new logout handler
func NewLogoutHandler(users domain.UserService) *LogoutHandler {
	return &LogoutHandler{users: users}
}

// ServeHTTP handles POST /logout
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if token := SessionCookieFromRequest(r); token != "" {
		if err := h.users.Logout(r.Context(), token); err != nil {
			handler.ErrorResponse(w, r, err)
			return
		}
	}

	ClearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
