package storefront

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/pagecart/bookstore/internal/domain"
	"github.com/pagecart/bookstore/internal/handler"
)

// mockUserService implements domain.UserService for testing.
type mockUserService struct {
	registerFunc          func(ctx context.Context, params domain.RegisterParams) (*domain.User, error)
	loginFunc             func(ctx context.Context, username, password, sessionToken string) (*domain.User, error)
	logoutFunc            func(ctx context.Context, sessionToken string) error
	getBySessionTokenFunc func(ctx context.Context, sessionToken string) (*domain.User, error)
	listUsersFunc         func(ctx context.Context) ([]domain.User, error)
}

func (m *mockUserService) Register(ctx context.Context, params domain.RegisterParams) (*domain.User, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, params)
	}
	return nil, domain.Internal(nil, "test", "not implemented")
}

func (m *mockUserService) Login(ctx context.Context, username, password, sessionToken string) (*domain.User, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, username, password, sessionToken)
	}
	return nil, domain.ErrInvalidCredentials
}

func (m *mockUserService) Logout(ctx context.Context, sessionToken string) error {
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, sessionToken)
	}
	return nil
}

func (m *mockUserService) GetBySessionToken(ctx context.Context, sessionToken string) (*domain.User, error) {
	if m.getBySessionTokenFunc != nil {
		return m.getBySessionTokenFunc(ctx, sessionToken)
	}
	return nil, nil
}

func (m *mockUserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	if m.listUsersFunc != nil {
		return m.listUsersFunc(ctx)
	}
	return nil, nil
}

// mockCartService implements domain.CartService for the resolver.
type mockCartService struct {
	getOrCreateCartFunc func(ctx context.Context, sessionToken string) (*domain.Cart, string, error)
}

func (m *mockCartService) GetOrCreateCart(ctx context.Context, sessionToken string) (*domain.Cart, string, error) {
	if m.getOrCreateCartFunc != nil {
		return m.getOrCreateCartFunc(ctx, sessionToken)
	}
	return &domain.Cart{}, "minted-token", nil
}

func (m *mockCartService) GetCart(ctx context.Context, sessionToken string) (*domain.Cart, error) {
	return &domain.Cart{}, nil
}

func (m *mockCartService) AddItem(ctx context.Context, cartID string, bookID string, quantity int, replace bool) (*domain.CartSummary, error) {
	return nil, domain.Internal(nil, "test", "not implemented")
}

func (m *mockCartService) RemoveItem(ctx context.Context, cartID string, bookID string) (*domain.CartSummary, error) {
	return nil, domain.Internal(nil, "test", "not implemented")
}

func (m *mockCartService) GetCartSummary(ctx context.Context, cartID string) (*domain.CartSummary, error) {
	return nil, domain.Internal(nil, "test", "not implemented")
}

func (m *mockCartService) ClearCart(ctx context.Context, cartID string) error {
	return nil
}

func testRenderer(t *testing.T) *handler.Renderer {
	t.Helper()
	renderer, err := handler.NewRenderer("../../../web/templates")
	if err != nil {
		t.Fatalf("failed to load templates: %v", err)
	}
	return renderer
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestRegisterSubmitValidationStatus(t *testing.T) {
	users := &mockUserService{
		registerFunc: func(ctx context.Context, params domain.RegisterParams) (*domain.User, error) {
			err := domain.NewValidationError("user.register", "email", "Enter a valid email address")
			return nil, domain.AddFieldError(err, "password", "Password must be at least 8 characters")
		},
	}
	h := NewRegisterHandler(users, testRenderer(t))

	w := httptest.NewRecorder()
	h.Submit(w, postForm("/register", url.Values{
		"username": {"reader"},
		"email":    {"not-an-email"},
		"password": {"short"},
	}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status %d for validation failure, got %d", http.StatusBadRequest, w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, "Enter a valid email address") {
		t.Error("expected the email field error in the rendered form")
	}
	if !strings.Contains(body, `value="reader"`) {
		t.Error("expected the submitted username to be redisplayed")
	}
}

func TestRegisterSubmitConflictStatus(t *testing.T) {
	users := &mockUserService{
		registerFunc: func(ctx context.Context, params domain.RegisterParams) (*domain.User, error) {
			return nil, domain.ErrUsernameTaken
		},
	}
	h := NewRegisterHandler(users, testRenderer(t))

	w := httptest.NewRecorder()
	h.Submit(w, postForm("/register", url.Values{
		"username": {"reader"},
		"email":    {"reader@example.com"},
		"password": {"hunter2hunter2"},
	}))

	if w.Code != http.StatusConflict {
		t.Errorf("expected status %d for duplicate username, got %d", http.StatusConflict, w.Code)
	}
}

func TestLoginSubmitBadCredentialsStatus(t *testing.T) {
	users := &mockUserService{
		loginFunc: func(ctx context.Context, username, password, sessionToken string) (*domain.User, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	resolver := NewCartResolver(&mockCartService{}, 24*time.Hour, false)
	h := NewLoginHandler(users, resolver, testRenderer(t))

	w := httptest.NewRecorder()
	h.Submit(w, postForm("/login", url.Values{
		"username": {"reader"},
		"password": {"wrong-password"},
	}))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d for bad credentials, got %d", http.StatusUnauthorized, w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid username or password") {
		t.Error("expected the credential error in the rendered form")
	}
}
