package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRouter_MethodRouting(t *testing.T) {
	r := New()

	var called string
	r.Get("/books", func(w http.ResponseWriter, req *http.Request) {
		called = "get"
	})
	r.Post("/books", func(w http.ResponseWriter, req *http.Request) {
		called = "post"
	})

	req := httptest.NewRequest(http.MethodPost, "/books", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)
	if called != "post" {
		t.Errorf("expected POST handler, got %q", called)
	}

	req = httptest.NewRequest(http.MethodGet, "/books", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)
	if called != "get" {
		t.Errorf("expected GET handler, got %q", called)
	}
}

func TestRouter_PathValue(t *testing.T) {
	r := New()

	var got string
	r.Get("/books/{id}", func(w http.ResponseWriter, req *http.Request) {
		got = req.PathValue("id")
	})

	req := httptest.NewRequest(http.MethodGet, "/books/abc-123", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	if got != "abc-123" {
		t.Errorf("expected path value abc-123, got %q", got)
	}
}

func TestRouter_MiddlewareOrder(t *testing.T) {
	var order []string

	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, "before "+name)
				next.ServeHTTP(w, r)
				order = append(order, "after "+name)
			})
		}
	}

	r := New(tag("global"))
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		order = append(order, "handler")
	}, tag("route"))

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	want := []string{"before global", "before route", "handler", "after route", "after global"}
	if len(order) != len(want) {
		t.Fatalf("expected order %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}

func TestRouter_GroupMiddleware(t *testing.T) {
	var groupRan bool
	requireFlag := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			groupRan = true
			next.ServeHTTP(w, r)
		})
	}

	r := New()
	r.Get("/public", func(w http.ResponseWriter, req *http.Request) {})

	g := r.Group(requireFlag)
	g.Get("/private", func(w http.ResponseWriter, req *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/public", nil))
	if groupRan {
		t.Error("group middleware must not run on routes outside the group")
	}

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/private", nil))
	if !groupRan {
		t.Error("group middleware did not run on a group route")
	}
}

func TestRouter_MethodNotAllowed(t *testing.T) {
	r := New()
	r.Get("/books", func(w http.ResponseWriter, req *http.Request) {})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/books", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}
