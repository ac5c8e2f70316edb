package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/preston-bernstein/slate-scores-service/internal/http/handlers"
	"github.com/preston-bernstein/slate-scores-service/internal/store"
	"github.com/preston-bernstein/slate-scores-service/internal/testutil"
)

func newTestRouter(t *testing.T, corsOrigins []string) http.Handler {
	t.Helper()
	svc, _, err := testutil.NewFixtureService()
	if err != nil {
		t.Fatalf("fixture service: %v", err)
	}
	ms := store.NewMemoryStore()
	logger, _ := testutil.NewBufferLogger()
	h := handlers.NewHandler(svc, ms, logger, time.UTC, nil)
	admin := handlers.NewAdminHandler(svc, ms, "secret", logger, time.UTC)
	return NewRouter(h, admin, logger, nil, corsOrigins)
}

func TestRouterRoutesKnownPaths(t *testing.T) {
	router := newTestRouter(t, nil)

	cases := map[string]int{
		"/health":                                  http.StatusOK,
		"/ready":                                   http.StatusOK,
		"/api/sports":                              http.StatusOK,
		"/api/slate-scores?date=20250114":          http.StatusOK,
		"/api/slate-scores/401?date=20250114":      http.StatusOK,
		"/api/slate-scores/nope?date=20250114":     http.StatusNotFound,
		"/api/slate-scores?date=20250114&sports=x": http.StatusBadRequest,
	}

	for path, expected := range cases {
		rr := testutil.Serve(router, http.MethodGet, path, nil)
		if rr.Code != expected {
			t.Fatalf("route %s expected status %d, got %d", path, expected, rr.Code)
		}
		if rr.Header().Get("X-Request-ID") == "" {
			t.Fatalf("route %s missing request id header", path)
		}
	}
}

func TestRouterUnknownRouteReturns404(t *testing.T) {
	router := newTestRouter(t, nil)
	rr := testutil.Serve(router, http.MethodGet, "/does-not-exist", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown route, got %d", rr.Code)
	}
}

func TestRouterAdminRouteIsPostOnly(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := testutil.Serve(router, http.MethodGet, "/admin/cache/refresh", nil)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for GET, got %d", rr.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/admin/cache/refresh?date=20250114", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rr = testutil.ServeRequest(router, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for authorized refresh, got %d", rr.Code)
	}
}

func TestRouterWithoutAdminHasNoAdminRoute(t *testing.T) {
	svc, _, err := testutil.NewFixtureService()
	if err != nil {
		t.Fatalf("fixture service: %v", err)
	}
	h := handlers.NewHandler(svc, nil, nil, nil, nil)
	router := NewRouter(h, nil, nil, nil, nil)

	rr := testutil.Serve(router, http.MethodPost, "/admin/cache/refresh", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without admin handler, got %d", rr.Code)
	}
}

func TestRouterCORS(t *testing.T) {
	router := newTestRouter(t, []string{"https://slate.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://slate.example.com")
	rr := testutil.ServeRequest(router, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://slate.example.com" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rr = testutil.ServeRequest(router, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no CORS header for unknown origin, got %q", got)
	}
}
