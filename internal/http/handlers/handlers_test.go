package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/slate-scores-service/internal/app/slates"
	"github.com/preston-bernstein/slate-scores-service/internal/cache"
	"github.com/preston-bernstein/slate-scores-service/internal/config"
	"github.com/preston-bernstein/slate-scores-service/internal/domain/slate"
	"github.com/preston-bernstein/slate-scores-service/internal/poller"
	"github.com/preston-bernstein/slate-scores-service/internal/providers"
	"github.com/preston-bernstein/slate-scores-service/internal/store"
	"github.com/preston-bernstein/slate-scores-service/internal/testutil"
)

type stubSlateService struct {
	slate slate.Slate
	err   error
	calls int
	last  []string
}

func (s *stubSlateService) ScoreSlate(ctx context.Context, date string, sports []string) (slate.Slate, error) {
	s.calls++
	s.last = sports
	if s.err != nil {
		return slate.Slate{}, s.err
	}
	return s.slate, nil
}

func (s *stubSlateService) Sports() []string { return []string{"nba", "ncaambb"} }

func (s *stubSlateService) Sport(key string) (config.SportConfig, bool) {
	return config.SportConfig{Name: strings.ToUpper(key)}, true
}

func newFixtureHandler(t *testing.T) (*Handler, *store.MemoryStore) {
	t.Helper()
	svc, _, err := testutil.NewFixtureService()
	if err != nil {
		t.Fatalf("fixture service: %v", err)
	}
	ms := store.NewMemoryStore()
	h := NewHandler(svc, ms, nil, time.UTC, nil)
	h.now = testutil.NowAt(testutil.MustParseRFC3339("2025-01-15T12:00:00Z"))
	return h, ms
}

func gameRequest(id, query string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/slate-scores/"+id+query, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("gameId", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestHealth(t *testing.T) {
	h := NewHandler(&stubSlateService{}, nil, nil, nil, nil)
	rr := testutil.Serve(http.HandlerFunc(h.Health), http.MethodGet, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestHealthShuttingDownReturnsServiceUnavailable(t *testing.T) {
	h := NewHandler(&stubSlateService{}, nil, nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/health", nil).WithContext(ctx)
	rr := testutil.ServeRequest(http.HandlerFunc(h.Health), req)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
}

func TestHealthRejectsPost(t *testing.T) {
	h := NewHandler(&stubSlateService{}, nil, nil, nil, nil)
	rr := testutil.Serve(http.HandlerFunc(h.Health), http.MethodPost, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusMethodNotAllowed)
}

func TestReadyFollowsPollerStatus(t *testing.T) {
	status := poller.Status{}
	h := NewHandler(&stubSlateService{}, nil, nil, nil, func() poller.Status { return status })

	rr := testutil.Serve(http.HandlerFunc(h.Ready), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)

	status = poller.Status{LastSuccess: time.Now()}
	rr = testutil.Serve(http.HandlerFunc(h.Ready), http.MethodGet, "/ready", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
}

func TestSportsListsConfiguredSports(t *testing.T) {
	h, _ := newFixtureHandler(t)
	rr := testutil.Serve(http.HandlerFunc(h.Sports), http.MethodGet, "/api/sports", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var body struct {
		Sports []sportResponse `json:"sports"`
	}
	testutil.DecodeJSON(t, rr, &body)
	if len(body.Sports) != 2 || body.Sports[0].Key != "nba" || body.Sports[1].Key != "ncaambb" {
		t.Fatalf("unexpected sports: %+v", body.Sports)
	}
	if body.Sports[0].Weights.MatchupQuality == 0 {
		t.Fatalf("expected weights in response, got %+v", body.Sports[0])
	}
}

func TestSlateScoresComputesThenServesFromMemory(t *testing.T) {
	h, ms := newFixtureHandler(t)

	rr := testutil.Serve(http.HandlerFunc(h.SlateScores), http.MethodGet, "/api/slate-scores?date=2025-01-14", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var body slateResponse
	testutil.DecodeJSON(t, rr, &body)
	if body.Source != "computed" || body.Date != "20250114" {
		t.Fatalf("unexpected response: source=%s date=%s", body.Source, body.Date)
	}
	if len(body.Games) != 5 || len(body.Ranking) != 5 {
		t.Fatalf("expected 5 ranked games, got %d/%d", len(body.Games), len(body.Ranking))
	}
	if _, ok := ms.Slate("20250114"); !ok {
		t.Fatalf("expected complete slate to be stored")
	}

	rr = testutil.Serve(http.HandlerFunc(h.SlateScores), http.MethodGet, "/api/slate-scores?date=20250114&sports=ncaambb", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	body = slateResponse{}
	testutil.DecodeJSON(t, rr, &body)
	if body.Source != "memory" || len(body.Games) != 2 {
		t.Fatalf("expected 2 ncaambb games from memory, got source=%s games=%d", body.Source, len(body.Games))
	}
	for _, g := range body.Games {
		if g.Sport != "ncaambb" {
			t.Fatalf("unexpected sport in filtered slate: %+v", g)
		}
	}
}

func TestSlateScoresDefaultsToToday(t *testing.T) {
	h, _ := newFixtureHandler(t)
	rr := testutil.Serve(http.HandlerFunc(h.SlateScores), http.MethodGet, "/api/slate-scores", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var body slateResponse
	testutil.DecodeJSON(t, rr, &body)
	if body.Date != "20250115" {
		t.Fatalf("expected today's date, got %s", body.Date)
	}
}

func TestSlateScoresSubsetIsNotStored(t *testing.T) {
	h, ms := newFixtureHandler(t)
	rr := testutil.Serve(http.HandlerFunc(h.SlateScores), http.MethodGet, "/api/slate-scores?date=20250114&sports=nba", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if _, ok := ms.Slate("20250114"); ok {
		t.Fatalf("expected partial slate to stay out of memory")
	}
}

func TestSlateScoresWithInvalidDateReturnsBadRequest(t *testing.T) {
	h, _ := newFixtureHandler(t)
	rr := testutil.Serve(http.HandlerFunc(h.SlateScores), http.MethodGet, "/api/slate-scores?date=01-14-2025", nil)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestSlateScoresUnknownSportReturnsBadRequest(t *testing.T) {
	h, _ := newFixtureHandler(t)
	rr := testutil.Serve(http.HandlerFunc(h.SlateScores), http.MethodGet, "/api/slate-scores?date=20250114&sports=curling", nil)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestSlateScoresMapsServiceErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid date", slates.ErrInvalidDate, http.StatusBadRequest},
		{"unknown sport", providers.ErrUnknownSport, http.StatusBadRequest},
		{"cache write", &cache.WriteError{Err: errors.New("disk full")}, http.StatusInternalServerError},
		{"cancelled", context.Canceled, http.StatusServiceUnavailable},
		{"upstream", errors.New("boom"), http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logger, _ := testutil.NewBufferLogger()
			h := NewHandler(&stubSlateService{err: tc.err}, nil, logger, nil, nil)
			rr := testutil.Serve(http.HandlerFunc(h.SlateScores), http.MethodGet, "/api/slate-scores?date=20250114", nil)
			testutil.AssertStatus(t, rr, tc.want)
		})
	}
}

func TestSlateScoresPassesSportsThrough(t *testing.T) {
	svc := &stubSlateService{slate: testutil.SampleSlate("20250114", testutil.SampleGame("g1", "nba", 0.5))}
	h := NewHandler(svc, nil, nil, nil, nil)
	rr := testutil.Serve(http.HandlerFunc(h.SlateScores), http.MethodGet, "/api/slate-scores?date=20250114&sports=NBA,%20ncaambb,", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if len(svc.last) != 2 || svc.last[0] != "nba" || svc.last[1] != "ncaambb" {
		t.Fatalf("unexpected sports passed: %v", svc.last)
	}
}

func TestGameByID(t *testing.T) {
	h, _ := newFixtureHandler(t)
	rr := testutil.ServeRequest(http.HandlerFunc(h.GameByID), gameRequest("403", "?date=20250114"))
	testutil.AssertStatus(t, rr, http.StatusOK)

	var game slate.UnifiedGame
	testutil.DecodeJSON(t, rr, &game)
	if game.GameID != "403" || game.Sport != "nba" {
		t.Fatalf("unexpected game: %+v", game)
	}
}

func TestGameByIDNotFound(t *testing.T) {
	h, _ := newFixtureHandler(t)
	rr := testutil.ServeRequest(http.HandlerFunc(h.GameByID), gameRequest("499", "?date=20250114"))
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestGameByIDInvalid(t *testing.T) {
	h, _ := newFixtureHandler(t)
	rr := testutil.ServeRequest(http.HandlerFunc(h.GameByID), gameRequest("", ""))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestGameByIDServedFromMemory(t *testing.T) {
	svc := &stubSlateService{err: errors.New("should not be called")}
	ms := store.NewMemoryStore()
	ms.SetSlate(testutil.SampleSlate("20250114",
		testutil.SampleGame("g1", "nba", 0.7),
		testutil.SampleGame("g2", "ncaambb", 0.4),
	))
	h := NewHandler(svc, ms, nil, nil, nil)

	rr := testutil.ServeRequest(http.HandlerFunc(h.GameByID), gameRequest("g2", "?date=20250114"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	if svc.calls != 0 {
		t.Fatalf("expected memory hit, service called %d times", svc.calls)
	}
}
