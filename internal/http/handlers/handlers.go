package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/slate-scores-service/internal/app/slates"
	"github.com/preston-bernstein/slate-scores-service/internal/cache"
	"github.com/preston-bernstein/slate-scores-service/internal/config"
	"github.com/preston-bernstein/slate-scores-service/internal/domain/slate"
	"github.com/preston-bernstein/slate-scores-service/internal/logging"
	"github.com/preston-bernstein/slate-scores-service/internal/poller"
	"github.com/preston-bernstein/slate-scores-service/internal/providers"
	"github.com/preston-bernstein/slate-scores-service/internal/scoring"
	"github.com/preston-bernstein/slate-scores-service/internal/timeutil"
)

type nowFunc func() time.Time

// SlateService scores slates on demand.
type SlateService interface {
	ScoreSlate(ctx context.Context, date string, sports []string) (slate.Slate, error)
	Sports() []string
	Sport(key string) (config.SportConfig, bool)
}

// SlateStore holds slates the poller has already scored.
type SlateStore interface {
	Slate(date string) (slate.Slate, bool)
	SetSlate(s slate.Slate)
}

// Handler wires HTTP routes to the slate service.
type Handler struct {
	svc      SlateService
	store    SlateStore
	logger   *slog.Logger
	loc      *time.Location
	now      nowFunc
	statusFn func() poller.Status
}

// NewHandler constructs a Handler with defaults. loc decides what "today" means
// when a request omits the date.
func NewHandler(svc SlateService, store SlateStore, logger *slog.Logger, loc *time.Location, statusFn func() poller.Status) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		svc:      svc,
		store:    store,
		logger:   logger,
		loc:      loc,
		now:      time.Now,
		statusFn: statusFn,
	}
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic (e.g., for Kubernetes probes).
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	if h.statusFn == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, http.StatusServiceUnavailable, msg, h.logger)
}

type sportResponse struct {
	Key     string          `json:"key"`
	Name    string          `json:"name"`
	Weights scoring.Weights `json:"weights"`
}

// Sports lists the configured sports and their metric weights.
func (h *Handler) Sports(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	keys := h.svc.Sports()
	out := make([]sportResponse, 0, len(keys))
	for _, key := range keys {
		sc, ok := h.svc.Sport(key)
		if !ok {
			continue
		}
		out = append(out, sportResponse{Key: key, Name: sc.Name, Weights: sc.Weights})
	}
	writeJSON(w, http.StatusOK, map[string]any{"sports": out}, h.logger)
}

type slateResponse struct {
	slate.Slate
	Source string `json:"source"`
}

// SlateScores returns the scored slate for ?date= (default today) and
// ?sports= (comma separated, default all). A slate the poller already scored
// is served from memory; anything else is computed on demand.
func (h *Handler) SlateScores(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	logger := loggerFromContext(r, h.logger)
	date, ok := h.dateParam(w, r)
	if !ok {
		return
	}
	sports := splitSports(r.URL.Query().Get("sports"))

	s, source, err := h.slateFor(r.Context(), date, sports)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	logging.Info(logger, "served slate scores",
		logging.FieldDate, s.Date,
		logging.FieldCount, len(s.Games),
		"source", source,
	)
	writeJSON(w, http.StatusOK, slateResponse{Slate: s, Source: source}, h.logger)
}

// GameByID returns one scored game from the slate for ?date= (default today).
func (h *Handler) GameByID(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet, h.logger) {
		return
	}
	id, err := url.PathUnescape(chi.URLParam(r, "gameId"))
	if err != nil || id == "" || strings.ContainsAny(id, " \t/") {
		writeError(w, r, http.StatusBadRequest, "invalid game id", h.logger)
		return
	}
	date, ok := h.dateParam(w, r)
	if !ok {
		return
	}

	s, _, err := h.slateFor(r.Context(), date, nil)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	game, ok := s.Games[id]
	if !ok {
		writeError(w, r, http.StatusNotFound, "game not found", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, game, h.logger)
}

func (h *Handler) slateFor(ctx context.Context, date string, sports []string) (slate.Slate, string, error) {
	want := sports
	if len(want) == 0 {
		want = h.svc.Sports()
	}
	if h.store != nil {
		if s, ok := h.store.Slate(date); ok && s.HasSports(want) {
			if len(sports) > 0 {
				s = s.FilterSports(sports)
			}
			return s, "memory", nil
		}
	}

	s, err := h.svc.ScoreSlate(ctx, date, sports)
	if err != nil {
		return slate.Slate{}, "", err
	}
	// Only complete slates are kept, so a later request for other sports
	// does not get served a subset.
	if h.store != nil && len(sports) == 0 && len(s.Failures) == 0 {
		h.store.SetSlate(s)
	}
	return s, "computed", nil
}

func (h *Handler) dateParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("date"))
	if raw == "" {
		return timeutil.DateIn(h.now(), h.loc, 0), true
	}
	date, err := timeutil.NormalizeDate(raw)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid date format (expected YYYYMMDD)", h.logger)
		return "", false
	}
	return date, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := serviceErrorStatus(err)
	logger := loggerFromContext(r, h.logger)
	if status >= http.StatusInternalServerError {
		logging.Error(logger, "slate request failed", err)
	}
	writeError(w, r, status, msg, h.logger)
}

func serviceErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, slates.ErrInvalidDate):
		return http.StatusBadRequest, "invalid date format (expected YYYYMMDD)"
	case errors.Is(err, providers.ErrUnknownSport):
		return http.StatusBadRequest, "unknown sport"
	case cache.IsWriteError(err):
		return http.StatusInternalServerError, "failed to cache provider data"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "request cancelled"
	default:
		return http.StatusBadGateway, "slate unavailable"
	}
}

func splitSports(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}
