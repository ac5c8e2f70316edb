package handlers

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/preston-bernstein/slate-scores-service/internal/domain/slate"
	"github.com/preston-bernstein/slate-scores-service/internal/http/requestutil"
	"github.com/preston-bernstein/slate-scores-service/internal/logging"
	"github.com/preston-bernstein/slate-scores-service/internal/timeutil"
)

// CacheRefresher re-fetches provider data and rescores.
type CacheRefresher interface {
	Refresh(ctx context.Context, date, sport string) error
	ScoreSlate(ctx context.Context, date string, sports []string) (slate.Slate, error)
	Sports() []string
}

// AdminHandler exposes admin-only endpoints (e.g., cache refresh).
type AdminHandler struct {
	svc    CacheRefresher
	store  SlateStore
	token  string
	logger *slog.Logger
	loc    *time.Location
	now    nowFunc
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(svc CacheRefresher, store SlateStore, token string, logger *slog.Logger, loc *time.Location) *AdminHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &AdminHandler{
		svc:    svc,
		store:  store,
		token:  token,
		logger: logger,
		loc:    loc,
		now:    time.Now,
	}
}

// RefreshCache re-fetches every dataset for ?date= (default today) and
// ?sport= (default all), then rescores the slate. Guarded by ADMIN_TOKEN;
// returns 401 if missing/invalid.
func (h *AdminHandler) RefreshCache(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost, h.logger) {
		return
	}
	if !h.authorize(r) {
		logging.Warn(h.logger, "admin unauthorized",
			slog.String(logging.FieldPath, r.URL.Path),
			slog.String("client_ip", requestutil.ClientIP(r)),
		)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
		return
	}
	if h.svc == nil {
		writeError(w, r, http.StatusServiceUnavailable, "slate service not configured", h.logger)
		return
	}

	logger := loggerFromContext(r, h.logger)
	date := strings.TrimSpace(r.URL.Query().Get("date"))
	if date == "" {
		date = timeutil.DateIn(h.now(), h.loc, 0)
	}
	date, err := timeutil.NormalizeDate(date)
	if err != nil {
		logging.Warn(logger, "admin refresh invalid date", slog.String(logging.FieldDate, r.URL.Query().Get("date")))
		writeError(w, r, http.StatusBadRequest, "invalid date format", logger)
		return
	}

	sports := h.svc.Sports()
	if sport := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("sport"))); sport != "" {
		sports = []string{sport}
	}

	for _, sport := range sports {
		if err := h.svc.Refresh(r.Context(), date, sport); err != nil {
			logging.Warn(logger, "admin refresh failed",
				slog.String(logging.FieldDate, date),
				slog.String(logging.FieldSport, sport),
				slog.Any("err", err),
			)
			status, msg := serviceErrorStatus(err)
			writeError(w, r, status, msg, logger)
			return
		}
	}

	s, err := h.svc.ScoreSlate(r.Context(), date, nil)
	if err != nil {
		status, msg := serviceErrorStatus(err)
		writeError(w, r, status, msg, logger)
		return
	}
	if h.store != nil {
		h.store.SetSlate(s)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"date":     date,
		"sports":   sports,
		"games":    len(s.Games),
		"failures": s.Failures,
		"status":   "ok",
	}, logger)
	logging.Info(logger, "admin cache refreshed",
		slog.String(logging.FieldDate, date),
		slog.Int(logging.FieldCount, len(s.Games)),
	)
}

// AdminTokenFromEnv reads ADMIN_TOKEN (optional).
func AdminTokenFromEnv() string {
	return os.Getenv("ADMIN_TOKEN")
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	got := r.Header.Get("Authorization")
	want := "Bearer " + h.token
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
