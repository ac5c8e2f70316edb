// Package espn fetches and normalizes the ESPN site APIs behind the slate:
// the scoreboard, the power index and the daily power index.
package espn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/preston-bernstein/slate-scores-service/internal/domain/slate"
	"github.com/preston-bernstein/slate-scores-service/internal/logging"
	"github.com/preston-bernstein/slate-scores-service/internal/providers"
)

const maxBodyBytes = 32 << 20

// Sport locates a sport in the ESPN URL space.
type Sport struct {
	Path   string // e.g. basketball/nba
	Groups string // e.g. 50 for Division I
}

// Config controls how the client reaches ESPN.
type Config struct {
	SiteURL    string
	WebURL     string
	Sports     map[string]Sport
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *slog.Logger
}

// Client fetches raw ESPN payloads.
type Client struct {
	siteURL    string
	webURL     string
	sports     map[string]Sport
	httpClient httpDoer
	logger     *slog.Logger
	now        func() time.Time
}

// NewClient constructs an ESPN client with the provided configuration.
func NewClient(cfg Config) *Client {
	sports := make(map[string]Sport, len(cfg.Sports))
	for k, v := range cfg.Sports {
		sports[k] = v
	}
	return &Client{
		siteURL:    normalizeBaseURL(cfg.SiteURL, defaultSiteURL),
		webURL:     normalizeBaseURL(cfg.WebURL, defaultWebURL),
		sports:     sports,
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
		logger:     cfg.Logger,
		now:        time.Now,
	}
}

// Fetch retrieves the raw payload for kind, sport and date (YYYYMMDD).
func (c *Client) Fetch(ctx context.Context, kind slate.DatasetKind, sport, date string) ([]byte, error) {
	target, err := c.buildURL(kind, sport, date)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, c.fetchError(kind, sport, date, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := c.now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, c.fetchError(kind, sport, date, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &providers.RateLimitError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), c.now()),
			Remaining:  resp.Header.Get("X-RateLimit-Remaining"),
			Message:    "espn rate limited",
		}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, c.fetchError(kind, sport, date, resp.StatusCode,
			fmt.Errorf("unexpected status: %s", strings.TrimSpace(string(body))))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, c.fetchError(kind, sport, date, resp.StatusCode, err)
	}
	if !json.Valid(body) {
		return nil, c.fetchError(kind, sport, date, resp.StatusCode, errors.New("malformed json payload"))
	}

	if c.logger != nil {
		c.logger.Debug("espn fetch complete",
			logging.FieldProvider, providerName,
			logging.FieldDataset, string(kind),
			logging.FieldSport, sport,
			logging.FieldDate, date,
			logging.FieldDurationMS, c.now().Sub(start).Milliseconds(),
		)
	}
	return body, nil
}

func (c *Client) buildURL(kind slate.DatasetKind, sport, date string) (string, error) {
	sp, ok := c.sports[sport]
	if !ok || sp.Path == "" {
		return "", fmt.Errorf("%w: %q", providers.ErrUnknownSport, sport)
	}

	q := url.Values{}
	q.Set("limit", defaultLimit)
	var base string
	switch kind {
	case slate.KindSchedule:
		base = c.siteURL + fmt.Sprintf(schedulePath, sp.Path)
		if sp.Groups != "" {
			q.Set("groups", sp.Groups)
		}
		q.Set("dates", date)
	case slate.KindPowerIndex:
		// The power index is a season-to-date table with no date parameter.
		base = c.webURL + fmt.Sprintf(powerIndexPath, sp.Path)
	case slate.KindMatchupQuality:
		base = c.webURL + fmt.Sprintf(matchupQualityPath, sp.Path)
		if sp.Groups != "" {
			q.Set("groups", sp.Groups)
		}
		q.Set("dates", date)
	default:
		return "", fmt.Errorf("unknown dataset kind %q", kind)
	}
	return base + "?" + q.Encode(), nil
}

func (c *Client) fetchError(kind slate.DatasetKind, sport, date string, status int, err error) error {
	return &providers.FetchError{
		Provider:   providerName,
		Dataset:    kind,
		Sport:      sport,
		Date:       date,
		StatusCode: status,
		Err:        err,
	}
}

// parseRetryAfter accepts delta-seconds or an HTTP date.
func parseRetryAfter(raw string, now time.Time) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(raw); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
