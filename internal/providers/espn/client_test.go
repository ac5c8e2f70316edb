package espn

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/slate-scores-service/internal/domain/slate"
	"github.com/preston-bernstein/slate-scores-service/internal/providers"
)

func newTestClient(rt roundTripperFunc) *Client {
	return NewClient(Config{
		SiteURL: "http://site.example.com/",
		WebURL:  "http://web.example.com",
		Sports: map[string]Sport{
			"nba":     {Path: "basketball/nba"},
			"ncaambb": {Path: "basketball/mens-college-basketball", Groups: "50"},
		},
		HTTPClient: &http.Client{Transport: rt},
	})
}

func okResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestFetchBuildsDatasetURLs(t *testing.T) {
	var got []string
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		got = append(got, req.URL.String())
		if req.Header.Get("User-Agent") != userAgent {
			t.Fatalf("expected user agent header, got %q", req.Header.Get("User-Agent"))
		}
		return okResponse(`{"events": []}`), nil
	})

	for _, kind := range slate.DatasetKinds {
		if _, err := client.Fetch(context.Background(), kind, "ncaambb", "20250114"); err != nil {
			t.Fatalf("%s: unexpected error %v", kind, err)
		}
	}

	want := []string{
		"http://site.example.com/apis/site/v2/sports/basketball/mens-college-basketball/scoreboard?dates=20250114&groups=50&limit=1000",
		"http://web.example.com/apis/fitt/v3/sports/basketball/mens-college-basketball/powerindex?limit=1000",
		"http://web.example.com/apis/site/v2/sports/basketball/mens-college-basketball/dailypowerindex?dates=20250114&groups=50&limit=1000",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d requests, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("request %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestFetchOmitsGroupsWhenUnset(t *testing.T) {
	var query string
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		query = req.URL.RawQuery
		return okResponse(`{}`), nil
	})
	if _, err := client.Fetch(context.Background(), slate.KindSchedule, "nba", "20250114"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(query, "groups") {
		t.Fatalf("expected no groups param, got %s", query)
	}
}

func TestFetchReturnsRawBody(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return okResponse(`{"events":[{"id":"1"}]}`), nil
	})
	body, err := client.Fetch(context.Background(), slate.KindSchedule, "nba", "20250114")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(body) != `{"events":[{"id":"1"}]}` {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestFetchUnknownSport(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		t.Fatalf("no request expected")
		return nil, nil
	})
	_, err := client.Fetch(context.Background(), slate.KindSchedule, "curling", "20250114")
	if !errors.Is(err, providers.ErrUnknownSport) {
		t.Fatalf("expected ErrUnknownSport, got %v", err)
	}
}

func TestFetchHandlesNon200(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusBadGateway,
			Body:       io.NopCloser(strings.NewReader("boom")),
			Header:     make(http.Header),
		}, nil
	})
	_, err := client.Fetch(context.Background(), slate.KindPowerIndex, "nba", "20250114")
	fErr, ok := providers.AsFetchError(err)
	if !ok {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fErr.StatusCode != http.StatusBadGateway || fErr.Dataset != slate.KindPowerIndex || fErr.Sport != "nba" {
		t.Fatalf("unexpected fetch error %+v", fErr)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected body snippet in error, got %v", err)
	}
}

func TestFetchReturnsRateLimitError(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		h := make(http.Header)
		h.Set("Retry-After", "7")
		return &http.Response{
			StatusCode: http.StatusTooManyRequests,
			Body:       io.NopCloser(strings.NewReader("")),
			Header:     h,
		}, nil
	})
	_, err := client.Fetch(context.Background(), slate.KindSchedule, "nba", "20250114")
	rlErr, ok := providers.AsRateLimitError(err)
	if !ok {
		t.Fatalf("expected RateLimitError, got %v", err)
	}
	if rlErr.RetryAfter != 7*time.Second || rlErr.Provider != providerName {
		t.Fatalf("unexpected rate limit error %+v", rlErr)
	}
}

func TestFetchRejectsMalformedJSON(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return okResponse("{bad json"), nil
	})
	_, err := client.Fetch(context.Background(), slate.KindSchedule, "nba", "20250114")
	if _, ok := providers.AsFetchError(err); !ok {
		t.Fatalf("expected FetchError for malformed json, got %v", err)
	}
}

func TestFetchTransportErrorWrapped(t *testing.T) {
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	_, err := client.Fetch(context.Background(), slate.KindSchedule, "nba", "20250114")
	fErr, ok := providers.AsFetchError(err)
	if !ok || fErr.StatusCode != 0 {
		t.Fatalf("expected FetchError without status, got %v", err)
	}
	if !providers.Retryable(err) {
		t.Fatalf("transport errors should be retryable")
	}
}

func TestFetchReturnsContextError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		cancel()
		return nil, req.Context().Err()
	})
	_, err := client.Fetch(ctx, slate.KindSchedule, "nba", "20250114")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestParseRetryAfter(t *testing.T) {
	now := time.Date(2025, 1, 14, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		raw  string
		want time.Duration
	}{
		{"", 0},
		{"3", 3 * time.Second},
		{"-1", 0},
		{"soon", 0},
		{now.Add(90 * time.Second).Format(http.TimeFormat), 90 * time.Second},
		{now.Add(-time.Minute).Format(http.TimeFormat), 0},
	}
	for _, c := range cases {
		if got := parseRetryAfter(c.raw, now); got != c.want {
			t.Fatalf("parseRetryAfter(%q): expected %s, got %s", c.raw, c.want, got)
		}
	}
}

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
