package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/preston-bernstein/slate-scores-service/internal/domain/slate"
)

// ErrProviderUnavailable is returned when no upstream is configured.
var ErrProviderUnavailable = errors.New("provider unavailable")

// ErrUnknownSport is returned for a sport missing from the sport table.
var ErrUnknownSport = errors.New("unknown sport")

// RateLimitError captures rate limit responses from upstream providers.
type RateLimitError struct {
	Provider   string
	StatusCode int
	RetryAfter time.Duration
	Remaining  string
	Message    string
}

func (e *RateLimitError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "provider rate limited"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status=%d)", msg, e.StatusCode)
	}
	return msg
}

// AsRateLimitError attempts to unwrap an error into a RateLimitError.
func AsRateLimitError(err error) (*RateLimitError, bool) {
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return rlErr, true
	}
	return nil, false
}

// FetchError reports an upstream that was unreachable or answered with an
// unusable response.
type FetchError struct {
	Provider   string
	Dataset    slate.DatasetKind
	Sport      string
	Date       string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("fetch %s %s %s", e.Dataset, e.Sport, e.Date)
	if e.Provider != "" {
		msg += " from " + e.Provider
	}
	if e.StatusCode > 0 {
		msg += fmt.Sprintf(": status %d", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// AsFetchError attempts to unwrap an error into a FetchError.
func AsFetchError(err error) (*FetchError, bool) {
	var fErr *FetchError
	if errors.As(err, &fErr) {
		return fErr, true
	}
	return nil, false
}

// Retryable reports whether another attempt could succeed. Client errors
// other than timeouts and rate limits are final, as is cancellation.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrProviderUnavailable) || errors.Is(err, ErrUnknownSport) {
		return false
	}
	if _, ok := AsRateLimitError(err); ok {
		return true
	}
	if fErr, ok := AsFetchError(err); ok {
		code := fErr.StatusCode
		if code >= 400 && code < 500 && code != http.StatusRequestTimeout {
			return false
		}
	}
	return true
}
