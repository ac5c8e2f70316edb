package teststubs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/slate-scores-service/internal/cache"
	"github.com/preston-bernstein/slate-scores-service/internal/domain/slate"
)

// StubFetcher is a test double for providers.Fetcher. Payloads and errors are
// keyed by dataset kind; Errs takes precedence.
type StubFetcher struct {
	mu       sync.Mutex
	Payloads map[slate.DatasetKind][]byte
	Errs     map[slate.DatasetKind]error
	// SportErrs fails every dataset for a sport.
	SportErrs map[string]error
	Calls     atomic.Int32
	Notify    chan struct{}
	requests  []string
}

// Fetch returns the configured payload for kind while tracking calls.
func (s *StubFetcher) Fetch(ctx context.Context, kind slate.DatasetKind, sport, date string) ([]byte, error) {
	_ = ctx
	s.mu.Lock()
	if s.Notify != nil {
		select {
		case <-s.Notify:
		default:
			close(s.Notify)
		}
	}
	s.requests = append(s.requests, string(kind)+"/"+sport+"/"+date)
	s.mu.Unlock()
	s.Calls.Add(1)

	if err := s.SportErrs[sport]; err != nil {
		return nil, err
	}
	if err := s.Errs[kind]; err != nil {
		return nil, err
	}
	payload, ok := s.Payloads[kind]
	if !ok {
		return nil, errors.New("no stub payload for " + string(kind))
	}
	return payload, nil
}

// Requests lists kind/sport/date for every call so far.
func (s *StubFetcher) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.requests))
	copy(out, s.requests)
	return out
}

// StubCache is an in-memory cache.SourceCache.
type StubCache struct {
	mu       sync.Mutex
	Data     map[cache.Key][]byte
	StoreErr error
	LoadErr  error
	Stores   atomic.Int32
}

func (c *StubCache) Has(_ context.Context, key cache.Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.Data[key]
	return ok
}

func (c *StubCache) Load(_ context.Context, key cache.Key) ([]byte, error) {
	if c.LoadErr != nil {
		return nil, c.LoadErr
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.Data[key]
	if !ok {
		return nil, cache.ErrNotFound
	}
	return data, nil
}

func (c *StubCache) Store(_ context.Context, key cache.Key, payload []byte) error {
	c.Stores.Add(1)
	if c.StoreErr != nil {
		return &cache.WriteError{Key: key, Err: c.StoreErr}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Data == nil {
		c.Data = make(map[cache.Key][]byte)
	}
	c.Data[key] = append([]byte(nil), payload...)
	return nil
}
