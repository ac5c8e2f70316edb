package testutil

import (
	"github.com/preston-bernstein/slate-scores-service/internal/app/slates"
	"github.com/preston-bernstein/slate-scores-service/internal/config"
	"github.com/preston-bernstein/slate-scores-service/internal/providers/espn"
	"github.com/preston-bernstein/slate-scores-service/internal/providers/fixture"
	"github.com/preston-bernstein/slate-scores-service/internal/teststubs"
)

// NewFixtureService builds a slate service over the embedded fixture payloads
// and an in-memory cache.
func NewFixtureService() (*slates.Service, *teststubs.StubCache, error) {
	table, err := config.DefaultSportTable()
	if err != nil {
		return nil, nil, err
	}
	store := &teststubs.StubCache{}
	svc, err := slates.NewService(slates.Options{
		Sports:    table,
		Fetcher:   fixture.New(),
		Normalize: espn.Normalize,
		Cache:     store,
	})
	if err != nil {
		return nil, nil, err
	}
	return svc, store, nil
}
