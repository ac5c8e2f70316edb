// Package slates runs the scoring pipeline: load or fetch each dataset, fuse
// them into unified games, then score every game.
package slates

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/preston-bernstein/slate-scores-service/internal/cache"
	"github.com/preston-bernstein/slate-scores-service/internal/config"
	"github.com/preston-bernstein/slate-scores-service/internal/domain/slate"
	"github.com/preston-bernstein/slate-scores-service/internal/logging"
	"github.com/preston-bernstein/slate-scores-service/internal/merge"
	"github.com/preston-bernstein/slate-scores-service/internal/metrics"
	"github.com/preston-bernstein/slate-scores-service/internal/providers"
	"github.com/preston-bernstein/slate-scores-service/internal/scoring"
	"github.com/preston-bernstein/slate-scores-service/internal/timeutil"
)

// ErrInvalidDate is returned for a date that is not YYYYMMDD.
var ErrInvalidDate = errors.New("invalid date")

// Options wires the service's collaborators.
type Options struct {
	Sports    config.SportTable
	Fetcher   providers.Fetcher
	Normalize providers.NormalizeFunc
	Cache     cache.SourceCache
	Metrics   *metrics.Recorder
	Logger    *slog.Logger
}

// Service scores slates. It holds no per-request state; the cache is the only
// thing shared between calls.
type Service struct {
	sports    config.SportTable
	engines   map[string]*scoring.Engine
	fetcher   providers.Fetcher
	normalize providers.NormalizeFunc
	cache     cache.SourceCache
	metrics   *metrics.Recorder
	logger    *slog.Logger
}

// NewService validates the sport table and builds one scoring engine per sport.
func NewService(opts Options) (*Service, error) {
	if opts.Fetcher == nil {
		return nil, errors.New("fetcher required")
	}
	if opts.Normalize == nil {
		return nil, errors.New("normalizer required")
	}
	if opts.Cache == nil {
		return nil, errors.New("cache required")
	}
	if len(opts.Sports) == 0 {
		return nil, errors.New("at least one sport required")
	}
	if err := opts.Sports.Validate(); err != nil {
		return nil, err
	}

	engines := make(map[string]*scoring.Engine, len(opts.Sports))
	for key, sc := range opts.Sports {
		engine, err := scoring.NewEngine(sc.Scoring())
		if err != nil {
			return nil, fmt.Errorf("sport %s: %w", key, err)
		}
		engines[key] = engine
	}

	return &Service{
		sports:    opts.Sports,
		engines:   engines,
		fetcher:   opts.Fetcher,
		normalize: opts.Normalize,
		cache:     opts.Cache,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
	}, nil
}

// Sports returns the configured sport keys in sorted order.
func (s *Service) Sports() []string {
	return s.sports.Keys()
}

// Sport returns one sport's configuration.
func (s *Service) Sport(key string) (config.SportConfig, bool) {
	return s.sports.Get(key)
}

// ScoreSlate scores every game for date across sports (all configured sports
// when empty). Sports run concurrently and fail independently: a failed sport
// contributes no games and an entry in Failures. A cache write failure is the
// one error that aborts the whole call.
func (s *Service) ScoreSlate(ctx context.Context, date string, sports []string) (slate.Slate, error) {
	date, sports, err := s.resolve(date, sports)
	if err != nil {
		return slate.Slate{}, err
	}

	var (
		mu       sync.Mutex
		games    = make(map[string]slate.UnifiedGame)
		failures = make(map[string]string)
	)
	var g errgroup.Group
	for _, sport := range sports {
		sport := sport
		g.Go(func() error {
			scored, err := s.ScoreSport(ctx, date, sport)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures[sport] = err.Error()
				if cache.IsWriteError(err) {
					return err
				}
				return nil
			}
			for id, game := range scored {
				games[id] = game
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return slate.Slate{}, err
	}
	return slate.NewSlate(date, sports, games, failures), nil
}

// ScoreSport runs the pipeline for one sport and date.
func (s *Service) ScoreSport(ctx context.Context, date, sport string) (map[string]slate.UnifiedGame, error) {
	sport = strings.ToLower(sport)
	engine, ok := s.engines[sport]
	if !ok {
		return nil, fmt.Errorf("%w: %q", providers.ErrUnknownSport, sport)
	}
	logger := logging.FromContext(ctx, s.logger)
	start := time.Now()

	datasets, err := s.loadAll(ctx, date, sport, false)
	if err != nil {
		logging.Error(logger, "slate pipeline failed", err,
			logging.FieldSport, sport,
			logging.FieldDate, date,
		)
		return nil, err
	}

	fused, stats, err := merge.Fuse(sport,
		datasets[slate.KindSchedule].(slate.ScheduleDataset),
		datasets[slate.KindPowerIndex].(slate.PowerIndexDataset),
		datasets[slate.KindMatchupQuality].(slate.MatchupDataset),
	)
	if err != nil {
		return nil, fmt.Errorf("fuse %s %s: %w", sport, date, err)
	}
	if stats.DroppedMatchup > 0 {
		logging.Warn(logger, "matchup games missing from schedule",
			logging.FieldSport, sport,
			logging.FieldDate, date,
			logging.FieldCount, stats.DroppedMatchup,
		)
	}

	unscoreable := 0
	for id, game := range fused {
		result := engine.Score(game)
		if _, ok := result.Value(); !ok {
			unscoreable++
			logging.Debug(logger, "game unscoreable",
				logging.FieldSport, sport,
				logging.FieldGameID, id,
				"reason", result.Reason(),
			)
		}
		game.SlateScore = result.Wire()
		game.Interest = scoring.Interest(game.SlateScore).Label
		if proj, ok := engine.Project(game); ok {
			game.Projection = proj
		}
		fused[id] = game
	}
	s.metrics.RecordScores(sport, len(fused)-unscoreable, unscoreable)

	logging.Info(logger, "slate scored",
		logging.FieldSport, sport,
		logging.FieldDate, date,
		logging.FieldCount, len(fused),
		"unscoreable", unscoreable,
		"with_matchup", stats.WithMatchup,
		logging.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return fused, nil
}

// Refresh re-fetches every dataset for sport and date, overwriting the cache.
func (s *Service) Refresh(ctx context.Context, date, sport string) error {
	date, sports, err := s.resolve(date, []string{sport})
	if err != nil {
		return err
	}
	_, err = s.loadAll(ctx, date, sports[0], true)
	return err
}

func (s *Service) resolve(date string, sports []string) (string, []string, error) {
	normalized, err := timeutil.NormalizeDate(date)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	if len(sports) == 0 {
		return normalized, s.sports.Keys(), nil
	}

	seen := make(map[string]struct{}, len(sports))
	out := make([]string, 0, len(sports))
	for _, sp := range sports {
		sp = strings.ToLower(strings.TrimSpace(sp))
		if sp == "" {
			continue
		}
		if _, ok := s.engines[sp]; !ok {
			return "", nil, fmt.Errorf("%w: %q", providers.ErrUnknownSport, sp)
		}
		if _, dup := seen[sp]; dup {
			continue
		}
		seen[sp] = struct{}{}
		out = append(out, sp)
	}
	if len(out) == 0 {
		return normalized, s.sports.Keys(), nil
	}
	sort.Strings(out)
	return normalized, out, nil
}

// loadAll resolves the three datasets concurrently. The first failure cancels
// the others.
func (s *Service) loadAll(ctx context.Context, date, sport string, force bool) (map[slate.DatasetKind]slate.Dataset, error) {
	var mu sync.Mutex
	out := make(map[slate.DatasetKind]slate.Dataset, len(slate.DatasetKinds))

	g, gctx := errgroup.WithContext(ctx)
	for _, kind := range slate.DatasetKinds {
		kind := kind
		g.Go(func() error {
			key := cache.Key{Kind: kind, Sport: sport, Date: date}
			ds, err := s.load(gctx, key, force)
			if err != nil {
				return err
			}
			mu.Lock()
			out[kind] = ds
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// load returns the cached dataset for key, or fetches, normalizes and stores it.
func (s *Service) load(ctx context.Context, key cache.Key, force bool) (slate.Dataset, error) {
	logger := logging.FromContext(ctx, s.logger)
	dataset := string(key.Kind)

	if !force && s.cache.Has(ctx, key) {
		s.metrics.RecordCacheLookup(dataset, true)
		ds, err := s.loadCached(ctx, key)
		if err == nil {
			return ds, nil
		}
		logging.Warn(logger, "cached dataset unreadable, refetching",
			logging.FieldDataset, dataset,
			logging.FieldSport, key.Sport,
			logging.FieldDate, key.Date,
			"error", err,
		)
	} else if !force {
		s.metrics.RecordCacheLookup(dataset, false)
	}

	raw, err := s.fetcher.Fetch(ctx, key.Kind, key.Sport, key.Date)
	if err != nil {
		return nil, err
	}
	ds, err := s.normalize(key.Kind, raw)
	if err != nil {
		return nil, err
	}
	if ds.Kind() != key.Kind {
		return nil, fmt.Errorf("normalizer returned %s for %s", ds.Kind(), key.Kind)
	}
	payload, err := slate.EncodeDataset(ds)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", key, err)
	}

	err = s.cache.Store(ctx, key, payload)
	s.metrics.RecordCacheWrite(dataset, err)
	if err != nil {
		if !cache.IsWriteError(err) {
			err = &cache.WriteError{Key: key, Err: err}
		}
		return nil, err
	}
	logging.Debug(logger, "dataset cached",
		logging.FieldDataset, dataset,
		logging.FieldSport, key.Sport,
		logging.FieldDate, key.Date,
	)
	return ds, nil
}

func (s *Service) loadCached(ctx context.Context, key cache.Key) (slate.Dataset, error) {
	payload, err := s.cache.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	return slate.DecodeDataset(key.Kind, payload)
}
