package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/slate-scores-service/internal/domain/slate"
	"github.com/preston-bernstein/slate-scores-service/internal/logging"
	"github.com/preston-bernstein/slate-scores-service/internal/metrics"
	"github.com/preston-bernstein/slate-scores-service/internal/timeutil"
)

const defaultInterval = 15 * time.Minute

// Scorer produces a scored slate for a date. Empty sports means all.
type Scorer interface {
	ScoreSlate(ctx context.Context, date string, sports []string) (slate.Slate, error)
}

// SlateSink keeps the slates the poller produces.
type SlateSink interface {
	SetSlate(s slate.Slate)
	Retain(dates []string)
}

// Pruner drops expired cache entries.
type Pruner interface {
	Prune() (int, error)
}

// Options configures a Poller.
type Options struct {
	Scorer    Scorer
	Sink      SlateSink
	Pruner    Pruner
	Logger    *slog.Logger
	Metrics   *metrics.Recorder
	Interval  time.Duration
	DaysAhead int
	Location  *time.Location
}

// Poller scores today's slate and the next DaysAhead slates on an interval.
type Poller struct {
	scorer    Scorer
	sink      SlateSink
	pruner    Pruner
	logger    *slog.Logger
	metrics   *metrics.Recorder
	interval  time.Duration
	daysAhead int
	loc       *time.Location
	now       func() time.Time

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the poller loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
	Dates               []string
}

// IsReady reports whether the poller has had a recent success and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// New constructs a Poller with sane defaults.
func New(opts Options) *Poller {
	interval := opts.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	daysAhead := opts.DaysAhead
	if daysAhead < 0 {
		daysAhead = 0
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Poller{
		scorer:    opts.Scorer,
		sink:      opts.Sink,
		pruner:    opts.Pruner,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		interval:  interval,
		daysAhead: daysAhead,
		loc:       loc,
		now:       time.Now,
		done:      make(chan struct{}),
	}
}

// Start begins polling until the context is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	if p.started {
		p.startMu.Unlock()
		return
	}
	p.started = true
	p.startMu.Unlock()

	p.ticker = time.NewTicker(p.interval)

	go func() {
		logging.Info(p.logger, "poller started", slog.Int64(logging.FieldDurationMS, p.interval.Milliseconds()))
		// Initial run to warm the store on boot.
		p.pollOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				p.stopTicker()
				logging.Info(p.logger, "poller stopped")
				return
			case <-p.done:
				p.stopTicker()
				logging.Info(p.logger, "poller stopped")
				return
			case <-p.ticker.C:
				p.pollOnce(ctx)
			}
		}
	}()
}

// Stop halts the polling loop.
func (p *Poller) Stop(ctx context.Context) error {
	_ = ctx
	p.stopOnce.Do(func() {
		close(p.done)
		p.stopTicker()
	})
	return nil
}

// Dates returns the slate dates one cycle covers, starting today.
func (p *Poller) Dates() []string {
	now := p.now()
	dates := make([]string, 0, p.daysAhead+1)
	for offset := 0; offset <= p.daysAhead; offset++ {
		dates = append(dates, timeutil.DateIn(now, p.loc, offset))
	}
	return dates
}

func (p *Poller) pollOnce(ctx context.Context) {
	start := time.Now()
	p.recordAttempt(start)
	dates := p.Dates()

	var errs []error
	games := 0
	for _, date := range dates {
		s, err := p.scorer.ScoreSlate(ctx, date, nil)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", date, err))
			continue
		}
		for sport, msg := range s.Failures {
			logging.Warn(p.logger, "sport failed during poll",
				logging.FieldDate, date,
				logging.FieldSport, sport,
				"error", msg,
			)
		}
		games += len(s.Games)
		if p.sink != nil {
			p.sink.SetSlate(s)
		}
	}
	if p.sink != nil {
		p.sink.Retain(dates)
	}
	p.prune()

	err := errors.Join(errs...)
	if p.metrics != nil {
		p.metrics.RecordPollerCycle(time.Since(start), err)
	}
	if err != nil {
		logging.Error(p.logger, "poller cycle failed", err, slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()))
		p.recordFailure(err, start)
		return
	}

	p.recordSuccess(start, dates)
	logging.Info(p.logger, "poller refreshed slates",
		logging.FieldCount, games,
		"dates", dates,
		logging.FieldDurationMS, time.Since(start).Milliseconds(),
	)
}

func (p *Poller) prune() {
	if p.pruner == nil {
		return
	}
	removed, err := p.pruner.Prune()
	if err != nil {
		logging.Warn(p.logger, "cache prune failed", "error", err)
		return
	}
	if removed > 0 {
		logging.Info(p.logger, "cache pruned", logging.FieldCount, removed)
	}
}

func (p *Poller) stopTicker() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(at time.Time, dates []string) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
	p.status.Dates = dates
}

func (p *Poller) recordFailure(err error, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.LastAttempt = at
}

// Status returns a snapshot of the poller's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}
