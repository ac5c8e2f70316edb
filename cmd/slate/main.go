// Command slate scores one date's slate and prints the ranked games as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/preston-bernstein/slate-scores-service/internal/app/slates"
	"github.com/preston-bernstein/slate-scores-service/internal/cache"
	"github.com/preston-bernstein/slate-scores-service/internal/config"
	"github.com/preston-bernstein/slate-scores-service/internal/logging"
	"github.com/preston-bernstein/slate-scores-service/internal/providers"
	"github.com/preston-bernstein/slate-scores-service/internal/providers/espn"
	"github.com/preston-bernstein/slate-scores-service/internal/providers/fixture"
	"github.com/preston-bernstein/slate-scores-service/internal/timeutil"
)

type options struct {
	date     string
	sports   string
	provider string
	cacheDir string
	refresh  bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "slate:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg := config.Load()

	fs := flag.NewFlagSet("slate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opts options
	fs.StringVar(&opts.date, "date", "", "slate date YYYYMMDD (default: tomorrow in TIMEZONE)")
	fs.StringVar(&opts.sports, "sports", "", "comma separated sport keys (default: all)")
	fs.StringVar(&opts.provider, "provider", cfg.Provider, "espn or fixture")
	fs.StringVar(&opts.cacheDir, "cache-dir", cfg.Cache.Dir, "dataset cache directory")
	fs.BoolVar(&opts.refresh, "refresh", false, "re-fetch datasets even when cached")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := logging.NewLogger(logging.Config{
		Level:  os.Getenv("LOG_LEVEL"),
		Format: os.Getenv("LOG_FORMAT"),
		Output: stderr,
	})

	date := opts.date
	if date == "" {
		loc := providers.ResolveTimezone(cfg.Timezone)
		date = timeutil.DateIn(time.Now(), loc, 1)
	}

	svc, err := newService(cfg, opts, logger)
	if err != nil {
		return err
	}

	sports := splitSports(opts.sports)
	if opts.refresh {
		refresh := sports
		if len(refresh) == 0 {
			refresh = svc.Sports()
		}
		for _, sport := range refresh {
			if err := svc.Refresh(ctx, date, sport); err != nil {
				return fmt.Errorf("refresh %s: %w", sport, err)
			}
		}
	}

	s, err := svc.ScoreSlate(ctx, date, sports)
	if err != nil {
		return err
	}
	for sport, msg := range s.Failures {
		logging.Warn(logger, "sport unavailable", logging.FieldSport, sport, "error", msg)
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(s.Ranked())
}

func newService(cfg config.Config, opts options, logger *slog.Logger) (*slates.Service, error) {
	table, err := config.LoadSportTable(cfg.SportsFile)
	if err != nil {
		return nil, err
	}

	var fetcher providers.Fetcher
	switch strings.ToLower(opts.provider) {
	case "espn":
		sports := make(map[string]espn.Sport, len(table))
		for key, sc := range table {
			sports[key] = espn.Sport{Path: sc.Path, Groups: sc.Groups}
		}
		fetcher = espn.NewClient(espn.Config{
			SiteURL: cfg.ESPN.SiteURL,
			WebURL:  cfg.ESPN.WebURL,
			Sports:  sports,
			Timeout: cfg.ESPN.Timeout,
			Logger:  logger,
		})
	case "fixture", "":
		fetcher = fixture.New()
	default:
		return nil, fmt.Errorf("unknown provider %q", opts.provider)
	}
	fetcher = providers.NewRateLimitedFetcher(fetcher, cfg.ESPN.RateInterval, logger)
	fetcher = providers.NewRetryingFetcher(fetcher, logger, nil, strings.ToLower(opts.provider), cfg.ESPN.RetryAttempts, 0)

	return slates.NewService(slates.Options{
		Sports:    table,
		Fetcher:   fetcher,
		Normalize: espn.Normalize,
		Cache:     cache.NewFSCache(opts.cacheDir, 0),
		Logger:    logger,
	})
}

func splitSports(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
