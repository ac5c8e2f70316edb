package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/preston-bernstein/slate-scores-service/internal/app/slates"
	"github.com/preston-bernstein/slate-scores-service/internal/config"
	httpserver "github.com/preston-bernstein/slate-scores-service/internal/http"
	"github.com/preston-bernstein/slate-scores-service/internal/http/handlers"
	"github.com/preston-bernstein/slate-scores-service/internal/logging"
	"github.com/preston-bernstein/slate-scores-service/internal/metrics"
	"github.com/preston-bernstein/slate-scores-service/internal/poller"
	"github.com/preston-bernstein/slate-scores-service/internal/providers"
	"github.com/preston-bernstein/slate-scores-service/internal/providers/espn"
	"github.com/preston-bernstein/slate-scores-service/internal/store"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	store         *store.MemoryStore
	service       *slates.Service
	httpServer    httpServer
	metricsServer httpServer
	poller        Poller
	metricsStop   func(context.Context) error
	cacheClose    func() error
}

// New constructs a server with the configured provider, cache, and poller.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	return newServerWithMetrics(cfg, logger, nil, nil)
}

func newServerWithFetcher(cfg config.Config, logger *slog.Logger, fetcher providers.Fetcher) (*Server, error) {
	return newServerWithMetrics(cfg, logger, fetcher, nil)
}

func newServerWithMetrics(cfg config.Config, logger *slog.Logger, fetcher providers.Fetcher, recorder *metrics.Recorder) (*Server, error) {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	table, err := config.LoadSportTable(cfg.SportsFile)
	if err != nil {
		return nil, err
	}

	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	factory := newFetcherFactory(logger, recorder)
	if fetcher == nil {
		fetcher = factory.build(cfg, table)
	} else {
		fetcher = factory.wrap(cfg, fetcher)
	}

	caches, err := buildCache(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("build cache: %w", err)
	}

	svc, err := slates.NewService(slates.Options{
		Sports:    table,
		Fetcher:   fetcher,
		Normalize: espn.Normalize,
		Cache:     caches.cache,
		Metrics:   recorder,
		Logger:    logger,
	})
	if err != nil {
		if caches.close != nil {
			_ = caches.close()
		}
		return nil, fmt.Errorf("build slate service: %w", err)
	}

	loc := resolveLocation(cfg.Timezone, logger)
	memoryStore := store.NewMemoryStore()
	plr := poller.New(poller.Options{
		Scorer:    svc,
		Sink:      memoryStore,
		Pruner:    caches.pruner,
		Logger:    logger,
		Metrics:   recorder,
		Interval:  time.Duration(cfg.PollInterval),
		DaysAhead: cfg.PollDaysAhead,
		Location:  loc,
	})
	httpSrv := buildHTTPServer(cfg, svc, memoryStore, logger, recorder, loc, plr)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		store:         memoryStore,
		service:       svc,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		poller:        plr,
		metricsStop:   metricsShutdown,
		cacheClose:    caches.close,
	}, nil
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, httpSrv httpServer, plr Poller) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpSrv,
		poller:     plr,
	}
}

func resolveLocation(tz string, logger *slog.Logger) *time.Location {
	loc := providers.ResolveTimezone(tz)
	if loc == nil {
		if logger != nil && tz != "" {
			logger.Warn("invalid timezone, using UTC", slog.String("timezone", tz))
		}
		return time.UTC
	}
	return loc
}

func buildHTTPServer(cfg config.Config, svc *slates.Service, memoryStore *store.MemoryStore, logger *slog.Logger, recorder *metrics.Recorder, loc *time.Location, plr Poller) httpServer {
	var statusFn func() poller.Status
	if plr != nil {
		statusFn = plr.Status
	}

	handler := handlers.NewHandler(svc, memoryStore, logger, loc, statusFn)
	var admin *handlers.AdminHandler
	// Admin routes are only mounted when a token is configured.
	if cfg.AdminToken != "" {
		admin = handlers.NewAdminHandler(svc, memoryStore, cfg.AdminToken, logger, loc)
	}
	router := httpserver.NewRouter(handler, admin, logger, recorder, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the poller and HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	s.poller.Start(ctx)

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	if s.logger != nil {
		s.logger.Info("http server starting", slog.String("addr", s.httpServer.Addr()))
	}
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	if s.logger != nil {
		s.logger.Info("metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if err := s.poller.Stop(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("failed to stop poller", "error", err)
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	if s.cacheClose != nil {
		if err := s.cacheClose(); err != nil && s.logger != nil {
			s.logger.Warn("cache close failed", "error", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		if logger != nil {
			logger.Warn("metrics setup failed, continuing without telemetry", "err", err)
		}
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:    ":" + recCfg.Port,
				Handler: handler,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if logger != nil {
			logger.Info("starting "+name+" server", slog.String("addr", srv.Addr()))
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Warn(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
