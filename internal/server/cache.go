package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/preston-bernstein/slate-scores-service/internal/cache"
	"github.com/preston-bernstein/slate-scores-service/internal/config"
	"github.com/preston-bernstein/slate-scores-service/internal/poller"
)

var openRedis = cache.OpenRedis

type cacheComponents struct {
	cache  cache.SourceCache
	pruner poller.Pruner // nil when the backend expires nothing
	close  func() error
}

func buildCache(cfg config.Config, logger *slog.Logger) (cacheComponents, error) {
	switch strings.ToLower(cfg.Cache.Backend) {
	case config.CacheBackendFS, "":
		fs := cache.NewFSCache(cfg.Cache.Dir, cfg.Cache.RetentionDays)
		if logger != nil {
			logger.Info("using filesystem cache",
				slog.String("dir", fs.Dir()),
				slog.Int("retention_days", cfg.Cache.RetentionDays),
			)
		}
		comp := cacheComponents{cache: fs}
		if cfg.Cache.RetentionDays > 0 {
			comp.pruner = fs
		}
		return comp, nil
	case config.CacheBackendRedis:
		ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
		defer cancel()
		client, err := openRedis(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return cacheComponents{}, err
		}
		if logger != nil {
			logger.Info("using redis cache", slog.String("addr", client.Options().Addr))
		}
		return cacheComponents{cache: cache.NewRedisCache(client), close: client.Close}, nil
	default:
		return cacheComponents{}, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}
