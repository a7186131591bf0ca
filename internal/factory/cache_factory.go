package factory

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/mikey/lead-email-generator/internal/adapters/cache"
	"github.com/mikey/lead-email-generator/internal/config"
	"github.com/mikey/lead-email-generator/internal/core"
)

// Stopper is implemented by components running background tasks
type Stopper interface {
	Stop()
}

// StoppableCache is a resolution cache with a cleanup task
type StoppableCache interface {
	core.ResolutionCache
	Stopper
}

// CacheFactory creates resolution caches based on configuration
type CacheFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewCacheFactory creates a new cache factory
func NewCacheFactory(cfg *config.Config, logger *zap.Logger) *CacheFactory {
	return &CacheFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateResolutionCache creates the configured cache, or nil when caching is disabled
func (f *CacheFactory) CreateResolutionCache() (StoppableCache, error) {
	cacheCfg, err := f.cfg.GetCache()
	if err != nil {
		return nil, eris.Wrap(err, "invalid cache configuration")
	}
	if !cacheCfg.Enabled {
		f.logger.Info("Resolution cache disabled")
		return nil, nil
	}

	switch cacheCfg.Type {
	case "memory":
		return cache.NewMemoryCache(f.logger, cacheCfg.TTL, cacheCfg.CleanupFrequency), nil
	case "sqlite":
		if err := ensureParentDir(cacheCfg.SQLitePath); err != nil {
			return nil, err
		}
		return cache.NewSQLiteCache(cacheCfg.SQLitePath, f.logger, cacheCfg.TTL, cacheCfg.CleanupFrequency)
	case "mysql":
		return cache.NewMySQLCache(cacheCfg.MySQLDSN, f.logger, cacheCfg.TTL, cacheCfg.CleanupFrequency)
	default:
		return nil, eris.Errorf("unsupported cache type: %s", cacheCfg.Type)
	}
}

func ensureParentDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "failed to create directory for %s", path)
	}
	return nil
}
