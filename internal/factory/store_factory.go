package factory

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/mikey/lead-email-generator/internal/config"
	"github.com/mikey/lead-email-generator/internal/core"
	"github.com/mikey/lead-email-generator/internal/results"
)

// StoreFactory creates the result store
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateResultStore creates the result store on top of sessions
func (f *StoreFactory) CreateResultStore(sessions core.SessionStore) (*results.Store, error) {
	storeCfg, err := f.cfg.GetStore()
	if err != nil {
		return nil, eris.Wrap(err, "invalid store configuration")
	}

	return results.NewStore(storeCfg.Dir, sessions, results.Options{
		MaxSessionRecords: storeCfg.MaxSessionRecords,
		Retention:         storeCfg.Retention,
		SweepFrequency:    storeCfg.SweepFrequency,
	}, f.logger)
}
