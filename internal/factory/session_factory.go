package factory

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/mikey/lead-email-generator/internal/adapters/session"
	"github.com/mikey/lead-email-generator/internal/config"
	"github.com/mikey/lead-email-generator/internal/core"
)

// StoppableSessionStore is a session store with a cleanup task
type StoppableSessionStore interface {
	core.SessionStore
	Stopper
}

// SessionFactory creates session stores based on configuration
type SessionFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewSessionFactory creates a new session factory
func NewSessionFactory(cfg *config.Config, logger *zap.Logger) *SessionFactory {
	return &SessionFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateSessionStore creates the configured session store
func (f *SessionFactory) CreateSessionStore() (StoppableSessionStore, error) {
	sessionCfg, err := f.cfg.GetSession()
	if err != nil {
		return nil, eris.Wrap(err, "invalid session configuration")
	}

	switch sessionCfg.Type {
	case "memory":
		return session.NewMemoryStore(f.logger, sessionCfg.TTL, sessionCfg.CleanupFrequency), nil
	case "sqlite":
		if err := ensureParentDir(sessionCfg.SQLitePath); err != nil {
			return nil, err
		}
		return session.NewSQLiteStore(sessionCfg.SQLitePath, f.logger, sessionCfg.TTL, sessionCfg.CleanupFrequency)
	case "mysql":
		return session.NewMySQLStore(sessionCfg.MySQLDSN, f.logger, sessionCfg.TTL, sessionCfg.CleanupFrequency)
	default:
		return nil, eris.Errorf("unsupported session type: %s", sessionCfg.Type)
	}
}
