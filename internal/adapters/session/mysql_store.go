package session

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/mikey/lead-email-generator/internal/adapters/cleanup"
	"github.com/mikey/lead-email-generator/internal/core"
)

// MySQLStore is a MySQL implementation of the SessionStore interface
type MySQLStore struct {
	db      *sql.DB
	ttl     time.Duration
	logger  *zap.Logger
	cleaner *cleanup.Task
}

// NewMySQLStore creates a new MySQL session store
func NewMySQLStore(dsn string, logger *zap.Logger, ttl, cleanupFreq time.Duration) (*MySQLStore, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, eris.Wrap(err, "invalid MySQL DSN")
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, eris.Wrap(err, "failed to create MySQL connector")
	}
	db := sql.OpenDB(connector)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "failed to connect to MySQL database")
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS session_values (
			session_id VARCHAR(128) NOT NULL,
			name VARCHAR(64) NOT NULL,
			value MEDIUMBLOB NOT NULL,
			expires_at DATETIME NOT NULL,
			PRIMARY KEY (session_id, name),
			INDEX idx_session_values_expires_at (expires_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, eris.Wrap(err, "failed to create table")
	}

	s := &MySQLStore{
		db:     db,
		ttl:    ttl,
		logger: logger,
	}
	s.cleaner = cleanup.Start("session store", s.Cleanup, cleanupFreq, logger)
	return s, nil
}

// Get returns the value stored under key
func (s *MySQLStore) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM session_values
		WHERE session_id = ? AND name = ? AND expires_at > ?
	`, sessionID, key, time.Now().UTC()).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, eris.Wrap(err, "failed to query session value")
	}
	return value, nil
}

// Set stores value under key
func (s *MySQLStore) Set(ctx context.Context, sessionID, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_values (session_id, name, value, expires_at)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE value = VALUES(value), expires_at = VALUES(expires_at)
	`, sessionID, key, value, time.Now().UTC().Add(s.ttl))
	if err != nil {
		return eris.Wrapf(err, "failed to store session value %s", key)
	}
	return nil
}

// Delete removes key from the session
func (s *MySQLStore) Delete(ctx context.Context, sessionID, key string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM session_values WHERE session_id = ? AND name = ?
	`, sessionID, key)
	if err != nil {
		return eris.Wrap(err, "failed to delete session value")
	}
	return nil
}

// Cleanup removes expired values
func (s *MySQLStore) Cleanup(ctx context.Context) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM session_values WHERE expires_at <= ?
	`, time.Now().UTC())
	if err != nil {
		return eris.Wrap(err, "failed to clean up expired session values")
	}

	if rowsAffected, err := result.RowsAffected(); err == nil {
		s.logger.Debug("Cleaned up expired session values", zap.Int64("expired_count", rowsAffected))
	}
	return nil
}

// Stop stops the background cleanup task and closes the database connection
func (s *MySQLStore) Stop() {
	s.cleaner.Stop()
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close MySQL database", zap.Error(err))
	}
}
