package session

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/mikey/lead-email-generator/internal/adapters/cleanup"
	"github.com/mikey/lead-email-generator/internal/core"
)

// SQLiteStore is a SQLite implementation of the SessionStore interface
type SQLiteStore struct {
	db      *sql.DB
	ttl     time.Duration
	logger  *zap.Logger
	cleaner *cleanup.Task
}

// NewSQLiteStore creates a new SQLite session store
func NewSQLiteStore(dbPath string, logger *zap.Logger, ttl, cleanupFreq time.Duration) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, eris.Wrap(err, "failed to open SQLite database")
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS session_values (
			session_id TEXT NOT NULL,
			name TEXT NOT NULL,
			value BLOB NOT NULL,
			expires_at INTEGER NOT NULL,
			PRIMARY KEY (session_id, name)
		)
	`)
	if err != nil {
		db.Close()
		return nil, eris.Wrap(err, "failed to create table")
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_session_values_expires_at ON session_values(expires_at)
	`)
	if err != nil {
		db.Close()
		return nil, eris.Wrap(err, "failed to create index")
	}

	s := &SQLiteStore{
		db:     db,
		ttl:    ttl,
		logger: logger,
	}
	s.cleaner = cleanup.Start("session store", s.Cleanup, cleanupFreq, logger)
	return s, nil
}

// Get returns the value stored under key
func (s *SQLiteStore) Get(ctx context.Context, sessionID, key string) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM session_values
		WHERE session_id = ? AND name = ? AND expires_at > ?
	`, sessionID, key, time.Now().Unix()).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, eris.Wrap(err, "failed to query session value")
	}
	return value, nil
}

// Set stores value under key
func (s *SQLiteStore) Set(ctx context.Context, sessionID, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO session_values (session_id, name, value, expires_at)
		VALUES (?, ?, ?, ?)
	`, sessionID, key, value, time.Now().Add(s.ttl).Unix())
	if err != nil {
		return eris.Wrapf(err, "failed to store session value %s", key)
	}
	return nil
}

// Delete removes key from the session
func (s *SQLiteStore) Delete(ctx context.Context, sessionID, key string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM session_values WHERE session_id = ? AND name = ?
	`, sessionID, key)
	if err != nil {
		return eris.Wrap(err, "failed to delete session value")
	}
	return nil
}

// Cleanup removes expired values
func (s *SQLiteStore) Cleanup(ctx context.Context) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM session_values WHERE expires_at <= ?
	`, time.Now().Unix())
	if err != nil {
		return eris.Wrap(err, "failed to clean up expired session values")
	}

	if rowsAffected, err := result.RowsAffected(); err == nil {
		s.logger.Debug("Cleaned up expired session values", zap.Int64("expired_count", rowsAffected))
	}
	return nil
}

// Stop stops the background cleanup task and closes the database connection
func (s *SQLiteStore) Stop() {
	s.cleaner.Stop()
	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close SQLite database", zap.Error(err))
	}
}
