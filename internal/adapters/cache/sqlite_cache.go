package cache

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

// SQLiteCache is a SQLite implementation of the ResolutionCache interface
type SQLiteCache struct {
	db      *sql.DB
	ttl     time.Duration
	logger  *zap.Logger
	cleaner *cleanup.Task
}

// NewSQLiteCache creates a new SQLite cache
func NewSQLiteCache(dbPath string, logger *zap.Logger, ttl, cleanupFreq time.Duration) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, eris.Wrap(err, "failed to open SQLite database")
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS domain_cache (
			company_key TEXT PRIMARY KEY,
			company TEXT NOT NULL,
			domain TEXT NOT NULL,
			format TEXT NOT NULL,
			confidence INTEGER NOT NULL,
			source TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			expires_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, eris.Wrap(err, "failed to create table")
	}

	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_domain_cache_expires_at ON domain_cache(expires_at)
	`)
	if err != nil {
		db.Close()
		return nil, eris.Wrap(err, "failed to create index")
	}

	c := &SQLiteCache{
		db:     db,
		ttl:    ttl,
		logger: logger,
	}
	c.cleaner = cleanup.Start("resolution cache", c.Cleanup, cleanupFreq, logger)
	return c, nil
}

// Get retrieves the cached mapping for a company
func (c *SQLiteCache) Get(ctx context.Context, company string) (*core.DomainMapping, error) {
	var mapping core.DomainMapping
	err := c.db.QueryRowContext(ctx, `
		SELECT domain, format, confidence, source
		FROM domain_cache
		WHERE company_key = ? AND expires_at > ?
	`, core.CompanyKey(company), time.Now().Unix()).Scan(&mapping.Domain, &mapping.Format, &mapping.Confidence, &mapping.Source)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, eris.Wrap(err, "failed to query cache")
	}
	return &mapping, nil
}

// Set stores a mapping for a company
func (c *SQLiteCache) Set(ctx context.Context, company string, mapping core.DomainMapping) error {
	now := time.Now()
	_, err := c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO domain_cache (company_key, company, domain, format, confidence, source, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, core.CompanyKey(company), company, mapping.Domain, string(mapping.Format), mapping.Confidence,
		string(mapping.Source), now.Unix(), now.Add(c.ttl).Unix())
	if err != nil {
		return eris.Wrapf(err, "failed to insert cache entry for %q", company)
	}
	return nil
}

// Delete removes a cached mapping
func (c *SQLiteCache) Delete(ctx context.Context, company string) error {
	_, err := c.db.ExecContext(ctx, `
		DELETE FROM domain_cache
		WHERE company_key = ?
	`, core.CompanyKey(company))
	if err != nil {
		return eris.Wrap(err, "failed to delete cache entry")
	}
	return nil
}

// Cleanup removes expired entries
func (c *SQLiteCache) Cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, `
		DELETE FROM domain_cache
		WHERE expires_at <= ?
	`, time.Now().Unix())
	if err != nil {
		return eris.Wrap(err, "failed to clean up expired entries")
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		c.logger.Debug("Cleaned up expired cache entries", zap.Int64("expired_count", rowsAffected))
	}
	return nil
}

// Stop stops the background cleanup task and closes the database connection
func (c *SQLiteCache) Stop() {
	c.cleaner.Stop()
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close SQLite database", zap.Error(err))
	}
}
