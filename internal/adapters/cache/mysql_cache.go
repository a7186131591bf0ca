package cache

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

// MySQLCache is a MySQL implementation of the ResolutionCache interface
type MySQLCache struct {
	db      *sql.DB
	ttl     time.Duration
	logger  *zap.Logger
	cleaner *cleanup.Task
}

// NewMySQLCache creates a new MySQL cache
func NewMySQLCache(dsn string, logger *zap.Logger, ttl, cleanupFreq time.Duration) (*MySQLCache, error) {
	db, err := openMySQL(dsn)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS domain_cache (
			company_key CHAR(64) PRIMARY KEY,
			company VARCHAR(512) NOT NULL,
			domain VARCHAR(255) NOT NULL,
			format VARCHAR(32) NOT NULL,
			confidence INT NOT NULL,
			source VARCHAR(16) NOT NULL,
			created_at DATETIME NOT NULL,
			expires_at DATETIME NOT NULL,
			INDEX idx_domain_cache_expires_at (expires_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, eris.Wrap(err, "failed to create table")
	}

	c := &MySQLCache{
		db:     db,
		ttl:    ttl,
		logger: logger,
	}
	c.cleaner = cleanup.Start("resolution cache", c.Cleanup, cleanupFreq, logger)
	return c, nil
}

// openMySQL parses dsn, forces time parsing in UTC and checks the connection
func openMySQL(dsn string) (*sql.DB, error) {
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
	return db, nil
}

// Get retrieves the cached mapping for a company
func (c *MySQLCache) Get(ctx context.Context, company string) (*core.DomainMapping, error) {
	var mapping core.DomainMapping
	err := c.db.QueryRowContext(ctx, `
		SELECT domain, format, confidence, source
		FROM domain_cache
		WHERE company_key = ? AND expires_at > ?
	`, core.CompanyKey(company), time.Now().UTC()).Scan(&mapping.Domain, &mapping.Format, &mapping.Confidence, &mapping.Source)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, core.ErrNotFound
		}
		return nil, eris.Wrap(err, "failed to query cache")
	}
	return &mapping, nil
}

// Set stores a mapping for a company
func (c *MySQLCache) Set(ctx context.Context, company string, mapping core.DomainMapping) error {
	now := time.Now().UTC()
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO domain_cache (company_key, company, domain, format, confidence, source, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			domain = VALUES(domain),
			format = VALUES(format),
			confidence = VALUES(confidence),
			source = VALUES(source),
			created_at = VALUES(created_at),
			expires_at = VALUES(expires_at)
	`, core.CompanyKey(company), company, mapping.Domain, string(mapping.Format), mapping.Confidence,
		string(mapping.Source), now, now.Add(c.ttl))
	if err != nil {
		return eris.Wrapf(err, "failed to insert cache entry for %q", company)
	}
	return nil
}

// Delete removes a cached mapping
func (c *MySQLCache) Delete(ctx context.Context, company string) error {
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
func (c *MySQLCache) Cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, `
		DELETE FROM domain_cache
		WHERE expires_at <= ?
	`, time.Now().UTC())
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
func (c *MySQLCache) Stop() {
	c.cleaner.Stop()
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close MySQL database", zap.Error(err))
	}
}
