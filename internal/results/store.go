// Package results persists processed lead snapshots. A snapshot is written to a side
// file in the store directory and, when small enough, cached in the caller's session.
// Loading walks session cache, session pointer and finally a directory scan.
package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/mikey/lead-email-generator/internal/adapters/cleanup"
	"github.com/mikey/lead-email-generator/internal/core"
)

// Session keys used by the store
const (
	KeyProcessedData = "processed_data"
	KeyDataFile      = "data_file"
)

const (
	lockFileName    = ".store.lock"
	tempFilePattern = ".tmp-*.json"
	lockRetryDelay  = 25 * time.Millisecond
)

var dataFilePattern = regexp.MustCompile(`^data_([A-Za-z0-9-]+)_(\d+)\.json$`)

// Options tune snapshot caching and retention
type Options struct {
	// MaxSessionRecords caps the snapshot size cached in the session
	MaxSessionRecords int
	// Retention is how long side files are kept
	Retention time.Duration
	// SweepFrequency is the interval of the background sweep, zero disables it
	SweepFrequency time.Duration
}

// Store is the tiered result store
type Store struct {
	dir      string
	sessions core.SessionStore
	opts     Options
	logger   *zap.Logger

	mu      sync.Mutex
	lock    *flock.Flock
	sweeper *cleanup.Task
	now     func() time.Time
}

// NewStore creates the store directory if needed and starts the background sweep
func NewStore(dir string, sessions core.SessionStore, opts Options, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, eris.Wrapf(err, "results: create store directory %s", dir)
	}

	s := &Store{
		dir:      dir,
		sessions: sessions,
		opts:     opts,
		logger:   logger,
		lock:     flock.New(filepath.Join(dir, lockFileName)),
		now:      time.Now,
	}
	s.sweeper = cleanup.Start("result store", func(ctx context.Context) error {
		_, err := s.Sweep(ctx)
		return err
	}, opts.SweepFrequency, logger)
	return s, nil
}

// Dir returns the store directory
func (s *Store) Dir() string {
	return s.dir
}

// Stop stops the background sweep and releases the directory lock
func (s *Store) Stop() {
	s.sweeper.Stop()
	if err := s.lock.Close(); err != nil {
		s.logger.Warn("Failed to release store lock", zap.Error(err))
	}
}

// Save writes a new snapshot for the session and makes it the one Load returns.
// It returns the side file name.
func (s *Store) Save(ctx context.Context, sessionID string, leads []core.ProcessedLead) (string, error) {
	if err := core.ValidateSessionID(sessionID); err != nil {
		return "", err
	}
	if leads == nil {
		leads = []core.ProcessedLead{}
	}

	created := s.now()
	snapshot := core.ResultSnapshot{SessionID: sessionID, CreatedAt: created, Leads: leads}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", eris.Wrap(err, "results: encode snapshot")
	}

	name := fmt.Sprintf("data_%s_%d.json", sessionID, created.UnixNano())
	err = s.withLock(ctx, true, func() error {
		return s.writeAtomic(name, data)
	})
	if err != nil {
		return "", err
	}

	if err := s.sessions.Set(ctx, sessionID, KeyDataFile, []byte(name)); err != nil {
		s.logger.Warn("Failed to store snapshot pointer in session",
			zap.String("session", sessionID), zap.Error(err))
	}

	if len(leads) < s.opts.MaxSessionRecords {
		err := s.sessions.Set(ctx, sessionID, KeyProcessedData, data)
		if err == nil {
			s.logger.Debug("Snapshot cached in session",
				zap.String("session", sessionID), zap.Int("records", len(leads)))
			return name, nil
		}
		s.logger.Warn("Failed to cache snapshot in session",
			zap.String("session", sessionID), zap.Error(err))
	}

	// an older cached snapshot must not shadow the new side file
	if err := s.sessions.Delete(ctx, sessionID, KeyProcessedData); err != nil {
		return name, eris.Wrapf(err, "results: drop stale cached snapshot for session %s", sessionID)
	}
	return name, nil
}

func (s *Store) writeAtomic(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, tempFilePattern)
	if err != nil {
		return eris.Wrap(err, "results: create temp file")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return eris.Wrap(err, "results: write snapshot")
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return eris.Wrap(err, "results: sync snapshot")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return eris.Wrap(err, "results: close snapshot")
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpName)
		return eris.Wrap(err, "results: publish snapshot")
	}
	return nil
}

// Load returns the latest snapshot for the session. It tries the session cache, then the
// side file the session points at, then the newest matching file in the store directory.
// ErrNoData is returned only when all three fail.
func (s *Store) Load(ctx context.Context, sessionID string) (*core.ResultSnapshot, error) {
	if err := core.ValidateSessionID(sessionID); err != nil {
		return nil, err
	}

	if snapshot, ok := s.loadCached(ctx, sessionID); ok {
		return snapshot, nil
	}
	if snapshot, ok := s.loadPointer(ctx, sessionID); ok {
		return snapshot, nil
	}

	name, err := s.latestFile(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, eris.Wrapf(core.ErrNoData, "results: session %s", sessionID)
	}

	snapshot, err := s.readFile(ctx, sessionID, name)
	if err != nil {
		s.logger.Warn("Latest snapshot is unreadable", zap.String("file", name), zap.Error(err))
		return nil, eris.Wrapf(core.ErrNoData, "results: session %s", sessionID)
	}
	return snapshot, nil
}

func (s *Store) loadCached(ctx context.Context, sessionID string) (*core.ResultSnapshot, bool) {
	data, err := s.sessions.Get(ctx, sessionID, KeyProcessedData)
	if err != nil {
		if !errors.Is(err, core.ErrNotFound) {
			s.logger.Warn("Failed to read cached snapshot", zap.String("session", sessionID), zap.Error(err))
		}
		return nil, false
	}

	snapshot, err := decodeSnapshot(data)
	if err != nil {
		s.logger.Warn("Discarding unreadable cached snapshot", zap.String("session", sessionID), zap.Error(err))
		return nil, false
	}
	return snapshot, true
}

func (s *Store) loadPointer(ctx context.Context, sessionID string) (*core.ResultSnapshot, bool) {
	pointer, err := s.sessions.Get(ctx, sessionID, KeyDataFile)
	if err != nil {
		return nil, false
	}

	name := string(pointer)
	snapshot, err := s.readFile(ctx, sessionID, name)
	if err != nil {
		s.logger.Info("Snapshot pointer is stale",
			zap.String("session", sessionID), zap.String("file", name), zap.Error(err))
		return nil, false
	}
	return snapshot, true
}

func (s *Store) readFile(ctx context.Context, sessionID, name string) (*core.ResultSnapshot, error) {
	m := dataFilePattern.FindStringSubmatch(name)
	if m == nil || m[1] != sessionID {
		return nil, eris.Errorf("results: %q is not a snapshot of session %s", name, sessionID)
	}

	var data []byte
	err := s.withLock(ctx, false, func() error {
		var err error
		data, err = os.ReadFile(filepath.Join(s.dir, name))
		return err
	})
	if err != nil {
		return nil, eris.Wrapf(err, "results: read %s", name)
	}
	return decodeSnapshot(data)
}

// latestFile returns the most recently modified side file of the session, or ""
func (s *Store) latestFile(ctx context.Context, sessionID string) (string, error) {
	var (
		latest     string
		latestTime time.Time
	)

	err := s.withLock(ctx, false, func() error {
		matches, err := filepath.Glob(filepath.Join(s.dir, "data_"+sessionID+"_*.json"))
		if err != nil {
			return err
		}
		for _, path := range matches {
			name := filepath.Base(path)
			if m := dataFilePattern.FindStringSubmatch(name); m == nil || m[1] != sessionID {
				continue
			}
			info, err := os.Stat(path)
			if err != nil {
				continue
			}
			mod := info.ModTime()
			if latest == "" || mod.After(latestTime) || (mod.Equal(latestTime) && name > latest) {
				latest, latestTime = name, mod
			}
		}
		return nil
	})
	if err != nil {
		return "", eris.Wrap(err, "results: scan store directory")
	}
	return latest, nil
}

// Sweep deletes side files and abandoned temp files older than the retention period.
// It returns the number of files removed.
func (s *Store) Sweep(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.opts.Retention)
	removed := 0

	err := s.withLock(ctx, true, func() error {
		entries, err := os.ReadDir(s.dir)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || !(dataFilePattern.MatchString(name) || strings.HasPrefix(name, ".tmp-")) {
				continue
			}
			info, err := entry.Info()
			if err != nil || !info.ModTime().Before(cutoff) {
				continue
			}
			if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
				s.logger.Warn("Failed to remove expired snapshot", zap.String("file", name), zap.Error(err))
				continue
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return removed, eris.Wrap(err, "results: sweep store directory")
	}

	if removed > 0 {
		s.logger.Info("Removed expired snapshots", zap.Int("removed", removed))
	}
	return removed, nil
}

// withLock runs fn holding the in-process lock and the directory file lock
func (s *Store) withLock(ctx context.Context, exclusive bool, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		locked bool
		err    error
	)
	if exclusive {
		locked, err = s.lock.TryLockContext(ctx, lockRetryDelay)
	} else {
		locked, err = s.lock.TryRLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		return eris.Wrap(err, "results: acquire store lock")
	}
	if !locked {
		return eris.New("results: store lock not acquired")
	}
	defer func() {
		if err := s.lock.Unlock(); err != nil {
			s.logger.Warn("Failed to unlock store", zap.Error(err))
		}
	}()

	return fn()
}

func decodeSnapshot(data []byte) (*core.ResultSnapshot, error) {
	var snapshot core.ResultSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, eris.Wrap(err, "results: decode snapshot")
	}
	return &snapshot, nil
}
