package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/lead-email-generator/internal/core"
)

type stoppableStore interface {
	core.SessionStore
	Stop()
}

func storeBackends(t *testing.T, ttl time.Duration) map[string]stoppableStore {
	t.Helper()
	logger := zap.NewNop()

	sqlite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "sessions.db"), logger, ttl, 0)
	require.NoError(t, err)

	return map[string]stoppableStore{
		"memory": NewMemoryStore(logger, ttl, 0),
		"sqlite": sqlite,
	}
}

func TestStore_PartitionedBySession(t *testing.T) {
	ctx := context.Background()

	for name, s := range storeBackends(t, time.Hour) {
		t.Run(name, func(t *testing.T) {
			defer s.Stop()

			require.NoError(t, s.Set(ctx, "alice", "data_file", []byte("a.json")))
			require.NoError(t, s.Set(ctx, "bob", "data_file", []byte("b.json")))

			got, err := s.Get(ctx, "alice", "data_file")
			require.NoError(t, err)
			assert.Equal(t, []byte("a.json"), got)

			got, err = s.Get(ctx, "bob", "data_file")
			require.NoError(t, err)
			assert.Equal(t, []byte("b.json"), got)

			_, err = s.Get(ctx, "carol", "data_file")
			assert.ErrorIs(t, err, core.ErrNotFound)

			require.NoError(t, s.Set(ctx, "alice", "data_file", []byte("a2.json")))
			got, err = s.Get(ctx, "alice", "data_file")
			require.NoError(t, err)
			assert.Equal(t, []byte("a2.json"), got)

			require.NoError(t, s.Delete(ctx, "alice", "data_file"))
			_, err = s.Get(ctx, "alice", "data_file")
			assert.ErrorIs(t, err, core.ErrNotFound)
			require.NoError(t, s.Delete(ctx, "alice", "missing"))
		})
	}
}

func TestStore_Expiry(t *testing.T) {
	ctx := context.Background()

	for name, s := range storeBackends(t, -time.Second) {
		t.Run(name, func(t *testing.T) {
			defer s.Stop()

			require.NoError(t, s.Set(ctx, "alice", "csv_file", []byte("/tmp/x.csv")))
			_, err := s.Get(ctx, "alice", "csv_file")
			assert.ErrorIs(t, err, core.ErrNotFound)
			require.NoError(t, s.Cleanup(ctx))
		})
	}
}

func TestMemoryStore_ValuesAreCopied(t *testing.T) {
	s := NewMemoryStore(zap.NewNop(), time.Hour, 0)
	defer s.Stop()
	ctx := context.Background()

	value := []byte("original")
	require.NoError(t, s.Set(ctx, "alice", "k", value))
	value[0] = 'X'

	got, err := s.Get(ctx, "alice", "k")
	require.NoError(t, err)
	assert.Equal(t, "original", string(got))

	got[0] = 'Y'
	again, err := s.Get(ctx, "alice", "k")
	require.NoError(t, err)
	assert.Equal(t, "original", string(again))
}

func TestMemoryStore_CleanupDropsEmptySessions(t *testing.T) {
	s := NewMemoryStore(zap.NewNop(), -time.Second, 0)
	defer s.Stop()

	require.NoError(t, s.Set(context.Background(), "alice", "k", []byte("v")))
	require.NoError(t, s.Cleanup(context.Background()))
	assert.Empty(t, s.sessions)
}

func TestNewMySQLStore_InvalidDSN(t *testing.T) {
	_, err := NewMySQLStore("not a dsn", zap.NewNop(), time.Hour, 0)
	assert.Error(t, err)
}
