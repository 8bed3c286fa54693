package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stretchr/testify/assert"
)

func openTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLite_CommitThenLoadRoundTrips(t *testing.T) {
	s := openTestSQLite(t)
	s.UpdateObjectState("t1:TASK_STATE", map[string]any{"is_created": true, "label": "t1"})
	require.True(t, s.Commit(nil))

	reloaded := openTestSQLiteSharedDB(t, s)
	require.True(t, reloaded.Load(nil))
	assert.Equal(t, map[string]any{"is_created": true, "label": "t1"}, reloaded.Get("t1:TASK_STATE", false))
}

func openTestSQLiteSharedDB(t *testing.T, s *SQLite) *SQLite {
	t.Helper()
	return &SQLite{db: s.db, log: s.log, cache: map[string]map[string]any{}}
}

func TestSQLite_GetRefreshIfMissingFallsBackToDatabase(t *testing.T) {
	s := openTestSQLite(t)
	s.UpdateObjectState("t1:TASK_STATE", map[string]any{"label": "t1"})
	require.True(t, s.Commit(nil))

	// A fresh in-memory cache (simulating a second read) still finds the
	// value via refreshIfMissing.
	s.cache = map[string]map[string]any{}
	assert.Equal(t, map[string]any{"label": "t1"}, s.Get("t1:TASK_STATE", true))
}

func TestSQLite_GetWithoutRefreshReturnsEmptyWhenUncached(t *testing.T) {
	s := openTestSQLite(t)
	assert.Equal(t, map[string]any{}, s.Get("missing", false))
}
