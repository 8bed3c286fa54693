package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFile_GetMissingKeyReturnsEmptyMap(t *testing.T) {
	f, err := OpenFile(t.TempDir(), nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, f.Get("nope", false))
}

func TestFile_UpdateObjectStateThenGetRoundTripsBeforeCommit(t *testing.T) {
	f, err := OpenFile(t.TempDir(), nil)
	require.NoError(t, err)
	f.UpdateObjectState("t1:TASK_STATE", map[string]any{"label": "web"})
	assert.Equal(t, map[string]any{"label": "web"}, f.Get("t1:TASK_STATE", false))
}

func TestFile_GetReturnsDeepCopy(t *testing.T) {
	f, err := OpenFile(t.TempDir(), nil)
	require.NoError(t, err)
	f.UpdateObjectState("t1", map[string]any{"nested": map[string]any{"label": "a"}})
	got := f.Get("t1", false)
	got["nested"].(map[string]any)["label"] = "mutated"

	again := f.Get("t1", false)
	assert.Equal(t, "a", again["nested"].(map[string]any)["label"])
}

func TestFile_CommitThenLoadAcrossInstancesRoundTrips(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")

	f1, err := OpenFile(dir, nil)
	require.NoError(t, err)
	f1.UpdateObjectState("web:TASK_STATE", map[string]any{"label": "web", "is_created": true})
	require.True(t, f1.Commit(func(err error) { t.Fatalf("commit failed: %v", err) }))

	f2, err := OpenFile(dir, nil)
	require.NoError(t, err)
	require.True(t, f2.Load(func(err error) { t.Fatalf("load failed: %v", err) }))

	got := f2.Get("web:TASK_STATE", false)
	assert.Equal(t, "web", got["label"])
	assert.Equal(t, true, got["is_created"])
}

func TestFile_GetRefreshIfMissingFallsBackToDiskWithoutPriorLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")

	f1, err := OpenFile(dir, nil)
	require.NoError(t, err)
	f1.UpdateObjectState("db:TASK_STATE", map[string]any{"label": "db"})
	require.True(t, f1.Commit(nil))

	f2, err := OpenFile(dir, nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{}, f2.Get("db:TASK_STATE", false))
	assert.Equal(t, "db", f2.Get("db:TASK_STATE", true)["label"])
}

func TestFile_LoadOnFreshDirectorySucceeds(t *testing.T) {
	f, err := OpenFile(filepath.Join(t.TempDir(), "never-committed"), nil)
	require.NoError(t, err)
	assert.True(t, f.Load(func(err error) { t.Fatalf("load should not fail on a missing dir: %v", err) }))
}

func TestOpenFile_RejectsEmptyBaseDir(t *testing.T) {
	_, err := OpenFile("  ", nil)
	assert.Error(t, err)
}
