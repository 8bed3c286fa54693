package task

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_IdFromMetadataName(t *testing.T) {
	tk := New("v1", "Widget", map[string]any{"name": "widget-a"}, map[string]any{"size": "large"})
	assert.Equal(t, "widget-a", tk.ID())
}

func TestNew_IdFromSpecChecksumWhenNameMissing(t *testing.T) {
	tk := New("v1", "Widget", map[string]any{}, map[string]any{"size": "large"})
	require.Len(t, tk.ID(), 16)

	spec, err := json.Marshal(map[string]any{"size": "large"})
	require.NoError(t, err)
	sum := sha256.Sum256(spec)
	want := hex.EncodeToString(sum[:])[:16]
	assert.Equal(t, want, tk.ID())
	// The id must be derived from the bare spec, not the {spec,metadata}
	// drift-checksum envelope.
	assert.NotEqual(t, Checksum(map[string]any{"size": "large"}, nil)[:16], tk.ID())
}

func TestChecksum_StableAcrossKeyInsertionOrder(t *testing.T) {
	a := Checksum(map[string]any{"a": 1, "b": 2}, map[string]any{"z": true})
	b := Checksum(map[string]any{"b": 2, "a": 1}, map[string]any{"z": true})
	assert.Equal(t, a, b)
}

func TestChecksum_DiffersOnValueChange(t *testing.T) {
	a := Checksum(map[string]any{"a": 1}, nil)
	b := Checksum(map[string]any{"a": 2}, nil)
	assert.NotEqual(t, a, b)
}

func TestTaskState_SpecDriftedNilBeforeCreation(t *testing.T) {
	tk := New("v1", "Widget", map[string]any{"name": "w1"}, map[string]any{"size": "large"})
	assert.Nil(t, tk.State.SpecDrifted())
	assert.Nil(t, tk.State.ResourceDrifted())
}

func TestTaskState_SpecDriftedAfterApply(t *testing.T) {
	tk := New("v1", "Widget", map[string]any{"name": "w1"}, map[string]any{"size": "large"})
	tk.State.UpdateAppliedSpec(map[string]any{"size": "large"}, nil, 100)
	tk.State.CurrentResolvedSpec = map[string]any{"size": "large"}

	drifted := tk.State.SpecDrifted()
	require.NotNil(t, drifted)
	assert.False(t, *drifted)

	tk.State.CurrentResolvedSpec = map[string]any{"size": "small"}
	drifted = tk.State.SpecDrifted()
	require.NotNil(t, drifted)
	assert.True(t, *drifted)
}

func TestTaskState_ResourceDriftedTrueWithoutObservation(t *testing.T) {
	tk := New("v1", "Widget", map[string]any{"name": "w1"}, map[string]any{"size": "large"})
	checksum := "abc123"
	tk.State.UpdateAppliedSpec(map[string]any{"size": "large"}, &checksum, 100)

	// No observed resource checksum yet: treated as drifted (never confirmed).
	drifted := tk.State.ResourceDrifted()
	require.NotNil(t, drifted)
	assert.True(t, *drifted)

	same := checksum
	tk.State.CurrentResourceChecksum = &same
	drifted = tk.State.ResourceDrifted()
	require.NotNil(t, drifted)
	assert.False(t, *drifted)
}

func TestTaskState_ToMapHumanReadable(t *testing.T) {
	tk := New("v1", "Widget", map[string]any{"name": "w1"}, map[string]any{"size": "large"})
	r := tk.State.ToMap(true, true, false)
	assert.Equal(t, "No", r.IsCreated)
	assert.Equal(t, "-", r.CreatedTimestamp)
	assert.Equal(t, "N/A", r.SpecDrifted)
	assert.Equal(t, "N/A", r.ResourceDrifted)
	assert.Equal(t, "unavailable", r.AppliedSpecChecksum)
}

func TestSet_AddDuplicatePanics(t *testing.T) {
	set := NewSet()
	set.Add(New("v1", "Widget", map[string]any{"name": "w1"}, nil))
	assert.Panics(t, func() {
		set.Add(New("v1", "Widget", map[string]any{"name": "w1"}, nil))
	})
}

func TestSet_NamesPreservesInsertionOrder(t *testing.T) {
	set := NewSet()
	set.Add(New("v1", "Widget", map[string]any{"name": "c1"}, nil))
	set.Add(New("v1", "Widget", map[string]any{"name": "a1"}, nil))
	set.Add(New("v1", "Widget", map[string]any{"name": "b1"}, nil))
	assert.Equal(t, []string{"c1", "a1", "b1"}, set.Names())
}
