// Package task defines the domain model for a declarative managed-resource
// task: its immutable manifest (Task) and its mutable runtime record
// (TaskState), plus the checksum rules the drift model is built on.
package task

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Task is an immutable declarative unit of work, constructed once from a
// manifest and never mutated afterward. Only its State is mutable.
type Task struct {
	APIVersion string
	Kind       string
	taskID     string
	metadata   map[string]any
	spec       map[string]any

	State *TaskState
}

// New constructs a Task from a manifest. metadata and spec are copied
// defensively; the caller's maps may be mutated afterward without affecting
// the Task.
//
// taskID is metadata["name"] when present and non-empty, otherwise the
// first 16 hex characters of the SHA-256 checksum of spec (§3: "16-hex
// SHA-256 of spec").
func New(apiVersion, kind string, metadata, spec map[string]any) *Task {
	metaCopy, _ := deepCopyMap(metadata).(map[string]any)
	specCopy, _ := deepCopyMap(spec).(map[string]any)
	if metaCopy == nil {
		metaCopy = map[string]any{}
	}
	if specCopy == nil {
		specCopy = map[string]any{}
	}

	id := ""
	if name, ok := metaCopy["name"].(string); ok && name != "" {
		id = name
	} else {
		id = specChecksum16(specCopy)
	}

	t := &Task{
		APIVersion: apiVersion,
		Kind:       kind,
		taskID:     id,
		metadata:   metaCopy,
		spec:       specCopy,
	}
	t.State = newTaskState(specCopy, metaCopy, id)
	return t
}

// ID returns the task's unique identifier within its TaskSet.
func (t *Task) ID() string { return t.taskID }

// Metadata returns a deep copy of the task's metadata, safe to mutate.
func (t *Task) Metadata() map[string]any {
	out, _ := deepCopyMap(t.metadata).(map[string]any)
	return out
}

// Spec returns a deep copy of the task's raw (unresolved) spec.
func (t *Task) Spec() map[string]any {
	out, _ := deepCopyMap(t.spec).(map[string]any)
	return out
}

// specChecksum16 hashes spec alone (not the {"spec","metadata"} drift
// envelope Checksum computes) — §3 defines the auto-derived id as "16-hex
// SHA-256 of spec", distinct from the drift checksum.
func specChecksum16(spec map[string]any) string {
	if spec == nil {
		spec = map[string]any{}
	}
	data, err := json.Marshal(spec)
	if err != nil {
		panic(fmt.Sprintf("task: spec not JSON-encodable: %v", err))
	}
	sum := sha256.Sum256(data)
	full := hex.EncodeToString(sum[:])
	if len(full) <= 16 {
		return full
	}
	return full[:16]
}

// Checksum computes the SHA-256 hex checksum of {"spec": spec, "metadata":
// metadata} over the canonical (sorted-key) JSON encoding. metadata defaults
// to an empty mapping when nil, per §3 and SPEC_FULL.md §13.1.
func Checksum(spec, metadata map[string]any) string {
	if metadata == nil {
		metadata = map[string]any{}
	}
	if spec == nil {
		spec = map[string]any{}
	}
	payload := map[string]any{"spec": spec, "metadata": metadata}
	// encoding/json sorts map[string]any keys lexicographically, giving us
	// the sorted-keys canonicalization chosen in SPEC_FULL.md §13.1.
	data, err := json.Marshal(payload)
	if err != nil {
		// Only non-JSON-encodable values (channels, funcs) reach here; the
		// caller handed us a manifest-derived value tree, so this would be a
		// programmer error upstream.
		panic(fmt.Sprintf("task: checksum payload not JSON-encodable: %v", err))
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func deepCopyMap(m map[string]any) any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return deepCopyMap(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = deepCopyValue(e)
		}
		return out
	default:
		// Scalars (string, bool, numeric types, nil) are copied by value.
		return x
	}
}
