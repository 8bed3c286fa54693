// Package persistence defines the read-through cache + commit contract the
// core consumes (§4.6) plus a default memory-only adapter, a SQLite-backed
// one, and a file-based one (SPEC_FULL.md §11).
package persistence

// OnFailure receives storage errors the core itself never inspects; callers
// decide whether to log, retry, or abort (§4.6: "the core never sees
// storage errors except through the returned booleans and caller-provided
// exceptions passed via an onFailure parameter").
type OnFailure func(err error)

// Persistence is the interface the core consumes for all durable state.
type Persistence interface {
	// Load populates the internal cache from the backing store. Idempotent.
	Load(onFailure OnFailure) bool

	// Get returns a deep copy of the value stored under key, or an empty
	// mapping if absent. When refreshIfMissing is true and key is not in
	// the in-memory cache, implementations may attempt a backing-store
	// lookup before giving up.
	Get(key string, refreshIfMissing bool) map[string]any

	// UpdateObjectState stores a deep copy of value in the in-memory cache
	// under key. Durability is deferred to Commit.
	UpdateObjectState(key string, value map[string]any)

	// Commit flushes the cache to durable storage.
	Commit(onFailure OnFailure) bool
}

func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
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
		return x
	}
}
