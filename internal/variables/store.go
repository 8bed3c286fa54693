// Package variables implements the VariableStore and the late-binding
// ${VAR:task:index} resolver described in §4.2.
package variables

import "strings"

// Store is a mapping name -> opaque value, threaded through a workflow run.
// Every read returns a defensively deep-copied value and every write stores
// a defensively deep-copied value (§5); mutating methods return the
// receiver so calls can be chained (§13.4's fluent-return resolution of the
// original's inconsistent `add_variable` contract).
//
// Store preserves insertion order of its keys so that substring-based
// lookups (§4.2) are deterministic.
type Store struct {
	order []string
	byKey map[string]any
}

// New creates an empty Store.
func New() *Store {
	return &Store{byKey: map[string]any{}}
}

// Set stores value under name, replacing any prior value.
func (s *Store) Set(name string, value any) *Store {
	if _, exists := s.byKey[name]; !exists {
		s.order = append(s.order, name)
	}
	s.byKey[name] = deepCopy(value)
	return s
}

// Get returns a deep copy of the value stored under name.
func (s *Store) Get(name string) (any, bool) {
	v, ok := s.byKey[name]
	if !ok {
		return nil, false
	}
	return deepCopy(v), true
}

// Has reports whether name has a stored value.
func (s *Store) Has(name string) bool {
	_, ok := s.byKey[name]
	return ok
}

// Names returns all variable names in insertion order.
func (s *Store) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// AppendToSequence appends item to the []any sequence stored under name,
// initializing it to an empty sequence on first use (§4.4's event journal
// convention).
func (s *Store) AppendToSequence(name string, item any) *Store {
	seq, _ := s.byKey[name].([]any)
	seq = append(seq, deepCopy(item))
	if _, exists := s.byKey[name]; !exists {
		s.order = append(s.order, name)
	}
	s.byKey[name] = seq
	return s
}

// GetSequence returns a deep copy of the []any sequence stored under name,
// or an empty sequence if absent.
func (s *Store) GetSequence(name string) []any {
	seq, _ := s.byKey[name].([]any)
	out, _ := deepCopy(seq).([]any)
	if out == nil {
		out = []any{}
	}
	return out
}

// firstNameContaining returns the first stored variable name (in insertion
// order) that contains candidate as a substring, per §4.2's lookup rule.
func (s *Store) firstNameContaining(candidate string) (string, bool) {
	for _, name := range s.order {
		if strings.Contains(name, candidate) {
			return name, true
		}
	}
	return "", false
}

func deepCopy(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = deepCopy(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = deepCopy(e)
		}
		return out
	default:
		return x
	}
}
