package task

import "fmt"

// Set is an insertion-ordered collection of Tasks keyed by their unique
// task id. It does not itself interpret dependencies or processing scope —
// callers (the graph package) read those straight out of Metadata().
type Set struct {
	order []string
	byID  map[string]*Task
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{byID: map[string]*Task{}}
}

// Add registers t in the set. Adding a second task with an id already
// present is a programmer error (§3 invariant) and panics, matching the
// teacher's posture on malformed caller-constructed state
// (internal/dag.NewTaskGraph rejects duplicate names at construction).
func (s *Set) Add(t *Task) {
	if _, exists := s.byID[t.ID()]; exists {
		panic(fmt.Sprintf("task: duplicate task id %q", t.ID()))
	}
	s.byID[t.ID()] = t
	s.order = append(s.order, t.ID())
}

// Get returns the task with the given id.
func (s *Set) Get(id string) (*Task, bool) {
	t, ok := s.byID[id]
	return t, ok
}

// Names returns task ids in insertion order.
func (s *Set) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of tasks in the set.
func (s *Set) Len() int { return len(s.order) }
