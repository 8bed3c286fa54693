package graph

import "taskctl/internal/task"

// Engine computes scope filtering, dependency resolution, and deterministic
// topological ordering over a TaskSet for a given (command, context) pair.
type Engine struct {
	set *task.Set
}

// NewEngine wraps a task.Set for ordering queries.
func NewEngine(set *task.Set) *Engine {
	return &Engine{set: set}
}

// TaskScopedForProcessing reports whether taskId is in scope for (cmd, ctx),
// per §3's processingScope rules.
func (e *Engine) TaskScopedForProcessing(taskID, cmd, ctx string) (bool, error) {
	t, ok := e.set.Get(taskID)
	if !ok {
		return false, &OutOfScopeError{Task: taskID, Dependency: taskID}
	}
	return InScope(t.Metadata(), cmd, ctx), nil
}

// DependenciesFor returns the active dependency ids for taskId under (cmd,
// ctx). It fails with OutOfScopeError if any active dependency is itself
// out of scope (or unknown).
func (e *Engine) DependenciesFor(taskID, cmd, ctx string) ([]string, error) {
	t, ok := e.set.Get(taskID)
	if !ok {
		return nil, &OutOfScopeError{Task: taskID, Dependency: taskID}
	}

	deps := ActiveDependencies(t.Metadata(), cmd, ctx)
	for _, d := range deps {
		dt, ok := e.set.Get(d)
		if !ok {
			return nil, &OutOfScopeError{Task: taskID, Dependency: d}
		}
		if !InScope(dt.Metadata(), cmd, ctx) {
			return nil, &OutOfScopeError{Task: taskID, Dependency: d}
		}
	}
	return deps, nil
}

// TaskNamesInOrder returns a deterministic dependency-correct ordering of
// in-scope task ids for (cmd, ctx), per §4.1's algorithm: iterate the task
// set in insertion order; for each in-scope task, recurse depth-first into
// its active dependencies (failing if one is out of scope), then append the
// task if not already present.
//
// Unlike the original algorithm this explicitly detects cycles (§9 REDESIGN
// FLAG) instead of silently terminating via the "already present" check.
func (e *Engine) TaskNamesInOrder(cmd, ctx string) ([]string, error) {
	order := make([]string, 0, e.set.Len())
	visited := map[string]bool{}
	onStack := map[string]bool{}
	var stack []string

	var visit func(id string) error
	visit = func(id string) error {
		if visited[id] {
			return nil
		}
		if onStack[id] {
			return &CycleError{Cycle: extractCycle(stack, id)}
		}

		t, ok := e.set.Get(id)
		if !ok {
			return &OutOfScopeError{Task: id, Dependency: id}
		}

		onStack[id] = true
		stack = append(stack, id)

		deps := ActiveDependencies(t.Metadata(), cmd, ctx)
		for _, d := range deps {
			dt, ok := e.set.Get(d)
			if !ok {
				return &OutOfScopeError{Task: id, Dependency: d}
			}
			if !InScope(dt.Metadata(), cmd, ctx) {
				return &OutOfScopeError{Task: id, Dependency: d}
			}
			if err := visit(d); err != nil {
				return err
			}
		}

		stack = stack[:len(stack)-1]
		onStack[id] = false
		visited[id] = true
		order = append(order, id)
		return nil
	}

	for _, id := range e.set.Names() {
		t, _ := e.set.Get(id)
		if !InScope(t.Metadata(), cmd, ctx) {
			continue
		}
		if err := visit(id); err != nil {
			return nil, err
		}
	}

	return order, nil
}

// extractCycle returns the portion of stack from the first occurrence of id
// through the current top, plus id again to close the loop.
func extractCycle(stack []string, id string) []string {
	start := 0
	for i, s := range stack {
		if s == id {
			start = i
			break
		}
	}
	cycle := append([]string{}, stack[start:]...)
	cycle = append(cycle, id)
	return cycle
}
