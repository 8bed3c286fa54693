package graph

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the ordering engine's error taxonomy (§7).
var (
	ErrDependencyOutOfScope = errors.New("dependency out of scope")
	ErrDependencyCycle      = errors.New("dependency cycle")
)

// OutOfScopeError names the task and the out-of-scope dependency that
// triggered it.
type OutOfScopeError struct {
	Task       string
	Dependency string
}

func (e *OutOfScopeError) Error() string {
	return fmt.Sprintf("%s: task %q depends on %q, which is out of scope", ErrDependencyOutOfScope, e.Task, e.Dependency)
}

func (e *OutOfScopeError) Unwrap() error { return ErrDependencyOutOfScope }

// CycleError names the participants of a detected dependency cycle, in the
// order they were discovered.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDependencyCycle, strings.Join(e.Cycle, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrDependencyCycle }
