// Package workflow implements the hook pipeline and WorkflowExecutor
// described in §4.5: the ordered-stage orchestration that turns a
// (command, context) pair into a dependency-ordered sequence of per-task
// hook invocations.
package workflow

import (
	"taskctl/internal/dispatch"
	"taskctl/internal/logging"
	"taskctl/internal/metrics"
	"taskctl/internal/persistence"
	"taskctl/internal/task"
	"taskctl/internal/validate"
	"taskctl/internal/variables"
)

// Hook is one ordered stage of the per-task pipeline. Run receives the task
// being processed, the shared parameter bag, and the collaborators a hook
// may need; it returns the (possibly unchanged) VariableStore.
type Hook interface {
	Name() string
	Run(t *task.Task, params *validate.Parameters, deps HookDeps) (*variables.Store, error)
}

// ScopedHook is the optional supplement from SPEC_FULL.md §12: a hook that
// only applies to some commands/contexts. A Hook that doesn't implement
// this interface is treated as always-applicable.
type ScopedHook interface {
	Hook
	AppliesTo(cmd, ctx string) bool
}

// HookDeps bundles the collaborators a hook may consult, so adding one
// doesn't change every Hook implementation's signature.
type HookDeps struct {
	Store       *variables.Store
	Validator   *validate.ParameterValidator
	Persistence persistence.Persistence
	Registry    *dispatch.Registry
	Log         logging.Sink
	Metrics     *metrics.Metrics
}

func appliesTo(h Hook, cmd, ctx string) bool {
	if sh, ok := h.(ScopedHook); ok {
		return sh.AppliesTo(cmd, ctx)
	}
	return true
}
