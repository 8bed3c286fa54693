package workflow

import (
	"taskctl/internal/task"
	"taskctl/internal/validate"
	"taskctl/internal/variables"
)

// ResolveTaskSpecVariablesHook resolves a task's raw spec against the
// current VariableStore and stores the result under
// "ResolvedSpec:<taskId>" (§4.2, §4.5 step 4a). It never fails.
type ResolveTaskSpecVariablesHook struct{}

func (ResolveTaskSpecVariablesHook) Name() string { return "ResolveTaskSpecVariables" }

func (ResolveTaskSpecVariablesHook) Run(t *task.Task, params *validate.Parameters, deps HookDeps) (*variables.Store, error) {
	resolved := variables.Resolve(t.Spec(), deps.Store, params.Command, params.Context)
	deps.Store.Set(variables.ResolvedSpecKey(t.ID()), resolved)
	// The drift model (§4/SPEC_FULL.md §13.1) compares the applied spec
	// against the most recently resolved one, so every action's resolution
	// keeps this current regardless of which action runs.
	t.State.CurrentResolvedSpec = resolved
	return deps.Store, nil
}
