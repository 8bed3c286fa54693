package workflow

import (
	"errors"

	"taskctl/internal/dispatch"
	"taskctl/internal/task"
	"taskctl/internal/validate"
	"taskctl/internal/variables"
)

// TaskProcessingHook dispatches the action named by params.Action against
// the task through deps.Registry (§4.4, §4.5 step 4b). Parameters are
// validated first via deps.Validator; on validation failure the hook is a
// no-op (§4.7: "skips the guarded hook, returns the input store
// unchanged").
type TaskProcessingHook struct{}

func (TaskProcessingHook) Name() string { return "TaskProcessing" }

func (TaskProcessingHook) Run(t *task.Task, params *validate.Parameters, deps HookDeps) (*variables.Store, error) {
	if deps.Validator != nil && !deps.Validator.ValidationPassed(*params) {
		return deps.Store, nil
	}

	action, err := dispatch.ParseAction(params.Action)
	if err != nil {
		return deps.Store, err
	}

	resolvedSpec := t.Spec()
	if v, ok := deps.Store.Get(variables.ResolvedSpecKey(t.ID())); ok {
		if m, ok := v.(map[string]any); ok {
			resolvedSpec = m
		}
	}

	store, err := dispatch.ProcessTask(t, deps.Persistence, deps.Store, deps.Registry, action, resolvedSpec)
	observeResult(deps, action, err)
	return store, err
}

func observeResult(deps HookDeps, action dispatch.Action, err error) {
	if deps.Metrics == nil {
		return
	}
	if err == nil {
		deps.Metrics.ObserveAction(string(action), "success")
		return
	}
	var failed *dispatch.ActionFailedError
	if !errors.As(err, &failed) {
		deps.Metrics.ObserveAction(string(action), "failed")
		return
	}
	switch failed.Outcome {
	case dispatch.RolledBack:
		deps.Metrics.ObserveAction(string(action), "rolled_back")
		deps.Metrics.ObserveAutoRollback()
	case dispatch.RollbackAlsoFailed:
		deps.Metrics.ObserveAction(string(action), "rollback_failed")
		deps.Metrics.ObserveAutoRollback()
	default:
		deps.Metrics.ObserveAction(string(action), "failed")
	}
}
