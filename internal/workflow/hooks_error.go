package workflow

import (
	"taskctl/internal/task"
	"taskctl/internal/validate"
	"taskctl/internal/variables"
)

// GeneralErrorHook is invoked by the executor when any stage hook fails
// (§4.5 step 5b). It never itself fails: its job is to record the failure,
// not to recover from it.
type GeneralErrorHook struct{}

func (GeneralErrorHook) Name() string { return "GeneralError" }

func (GeneralErrorHook) Run(t *task.Task, params *validate.Parameters, deps HookDeps) (*variables.Store, error) {
	if deps.Log != nil {
		deps.Log.Error("workflow: task processing failed",
			"taskId", t.ID(),
			"command", params.Command,
			"context", params.Context,
			"action", params.Action,
			"stacktrace", params.ExceptionStacktrace,
		)
	}
	return deps.Store, nil
}
