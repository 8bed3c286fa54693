package workflow

import (
	"taskctl/internal/task"
	"taskctl/internal/validate"
	"taskctl/internal/variables"
)

// StateUpdateKey is the VariableStore key a Processor signals its
// post-action state change under (§4.5 step 4c).
func StateUpdateKey(taskID string) string {
	return taskID + ":TASK_STATE_UPDATES"
}

// TaskPostProcessingStateUpdateHook reads a pending task.StateUpdate left by
// the processing stage and, when present and StateChanged is true, applies
// it to the task's existing TaskState in place (see TaskState.ApplyStateUpdate
// for why this updates rather than replaces the struct, per the original
// implementation's update_applied_spec) and persists the new state under
// "<taskId>:TASK_STATE" (§4.5 step 4c, §6). Absence of a pending update is
// not an error: most actions (Describe, DetectDrift, a no-op Update) leave
// state untouched.
type TaskPostProcessingStateUpdateHook struct{}

func (TaskPostProcessingStateUpdateHook) Name() string { return "TaskPostProcessingStateUpdate" }

func (TaskPostProcessingStateUpdateHook) Run(t *task.Task, params *validate.Parameters, deps HookDeps) (*variables.Store, error) {
	v, ok := deps.Store.Get(StateUpdateKey(t.ID()))
	if !ok {
		return deps.Store, nil
	}
	update, ok := v.(task.StateUpdate)
	if !ok || !update.StateChanged {
		return deps.Store, nil
	}

	t.State.ApplyStateUpdate(update)
	if deps.Persistence != nil {
		deps.Persistence.UpdateObjectState(t.ID()+":TASK_STATE", t.State.PersistedState())
	}
	return deps.Store, nil
}
