package dispatch

import (
	"fmt"

	"taskctl/internal/graph"
	"taskctl/internal/persistence"
	"taskctl/internal/task"
	"taskctl/internal/variables"
)

// RollbackFromKey is the VariableStore key set to the originating action's
// name before an auto-rollback runs (§4.4).
func RollbackFromKey(taskID string) string {
	return taskID + ":RollbackFrom"
}

// ProcessTask runs action against t through proc, journaling START/DONE/ERROR
// events into store and auto-rolling-back on failure when the task's
// autoRollback metadata flag is set (§4.4's state machine). It returns the
// same store it was given (mutated), per the VariableStore's fluent
// read/write contract (§9/§13.4).
func ProcessTask(t *task.Task, p persistence.Persistence, store *variables.Store, registry *Registry, action Action, resolvedSpec map[string]any) (*variables.Store, error) {
	recordEvent(store, t.ID(), "PROCESS_TASK_CALLED", fmt.Sprintf("processTask called for action %s", action))

	proc, err := registry.Lookup(t.APIVersion)
	if err != nil {
		return store, err
	}

	result, actionErr := runOne(proc, action, t, resolvedSpec, p, store)
	if actionErr == nil {
		return result, nil
	}

	recordEvent(store, t.ID(), action.eventPrefix()+"_ERROR", actionErr.Error())

	if !action.triggersAutoRollback() {
		return store, &ActionFailedError{Action: action, Outcome: NoRollbackAttempted, Cause: actionErr}
	}
	if !graph.AutoRollback(t.Metadata()) {
		return store, &ActionFailedError{Action: action, Outcome: NoRollbackAttempted, Cause: actionErr}
	}
	if action == RollbackAction {
		// The rollback action itself failed: no further rollback is
		// attempted (§4.4's "action was Rollback -> no further rollback").
		return store, &ActionFailedError{Action: action, Outcome: NoRollbackAttempted, Cause: actionErr}
	}

	store.Set(RollbackFromKey(t.ID()), string(action))
	_, rollbackErr := runOne(proc, RollbackAction, t, resolvedSpec, p, store)
	if rollbackErr != nil {
		recordEvent(store, t.ID(), RollbackAction.eventPrefix()+"_ERROR", rollbackErr.Error())
		return store, &ActionFailedError{Action: action, Outcome: RollbackAlsoFailed, Cause: actionErr, Rollback: rollbackErr}
	}
	return store, &ActionFailedError{Action: action, Outcome: RolledBack, Cause: actionErr}
}

// runOne executes a single action invocation with its own START/DONE
// journal entries, returning the processor's error (if any) unwrapped.
func runOne(proc Processor, action Action, t *task.Task, resolvedSpec map[string]any, p persistence.Persistence, store *variables.Store) (*variables.Store, error) {
	recordEvent(store, t.ID(), action.eventPrefix()+"_START", fmt.Sprintf("%s started", action))
	if err := invokeAction(proc, action, t, resolvedSpec, p, store); err != nil {
		return store, err
	}
	recordEvent(store, t.ID(), action.eventPrefix()+"_DONE", fmt.Sprintf("%s completed", action))
	return store, nil
}
