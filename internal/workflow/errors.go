package workflow

import (
	"errors"
	"fmt"
)

// Sentinel errors for the workflow executor's slice of the error taxonomy
// (§7).
var (
	ErrNoStages         = errors.New("workflow has no stages")
	ErrUnknownCommand   = errors.New("unknown command")
	ErrHookFailed       = errors.New("hook failed")
	ErrValidationFailed = errors.New("parameter validation failed")
)

// UnknownCommandError names the command executeWorkflow was asked to run
// that has no entry in the executor's commandActionMap.
type UnknownCommandError struct {
	Command string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownCommand, e.Command)
}

func (e *UnknownCommandError) Unwrap() error { return ErrUnknownCommand }

// HookFailedError names the task, hook, and underlying cause that aborted
// the workflow (§4.5 step 5b).
type HookFailedError struct {
	Task  string
	Hook  string
	Cause error
}

func (e *HookFailedError) Error() string {
	return fmt.Sprintf("%s: task %q, hook %q: %v", ErrHookFailed, e.Task, e.Hook, e.Cause)
}

func (e *HookFailedError) Unwrap() error { return ErrHookFailed }
