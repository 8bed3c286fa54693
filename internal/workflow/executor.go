package workflow

import (
	"fmt"
	"time"

	"taskctl/internal/dispatch"
	"taskctl/internal/graph"
	"taskctl/internal/logging"
	"taskctl/internal/metrics"
	"taskctl/internal/persistence"
	"taskctl/internal/task"
	"taskctl/internal/validate"
	"taskctl/internal/variables"
)

// Executor runs a fixed ordered pipeline of Hooks over every in-scope task
// for a (command, context) pair, per §4.5.
type Executor struct {
	Stages           []Hook
	Tasks            *task.Set
	Store            *variables.Store
	Registry         *dispatch.Registry
	Persistence      persistence.Persistence
	Validator        *validate.ParameterValidator
	CommandActionMap map[string]string
	GeneralErrorHook Hook
	Log              logging.Sink
	Metrics          *metrics.Metrics
}

// ExecuteWorkflow implements §4.5's algorithm:
//  1. fail with ErrNoStages if no stages are configured
//  2. resolve cmd to an action via CommandActionMap, failing with
//     UnknownCommandError if absent
//  3. build the shared Parameters{Action, Command, Context}
//  4. compute the dependency-ordered, in-scope task sequence
//  5. for each task in order, run every applicable stage; a stage error
//     invokes GeneralErrorHook and aborts the whole workflow
//  6. after a task's stages all succeed, commit persistence before moving
//     to the next task
func (e *Executor) ExecuteWorkflow(cmd, ctx string) error {
	if len(e.Stages) == 0 {
		return ErrNoStages
	}

	action, ok := e.CommandActionMap[cmd]
	if !ok {
		return &UnknownCommandError{Command: cmd}
	}

	order, err := graph.NewEngine(e.Tasks).TaskNamesInOrder(cmd, ctx)
	if err != nil {
		return err
	}

	deps := HookDeps{
		Store:       e.Store,
		Validator:   e.Validator,
		Persistence: e.Persistence,
		Registry:    e.Registry,
		Log:         e.Log,
		Metrics:     e.Metrics,
	}

	for _, taskID := range order {
		t, ok := e.Tasks.Get(taskID)
		if !ok {
			continue
		}

		params := &validate.Parameters{Action: action, Command: cmd, Context: ctx}

		if err := e.runStages(t, params, deps); err != nil {
			return err
		}

		if e.Persistence != nil {
			e.Persistence.Commit(func(commitErr error) {
				if e.Log != nil {
					e.Log.Error("workflow: commit failed", "taskId", taskID, "error", commitErr)
				}
			})
		}
	}

	return nil
}

func (e *Executor) runStages(t *task.Task, params *validate.Parameters, deps HookDeps) error {
	for _, stage := range e.Stages {
		if !appliesTo(stage, params.Command, params.Context) {
			continue
		}

		start := time.Now()
		store, err := stage.Run(t, params, deps)
		if e.Metrics != nil {
			e.Metrics.ObserveHookDuration(stage.Name(), time.Since(start).Seconds())
		}
		if store != nil {
			deps.Store = store
			e.Store = store
		}
		if err == nil {
			continue
		}

		params.ExceptionStacktrace = fmt.Sprintf("%+v", err)
		if e.GeneralErrorHook != nil {
			_, _ = e.GeneralErrorHook.Run(t, params, deps)
		}
		return &HookFailedError{Task: t.ID(), Hook: stage.Name(), Cause: err}
	}
	return nil
}
