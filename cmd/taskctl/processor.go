package main

import (
	"time"

	"taskctl/internal/logging"
	"taskctl/internal/persistence"
	"taskctl/internal/task"
	"taskctl/internal/variables"
	"taskctl/internal/workflow"
)

// loggingProcessor is a demo Processor: it doesn't talk to any real
// external resource, it only journals what it would have done and signals
// a state update computed from the resolved spec. It exists to give the
// dispatcher and workflow executor a runnable end-to-end path.
type loggingProcessor struct {
	log logging.Sink
}

func newLoggingProcessor(log logging.Sink) *loggingProcessor {
	return &loggingProcessor{log: log}
}

func (p *loggingProcessor) Create(t *task.Task, resolvedSpec map[string]any, _ persistence.Persistence, store *variables.Store) error {
	p.log.Info("create", "taskId", t.ID())
	checksum := task.Checksum(resolvedSpec, nil)
	store.Set(workflow.StateUpdateKey(t.ID()), task.StateUpdate{
		StateChanged:        true,
		IsCreated:           true,
		CreatedTimestamp:    time.Now().Unix(),
		ResolvedSpecApplied: resolvedSpec,
		ResourceChecksum:    &checksum,
	})
	return nil
}

func (p *loggingProcessor) Update(t *task.Task, resolvedSpec map[string]any, _ persistence.Persistence, store *variables.Store) error {
	p.log.Info("update", "taskId", t.ID())
	checksum := task.Checksum(resolvedSpec, nil)
	store.Set(workflow.StateUpdateKey(t.ID()), task.StateUpdate{
		StateChanged:        true,
		IsCreated:           true,
		CreatedTimestamp:    t.State.CreatedTimestamp,
		ResolvedSpecApplied: resolvedSpec,
		ResourceChecksum:    &checksum,
	})
	return nil
}

func (p *loggingProcessor) Delete(t *task.Task, _ map[string]any, _ persistence.Persistence, store *variables.Store) error {
	p.log.Info("delete", "taskId", t.ID())
	store.Set(workflow.StateUpdateKey(t.ID()), task.StateUpdate{
		StateChanged: true,
		IsCreated:    false,
	})
	return nil
}

func (p *loggingProcessor) Rollback(t *task.Task, _ map[string]any, _ persistence.Persistence, _ *variables.Store) error {
	p.log.Warn("rollback has no real resource to restore", "taskId", t.ID())
	return nil
}

func (p *loggingProcessor) Describe(t *task.Task, _ map[string]any, _ persistence.Persistence, _ *variables.Store) error {
	p.log.Info("describe", "taskId", t.ID())
	return nil
}

func (p *loggingProcessor) DetectDrift(t *task.Task, _ map[string]any, _ persistence.Persistence, _ *variables.Store) error {
	p.log.Info("detect-drift", "taskId", t.ID())
	return nil
}
