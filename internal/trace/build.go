package trace

import (
	"taskctl/internal/dispatch"
	"taskctl/internal/variables"
)

// BuildFromStore reads each task's PROCESSING_EVENTS sequence out of store
// and assembles a canonicalized ExecutionTrace for the given run. It is the
// bridge between the VariableStore's insertion-ordered journal (§6) and the
// order-independent, timestamp-free record used for audit export and
// run-to-run comparison.
func BuildFromStore(store *variables.Store, taskIDs []string, workflowRunID string) ExecutionTrace {
	tr := ExecutionTrace{WorkflowRunID: workflowRunID}
	for _, id := range taskIDs {
		for _, raw := range store.GetSequence(dispatch.EventsKey(id)) {
			ev, ok := raw.(dispatch.Event)
			if !ok {
				continue
			}
			tr.Events = append(tr.Events, TraceEvent{
				TaskID:      ev.TaskId,
				Kind:        classifyKind(ev.EventLabel),
				Label:       ev.EventLabel,
				Description: ev.EventDescription,
			})
		}
	}
	tr.Canonicalize()
	return tr
}
