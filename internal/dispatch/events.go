package dispatch

import (
	"time"

	"taskctl/internal/variables"
)

// Event is a single processing-journal record (§6).
type Event struct {
	EventTimestamp  string `json:"EventTimestamp"`
	EventLabel      string `json:"EventLabel"`
	EventDescription string `json:"EventDescription"`
	TaskId          string `json:"TaskId"`
}

// EventsKey is the VariableStore key a task's processing-event sequence is
// journaled under.
func EventsKey(taskID string) string {
	return taskID + ":PROCESSING_EVENTS"
}

// nowFunc is overridable in tests so event timestamps are deterministic.
var nowFunc = time.Now

func recordEvent(store *variables.Store, taskID, label, description string) {
	store.AppendToSequence(EventsKey(taskID), Event{
		EventTimestamp:   nowFunc().UTC().Format(time.RFC3339),
		EventLabel:       label,
		EventDescription: description,
		TaskId:           taskID,
	})
}
