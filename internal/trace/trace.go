// Package trace builds a deterministic, timestamp-free audit record of a
// workflow run from the dispatcher's per-task event journal (§4.4/§6).
// Unlike the VariableStore's PROCESSING_EVENTS sequence — which carries
// wall-clock timestamps and reflects insertion order — an ExecutionTrace is
// canonicalized so two runs that did the same work in a different task
// order still hash identically.
package trace

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
	"strings"
)

// TraceEventKind is the stable, canonical discriminator for TraceEvent,
// derived from the dispatcher's event label (§4.4) with the action name
// stripped out: only the lifecycle position (called/start/done/error)
// matters for canonical ordering.
type TraceEventKind string

const (
	EventProcessTaskCalled TraceEventKind = "PROCESS_TASK_CALLED"
	EventActionStart       TraceEventKind = "ACTION_START"
	EventActionDone        TraceEventKind = "ACTION_DONE"
	EventActionError       TraceEventKind = "ACTION_ERROR"
	EventUnknown           TraceEventKind = "UNKNOWN"
)

// classifyKind maps a dispatcher event label (e.g. "CREATE_ACTION_START")
// to its TraceEventKind.
func classifyKind(label string) TraceEventKind {
	switch {
	case label == "PROCESS_TASK_CALLED":
		return EventProcessTaskCalled
	case strings.HasSuffix(label, "_START"):
		return EventActionStart
	case strings.HasSuffix(label, "_DONE"):
		return EventActionDone
	case strings.HasSuffix(label, "_ERROR"):
		return EventActionError
	default:
		return EventUnknown
	}
}

// TraceEvent is a single logical transition recorded for one task during a
// workflow run. Label carries the dispatcher's exact event label (so
// "CreateAction" vs "UpdateAction" failures remain distinguishable);
// Description is opaque free text and participates in canonical ordering.
type TraceEvent struct {
	TaskID      string
	Kind        TraceEventKind
	Label       string
	Description string
}

// ExecutionTrace is the canonical record of a single executeWorkflow run.
type ExecutionTrace struct {
	WorkflowRunID string
	Events        []TraceEvent
}

// Validate checks basic invariants.
func (t *ExecutionTrace) Validate() error {
	if t == nil {
		return errors.New("trace is nil")
	}
	if t.WorkflowRunID == "" {
		return errors.New("workflowRunId is required")
	}
	for i, e := range t.Events {
		if e.TaskID == "" {
			return errFieldRequired(i, "taskId")
		}
		if e.Label == "" {
			return errFieldRequired(i, "label")
		}
	}
	return nil
}

func errFieldRequired(i int, field string) error {
	return errors.New("events[" + itoa(i) + "]." + field + " is required")
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	digits := ""
	neg := i < 0
	if neg {
		i = -i
	}
	for i > 0 {
		digits = string(rune('0'+i%10)) + digits
		i /= 10
	}
	if neg {
		return "-" + digits
	}
	return digits
}

// Canonicalize sorts events by (TaskID, Kind, Label, Description), giving a
// total order independent of execution timing or the order tasks happened
// to run in.
func (t *ExecutionTrace) Canonicalize() {
	if t == nil {
		return
	}
	sort.SliceStable(t.Events, func(i, j int) bool {
		a, b := t.Events[i], t.Events[j]
		if a.TaskID != b.TaskID {
			return a.TaskID < b.TaskID
		}
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Label != b.Label {
			return a.Label < b.Label
		}
		return a.Description < b.Description
	})
}

// CanonicalJSON returns the canonical JSON encoding of a canonicalized copy
// of the trace, without mutating the receiver.
func (t ExecutionTrace) CanonicalJSON() ([]byte, error) {
	cp := ExecutionTrace{WorkflowRunID: t.WorkflowRunID}
	cp.Events = make([]TraceEvent, len(t.Events))
	copy(cp.Events, t.Events)
	cp.Canonicalize()
	if err := cp.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(&cp)
}

// Hash returns the deterministic sha256 hex digest of the trace's canonical
// JSON encoding.
func (t ExecutionTrace) Hash() (string, error) {
	b, err := t.CanonicalJSON()
	if err != nil {
		return "", err
	}
	return ComputeTraceHash(b), nil
}

// MarshalJSON fixes field order so two canonically-equal traces serialize
// to byte-identical output.
func (t ExecutionTrace) MarshalJSON() ([]byte, error) {
	if t.WorkflowRunID == "" {
		return nil, errors.New("workflowRunId is required")
	}
	var buf bytes.Buffer
	buf.WriteByte('{')

	buf.WriteString(`"workflowRunId":`)
	rb, _ := json.Marshal(t.WorkflowRunID)
	buf.Write(rb)
	buf.WriteByte(',')

	buf.WriteString(`"events":[`)
	for i := range t.Events {
		if i > 0 {
			buf.WriteByte(',')
		}
		eb, err := json.Marshal(t.Events[i])
		if err != nil {
			return nil, err
		}
		buf.Write(eb)
	}
	buf.WriteByte(']')

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON fixes field order (taskId, kind, label, then description when
// non-empty) for byte-stable output.
func (e TraceEvent) MarshalJSON() ([]byte, error) {
	if e.TaskID == "" || e.Label == "" {
		return nil, errors.New("taskId and label are required")
	}
	var buf bytes.Buffer
	buf.WriteByte('{')

	buf.WriteString(`"taskId":`)
	tb, _ := json.Marshal(e.TaskID)
	buf.Write(tb)

	buf.WriteString(`,"kind":`)
	kb, _ := json.Marshal(string(e.Kind))
	buf.Write(kb)

	buf.WriteString(`,"label":`)
	lb, _ := json.Marshal(e.Label)
	buf.Write(lb)

	if e.Description != "" {
		buf.WriteString(`,"description":`)
		db, _ := json.Marshal(e.Description)
		buf.Write(db)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
