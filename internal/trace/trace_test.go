package trace

import (
	"bytes"
	"testing"

	"taskctl/internal/dispatch"
	"taskctl/internal/variables"
)

func TestCanonicalTraceStability_ByteForByte(t *testing.T) {
	trace1 := ExecutionTrace{
		WorkflowRunID: "run-abc",
		Events: []TraceEvent{
			{Kind: EventActionDone, TaskID: "b", Label: "CREATE_ACTION_DONE"},
			{Kind: EventActionStart, TaskID: "a", Label: "CREATE_ACTION_START"},
			{Kind: EventActionError, TaskID: "c", Label: "CREATE_ACTION_ERROR", Description: "boom"},
		},
	}

	trace2 := ExecutionTrace{
		WorkflowRunID: "run-abc",
		Events: []TraceEvent{
			{Kind: EventActionError, TaskID: "c", Description: "boom", Label: "CREATE_ACTION_ERROR"},
			{Kind: EventActionStart, TaskID: "a", Label: "CREATE_ACTION_START"},
			{Kind: EventActionDone, TaskID: "b", Label: "CREATE_ACTION_DONE"},
		},
	}

	b1, err := trace1.CanonicalJSON()
	if err != nil {
		t.Fatalf("canonical json (1): %v", err)
	}
	b2, err := trace2.CanonicalJSON()
	if err != nil {
		t.Fatalf("canonical json (2): %v", err)
	}

	if !bytes.Equal(b1, b2) {
		t.Fatalf("expected identical bytes\n1=%s\n2=%s", string(b1), string(b2))
	}
}

func TestCanonicalOrdering_SortsByTaskID(t *testing.T) {
	tr := ExecutionTrace{
		WorkflowRunID: "run-abc",
		Events: []TraceEvent{
			{Kind: EventActionDone, TaskID: "b", Label: "CREATE_ACTION_DONE"},
			{Kind: EventActionDone, TaskID: "a", Label: "CREATE_ACTION_DONE"},
		},
	}
	b, err := tr.CanonicalJSON()
	if err != nil {
		t.Fatalf("canonical json: %v", err)
	}
	expected := `{"workflowRunId":"run-abc","events":[{"taskId":"a","kind":"ACTION_DONE","label":"CREATE_ACTION_DONE"},{"taskId":"b","kind":"ACTION_DONE","label":"CREATE_ACTION_DONE"}]}`
	if string(b) != expected {
		t.Fatalf("unexpected canonical bytes\nexpected=%s\nactual  =%s", expected, string(b))
	}
}

func TestHash_Deterministic(t *testing.T) {
	tr1 := ExecutionTrace{WorkflowRunID: "g", Events: []TraceEvent{{Kind: EventActionDone, TaskID: "a", Label: "CREATE_ACTION_DONE"}}}
	tr2 := ExecutionTrace{WorkflowRunID: "g", Events: []TraceEvent{{Kind: EventActionDone, TaskID: "a", Label: "CREATE_ACTION_DONE"}}}

	h1, err := tr1.Hash()
	if err != nil {
		t.Fatalf("hash (1): %v", err)
	}
	h2, err := tr2.Hash()
	if err != nil {
		t.Fatalf("hash (2): %v", err)
	}
	if h1 != h2 {
		t.Fatalf("expected identical hash, got %q != %q", h1, h2)
	}
}

func TestHash_IgnoresInsertionOrder_WhenSemanticallyEquivalent(t *testing.T) {
	tr1 := ExecutionTrace{
		WorkflowRunID: "g",
		Events: []TraceEvent{
			{Kind: EventActionDone, TaskID: "b", Label: "CREATE_ACTION_DONE", Description: "fresh"},
			{Kind: EventActionDone, TaskID: "a", Label: "CREATE_ACTION_DONE", Description: "cached"},
		},
	}
	tr2 := ExecutionTrace{
		WorkflowRunID: "g",
		Events: []TraceEvent{
			{Kind: EventActionDone, TaskID: "a", Label: "CREATE_ACTION_DONE", Description: "cached"},
			{Kind: EventActionDone, TaskID: "b", Label: "CREATE_ACTION_DONE", Description: "fresh"},
		},
	}

	h1, err := tr1.Hash()
	if err != nil {
		t.Fatalf("hash (1): %v", err)
	}
	h2, err := tr2.Hash()
	if err != nil {
		t.Fatalf("hash (2): %v", err)
	}
	if h1 != h2 {
		t.Fatalf("expected equal hash for semantically equivalent traces, got %q != %q", h1, h2)
	}
}

func TestClassifyKind_MapsDispatcherEventLabels(t *testing.T) {
	cases := map[string]TraceEventKind{
		"PROCESS_TASK_CALLED": EventProcessTaskCalled,
		"CREATE_ACTION_START": EventActionStart,
		"CREATE_ACTION_DONE":  EventActionDone,
		"CREATE_ACTION_ERROR": EventActionError,
		"ROLLBACK_ACTION_DONE": EventActionDone,
		"SOMETHING_ELSE":      EventUnknown,
	}
	for label, want := range cases {
		if got := classifyKind(label); got != want {
			t.Fatalf("classifyKind(%q) = %q, want %q", label, got, want)
		}
	}
}

func TestBuildFromStore_AssemblesAndCanonicalizesJournaledEvents(t *testing.T) {
	store := variables.New()
	store.AppendToSequence(dispatch.EventsKey("web"), dispatch.Event{
		EventLabel:       "CREATE_ACTION_START",
		EventDescription: "CreateAction started",
		TaskId:           "web",
	})
	store.AppendToSequence(dispatch.EventsKey("web"), dispatch.Event{
		EventLabel:       "CREATE_ACTION_DONE",
		EventDescription: "CreateAction completed",
		TaskId:           "web",
	})
	store.AppendToSequence(dispatch.EventsKey("db"), dispatch.Event{
		EventLabel:       "PROCESS_TASK_CALLED",
		EventDescription: "processTask called for action CreateAction",
		TaskId:           "db",
	})

	tr := BuildFromStore(store, []string{"web", "db"}, "run-1")

	if len(tr.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(tr.Events))
	}
	// db's PROCESS_TASK_CALLED sorts before web's ACTION_DONE/ACTION_START.
	if tr.Events[0].TaskID != "db" {
		t.Fatalf("expected db first after canonicalization, got %q", tr.Events[0].TaskID)
	}
	if tr.Events[0].Kind != EventProcessTaskCalled {
		t.Fatalf("expected classified kind %q, got %q", EventProcessTaskCalled, tr.Events[0].Kind)
	}
}
