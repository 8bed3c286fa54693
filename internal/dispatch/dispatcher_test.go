package dispatch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskctl/internal/persistence"
	"taskctl/internal/task"
	"taskctl/internal/variables"
)

// fakeProcessor lets each action's outcome be scripted per test.
type fakeProcessor struct {
	fail map[Action]error
	ran  []Action
}

func newFakeProcessor() *fakeProcessor { return &fakeProcessor{fail: map[Action]error{}} }

func (f *fakeProcessor) invoke(action Action) error {
	f.ran = append(f.ran, action)
	return f.fail[action]
}

func (f *fakeProcessor) Create(*task.Task, map[string]any, persistence.Persistence, *variables.Store) error {
	return f.invoke(CreateAction)
}
func (f *fakeProcessor) Update(*task.Task, map[string]any, persistence.Persistence, *variables.Store) error {
	return f.invoke(UpdateAction)
}
func (f *fakeProcessor) Delete(*task.Task, map[string]any, persistence.Persistence, *variables.Store) error {
	return f.invoke(DeleteAction)
}
func (f *fakeProcessor) Rollback(*task.Task, map[string]any, persistence.Persistence, *variables.Store) error {
	return f.invoke(RollbackAction)
}
func (f *fakeProcessor) Describe(*task.Task, map[string]any, persistence.Persistence, *variables.Store) error {
	return f.invoke(DescribeAction)
}
func (f *fakeProcessor) DetectDrift(*task.Task, map[string]any, persistence.Persistence, *variables.Store) error {
	return f.invoke(DetectDriftAction)
}

func newTestTask(autoRollback bool) *task.Task {
	return task.New("v1", "Widget", map[string]any{"name": "t1", "autoRollback": autoRollback}, map[string]any{})
}

func eventLabels(store *variables.Store, taskID string) []string {
	seq := store.GetSequence(EventsKey(taskID))
	labels := make([]string, len(seq))
	for i, e := range seq {
		labels[i] = e.(Event).EventLabel
	}
	return labels
}

func TestProcessTask_SuccessJournalsStartAndDone(t *testing.T) {
	tk := newTestTask(true)
	proc := newFakeProcessor()
	registry := NewRegistry()
	registry.Register("v1", proc)
	store := variables.New()

	_, err := ProcessTask(tk, persistence.NewMemory(nil), store, registry, CreateAction, tk.Spec())
	require.NoError(t, err)
	assert.Equal(t, []string{"PROCESS_TASK_CALLED", "CREATE_ACTION_START", "CREATE_ACTION_DONE"}, eventLabels(store, tk.ID()))
}

func TestProcessTask_FailureWithAutoRollbackDisabledDoesNotRollback(t *testing.T) {
	tk := newTestTask(false)
	proc := newFakeProcessor()
	proc.fail[CreateAction] = errors.New("boom")
	registry := NewRegistry()
	registry.Register("v1", proc)
	store := variables.New()

	_, err := ProcessTask(tk, persistence.NewMemory(nil), store, registry, CreateAction, tk.Spec())
	require.Error(t, err)

	var failed *ActionFailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, NoRollbackAttempted, failed.Outcome)
	assert.Equal(t, []Action{CreateAction}, proc.ran)
}

func TestProcessTask_FailureTriggersAutoRollbackAndSucceeds(t *testing.T) {
	tk := newTestTask(true)
	proc := newFakeProcessor()
	proc.fail[CreateAction] = errors.New("boom")
	registry := NewRegistry()
	registry.Register("v1", proc)
	store := variables.New()

	_, err := ProcessTask(tk, persistence.NewMemory(nil), store, registry, CreateAction, tk.Spec())
	require.Error(t, err)

	var failed *ActionFailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, RolledBack, failed.Outcome)
	assert.Equal(t, []Action{CreateAction, RollbackAction}, proc.ran)
	assert.Equal(t, []string{
		"PROCESS_TASK_CALLED",
		"CREATE_ACTION_START",
		"CREATE_ACTION_ERROR",
		"ROLLBACK_ACTION_START",
		"ROLLBACK_ACTION_DONE",
	}, eventLabels(store, tk.ID()))

	from, ok := store.Get(RollbackFromKey(tk.ID()))
	require.True(t, ok)
	assert.Equal(t, string(CreateAction), from)
}

func TestProcessTask_RollbackAlsoFails(t *testing.T) {
	tk := newTestTask(true)
	proc := newFakeProcessor()
	proc.fail[CreateAction] = errors.New("boom")
	proc.fail[RollbackAction] = errors.New("rollback boom")
	registry := NewRegistry()
	registry.Register("v1", proc)
	store := variables.New()

	_, err := ProcessTask(tk, persistence.NewMemory(nil), store, registry, CreateAction, tk.Spec())
	require.Error(t, err)

	var failed *ActionFailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, RollbackAlsoFailed, failed.Outcome)
	assert.Error(t, failed.Rollback)
}

func TestProcessTask_DescribeNeverTriggersRollback(t *testing.T) {
	tk := newTestTask(true)
	proc := newFakeProcessor()
	proc.fail[DescribeAction] = errors.New("boom")
	registry := NewRegistry()
	registry.Register("v1", proc)
	store := variables.New()

	_, err := ProcessTask(tk, persistence.NewMemory(nil), store, registry, DescribeAction, tk.Spec())
	require.Error(t, err)

	var failed *ActionFailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, NoRollbackAttempted, failed.Outcome)
	assert.Equal(t, []Action{DescribeAction}, proc.ran)
}

func TestProcessTask_FailingRollbackActionItselfDoesNotRecurse(t *testing.T) {
	tk := newTestTask(true)
	proc := newFakeProcessor()
	proc.fail[RollbackAction] = errors.New("boom")
	registry := NewRegistry()
	registry.Register("v1", proc)
	store := variables.New()

	_, err := ProcessTask(tk, persistence.NewMemory(nil), store, registry, RollbackAction, tk.Spec())
	require.Error(t, err)

	var failed *ActionFailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, NoRollbackAttempted, failed.Outcome)
	assert.Equal(t, []Action{RollbackAction}, proc.ran)
}

func TestProcessTask_NoProcessorRegistered(t *testing.T) {
	tk := newTestTask(true)
	registry := NewRegistry()
	store := variables.New()

	_, err := ProcessTask(tk, persistence.NewMemory(nil), store, registry, CreateAction, tk.Spec())
	require.Error(t, err)

	var notFound *NoProcessorError
	assert.True(t, errors.As(err, &notFound))
}

func TestParseAction_RejectsUnknownName(t *testing.T) {
	_, err := ParseAction("NukeAction")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownAction))
}
