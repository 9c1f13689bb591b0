package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskClarify(t *testing.T) {
	tests := []struct {
		name      string
		initial   string
		target    string
		wantErr   error
		wantState string
	}{
		{
			name:      "inbox to next",
			initial:   TaskStateInbox,
			target:    TaskStateNext,
			wantState: TaskStateNext,
		},
		{
			name:      "inbox to waiting",
			initial:   TaskStateInbox,
			target:    TaskStateWaiting,
			wantState: TaskStateWaiting,
		},
		{
			name:      "inbox to someday",
			initial:   TaskStateInbox,
			target:    TaskStateSomeday,
			wantState: TaskStateSomeday,
		},
		{
			name:      "next to scheduled",
			initial:   TaskStateNext,
			target:    TaskStateScheduled,
			wantState: TaskStateScheduled,
		},
		{
			name:      "clarify to current state is a no-op",
			initial:   TaskStateNext,
			target:    TaskStateNext,
			wantState: TaskStateNext,
		},
		{
			name:    "terminal target rejected",
			initial: TaskStateInbox,
			target:  TaskStateDone,
			wantErr: ErrInvalidState,
		},
		{
			name:    "unknown target rejected",
			initial: TaskStateInbox,
			target:  "bogus",
			wantErr: ErrInvalidState,
		},
		{
			name:    "done task cannot be clarified",
			initial: TaskStateDone,
			target:  TaskStateNext,
			wantErr: ErrInvalidTransition,
		},
		{
			name:    "dropped task cannot be clarified",
			initial: TaskStateDropped,
			target:  TaskStateNext,
			wantErr: ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := &Task{Summary: "call plumber", State: tt.initial}
			err := task.Clarify(tt.target)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.initial, task.State)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantState, task.State)
			assert.False(t, task.UpdatedAt.IsZero())
		})
	}
}

func TestTaskDone(t *testing.T) {
	task := &Task{Summary: "buy paint", State: TaskStateNext}
	require.NoError(t, task.Done())
	assert.Equal(t, TaskStateDone, task.State)
	require.NotNil(t, task.DoneAt)
	assert.WithinDuration(t, time.Now(), *task.DoneAt, time.Second)

	// Done is terminal.
	assert.ErrorIs(t, task.Done(), ErrInvalidTransition)
}

func TestTaskDrop(t *testing.T) {
	task := &Task{Summary: "read manual", State: TaskStateSomeday}
	require.NoError(t, task.Drop())
	assert.Equal(t, TaskStateDropped, task.State)

	// Idempotent, even from terminal states.
	require.NoError(t, task.Drop())
	assert.Equal(t, TaskStateDropped, task.State)
}

func TestTaskSchedule(t *testing.T) {
	due := time.Date(2026, 9, 4, 9, 0, 0, 0, time.Local)

	task := &Task{Summary: "dentist", State: TaskStateInbox}
	require.NoError(t, task.Schedule(due))
	assert.Equal(t, TaskStateScheduled, task.State)
	require.NotNil(t, task.Due)
	assert.True(t, task.Due.Equal(due))

	closed := &Task{Summary: "past thing", State: TaskStateDone}
	assert.ErrorIs(t, closed.Schedule(due), ErrInvalidTransition)
}

func TestTaskSetPriority(t *testing.T) {
	task := &Task{Summary: "fix leak", State: TaskStateNext}

	task.SetPriority(2)
	assert.Equal(t, 2, task.Priority)

	task.SetPriority(99)
	assert.Equal(t, MaxPriority, task.Priority)

	task.SetPriority(-1)
	assert.Equal(t, 0, task.Priority)
}

func TestTaskOverdue(t *testing.T) {
	now := time.Now()
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name string
		task Task
		want bool
	}{
		{"open with past due", Task{State: TaskStateNext, Due: &past}, true},
		{"open with future due", Task{State: TaskStateNext, Due: &future}, false},
		{"open without due", Task{State: TaskStateNext}, false},
		{"done with past due", Task{State: TaskStateDone, Due: &past}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.task.Overdue(now))
		})
	}
}
