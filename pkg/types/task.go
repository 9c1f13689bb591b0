package types

import "time"

// Task states. A task moves through these during the capture-clarify-do
// cycle: captured items land in "inbox" and are clarified into one of the
// open working states before being finished or dropped.
const (
	TaskStateInbox     = "inbox"
	TaskStateNext      = "next"
	TaskStateWaiting   = "waiting"
	TaskStateScheduled = "scheduled"
	TaskStateSomeday   = "someday"
	TaskStateDone      = "done"
	TaskStateDropped   = "dropped"
)

// validTaskStates is the set of recognized task state values.
var validTaskStates = map[string]bool{
	TaskStateInbox:     true,
	TaskStateNext:      true,
	TaskStateWaiting:   true,
	TaskStateScheduled: true,
	TaskStateSomeday:   true,
	TaskStateDone:      true,
	TaskStateDropped:   true,
}

// openTaskStates are the states a task can be worked from. Done and dropped
// are terminal.
var openTaskStates = map[string]bool{
	TaskStateInbox:     true,
	TaskStateNext:      true,
	TaskStateWaiting:   true,
	TaskStateScheduled: true,
	TaskStateSomeday:   true,
}

// MaxPriority caps the "!" urgency markers on a task.
const MaxPriority = 3

// Task represents a single actionable item. Tasks may be captured directly
// or extracted from checkbox lines on a page, in which case PageID records
// the source page.
type Task struct {
	TaskID    string     `json:"task_id"`
	Summary   string     `json:"summary"`
	State     string     `json:"state"`
	PageID    string     `json:"page_id,omitempty"`
	Priority  int        `json:"priority"`
	Due       *time.Time `json:"due,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DoneAt    *time.Time `json:"done_at,omitempty"`
}

// IsValidTaskState reports whether the given string is a recognized state.
func IsValidTaskState(s string) bool {
	return validTaskStates[s]
}

// IsOpen reports whether the task is in a workable (non-terminal) state.
func (t *Task) IsOpen() bool {
	return openTaskStates[t.State]
}

// Clarify moves an inbox item into one of the open working states.
// Returns ErrInvalidState if target is not recognized or is terminal, and
// ErrInvalidTransition if the task is not open. Clarifying to the current
// state succeeds without effect.
func (t *Task) Clarify(target string) error {
	if !openTaskStates[target] {
		return ErrInvalidState
	}
	if !t.IsOpen() {
		return ErrInvalidTransition
	}
	t.State = target
	t.UpdatedAt = time.Now()
	return nil
}

// Done marks the task finished. Any open state may complete; done is
// terminal. Returns ErrInvalidTransition when the task is already closed.
func (t *Task) Done() error {
	if !t.IsOpen() {
		return ErrInvalidTransition
	}
	now := time.Now()
	t.State = TaskStateDone
	t.DoneAt = &now
	t.UpdatedAt = now
	return nil
}

// Drop abandons the task. Allowed from any state and idempotent.
func (t *Task) Drop() error {
	t.State = TaskStateDropped
	t.UpdatedAt = time.Now()
	return nil
}

// Schedule sets the due date and moves the task to the scheduled state.
// Returns ErrInvalidTransition when the task is closed.
func (t *Task) Schedule(due time.Time) error {
	if !t.IsOpen() {
		return ErrInvalidTransition
	}
	t.Due = &due
	t.State = TaskStateScheduled
	t.UpdatedAt = time.Now()
	return nil
}

// SetPriority sets the urgency level, clamped to [0, MaxPriority].
func (t *Task) SetPriority(p int) {
	if p < 0 {
		p = 0
	}
	if p > MaxPriority {
		p = MaxPriority
	}
	t.Priority = p
	t.UpdatedAt = time.Now()
}

// Overdue reports whether the task has a due date in the past and is still
// open.
func (t *Task) Overdue(now time.Time) bool {
	return t.IsOpen() && t.Due != nil && t.Due.Before(now)
}
