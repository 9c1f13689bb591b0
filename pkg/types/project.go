package types

import "time"

// Project states.
const (
	ProjectStateOpen      = "open"
	ProjectStateCompleted = "completed"
	ProjectStateDropped   = "dropped"
)

// Project represents a multi-step outcome that groups tasks. Task
// membership is stored via belongs_to links in the links table. Entity
// methods modify the struct in memory; the caller must persist via
// Table.Set, at which point the backend runs the membership cascades.
type Project struct {
	ProjectID   string     `json:"project_id"`
	Name        string     `json:"name"`
	State       string     `json:"state"`
	PagePath    string     `json:"page_path,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Complete marks the project as finished. The current state must be "open";
// otherwise ErrInvalidTransition is returned. On persist the backend
// removes the project's belongs_to links, releasing its tasks.
func (p *Project) Complete() error {
	if p.State != ProjectStateOpen {
		return ErrInvalidTransition
	}
	now := time.Now()
	p.State = ProjectStateCompleted
	p.CompletedAt = &now
	return nil
}

// Drop abandons the project. The current state must be "open"; otherwise
// ErrInvalidTransition is returned. On persist the backend drops the
// project's remaining open tasks.
func (p *Project) Drop() error {
	if p.State != ProjectStateOpen {
		return ErrInvalidTransition
	}
	now := time.Now()
	p.State = ProjectStateDropped
	p.CompletedAt = &now
	return nil
}
