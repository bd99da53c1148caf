package model

import "time"

const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

type Task struct {
	ID               int        `json:"id"`
	PlanID           int        `json:"plan_id"`
	Title            string     `json:"title"`
	Description      *string    `json:"description,omitempty"`
	DueDate          *time.Time `json:"due_date,omitempty"`
	EstimatedMinutes *int       `json:"estimated_minutes,omitempty"`
	Status           string     `json:"status"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`

	// Notification markers. Owned by the due/overdue detector: set once via
	// a conditional claim, cleared only when the due date changes.
	DueNotifiedAt     *time.Time `json:"due_notified_at,omitempty"`
	OverdueNotifiedAt *time.Time `json:"overdue_notified_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
