package model

import "time"

type StudyLog struct {
	ID              int        `json:"id"`
	PlanID          int        `json:"plan_id"`
	TaskID          *int       `json:"task_id,omitempty"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	Notes           *string    `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`

	// Display enrichment, populated by list queries.
	PlanTitle string `json:"plan_title,omitempty"`
	TaskTitle string `json:"task_title,omitempty"`
}
