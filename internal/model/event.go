package model

// Notification event types pushed to the parent app.
const (
	EventPlanCreated   = "plan.created"
	EventPlanUpdated   = "plan.updated"
	EventPlanArchived  = "plan.archived"
	EventPlanDeleted   = "plan.deleted"
	EventTaskCreated   = "task.created"
	EventTaskUpdated   = "task.updated"
	EventTaskDeleted   = "task.deleted"
	EventTaskCompleted = "task.completed"
	EventTaskDue       = "task.due"
	EventTaskOverdue   = "task.overdue"
	EventLogCreated    = "log.created"

	// EventSummaryRefreshed tags a summary push requested explicitly
	// rather than by a mutation.
	EventSummaryRefreshed = "summary.refreshed"
)

// Snapshot buckets the user's open tasks by due-date window relative to
// today. Upcoming tasks are tracked for display only and never notified.
type Snapshot struct {
	DueToday []Task `json:"due_today"`
	Overdue  []Task `json:"overdue"`
	Upcoming []Task `json:"upcoming"`
}
