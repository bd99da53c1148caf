package repository

import "context"

// Counts adapts the repositories to the quota service's count provider.
type Counts struct {
	Plans *PlanRepository
	Tasks *TaskRepository
	Logs  *StudyLogRepository
}

func (c Counts) CountPlans(ctx context.Context, userID string) (int, error) {
	return c.Plans.CountByOwner(ctx, userID)
}

func (c Counts) CountTasks(ctx context.Context, userID string) (int, error) {
	return c.Tasks.CountByOwner(ctx, userID)
}

func (c Counts) CountLogs(ctx context.Context, userID string) (int, error) {
	return c.Logs.CountByOwner(ctx, userID)
}
