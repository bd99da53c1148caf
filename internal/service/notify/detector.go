package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"studyplanner/internal/model"
)

// upcomingWindowDays bounds the "upcoming" bucket of the today snapshot.
const upcomingWindowDays = 7

// TaskMarkers claims the per-task notification markers. A claim succeeds at
// most once per marker; the winner is the only caller allowed to emit.
type TaskMarkers interface {
	ClaimDueNotified(ctx context.Context, taskID int) (bool, error)
	ClaimOverdueNotified(ctx context.Context, taskID int) (bool, error)
}

// ParentNotifier emits point events to the parent app.
type ParentNotifier interface {
	NotifyParent(ctx context.Context, userID, eventType, title, url string)
}

// Deduper is the best-effort duplicate guard behind the DB marker claim.
type Deduper interface {
	AcquireOnce(ctx context.Context, key string) bool
}

// Detector watches task state for notification-worthy transitions:
// completion, becoming due today, and becoming overdue.
type Detector struct {
	markers  TaskMarkers
	notifier ParentNotifier
	deduper  Deduper
	logger   *zap.Logger
	now      func() time.Time
}

func NewDetector(markers TaskMarkers, notifier ParentNotifier, deduper Deduper, logger *zap.Logger) *Detector {
	return &Detector{
		markers:  markers,
		notifier: notifier,
		deduper:  deduper,
		logger:   logger,
		now:      time.Now,
	}
}

// OnTaskStatusChange emits a completion event when a task first transitions
// into done. Re-saving an already-done task emits nothing.
func (d *Detector) OnTaskStatusChange(ctx context.Context, userID string, before, after *model.Task) {
	if after.Status != model.TaskStatusDone || before.Status == model.TaskStatusDone {
		return
	}
	d.notifier.NotifyParent(ctx, userID,
		model.EventTaskCompleted,
		"Task completed: "+after.Title,
		planURL(after.PlanID),
	)
}

// Sweep buckets the user's open tasks by due-date window and emits due/overdue
// events for tasks whose markers have not yet been claimed. The snapshot is
// returned for display; emission is a side effect of reading it.
func (d *Detector) Sweep(ctx context.Context, userID string, tasks []model.Task) model.Snapshot {
	now := d.now()
	dayStart := startOfDay(now)
	dayEnd := dayStart.AddDate(0, 0, 1)
	upcomingEnd := dayEnd.AddDate(0, 0, upcomingWindowDays)
	day := dayStart.Format("2006-01-02")

	snapshot := model.Snapshot{
		DueToday: []model.Task{},
		Overdue:  []model.Task{},
		Upcoming: []model.Task{},
	}

	for _, t := range tasks {
		if t.Status == model.TaskStatusDone || t.DueDate == nil {
			continue
		}
		due := t.DueDate.In(now.Location())
		switch {
		case due.Before(dayStart):
			snapshot.Overdue = append(snapshot.Overdue, t)
			if t.OverdueNotifiedAt == nil {
				d.emitOverdue(ctx, userID, t, day)
			}
		case due.Before(dayEnd):
			snapshot.DueToday = append(snapshot.DueToday, t)
			if t.DueNotifiedAt == nil {
				d.emitDue(ctx, userID, t, day)
			}
		case due.Before(upcomingEnd):
			snapshot.Upcoming = append(snapshot.Upcoming, t)
		}
	}

	return snapshot
}

func (d *Detector) emitDue(ctx context.Context, userID string, t model.Task, day string) {
	claimed, err := d.markers.ClaimDueNotified(ctx, t.ID)
	if err != nil {
		d.logger.Warn("Failed to claim due marker",
			zap.Int("task_id", t.ID),
			zap.Error(err),
		)
		return
	}
	if !claimed {
		return
	}
	if d.deduper != nil && !d.deduper.AcquireOnce(ctx, fmt.Sprintf("notify:due:%d:%s", t.ID, day)) {
		return
	}
	d.notifier.NotifyParent(ctx, userID,
		model.EventTaskDue,
		"Task due today: "+t.Title,
		planURL(t.PlanID),
	)
}

func (d *Detector) emitOverdue(ctx context.Context, userID string, t model.Task, day string) {
	claimed, err := d.markers.ClaimOverdueNotified(ctx, t.ID)
	if err != nil {
		d.logger.Warn("Failed to claim overdue marker",
			zap.Int("task_id", t.ID),
			zap.Error(err),
		)
		return
	}
	if !claimed {
		return
	}
	if d.deduper != nil && !d.deduper.AcquireOnce(ctx, fmt.Sprintf("notify:overdue:%d:%s", t.ID, day)) {
		return
	}
	d.notifier.NotifyParent(ctx, userID,
		model.EventTaskOverdue,
		"Task overdue: "+t.Title,
		planURL(t.PlanID),
	)
}

func planURL(planID int) string {
	return fmt.Sprintf("/plans/%d", planID)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
