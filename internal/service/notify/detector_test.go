package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"studyplanner/internal/model"
)

type fakeMarkers struct {
	due     map[int]bool
	overdue map[int]bool
	err     error
	calls   int
}

func newFakeMarkers() *fakeMarkers {
	return &fakeMarkers{due: map[int]bool{}, overdue: map[int]bool{}}
}

func (f *fakeMarkers) ClaimDueNotified(ctx context.Context, taskID int) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	if f.due[taskID] {
		return false, nil
	}
	f.due[taskID] = true
	return true, nil
}

func (f *fakeMarkers) ClaimOverdueNotified(ctx context.Context, taskID int) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	if f.overdue[taskID] {
		return false, nil
	}
	f.overdue[taskID] = true
	return true, nil
}

type emitted struct {
	event string
	title string
	url   string
}

type fakeParent struct {
	events []emitted
}

func (f *fakeParent) NotifyParent(ctx context.Context, userID, event, title, url string) {
	f.events = append(f.events, emitted{event: event, title: title, url: url})
}

type fakeDeduper struct {
	keys []string
	deny bool
}

func (f *fakeDeduper) AcquireOnce(ctx context.Context, key string) bool {
	f.keys = append(f.keys, key)
	return !f.deny
}

var detectorNow = time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)

func newTestDetector(markers TaskMarkers, parent ParentNotifier) *Detector {
	d := NewDetector(markers, parent, nil, zap.NewNop())
	d.now = func() time.Time { return detectorNow }
	return d
}

func dueAt(day, hour int) *time.Time {
	t := time.Date(2026, 1, day, hour, 0, 0, 0, time.UTC)
	return &t
}

func TestSweepBucketsTasks(t *testing.T) {
	d := newTestDetector(newFakeMarkers(), &fakeParent{})

	tasks := []model.Task{
		{ID: 1, PlanID: 10, Title: "overdue", Status: model.TaskStatusPending, DueDate: dueAt(4, 23)},
		{ID: 2, PlanID: 10, Title: "today", Status: model.TaskStatusPending, DueDate: dueAt(5, 9)},
		{ID: 3, PlanID: 10, Title: "upcoming", Status: model.TaskStatusPending, DueDate: dueAt(8, 9)},
		{ID: 4, PlanID: 10, Title: "far future", Status: model.TaskStatusPending, DueDate: dueAt(30, 9)},
		{ID: 5, PlanID: 10, Title: "done", Status: model.TaskStatusDone, DueDate: dueAt(5, 9)},
		{ID: 6, PlanID: 10, Title: "no due date", Status: model.TaskStatusPending},
	}

	snap := d.Sweep(context.Background(), "u1", tasks)

	require.Len(t, snap.Overdue, 1)
	require.Equal(t, 1, snap.Overdue[0].ID)
	require.Len(t, snap.DueToday, 1)
	require.Equal(t, 2, snap.DueToday[0].ID)
	require.Len(t, snap.Upcoming, 1)
	require.Equal(t, 3, snap.Upcoming[0].ID)
}

func TestSweepEmitsDueExactlyOnce(t *testing.T) {
	markers := newFakeMarkers()
	parent := &fakeParent{}
	d := newTestDetector(markers, parent)

	tasks := []model.Task{
		{ID: 2, PlanID: 10, Title: "today", Status: model.TaskStatusPending, DueDate: dueAt(5, 9)},
	}

	d.Sweep(context.Background(), "u1", tasks)
	d.Sweep(context.Background(), "u1", tasks)

	require.Len(t, parent.events, 1)
	require.Equal(t, model.EventTaskDue, parent.events[0].event)
	require.Equal(t, "Task due today: today", parent.events[0].title)
	require.Equal(t, "/plans/10", parent.events[0].url)
}

func TestSweepEmitsOverdue(t *testing.T) {
	parent := &fakeParent{}
	d := newTestDetector(newFakeMarkers(), parent)

	tasks := []model.Task{
		{ID: 7, PlanID: 3, Title: "late", Status: model.TaskStatusInProgress, DueDate: dueAt(2, 10)},
	}

	d.Sweep(context.Background(), "u1", tasks)

	require.Len(t, parent.events, 1)
	require.Equal(t, model.EventTaskOverdue, parent.events[0].event)
	require.Equal(t, "Task overdue: late", parent.events[0].title)
	require.Equal(t, "/plans/3", parent.events[0].url)
}

func TestSweepSkipsAlreadyMarkedTasks(t *testing.T) {
	markers := newFakeMarkers()
	parent := &fakeParent{}
	d := newTestDetector(markers, parent)

	notified := detectorNow.Add(-time.Hour)
	tasks := []model.Task{
		{ID: 1, PlanID: 10, Title: "today", Status: model.TaskStatusPending, DueDate: dueAt(5, 9), DueNotifiedAt: &notified},
		{ID: 2, PlanID: 10, Title: "late", Status: model.TaskStatusPending, DueDate: dueAt(1, 9), OverdueNotifiedAt: &notified},
	}

	snap := d.Sweep(context.Background(), "u1", tasks)

	// Still bucketed for display, but no claims or emissions.
	require.Len(t, snap.DueToday, 1)
	require.Len(t, snap.Overdue, 1)
	require.Zero(t, markers.calls)
	require.Empty(t, parent.events)
}

func TestSweepClaimFailureSuppressesEmission(t *testing.T) {
	markers := newFakeMarkers()
	markers.err = errors.New("db down")
	parent := &fakeParent{}
	d := newTestDetector(markers, parent)

	tasks := []model.Task{
		{ID: 2, PlanID: 10, Title: "today", Status: model.TaskStatusPending, DueDate: dueAt(5, 9)},
	}

	d.Sweep(context.Background(), "u1", tasks)
	require.Empty(t, parent.events)
}

func TestSweepDedupKeysCarryDay(t *testing.T) {
	deduper := &fakeDeduper{}
	parent := &fakeParent{}
	d := NewDetector(newFakeMarkers(), parent, deduper, zap.NewNop())
	d.now = func() time.Time { return detectorNow }

	tasks := []model.Task{
		{ID: 2, PlanID: 10, Title: "today", Status: model.TaskStatusPending, DueDate: dueAt(5, 9)},
		{ID: 7, PlanID: 3, Title: "late", Status: model.TaskStatusPending, DueDate: dueAt(2, 10)},
	}

	d.Sweep(context.Background(), "u1", tasks)

	require.ElementsMatch(t, []string{
		"notify:due:2:2026-01-05",
		"notify:overdue:7:2026-01-05",
	}, deduper.keys)
	require.Len(t, parent.events, 2)
}

func TestSweepDeduperDeniesEmission(t *testing.T) {
	deduper := &fakeDeduper{deny: true}
	parent := &fakeParent{}
	d := NewDetector(newFakeMarkers(), parent, deduper, zap.NewNop())
	d.now = func() time.Time { return detectorNow }

	tasks := []model.Task{
		{ID: 2, PlanID: 10, Title: "today", Status: model.TaskStatusPending, DueDate: dueAt(5, 9)},
	}

	d.Sweep(context.Background(), "u1", tasks)
	require.Empty(t, parent.events)
}

func TestOnTaskStatusChangeEmitsOnFirstCompletion(t *testing.T) {
	parent := &fakeParent{}
	d := newTestDetector(newFakeMarkers(), parent)

	before := &model.Task{ID: 1, PlanID: 4, Title: "Read chapter", Status: model.TaskStatusPending}
	after := &model.Task{ID: 1, PlanID: 4, Title: "Read chapter", Status: model.TaskStatusDone}

	d.OnTaskStatusChange(context.Background(), "u1", before, after)

	require.Len(t, parent.events, 1)
	require.Equal(t, model.EventTaskCompleted, parent.events[0].event)
	require.Equal(t, "Task completed: Read chapter", parent.events[0].title)
	require.Equal(t, "/plans/4", parent.events[0].url)
}

func TestOnTaskStatusChangeIgnoresResave(t *testing.T) {
	parent := &fakeParent{}
	d := newTestDetector(newFakeMarkers(), parent)

	done := &model.Task{ID: 1, PlanID: 4, Title: "t", Status: model.TaskStatusDone}
	d.OnTaskStatusChange(context.Background(), "u1", done, done)

	pending := &model.Task{ID: 1, PlanID: 4, Title: "t", Status: model.TaskStatusPending}
	d.OnTaskStatusChange(context.Background(), "u1", done, pending)

	require.Empty(t, parent.events)
}
