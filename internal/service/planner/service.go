// Package planner implements the study-plan CRUD operations and wires every
// successful mutation into the notification pipeline.
package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"studyplanner/internal/model"
	"studyplanner/internal/repository"
	"studyplanner/pkg/quota"
)

var (
	ErrNotFound      = repository.ErrNotFound
	ErrQuotaExceeded = errors.New("free-tier limit reached")
	ErrInvalidInput  = errors.New("invalid input")
)

// Quota gates creation of countable resources for free-tier users.
type Quota interface {
	Allowed(ctx context.Context, userID string, resource quota.Resource) (bool, error)
}

// Notifier receives the pipeline side effects of successful mutations. The
// event type tags the summary push; point events to the notifications
// endpoint stay owned by the detector.
type Notifier interface {
	PushSummary(ctx context.Context, userID, eventType string)
}

// Detector handles task state transitions and the due/overdue sweep.
type Detector interface {
	OnTaskStatusChange(ctx context.Context, userID string, before, after *model.Task)
	Sweep(ctx context.Context, userID string, tasks []model.Task) model.Snapshot
}

type Service struct {
	plans     *repository.PlanRepository
	tasks     *repository.TaskRepository
	logs      *repository.StudyLogRepository
	bookmarks *repository.BookmarkRepository
	quota     Quota
	notifier  Notifier
	detector  Detector
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(
	plans *repository.PlanRepository,
	tasks *repository.TaskRepository,
	logs *repository.StudyLogRepository,
	bookmarks *repository.BookmarkRepository,
	quotas Quota,
	notifier Notifier,
	detector Detector,
	logger *zap.Logger,
) *Service {
	return &Service{
		plans:     plans,
		tasks:     tasks,
		logs:      logs,
		bookmarks: bookmarks,
		quota:     quotas,
		notifier:  notifier,
		detector:  detector,
		logger:    logger,
		now:       time.Now,
	}
}

type CreatePlanInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Subject     *string `json:"subject"`
	Tags        *string `json:"tags"`
}

type UpdatePlanInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Subject     *string `json:"subject"`
	Tags        *string `json:"tags"`
}

type CreateTaskInput struct {
	Title            string     `json:"title"`
	Description      *string    `json:"description"`
	DueDate          *time.Time `json:"due_date"`
	EstimatedMinutes *int       `json:"estimated_minutes"`
}

type UpdateTaskInput struct {
	Title            *string    `json:"title"`
	Description      *string    `json:"description"`
	DueDate          *time.Time `json:"due_date"`
	DueDateSet       bool       `json:"-"`
	EstimatedMinutes *int       `json:"estimated_minutes"`
	Status           *string    `json:"status"`
}

type CreateLogInput struct {
	PlanID          int        `json:"plan_id"`
	TaskID          *int       `json:"task_id"`
	OccurredAt      *time.Time `json:"occurred_at"`
	DurationMinutes int        `json:"duration_minutes"`
	Notes           *string    `json:"notes"`
}

func (s *Service) CreatePlan(ctx context.Context, user model.AuthUser, in CreatePlanInput) (*model.Plan, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if err := s.checkQuota(ctx, user, quota.ResourcePlans); err != nil {
		return nil, err
	}

	plan := &model.Plan{
		OwnerID:     user.UserID,
		Title:       title,
		Description: in.Description,
		Subject:     in.Subject,
		Tags:        in.Tags,
		Status:      model.PlanStatusActive,
	}
	id, err := s.plans.Insert(ctx, plan)
	if err != nil {
		return nil, err
	}
	created, err := s.plans.GetByOwner(ctx, id, user.UserID)
	if err != nil {
		return nil, err
	}

	s.notifier.PushSummary(ctx, user.UserID, model.EventPlanCreated)
	return created, nil
}

func (s *Service) ListPlans(ctx context.Context, user model.AuthUser) ([]model.Plan, error) {
	return s.plans.ListByOwner(ctx, user.UserID)
}

// GetPlan returns a plan together with its tasks.
func (s *Service) GetPlan(ctx context.Context, user model.AuthUser, planID int) (*model.Plan, []model.Task, error) {
	plan, err := s.plans.GetByOwner(ctx, planID, user.UserID)
	if err != nil {
		return nil, nil, err
	}
	tasks, err := s.tasks.ListByPlan(ctx, planID)
	if err != nil {
		return nil, nil, err
	}
	return plan, tasks, nil
}

func (s *Service) UpdatePlan(ctx context.Context, user model.AuthUser, planID int, in UpdatePlanInput) (*model.Plan, error) {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
	}
	plan, err := s.plans.Update(ctx, planID, user.UserID, repository.PlanUpdate{
		Title:       in.Title,
		Description: in.Description,
		Subject:     in.Subject,
		Tags:        in.Tags,
	})
	if err != nil {
		return nil, err
	}
	s.notifier.PushSummary(ctx, user.UserID, model.EventPlanUpdated)
	return plan, nil
}

func (s *Service) ArchivePlan(ctx context.Context, user model.AuthUser, planID int) (*model.Plan, error) {
	plan, err := s.plans.UpdateStatus(ctx, planID, user.UserID, model.PlanStatusArchived)
	if err != nil {
		return nil, err
	}
	s.notifier.PushSummary(ctx, user.UserID, model.EventPlanArchived)
	return plan, nil
}

// DeletePlan removes a plan and everything hanging off it. Logs go first,
// then tasks, then the plan row itself, so a failure partway leaves no
// orphaned children.
func (s *Service) DeletePlan(ctx context.Context, user model.AuthUser, planID int) error {
	if _, err := s.plans.GetByOwner(ctx, planID, user.UserID); err != nil {
		return err
	}
	if err := s.logs.DeleteByPlan(ctx, planID); err != nil {
		return err
	}
	if err := s.tasks.DeleteByPlan(ctx, planID); err != nil {
		return err
	}
	if _, err := s.plans.Delete(ctx, planID, user.UserID); err != nil {
		return err
	}
	s.notifier.PushSummary(ctx, user.UserID, model.EventPlanDeleted)
	return nil
}

func (s *Service) CreateTask(ctx context.Context, user model.AuthUser, planID int, in CreateTaskInput) (*model.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if _, err := s.plans.GetByOwner(ctx, planID, user.UserID); err != nil {
		return nil, err
	}
	if err := s.checkQuota(ctx, user, quota.ResourceTasks); err != nil {
		return nil, err
	}

	task := &model.Task{
		PlanID:           planID,
		Title:            title,
		Description:      in.Description,
		DueDate:          in.DueDate,
		EstimatedMinutes: in.EstimatedMinutes,
		Status:           model.TaskStatusPending,
	}
	id, err := s.tasks.Insert(ctx, task)
	if err != nil {
		return nil, err
	}
	created, err := s.tasks.Get(ctx, id, planID)
	if err != nil {
		return nil, err
	}

	s.notifier.PushSummary(ctx, user.UserID, model.EventTaskCreated)
	return created, nil
}

func (s *Service) ListTasks(ctx context.Context, user model.AuthUser, planID int) ([]model.Task, error) {
	if _, err := s.plans.GetByOwner(ctx, planID, user.UserID); err != nil {
		return nil, err
	}
	return s.tasks.ListByPlan(ctx, planID)
}

func (s *Service) UpdateTask(ctx context.Context, user model.AuthUser, planID, taskID int, in UpdateTaskInput) (*model.Task, error) {
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
	}
	if in.Status != nil && !validTaskStatus(*in.Status) {
		return nil, fmt.Errorf("%w: unknown task status %q", ErrInvalidInput, *in.Status)
	}
	if _, err := s.plans.GetByOwner(ctx, planID, user.UserID); err != nil {
		return nil, err
	}
	before, err := s.tasks.Get(ctx, taskID, planID)
	if err != nil {
		return nil, err
	}

	upd := repository.TaskUpdate{
		Title:            in.Title,
		Description:      in.Description,
		EstimatedMinutes: in.EstimatedMinutes,
		Status:           in.Status,
	}
	if in.DueDateSet && !sameTime(before.DueDate, in.DueDate) {
		upd.DueDate = in.DueDate
		upd.DueDateChanged = true
	}
	if in.Status != nil {
		// completed_at records the first transition into done and is
		// cleared whenever the task leaves done again.
		switch {
		case *in.Status == model.TaskStatusDone && before.Status != model.TaskStatusDone:
			now := s.now().UTC()
			upd.CompletedAt = &now
			upd.CompletedAtSet = true
		case *in.Status != model.TaskStatusDone && before.Status == model.TaskStatusDone:
			upd.CompletedAt = nil
			upd.CompletedAtSet = true
		}
	}

	after, err := s.tasks.Update(ctx, taskID, planID, upd)
	if err != nil {
		return nil, err
	}

	s.detector.OnTaskStatusChange(ctx, user.UserID, before, after)
	s.notifier.PushSummary(ctx, user.UserID, model.EventTaskUpdated)
	return after, nil
}

func (s *Service) DeleteTask(ctx context.Context, user model.AuthUser, planID, taskID int) error {
	if _, err := s.plans.GetByOwner(ctx, planID, user.UserID); err != nil {
		return err
	}
	if _, err := s.tasks.Delete(ctx, taskID, planID); err != nil {
		return err
	}
	s.notifier.PushSummary(ctx, user.UserID, model.EventTaskDeleted)
	return nil
}

func (s *Service) CreateLog(ctx context.Context, user model.AuthUser, in CreateLogInput) (*model.StudyLog, error) {
	entry, err := buildLogEntry(in, s.now())
	if err != nil {
		return nil, err
	}
	if _, err := s.plans.GetByOwner(ctx, in.PlanID, user.UserID); err != nil {
		return nil, err
	}
	if in.TaskID != nil {
		if _, err := s.tasks.Get(ctx, *in.TaskID, in.PlanID); err != nil {
			return nil, err
		}
	}
	if err := s.checkQuota(ctx, user, quota.ResourceLogs); err != nil {
		return nil, err
	}

	id, err := s.logs.Insert(ctx, entry)
	if err != nil {
		return nil, err
	}
	entry.ID = id

	s.notifier.PushSummary(ctx, user.UserID, model.EventLogCreated)
	return entry, nil
}

// buildLogEntry normalizes a log input: a missing occurred-at defaults to
// now, and the end time is derived from the duration. A zero-minute log is
// valid and stores no end time.
func buildLogEntry(in CreateLogInput, now time.Time) (*model.StudyLog, error) {
	if in.DurationMinutes < 0 {
		return nil, fmt.Errorf("%w: duration cannot be negative", ErrInvalidInput)
	}
	startedAt := now
	if in.OccurredAt != nil {
		startedAt = *in.OccurredAt
	}
	var endedAt *time.Time
	if in.DurationMinutes > 0 {
		e := startedAt.Add(time.Duration(in.DurationMinutes) * time.Minute)
		endedAt = &e
	}
	return &model.StudyLog{
		PlanID:          in.PlanID,
		TaskID:          in.TaskID,
		StartedAt:       startedAt,
		EndedAt:         endedAt,
		DurationMinutes: in.DurationMinutes,
		Notes:           in.Notes,
	}, nil
}

func (s *Service) ListLogs(ctx context.Context, user model.AuthUser) ([]model.StudyLog, error) {
	return s.logs.ListByOwner(ctx, user.UserID)
}

// TodaySnapshot reads the user's due/overdue/upcoming buckets. Reading the
// snapshot is what drives due and overdue event detection.
func (s *Service) TodaySnapshot(ctx context.Context, user model.AuthUser) (model.Snapshot, error) {
	tasks, err := s.tasks.ListByOwner(ctx, user.UserID)
	if err != nil {
		return model.Snapshot{}, err
	}
	return s.detector.Sweep(ctx, user.UserID, tasks), nil
}

// ToggleBookmark flips the bookmark state of a plan and reports the new
// state.
func (s *Service) ToggleBookmark(ctx context.Context, user model.AuthUser, planID int) (bool, error) {
	if _, err := s.plans.GetByOwner(ctx, planID, user.UserID); err != nil {
		return false, err
	}
	removed, err := s.bookmarks.Delete(ctx, user.UserID, model.BookmarkEntityPlan, planID)
	if err != nil {
		return false, err
	}
	if removed {
		return false, nil
	}
	if _, err := s.bookmarks.Insert(ctx, &model.Bookmark{
		UserID:     user.UserID,
		EntityType: model.BookmarkEntityPlan,
		EntityID:   planID,
	}); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) ListBookmarks(ctx context.Context, user model.AuthUser) ([]model.BookmarkItem, error) {
	return s.bookmarks.ListByUser(ctx, user.UserID)
}

func (s *Service) checkQuota(ctx context.Context, user model.AuthUser, resource quota.Resource) error {
	if user.IsPaid {
		return nil
	}
	allowed, err := s.quota.Allowed(ctx, user.UserID, resource)
	if err != nil {
		return err
	}
	if !allowed {
		return fmt.Errorf("%w: %s", ErrQuotaExceeded, resource)
	}
	return nil
}

func validTaskStatus(status string) bool {
	switch status {
	case model.TaskStatusPending, model.TaskStatusInProgress, model.TaskStatusDone:
		return true
	}
	return false
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
