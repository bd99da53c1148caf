// Package summary computes the versioned activity summary pushed to the
// parent dashboard. A summary is always rebuilt from stored state, never
// cached.
package summary

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"studyplanner/internal/model"
)

const recentLimit = 5

type PlanSource interface {
	ListByOwner(ctx context.Context, ownerID string) ([]model.Plan, error)
}

type TaskSource interface {
	ListByOwner(ctx context.Context, ownerID string) ([]model.Task, error)
}

type LogSource interface {
	ListByOwner(ctx context.Context, ownerID string) ([]model.StudyLog, error)
}

type BookmarkSource interface {
	CountByUser(ctx context.Context, userID string) (int, error)
}

type Service struct {
	plans     PlanSource
	tasks     TaskSource
	logs      LogSource
	bookmarks BookmarkSource
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(plans PlanSource, tasks TaskSource, logs LogSource, bookmarks BookmarkSource, logger *zap.Logger) *Service {
	return &Service{
		plans:     plans,
		tasks:     tasks,
		logs:      logs,
		bookmarks: bookmarks,
		logger:    logger,
		now:       time.Now,
	}
}

// Build assembles the full summary for a user. A user with no data gets a
// valid summary with zero totals and empty recent lists.
func (s *Service) Build(ctx context.Context, userID string) (*model.Summary, error) {
	plans, err := s.plans.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load plans for summary: %w", err)
	}
	tasks, err := s.tasks.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks for summary: %w", err)
	}
	logs, err := s.logs.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load logs for summary: %w", err)
	}
	bookmarksTotal, err := s.bookmarks.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookmarks for summary: %w", err)
	}

	now := s.now()
	dayStart := startOfDay(now)
	dayEnd := dayStart.AddDate(0, 0, 1)
	weekStart := dayStart.AddDate(0, 0, -6)

	totals := model.SummaryTotals{
		PlansTotal:     len(plans),
		TasksTotal:     len(tasks),
		BookmarksTotal: bookmarksTotal,
	}
	for _, p := range plans {
		if p.Status == model.PlanStatusActive {
			totals.PlansActive++
		}
	}
	for _, t := range tasks {
		if t.Status == model.TaskStatusDone {
			totals.TasksCompleted++
			continue
		}
		if t.DueDate != nil {
			due := t.DueDate.In(now.Location())
			if !due.Before(dayStart) && due.Before(dayEnd) {
				totals.TasksDueToday++
			}
		}
	}
	for _, l := range logs {
		if !l.StartedAt.In(now.Location()).Before(weekStart) {
			totals.LogsThisWeek++
		}
	}

	summary := &model.Summary{
		AppID:       model.AppID,
		Version:     model.SummaryVersion,
		GeneratedAt: now.UTC(),
		Totals:      totals,
		Recent: model.SummaryRecent{
			RecentPlans: recentPlans(plans),
			RecentTasks: recentTasks(tasks),
			RecentLogs:  recentLogs(logs),
		},
	}

	s.logger.Debug("Summary built",
		zap.String("user_id", userID),
		zap.Int("plans_total", totals.PlansTotal),
		zap.Int("tasks_total", totals.TasksTotal),
	)
	return summary, nil
}

// recency is updated_at when present, created_at otherwise. Ties break
// toward the higher id so ordering stays deterministic.
type recentEntry struct {
	item model.SummaryItem
	at   time.Time
}

func takeRecent(entries []recentEntry) []model.SummaryItem {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].at.Equal(entries[j].at) {
			return entries[i].at.After(entries[j].at)
		}
		return entries[i].item.ID > entries[j].item.ID
	})
	if len(entries) > recentLimit {
		entries = entries[:recentLimit]
	}
	items := make([]model.SummaryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, e.item)
	}
	return items
}

func recentPlans(plans []model.Plan) []model.SummaryItem {
	entries := make([]recentEntry, 0, len(plans))
	for _, p := range plans {
		at := p.UpdatedAt
		ts := at
		entries = append(entries, recentEntry{
			item: model.SummaryItem{ID: p.ID, Title: p.Title, Timestamp: &ts},
			at:   at,
		})
	}
	return takeRecent(entries)
}

func recentTasks(tasks []model.Task) []model.SummaryItem {
	entries := make([]recentEntry, 0, len(tasks))
	for _, t := range tasks {
		at := t.UpdatedAt
		ts := at
		entries = append(entries, recentEntry{
			item: model.SummaryItem{ID: t.ID, Title: t.Title, Timestamp: &ts},
			at:   at,
		})
	}
	return takeRecent(entries)
}

func recentLogs(logs []model.StudyLog) []model.SummaryItem {
	entries := make([]recentEntry, 0, len(logs))
	for _, l := range logs {
		at := l.StartedAt
		ts := at
		title := l.PlanTitle
		if l.TaskTitle != "" {
			title = l.TaskTitle
		}
		entries = append(entries, recentEntry{
			item: model.SummaryItem{ID: l.ID, Title: title, Timestamp: &ts},
			at:   at,
		})
	}
	return takeRecent(entries)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
