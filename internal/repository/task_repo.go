package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"studyplanner/internal/model"
)

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

// TaskUpdate carries the partial-update fields; nil means keep current value.
// DueDateChanged must be set when DueDate differs from the stored value so
// the notification markers can be reset alongside it.
type TaskUpdate struct {
	Title            *string
	Description      *string
	DueDate          *time.Time
	DueDateChanged   bool
	EstimatedMinutes *int
	Status           *string
	CompletedAt      *time.Time
	CompletedAtSet   bool
}

const taskColumns = `id, plan_id, title, description, due_date, estimated_minutes, status,
               completed_at, due_notified_at, overdue_notified_at, created_at, updated_at`

func (r *TaskRepository) Insert(ctx context.Context, t *model.Task) (int, error) {
	r.logger.Debug("Inserting task",
		zap.Int("plan_id", t.PlanID),
		zap.String("title", t.Title),
	)
	query := `
        INSERT INTO study_plan_tasks (plan_id, title, description, due_date, estimated_minutes, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query,
		t.PlanID,
		t.Title,
		t.Description,
		t.DueDate,
		t.EstimatedMinutes,
		t.Status,
	).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to insert task",
			zap.Error(err),
			zap.Int("plan_id", t.PlanID),
		)
		return 0, fmt.Errorf("failed to insert task: %w", err)
	}
	r.logger.Info("Task inserted successfully",
		zap.Int("task_id", id),
		zap.Int("plan_id", t.PlanID),
	)
	return id, nil
}

func (r *TaskRepository) Get(ctx context.Context, taskID, planID int) (*model.Task, error) {
	query := `
        SELECT ` + taskColumns + `
        FROM study_plan_tasks
        WHERE id = $1 AND plan_id = $2
    `
	row := r.db.QueryRow(ctx, query, taskID, planID)
	return r.scanTask(row, "get", taskID)
}

func (r *TaskRepository) Update(ctx context.Context, taskID, planID int, upd TaskUpdate) (*model.Task, error) {
	var row pgx.Row
	if upd.DueDateChanged {
		// A due-date change restarts the notification lifecycle: both
		// markers go back to NULL so the sweep can claim them again.
		query := `
            UPDATE study_plan_tasks
            SET title               = COALESCE($3, title),
                description         = COALESCE($4, description),
                due_date            = $5,
                due_notified_at     = NULL,
                overdue_notified_at = NULL,
                estimated_minutes   = COALESCE($6, estimated_minutes),
                status              = COALESCE($7, status),
                completed_at        = CASE WHEN $8 THEN $9 ELSE completed_at END,
                updated_at          = NOW()
            WHERE id = $1 AND plan_id = $2
            RETURNING ` + taskColumns
		row = r.db.QueryRow(ctx, query, taskID, planID,
			upd.Title, upd.Description, upd.DueDate, upd.EstimatedMinutes,
			upd.Status, upd.CompletedAtSet, upd.CompletedAt)
	} else {
		query := `
            UPDATE study_plan_tasks
            SET title             = COALESCE($3, title),
                description       = COALESCE($4, description),
                estimated_minutes = COALESCE($5, estimated_minutes),
                status            = COALESCE($6, status),
                completed_at      = CASE WHEN $7 THEN $8 ELSE completed_at END,
                updated_at        = NOW()
            WHERE id = $1 AND plan_id = $2
            RETURNING ` + taskColumns
		row = r.db.QueryRow(ctx, query, taskID, planID,
			upd.Title, upd.Description, upd.EstimatedMinutes,
			upd.Status, upd.CompletedAtSet, upd.CompletedAt)
	}
	return r.scanTask(row, "update", taskID)
}

func (r *TaskRepository) Delete(ctx context.Context, taskID, planID int) (*model.Task, error) {
	query := `
        DELETE FROM study_plan_tasks
        WHERE id = $1 AND plan_id = $2
        RETURNING ` + taskColumns
	row := r.db.QueryRow(ctx, query, taskID, planID)
	task, err := r.scanTask(row, "delete", taskID)
	if err != nil {
		return nil, err
	}
	r.logger.Info("Task deleted",
		zap.Int("task_id", taskID),
		zap.Int("plan_id", planID),
	)
	return task, nil
}

func (r *TaskRepository) ListByPlan(ctx context.Context, planID int) ([]model.Task, error) {
	query := `
        SELECT ` + taskColumns + `
        FROM study_plan_tasks
        WHERE plan_id = $1
        ORDER BY due_date ASC NULLS LAST, created_at ASC, id ASC
    `
	rows, err := r.db.Query(ctx, query, planID)
	if err != nil {
		r.logger.Error("Failed to query tasks",
			zap.Error(err),
			zap.Int("plan_id", planID),
		)
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()
	return r.collectTasks(rows)
}

// ListByOwner pulls every task across the user's plans, for the summary
// aggregator and the today snapshot.
func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Task, error) {
	query := `
        SELECT t.id, t.plan_id, t.title, t.description, t.due_date, t.estimated_minutes, t.status,
               t.completed_at, t.due_notified_at, t.overdue_notified_at, t.created_at, t.updated_at
        FROM study_plan_tasks t
        JOIN study_plans p ON p.id = t.plan_id
        WHERE p.owner_id = $1
        ORDER BY t.due_date ASC NULLS LAST, t.id ASC
    `
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		r.logger.Error("Failed to query tasks by owner",
			zap.Error(err),
			zap.String("owner_id", ownerID),
		)
		return nil, fmt.Errorf("failed to query tasks by owner: %w", err)
	}
	defer rows.Close()
	return r.collectTasks(rows)
}

func (r *TaskRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var total int
	err := r.db.QueryRow(ctx, `
        SELECT COUNT(*)
        FROM study_plan_tasks t
        JOIN study_plans p ON p.id = t.plan_id
        WHERE p.owner_id = $1
    `, ownerID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return total, nil
}

// ClaimDueNotified marks the task's due notification as sent, but only when
// no other caller has claimed it. Returns true when this caller won the claim.
func (r *TaskRepository) ClaimDueNotified(ctx context.Context, taskID int) (bool, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE study_plan_tasks
        SET due_notified_at = NOW(), updated_at = NOW()
        WHERE id = $1 AND due_notified_at IS NULL
    `, taskID)
	if err != nil {
		r.logger.Error("Failed to claim due notification",
			zap.Error(err),
			zap.Int("task_id", taskID),
		)
		return false, fmt.Errorf("failed to claim due notification: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ClaimOverdueNotified is the overdue counterpart of ClaimDueNotified.
func (r *TaskRepository) ClaimOverdueNotified(ctx context.Context, taskID int) (bool, error) {
	tag, err := r.db.Exec(ctx, `
        UPDATE study_plan_tasks
        SET overdue_notified_at = NOW(), updated_at = NOW()
        WHERE id = $1 AND overdue_notified_at IS NULL
    `, taskID)
	if err != nil {
		r.logger.Error("Failed to claim overdue notification",
			zap.Error(err),
			zap.Int("task_id", taskID),
		)
		return false, fmt.Errorf("failed to claim overdue notification: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *TaskRepository) DeleteByPlan(ctx context.Context, planID int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM study_plan_tasks WHERE plan_id = $1`, planID)
	if err != nil {
		r.logger.Error("Failed to delete tasks for plan",
			zap.Error(err),
			zap.Int("plan_id", planID),
		)
		return fmt.Errorf("failed to delete tasks for plan: %w", err)
	}
	r.logger.Debug("Deleted tasks for plan",
		zap.Int("plan_id", planID),
		zap.Int64("count", tag.RowsAffected()),
	)
	return nil
}

func (r *TaskRepository) collectTasks(rows pgx.Rows) ([]model.Task, error) {
	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(
			&t.ID,
			&t.PlanID,
			&t.Title,
			&t.Description,
			&t.DueDate,
			&t.EstimatedMinutes,
			&t.Status,
			&t.CompletedAt,
			&t.DueNotifiedAt,
			&t.OverdueNotifiedAt,
			&t.CreatedAt,
			&t.UpdatedAt,
		); err != nil {
			r.logger.Error("Failed to scan task row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) scanTask(row pgx.Row, operation string, taskID int) (*model.Task, error) {
	var t model.Task
	err := row.Scan(
		&t.ID,
		&t.PlanID,
		&t.Title,
		&t.Description,
		&t.DueDate,
		&t.EstimatedMinutes,
		&t.Status,
		&t.CompletedAt,
		&t.DueNotifiedAt,
		&t.OverdueNotifiedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to scan task",
			zap.Error(err),
			zap.String("operation", operation),
			zap.Int("task_id", taskID),
		)
		return nil, fmt.Errorf("failed to %s task: %w", operation, err)
	}
	return &t, nil
}
