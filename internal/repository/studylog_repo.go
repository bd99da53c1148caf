package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"studyplanner/internal/model"
)

type StudyLogRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewStudyLogRepository(db *pgxpool.Pool, logger *zap.Logger) *StudyLogRepository {
	return &StudyLogRepository{db: db, logger: logger}
}

func (r *StudyLogRepository) Insert(ctx context.Context, l *model.StudyLog) (int, error) {
	r.logger.Debug("Inserting study log",
		zap.Int("plan_id", l.PlanID),
		zap.Int("duration_minutes", l.DurationMinutes),
	)
	query := `
        INSERT INTO study_logs (plan_id, task_id, started_at, ended_at, duration_minutes, notes, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW())
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query,
		l.PlanID,
		l.TaskID,
		l.StartedAt,
		l.EndedAt,
		l.DurationMinutes,
		l.Notes,
	).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to insert study log",
			zap.Error(err),
			zap.Int("plan_id", l.PlanID),
		)
		return 0, fmt.Errorf("failed to insert study log: %w", err)
	}
	r.logger.Info("Study log inserted successfully",
		zap.Int("log_id", id),
		zap.Int("plan_id", l.PlanID),
	)
	return id, nil
}

// ListByOwner returns the user's logs newest-first, enriched with the plan
// and task titles for display.
func (r *StudyLogRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.StudyLog, error) {
	query := `
        SELECT l.id, l.plan_id, l.task_id, l.started_at, l.ended_at, l.duration_minutes, l.notes, l.created_at,
               p.title AS plan_title,
               COALESCE(t.title, '') AS task_title
        FROM study_logs l
        JOIN study_plans p ON p.id = l.plan_id
        LEFT JOIN study_plan_tasks t ON t.id = l.task_id
        WHERE p.owner_id = $1
        ORDER BY l.started_at DESC, l.id DESC
    `
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		r.logger.Error("Failed to query study logs",
			zap.Error(err),
			zap.String("owner_id", ownerID),
		)
		return nil, fmt.Errorf("failed to query study logs: %w", err)
	}
	defer rows.Close()

	logs := []model.StudyLog{}
	for rows.Next() {
		var l model.StudyLog
		if err := rows.Scan(
			&l.ID,
			&l.PlanID,
			&l.TaskID,
			&l.StartedAt,
			&l.EndedAt,
			&l.DurationMinutes,
			&l.Notes,
			&l.CreatedAt,
			&l.PlanTitle,
			&l.TaskTitle,
		); err != nil {
			r.logger.Error("Failed to scan study log row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan study log row: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (r *StudyLogRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var total int
	err := r.db.QueryRow(ctx, `
        SELECT COUNT(*)
        FROM study_logs l
        JOIN study_plans p ON p.id = l.plan_id
        WHERE p.owner_id = $1
    `, ownerID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count study logs: %w", err)
	}
	return total, nil
}

func (r *StudyLogRepository) DeleteByPlan(ctx context.Context, planID int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM study_logs WHERE plan_id = $1`, planID)
	if err != nil {
		r.logger.Error("Failed to delete study logs for plan",
			zap.Error(err),
			zap.Int("plan_id", planID),
		)
		return fmt.Errorf("failed to delete study logs for plan: %w", err)
	}
	r.logger.Debug("Deleted study logs for plan",
		zap.Int("plan_id", planID),
		zap.Int64("count", tag.RowsAffected()),
	)
	return nil
}
