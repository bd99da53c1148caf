package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"studyplanner/internal/model"
)

type PlanRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewPlanRepository(db *pgxpool.Pool, logger *zap.Logger) *PlanRepository {
	return &PlanRepository{db: db, logger: logger}
}

// PlanUpdate carries the partial-update fields; nil means keep current value.
type PlanUpdate struct {
	Title       *string
	Description *string
	Subject     *string
	Tags        *string
}

const planColumns = `id, owner_id, title, description, subject, tags, status, created_at, updated_at`

func (r *PlanRepository) Insert(ctx context.Context, p *model.Plan) (int, error) {
	r.logger.Debug("Inserting plan",
		zap.String("owner_id", p.OwnerID),
		zap.String("title", p.Title),
	)
	query := `
        INSERT INTO study_plans (owner_id, title, description, subject, tags, status, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query,
		p.OwnerID,
		p.Title,
		p.Description,
		p.Subject,
		p.Tags,
		p.Status,
	).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to insert plan",
			zap.Error(err),
			zap.String("owner_id", p.OwnerID),
		)
		return 0, fmt.Errorf("failed to insert plan: %w", err)
	}
	r.logger.Info("Plan inserted successfully",
		zap.Int("plan_id", id),
		zap.String("owner_id", p.OwnerID),
	)
	return id, nil
}

func (r *PlanRepository) Update(ctx context.Context, planID int, ownerID string, upd PlanUpdate) (*model.Plan, error) {
	query := `
        UPDATE study_plans
        SET title       = COALESCE($3, title),
            description = COALESCE($4, description),
            subject     = COALESCE($5, subject),
            tags        = COALESCE($6, tags),
            updated_at  = NOW()
        WHERE id = $1 AND owner_id = $2
        RETURNING ` + planColumns
	row := r.db.QueryRow(ctx, query, planID, ownerID, upd.Title, upd.Description, upd.Subject, upd.Tags)
	return r.scanPlan(row, "update", planID)
}

func (r *PlanRepository) UpdateStatus(ctx context.Context, planID int, ownerID, status string) (*model.Plan, error) {
	query := `
        UPDATE study_plans
        SET status = $3, updated_at = NOW()
        WHERE id = $1 AND owner_id = $2
        RETURNING ` + planColumns
	row := r.db.QueryRow(ctx, query, planID, ownerID, status)
	return r.scanPlan(row, "update_status", planID)
}

func (r *PlanRepository) Delete(ctx context.Context, planID int, ownerID string) (*model.Plan, error) {
	query := `
        DELETE FROM study_plans
        WHERE id = $1 AND owner_id = $2
        RETURNING ` + planColumns
	row := r.db.QueryRow(ctx, query, planID, ownerID)
	plan, err := r.scanPlan(row, "delete", planID)
	if err != nil {
		return nil, err
	}
	r.logger.Info("Plan deleted",
		zap.Int("plan_id", planID),
		zap.String("owner_id", ownerID),
	)
	return plan, nil
}

func (r *PlanRepository) GetByOwner(ctx context.Context, planID int, ownerID string) (*model.Plan, error) {
	query := `
        SELECT ` + planColumns + `
        FROM study_plans
        WHERE id = $1 AND owner_id = $2
    `
	row := r.db.QueryRow(ctx, query, planID, ownerID)
	return r.scanPlan(row, "get", planID)
}

// ListByOwner returns the user's plans in recency order, each carrying its
// task count.
func (r *PlanRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Plan, error) {
	query := `
        SELECT p.id, p.owner_id, p.title, p.description, p.subject, p.tags, p.status,
               p.created_at, p.updated_at,
               COUNT(t.id) AS tasks_count
        FROM study_plans p
        LEFT JOIN study_plan_tasks t ON t.plan_id = p.id
        WHERE p.owner_id = $1
        GROUP BY p.id
        ORDER BY p.updated_at DESC, p.created_at DESC, p.id DESC
    `
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		r.logger.Error("Failed to query plans",
			zap.Error(err),
			zap.String("owner_id", ownerID),
		)
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	plans := []model.Plan{}
	for rows.Next() {
		var p model.Plan
		if err := rows.Scan(
			&p.ID,
			&p.OwnerID,
			&p.Title,
			&p.Description,
			&p.Subject,
			&p.Tags,
			&p.Status,
			&p.CreatedAt,
			&p.UpdatedAt,
			&p.TasksCount,
		); err != nil {
			r.logger.Error("Failed to scan plan row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan plan row: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

func (r *PlanRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var total int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM study_plans WHERE owner_id = $1`, ownerID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count plans: %w", err)
	}
	return total, nil
}

func (r *PlanRepository) scanPlan(row pgx.Row, operation string, planID int) (*model.Plan, error) {
	var p model.Plan
	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Title,
		&p.Description,
		&p.Subject,
		&p.Tags,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to scan plan",
			zap.Error(err),
			zap.String("operation", operation),
			zap.Int("plan_id", planID),
		)
		return nil, fmt.Errorf("failed to %s plan: %w", operation, err)
	}
	return &p, nil
}
