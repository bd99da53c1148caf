package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"studyplanner/internal/model"
)

type BookmarkRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewBookmarkRepository(db *pgxpool.Pool, logger *zap.Logger) *BookmarkRepository {
	return &BookmarkRepository{db: db, logger: logger}
}

func (r *BookmarkRepository) Insert(ctx context.Context, b *model.Bookmark) (int, error) {
	query := `
        INSERT INTO bookmarks (user_id, entity_type, entity_id, created_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (user_id, entity_type, entity_id) DO UPDATE SET created_at = bookmarks.created_at
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query, b.UserID, b.EntityType, b.EntityID).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to insert bookmark",
			zap.Error(err),
			zap.String("user_id", b.UserID),
			zap.Int("entity_id", b.EntityID),
		)
		return 0, fmt.Errorf("failed to insert bookmark: %w", err)
	}
	return id, nil
}

func (r *BookmarkRepository) Delete(ctx context.Context, userID, entityType string, entityID int) (bool, error) {
	tag, err := r.db.Exec(ctx, `
        DELETE FROM bookmarks
        WHERE user_id = $1 AND entity_type = $2 AND entity_id = $3
    `, userID, entityType, entityID)
	if err != nil {
		r.logger.Error("Failed to delete bookmark",
			zap.Error(err),
			zap.String("user_id", userID),
			zap.Int("entity_id", entityID),
		)
		return false, fmt.Errorf("failed to delete bookmark: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *BookmarkRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var total int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM bookmarks WHERE user_id = $1`, userID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to count bookmarks: %w", err)
	}
	return total, nil
}

// ListByUser returns the user's plan bookmarks newest-first, skipping any
// whose plan no longer exists.
func (r *BookmarkRepository) ListByUser(ctx context.Context, userID string) ([]model.BookmarkItem, error) {
	query := `
        SELECT b.entity_id, p.title, b.created_at, p.updated_at
        FROM bookmarks b
        JOIN study_plans p ON p.id = b.entity_id AND p.owner_id = b.user_id
        WHERE b.user_id = $1 AND b.entity_type = $2
        ORDER BY b.created_at DESC, b.id DESC
    `
	rows, err := r.db.Query(ctx, query, userID, model.BookmarkEntityPlan)
	if err != nil {
		r.logger.Error("Failed to query bookmarks",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("failed to query bookmarks: %w", err)
	}
	defer rows.Close()

	items := []model.BookmarkItem{}
	for rows.Next() {
		var it model.BookmarkItem
		if err := rows.Scan(&it.PlanID, &it.Title, &it.BookmarkedAt, &it.UpdatedAt); err != nil {
			r.logger.Error("Failed to scan bookmark row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan bookmark row: %w", err)
		}
		it.Href = fmt.Sprintf("/plans/%d", it.PlanID)
		items = append(items, it)
	}
	return items, rows.Err()
}
