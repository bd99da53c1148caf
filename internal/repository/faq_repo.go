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

type FAQRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewFAQRepository(db *pgxpool.Pool, logger *zap.Logger) *FAQRepository {
	return &FAQRepository{db: db, logger: logger}
}

const faqColumns = `id, audience, category, question, answer_md, sort_order, is_published, created_at, updated_at`

// ListPublished returns published entries for an audience ordered for display.
func (r *FAQRepository) ListPublished(ctx context.Context, audience string) ([]model.FAQ, error) {
	query := `
        SELECT ` + faqColumns + `
        FROM faqs
        WHERE audience = $1 AND is_published = TRUE
        ORDER BY sort_order ASC, id ASC
    `
	rows, err := r.db.Query(ctx, query, audience)
	if err != nil {
		r.logger.Error("Failed to query published FAQs",
			zap.Error(err),
			zap.String("audience", audience),
		)
		return nil, fmt.Errorf("failed to query published FAQs: %w", err)
	}
	defer rows.Close()
	return r.collectFAQs(rows)
}

// ListAll returns every entry regardless of publication state, for admin use.
func (r *FAQRepository) ListAll(ctx context.Context) ([]model.FAQ, error) {
	query := `
        SELECT ` + faqColumns + `
        FROM faqs
        ORDER BY audience ASC, sort_order ASC, id ASC
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query FAQs", zap.Error(err))
		return nil, fmt.Errorf("failed to query FAQs: %w", err)
	}
	defer rows.Close()
	return r.collectFAQs(rows)
}

func (r *FAQRepository) GetByID(ctx context.Context, id int) (*model.FAQ, error) {
	row := r.db.QueryRow(ctx, `SELECT `+faqColumns+` FROM faqs WHERE id = $1`, id)
	return r.scanFAQ(row, "get", id)
}

func (r *FAQRepository) Insert(ctx context.Context, f *model.FAQ) (int, error) {
	query := `
        INSERT INTO faqs (audience, category, question, answer_md, sort_order, is_published, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
        RETURNING id
    `
	var id int
	err := r.db.QueryRow(ctx, query,
		f.Audience,
		f.Category,
		f.Question,
		f.AnswerMD,
		f.SortOrder,
		f.IsPublished,
	).Scan(&id)
	if err != nil {
		r.logger.Error("Failed to insert FAQ", zap.Error(err))
		return 0, fmt.Errorf("failed to insert FAQ: %w", err)
	}
	r.logger.Info("FAQ inserted successfully", zap.Int("faq_id", id))
	return id, nil
}

func (r *FAQRepository) Update(ctx context.Context, f *model.FAQ) (*model.FAQ, error) {
	query := `
        UPDATE faqs
        SET audience = $2, category = $3, question = $4, answer_md = $5,
            sort_order = $6, is_published = $7, updated_at = NOW()
        WHERE id = $1
        RETURNING ` + faqColumns
	row := r.db.QueryRow(ctx, query,
		f.ID, f.Audience, f.Category, f.Question, f.AnswerMD, f.SortOrder, f.IsPublished)
	return r.scanFAQ(row, "update", f.ID)
}

func (r *FAQRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM faqs WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete FAQ", zap.Error(err), zap.Int("faq_id", id))
		return fmt.Errorf("failed to delete FAQ: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *FAQRepository) collectFAQs(rows pgx.Rows) ([]model.FAQ, error) {
	faqs := []model.FAQ{}
	for rows.Next() {
		var f model.FAQ
		if err := rows.Scan(
			&f.ID,
			&f.Audience,
			&f.Category,
			&f.Question,
			&f.AnswerMD,
			&f.SortOrder,
			&f.IsPublished,
			&f.CreatedAt,
			&f.UpdatedAt,
		); err != nil {
			r.logger.Error("Failed to scan FAQ row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan FAQ row: %w", err)
		}
		faqs = append(faqs, f)
	}
	return faqs, rows.Err()
}

func (r *FAQRepository) scanFAQ(row pgx.Row, operation string, id int) (*model.FAQ, error) {
	var f model.FAQ
	err := row.Scan(
		&f.ID,
		&f.Audience,
		&f.Category,
		&f.Question,
		&f.AnswerMD,
		&f.SortOrder,
		&f.IsPublished,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to scan FAQ",
			zap.Error(err),
			zap.String("operation", operation),
			zap.Int("faq_id", id),
		)
		return nil, fmt.Errorf("failed to %s FAQ: %w", operation, err)
	}
	return &f, nil
}
