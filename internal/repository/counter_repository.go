package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/rajbhasha-api/internal/models"
)

// CounterRepository persists the monthly email and notings counters.
type CounterRepository struct {
	db *sqlx.DB
	sb sq.StatementBuilderType
}

// NewCounterRepository constructs the repository.
func NewCounterRepository(db *sqlx.DB) *CounterRepository {
	return &CounterRepository{db: db, sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar)}
}

const upsertEmailCountQuery = `INSERT INTO email_counts (group_name, month, year, entry_type, region, total_english, total_hindi, updated_at)
VALUES (:group_name, :month, :year, :entry_type, :region, :total_english, :total_hindi, :updated_at)
ON CONFLICT (group_name, month, year, entry_type, region)
DO UPDATE SET total_english = EXCLUDED.total_english, total_hindi = EXCLUDED.total_hindi,
              updated_at = EXCLUDED.updated_at`

const upsertNotingsCountQuery = `INSERT INTO notings_counts (group_name, month, year, entry_type, hindi_pages, english_pages, eoffice_comments, updated_at)
VALUES (:group_name, :month, :year, :entry_type, :hindi_pages, :english_pages, :eoffice_comments, :updated_at)
ON CONFLICT (group_name, month, year, entry_type)
DO UPDATE SET hindi_pages = EXCLUDED.hindi_pages, english_pages = EXCLUDED.english_pages,
              eoffice_comments = EXCLUDED.eoffice_comments, updated_at = EXCLUDED.updated_at`

// UpsertEmailCount replaces the counts stored under the row's natural key.
// UpdatedAt is written as given.
func (r *CounterRepository) UpsertEmailCount(ctx context.Context, count *models.EmailCount) error {
	if _, err := r.db.NamedExecContext(ctx, upsertEmailCountQuery, count); err != nil {
		return fmt.Errorf("upsert email count: %w", err)
	}
	return nil
}

// UpsertNotingsCount replaces the counts stored under the row's natural key.
func (r *CounterRepository) UpsertNotingsCount(ctx context.Context, count *models.NotingsCount) error {
	if _, err := r.db.NamedExecContext(ctx, upsertNotingsCountQuery, count); err != nil {
		return fmt.Errorf("upsert notings count: %w", err)
	}
	return nil
}

// ListEmailCounts returns the stored email rows for a period.
func (r *CounterRepository) ListEmailCounts(ctx context.Context, period models.CounterPeriod) ([]models.EmailCount, error) {
	b := r.sb.Select("group_name", "month", "year", "entry_type", "region", "total_english", "total_hindi", "updated_at").
		From("email_counts").
		Where(sq.Eq{"month": period.Month, "year": period.Year}).
		OrderBy("group_name", "entry_type", "region")
	if period.Group != "" {
		b = b.Where(sq.Eq{"group_name": period.Group})
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build email counts query: %w", err)
	}
	rows := make([]models.EmailCount, 0)
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list email counts: %w", err)
	}
	return rows, nil
}

// ListNotingsCounts returns the stored notings rows for a period.
func (r *CounterRepository) ListNotingsCounts(ctx context.Context, period models.CounterPeriod) ([]models.NotingsCount, error) {
	b := r.sb.Select("group_name", "month", "year", "entry_type", "hindi_pages", "english_pages", "eoffice_comments", "updated_at").
		From("notings_counts").
		Where(sq.Eq{"month": period.Month, "year": period.Year}).
		OrderBy("group_name", "entry_type")
	if period.Group != "" {
		b = b.Where(sq.Eq{"group_name": period.Group})
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build notings counts query: %w", err)
	}
	rows := make([]models.NotingsCount, 0)
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list notings counts: %w", err)
	}
	return rows, nil
}
