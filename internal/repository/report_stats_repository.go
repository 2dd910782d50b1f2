package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/rajbhasha-api/internal/models"
)

// ReportStatsRepository runs the aggregate queries behind the compliance report.
// Every query is scoped to the filter month and, when set, its office and group.
type ReportStatsRepository struct {
	db *sqlx.DB
	sb sq.StatementBuilderType
}

// NewReportStatsRepository constructs the repository.
func NewReportStatsRepository(db *sqlx.DB) *ReportStatsRepository {
	return &ReportStatsRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// InwardTotals counts inward letters in Hindi, those needing no reply, and all of them.
func (r *ReportStatsRepository) InwardTotals(ctx context.Context, filter models.ReportFilter) (*models.InwardTotals, error) {
	b := r.sb.Select(
		"COUNT(*) FILTER (WHERE language_of_document = 'Hindi') AS hindi",
		"COUNT(*) FILTER (WHERE reply_required = 'No') AS not_required",
		"COUNT(*) AS total",
	).From("inward_records")

	var totals models.InwardTotals
	if err := r.get(ctx, &totals, scopeRecords(b, "date_of_receipt", filter)); err != nil {
		return nil, fmt.Errorf("inward totals: %w", err)
	}
	return &totals, nil
}

// OutwardTotals counts outward letters by the language their reply was sent in.
func (r *ReportStatsRepository) OutwardTotals(ctx context.Context, filter models.ReportFilter) (*models.OutwardTotals, error) {
	b := r.sb.Select(
		"COUNT(*) FILTER (WHERE reply_sent_in = 'Hindi') AS replied_hindi",
		"COUNT(*) FILTER (WHERE reply_sent_in = 'English') AS replied_english",
		"COUNT(*) AS total",
	).From("outward_records")

	var totals models.OutwardTotals
	if err := r.get(ctx, &totals, scopeRecords(b, "date_of_despatch", filter)); err != nil {
		return nil, fmt.Errorf("outward totals: %w", err)
	}
	return &totals, nil
}

// InwardByRegion groups inward letters by sender region.
func (r *ReportStatsRepository) InwardByRegion(ctx context.Context, filter models.ReportFilter) ([]models.InwardRegionRow, error) {
	b := r.sb.Select(
		"sender_region AS region",
		"COUNT(*) FILTER (WHERE language_of_document = 'English') AS received_english",
		"COUNT(*) FILTER (WHERE language_of_document = 'English' AND reply_required = 'No') AS not_expected",
		"COUNT(*) FILTER (WHERE language_of_document IN ('Hindi', 'Bilingual')) AS hindi_bilingual",
		"COUNT(*) FILTER (WHERE language_of_document = 'English') AS english",
	).From("inward_records")
	b = scopeRecords(b, "date_of_receipt", filter).GroupBy("sender_region")

	var rows []models.InwardRegionRow
	if err := r.selectRows(ctx, &rows, b); err != nil {
		return nil, fmt.Errorf("inward by region: %w", err)
	}
	return rows, nil
}

// OutwardByRegion groups replies to English letters by receiver region and reply language.
func (r *ReportStatsRepository) OutwardByRegion(ctx context.Context, filter models.ReportFilter) ([]models.OutwardRegionRow, error) {
	b := r.sb.Select(
		"receiver_region AS region",
		"COUNT(*) FILTER (WHERE original_language = 'English' AND language_of_document = 'Hindi') AS replied_hindi",
		"COUNT(*) FILTER (WHERE original_language = 'English' AND language_of_document = 'English') AS replied_english",
	).From("outward_records")
	b = scopeRecords(b, "date_of_despatch", filter).GroupBy("receiver_region")

	var rows []models.OutwardRegionRow
	if err := r.selectRows(ctx, &rows, b); err != nil {
		return nil, fmt.Errorf("outward by region: %w", err)
	}
	return rows, nil
}

// EmailCounts sums email counters per (entry_type, region) for the filter month.
func (r *ReportStatsRepository) EmailCounts(ctx context.Context, filter models.ReportFilter) ([]models.EmailRegionRow, error) {
	b := r.sb.Select(
		"entry_type",
		"region",
		"COALESCE(SUM(total_english), 0) AS total_english",
		"COALESCE(SUM(total_hindi), 0) AS total_hindi",
	).From("email_counts")
	b = scopeCounters(b, filter).GroupBy("entry_type", "region")

	var rows []models.EmailRegionRow
	if err := r.selectRows(ctx, &rows, b); err != nil {
		return nil, fmt.Errorf("email counts: %w", err)
	}
	return rows, nil
}

// NotingsCounts sums notings counters per entry_type for the filter month.
func (r *ReportStatsRepository) NotingsCounts(ctx context.Context, filter models.ReportFilter) ([]models.NotingsRow, error) {
	b := r.sb.Select(
		"entry_type",
		"COALESCE(SUM(hindi_pages), 0) AS hindi_pages",
		"COALESCE(SUM(english_pages), 0) AS english_pages",
		"COALESCE(SUM(eoffice_comments), 0) AS eoffice_comments",
	).From("notings_counts")
	b = scopeCounters(b, filter).GroupBy("entry_type")

	var rows []models.NotingsRow
	if err := r.selectRows(ctx, &rows, b); err != nil {
		return nil, fmt.Errorf("notings counts: %w", err)
	}
	return rows, nil
}

// GroupHead resolves the signatory: a member of the group, or an admin when no
// group is selected. No match yields an empty GroupHead.
func (r *ReportStatsRepository) GroupHead(ctx context.Context, group string) (*models.GroupHead, error) {
	b := r.sb.Select("group_name", "name").From("users")
	if group != "" {
		b = b.Where(sq.Eq{"group_name": group})
	} else {
		b = b.Where(sq.Eq{"role": string(models.RoleAdmin)})
	}
	b = b.OrderBy("created_at ASC").Limit(1)

	var head models.GroupHead
	if err := r.get(ctx, &head, b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.GroupHead{}, nil
		}
		return nil, fmt.Errorf("group head: %w", err)
	}
	return &head, nil
}

func (r *ReportStatsRepository) get(ctx context.Context, dest interface{}, b sq.SelectBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return r.db.GetContext(ctx, dest, query, args...)
}

func (r *ReportStatsRepository) selectRows(ctx context.Context, dest interface{}, b sq.SelectBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return r.db.SelectContext(ctx, dest, query, args...)
}

// scopeRecords applies the half-open month interval on dateCol plus office and group.
// Bounds are sent as calendar dates so DATE columns compare without a time zone.
func scopeRecords(b sq.SelectBuilder, dateCol string, filter models.ReportFilter) sq.SelectBuilder {
	start, end := filter.Interval()
	b = b.Where(sq.GtOrEq{dateCol: start.Format(time.DateOnly)}).
		Where(sq.Lt{dateCol: end.Format(time.DateOnly)})
	if filter.Office != "" {
		b = b.Where(sq.Eq{"office": filter.Office})
	}
	if filter.Group != "" {
		b = b.Where(sq.Eq{"group_name": filter.Group})
	}
	return b
}

// scopeCounters selects monthly counters. Counters carry no office.
func scopeCounters(b sq.SelectBuilder, filter models.ReportFilter) sq.SelectBuilder {
	b = b.Where(sq.Eq{"month": filter.Month}).Where(sq.Eq{"year": filter.Year})
	if filter.Group != "" {
		b = b.Where(sq.Eq{"group_name": filter.Group})
	}
	return b
}
