package repository

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/rajbhasha-api/internal/models"
)

const reportJobColumns = `id, type, params, status, progress, result_url, created_by, created_at, finished_at, error_message`

// ReportJobRepository persists asynchronous report export jobs.
type ReportJobRepository struct {
	db *sqlx.DB
	sb sq.StatementBuilderType
}

// NewReportJobRepository constructs the repository.
func NewReportJobRepository(db *sqlx.DB) *ReportJobRepository {
	return &ReportJobRepository{db: db, sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar)}
}

// Create inserts a new job row with generated defaults.
func (r *ReportJobRepository) Create(ctx context.Context, job *models.ReportJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = models.ReportStatusQueued
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO report_jobs (` + reportJobColumns + `)
VALUES (:id, :type, :params, :status, :progress, :result_url, :created_by, :created_at, :finished_at, :error_message)`
	if _, err := r.db.NamedExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("create report job: %w", err)
	}
	return nil
}

// GetByID returns a job row by its identifier.
func (r *ReportJobRepository) GetByID(ctx context.Context, id string) (*models.ReportJob, error) {
	query := `SELECT ` + reportJobColumns + ` FROM report_jobs WHERE id = $1`
	var job models.ReportJob
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		return nil, fmt.Errorf("get report job: %w", err)
	}
	return &job, nil
}

// UpdateReportJobParams lists the mutable fields. Nil fields are left unchanged.
type UpdateReportJobParams struct {
	Status       *models.ReportStatus
	Progress     *int
	ResultURL    *string
	ErrorMessage *string
	FinishedAt   *time.Time
}

// Update persists the provided changes for a job row.
func (r *ReportJobRepository) Update(ctx context.Context, id string, params UpdateReportJobParams) error {
	b := r.sb.Update("report_jobs")
	changed := false
	set := func(col string, v interface{}) {
		b = b.Set(col, v)
		changed = true
	}
	if params.Status != nil {
		set("status", *params.Status)
	}
	if params.Progress != nil {
		set("progress", *params.Progress)
	}
	if params.ResultURL != nil {
		set("result_url", *params.ResultURL)
	}
	if params.ErrorMessage != nil {
		set("error_message", *params.ErrorMessage)
	}
	if params.FinishedAt != nil {
		set("finished_at", *params.FinishedAt)
	}
	if !changed {
		return nil
	}

	query, args, err := b.Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build report job update: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update report job: %w", err)
	}
	return nil
}

// ListQueued fetches queued jobs for re-enqueueing after a restart.
func (r *ReportJobRepository) ListQueued(ctx context.Context, limit int) ([]models.ReportJob, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + reportJobColumns + ` FROM report_jobs WHERE status = 'QUEUED' ORDER BY created_at ASC LIMIT $1`
	var jobs []models.ReportJob
	if err := r.db.SelectContext(ctx, &jobs, query, limit); err != nil {
		return nil, fmt.Errorf("list queued report jobs: %w", err)
	}
	return jobs, nil
}

// ListFinishedBefore retrieves completed jobs older than cutoff for cleanup.
func (r *ReportJobRepository) ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + reportJobColumns + ` FROM report_jobs
WHERE status = 'FINISHED' AND finished_at IS NOT NULL AND finished_at < $1 ORDER BY finished_at ASC LIMIT $2`
	var jobs []models.ReportJob
	if err := r.db.SelectContext(ctx, &jobs, query, cutoff, limit); err != nil {
		return nil, fmt.Errorf("list finished report jobs: %w", err)
	}
	return jobs, nil
}
