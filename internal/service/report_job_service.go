package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/rajbhasha-api/internal/dto"
	"github.com/noah-isme/rajbhasha-api/internal/models"
	"github.com/noah-isme/rajbhasha-api/internal/repository"
	appErrors "github.com/noah-isme/rajbhasha-api/pkg/errors"
	"github.com/noah-isme/rajbhasha-api/pkg/jobs"
)

type reportJobStore interface {
	Create(ctx context.Context, job *models.ReportJob) error
	GetByID(ctx context.Context, id string) (*models.ReportJob, error)
	Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error
	ListQueued(ctx context.Context, limit int) ([]models.ReportJob, error)
	ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type exportGenerator interface {
	Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error)
}

// ReportJobService orchestrates asynchronous report exports.
type ReportJobService struct {
	repo     reportJobStore
	queue    jobDispatcher
	exporter *ExportService
	logger   *zap.Logger
	cfg      ReportJobConfig
}

// ReportJobConfig governs queue recovery and cleanup.
type ReportJobConfig struct {
	ResultTTL       time.Duration
	CleanupInterval time.Duration
}

// ReportDownload aggregates resolved download data.
type ReportDownload struct {
	Reader    io.ReadCloser
	Filename  string
	Format    models.ReportFormat
	ExpiresAt time.Time
}

// NewReportJobService constructs the job service.
func NewReportJobService(repo reportJobStore, queue jobDispatcher, exporter *ExportService, logger *zap.Logger, cfg ReportJobConfig) *ReportJobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ReportJobService{
		repo:     repo,
		queue:    queue,
		exporter: exporter,
		logger:   logger,
		cfg:      cfg,
	}
}

// CreateJob validates the request, persists the job, and enqueues processing.
func (s *ReportJobService) CreateJob(ctx context.Context, req dto.ReportRequest, actor *models.JWTClaims) (*dto.ReportJobResponse, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	filter, err := NormalizeReportFilter(models.ReportFilter{Month: req.Month, Year: req.Year, Office: req.Office, Group: req.Group})
	if err != nil {
		return nil, err
	}
	if !isValidFormat(req.Format) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported report format")
	}

	job := &models.ReportJob{
		Type: models.ReportTypeRajbhasha,
		Params: models.ReportJobParams{
			Month:  filter.Month,
			Year:   filter.Year,
			Office: filter.Office,
			Group:  filter.Group,
			Format: req.Format,
		},
		Status:    models.ReportStatusQueued,
		Progress:  0,
		CreatedBy: actor.UserID,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create report job")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(job.Type)}); err != nil {
		status := models.ReportStatusFailed
		msg := "failed to enqueue job"
		now := time.Now().UTC()
		progress := 100
		_ = s.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
			Status:       &status,
			Progress:     &progress,
			ErrorMessage: &msg,
			FinishedAt:   &now,
		})
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue report job")
	}
	s.logger.Info("report job queued", zap.String("job_id", job.ID), zap.String("format", string(req.Format)))
	return &dto.ReportJobResponse{ID: job.ID, Status: job.Status, Progress: job.Progress}, nil
}

// GetStatus exposes job metadata. Only admins see other users' jobs.
func (s *ReportJobService) GetStatus(ctx context.Context, id string, actor *models.JWTClaims) (*dto.ReportStatusResponse, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report job")
	}
	if actor == nil || (!actor.IsAdmin() && job.CreatedBy != actor.UserID) {
		return nil, appErrors.ErrForbidden
	}
	resp := &dto.ReportStatusResponse{
		ID:       job.ID,
		Status:   job.Status,
		Progress: job.Progress,
	}
	if job.ResultURL != nil {
		resp.ResultURL = job.ResultURL
	}
	if job.ErrorMessage != nil && *job.ErrorMessage != "" {
		resp.Error = job.ErrorMessage
	}
	return resp, nil
}

// ResolveDownload validates token and opens the stored export file.
func (s *ReportJobService) ResolveDownload(ctx context.Context, token string) (*ReportDownload, error) {
	jobID, relPath, expiresAt, err := s.exporter.ParseToken(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report job")
	}
	if job.ResultURL == nil || !strings.HasSuffix(*job.ResultURL, token) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "token mismatch")
	}
	if job.Status != models.ReportStatusFinished {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "report not ready")
	}
	reader, err := s.exporter.Open(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export file")
	}
	return &ReportDownload{
		Reader:    reader,
		Filename:  ReportFilename(job.Params.Filter(), string(job.Params.Format)),
		Format:    job.Params.Format,
		ExpiresAt: expiresAt,
	}, nil
}

// RecoverPendingJobs replays queued jobs after a restart.
func (s *ReportJobService) RecoverPendingJobs(ctx context.Context) {
	pending, err := s.repo.ListQueued(ctx, 50)
	if err != nil {
		s.logger.Warn("failed to recover queued report jobs", zap.Error(err))
		return
	}
	for _, job := range pending {
		if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(job.Type)}); err != nil {
			s.logger.Warn("failed to requeue pending job", zap.String("job_id", job.ID), zap.Error(err))
		}
	}
}

// StartCleanup boots a goroutine that purges expired exports periodically.
func (s *ReportJobService) StartCleanup(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.cleanupExpired(ctx)
			}
		}
	}()
}

func (s *ReportJobService) cleanupExpired(ctx context.Context) {
	cutoff := time.Now().Add(-s.cfg.ResultTTL)
	for {
		finished, err := s.repo.ListFinishedBefore(ctx, cutoff, 100)
		if err != nil {
			s.logger.Warn("cleanup list failed", zap.Error(err))
			return
		}
		for _, job := range finished {
			if job.ResultURL == nil {
				continue
			}
			token := extractToken(*job.ResultURL)
			if token == "" {
				continue
			}
			_, relPath, _, err := s.exporter.ParseToken(token, true)
			if err != nil {
				continue
			}
			if err := s.exporter.Delete(relPath); err != nil {
				s.logger.Warn("cleanup delete failed", zap.String("job_id", job.ID), zap.Error(err))
			}
		}
		if len(finished) < 100 {
			break
		}
	}
	if removed, err := s.exporter.Cleanup(s.cfg.ResultTTL); err != nil {
		s.logger.Warn("filesystem cleanup failed", zap.Error(err))
	} else if len(removed) > 0 {
		s.logger.Info("expired exports removed", zap.Int("count", len(removed)))
	}
}

func isValidFormat(f models.ReportFormat) bool {
	return f == models.ReportFormatCSV || f == models.ReportFormatPDF
}

func extractToken(url string) string {
	if url == "" {
		return ""
	}
	parts := strings.Split(url, "/")
	return parts[len(parts)-1]
}

// ReportWorker bridges queue jobs to ExportService.
type ReportWorker struct {
	repo     reportJobStore
	exporter exportGenerator
	logger   *zap.Logger
}

// NewReportWorker constructs a worker.
func NewReportWorker(repo reportJobStore, exporter exportGenerator, logger *zap.Logger) *ReportWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportWorker{repo: repo, exporter: exporter, logger: logger}
}

// Handle processes a queue job. A failure leaves the job queued for the
// queue's retry; GiveUp marks it failed once retries are exhausted.
func (w *ReportWorker) Handle(ctx context.Context, job jobs.Job) error {
	record, err := w.repo.GetByID(ctx, job.ID)
	if err != nil {
		return err
	}
	processing := models.ReportStatusProcessing
	progress := 10
	if err := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
		Status:   &processing,
		Progress: &progress,
	}); err != nil {
		return err
	}

	result, err := w.exporter.Generate(ctx, record)
	if err != nil {
		msg := errorMessage(err)
		queued := models.ReportStatusQueued
		reset := 0
		if updateErr := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
			Status:       &queued,
			Progress:     &reset,
			ErrorMessage: &msg,
		}); updateErr != nil {
			w.logger.Warn("failed to mark job queued", zap.String("job_id", job.ID), zap.Error(updateErr))
		}
		return err
	}

	finished := models.ReportStatusFinished
	progress = 100
	now := time.Now().UTC()
	url := result.URL
	clear := ""
	if err := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
		Status:       &finished,
		Progress:     &progress,
		ResultURL:    &url,
		ErrorMessage: &clear,
		FinishedAt:   &now,
	}); err != nil {
		w.logger.Warn("failed to mark job finished", zap.String("job_id", job.ID), zap.Error(err))
		return err
	}
	return nil
}

// GiveUp marks a job failed after its last attempt.
func (w *ReportWorker) GiveUp(ctx context.Context, job jobs.Job, cause error) {
	failed := models.ReportStatusFailed
	progress := 100
	now := time.Now().UTC()
	msg := errorMessage(cause)
	if err := w.repo.Update(context.WithoutCancel(ctx), job.ID, repository.UpdateReportJobParams{
		Status:       &failed,
		Progress:     &progress,
		ErrorMessage: &msg,
		FinishedAt:   &now,
	}); err != nil {
		w.logger.Warn("failed to mark job failed", zap.String("job_id", job.ID), zap.Error(err))
	}
}

// errorMessage keeps internal causes out of the stored job status.
func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
