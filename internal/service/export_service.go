package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/rajbhasha-api/internal/models"
	"github.com/noah-isme/rajbhasha-api/pkg/export"
	"github.com/noah-isme/rajbhasha-api/pkg/storage"
)

type reportCalculator interface {
	CalculateReportData(ctx context.Context, filter models.ReportFilter) (*models.ReportSummary, error)
}

type pdfExporter interface {
	ExportToPDF(ctx context.Context, rendered *RenderedReport) (*ExportedFile, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (io.ReadCloser, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
}

// ExportService runs the report pipeline for a job and persists the file.
type ExportService struct {
	reports  reportCalculator
	renderer *ReportRenderer
	pdf      pdfExporter
	csv      *export.CSVExporter
	storage  fileStorage
	signer   *storage.SignedURLSigner
	metrics  *MetricsService
	logger   *zap.Logger
	cfg      ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(reports reportCalculator, renderer *ReportRenderer, pdf pdfExporter, store fileStorage, signer *storage.SignedURLSigner, metrics *MetricsService, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if renderer == nil {
		renderer = NewReportRenderer(nil)
	}
	return &ExportService{
		reports:  reports,
		renderer: renderer,
		pdf:      pdf,
		csv:      export.NewCSVExporter(),
		storage:  store,
		signer:   signer,
		metrics:  metrics,
		logger:   logger,
		cfg:      cfg,
	}
}

// Generate builds the report described by job and stores the rendered export.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	filter := job.Params.Filter()
	summary, err := s.reports.CalculateReportData(ctx, filter)
	if err != nil {
		return nil, err
	}
	rendered, err := s.renderer.Render(summary, filter)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ReportFormatCSV:
		start := time.Now()
		payload, err = s.csv.RenderDocument(rendered.Document)
		s.metrics.ObserveReportExport(string(models.ReportFormatCSV), "csv", err, time.Since(start))
	case models.ReportFormatPDF:
		var file *ExportedFile
		file, err = s.pdf.ExportToPDF(ctx, rendered)
		if file != nil {
			payload = file.Data
		}
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	relPath, err := s.storage.Save(s.buildFilename(job), payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	signedURL := strings.TrimRight(s.cfg.APIPrefix, "/")
	if signedURL == "" {
		signedURL = "/api/v1"
	}
	signedURL = fmt.Sprintf("%s/export/%s", signedURL, token)

	s.logger.Info("report export stored",
		zap.String("job_id", job.ID),
		zap.String("format", string(job.Params.Format)),
		zap.String("path", relPath),
	)
	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a reader for a stored export.
func (s *ExportService) Open(relPath string) (io.ReadCloser, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup purges exports older than ttl.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ReportJob) string {
	name := ReportFilename(job.Params.Filter(), string(job.Params.Format))
	return sanitizeFilename(job.ID) + "_" + name
}

func sanitizeFilename(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
