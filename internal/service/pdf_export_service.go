package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/rajbhasha-api/internal/models"
	appErrors "github.com/noah-isme/rajbhasha-api/pkg/errors"
	"github.com/noah-isme/rajbhasha-api/pkg/export"
)

// ExportedFile is a binary export ready to stream.
type ExportedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// PDFExportService paginates rendered reports onto A4.
type PDFExportService struct {
	engine  export.PDFEngine
	metrics *MetricsService
	logger  *zap.Logger
}

// NewPDFExportService constructs the exporter around engine.
func NewPDFExportService(engine export.PDFEngine, metrics *MetricsService, logger *zap.Logger) *PDFExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = export.NewNativeEngine()
	}
	return &PDFExportService{engine: engine, metrics: metrics, logger: logger}
}

// Engine reports the configured engine name.
func (s *PDFExportService) Engine() string {
	return s.engine.Name()
}

// ExportToPDF produces the PDF for a rendered report. Engine failures are
// reported as a single opaque error and never retried.
func (s *PDFExportService) ExportToPDF(ctx context.Context, rendered *RenderedReport) (*ExportedFile, error) {
	if rendered == nil || rendered.Document == nil {
		return nil, appErrors.Validation("report has not been rendered")
	}

	start := time.Now()
	data, err := s.engine.RenderPDF(ctx, rendered.Document, rendered.HTML)
	if err == nil && len(data) == 0 {
		err = errors.New("engine returned an empty document")
	}
	s.metrics.ObserveReportExport(string(models.ReportFormatPDF), s.engine.Name(), err, time.Since(start))
	if err != nil {
		s.logger.Error("pdf export failed",
			zap.String("engine", s.engine.Name()),
			zap.String("filename", rendered.Filename),
			zap.Error(err),
		)
		return nil, appErrors.Internal(err, "failed to generate PDF")
	}

	return &ExportedFile{
		Filename:    rendered.Filename,
		ContentType: "application/pdf",
		Data:        data,
	}, nil
}
