package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/rajbhasha-api/internal/models"
	"github.com/noah-isme/rajbhasha-api/pkg/export"
	"github.com/noah-isme/rajbhasha-api/pkg/storage"
)

type calculatorStub struct {
	summary *models.ReportSummary
	err     error
}

func (c calculatorStub) CalculateReportData(context.Context, models.ReportFilter) (*models.ReportSummary, error) {
	if c.err != nil {
		return nil, c.err
	}
	if c.summary == nil {
		return &models.ReportSummary{}, nil
	}
	return c.summary, nil
}

func newExportServiceForTest(t *testing.T, calc reportCalculator) (*ExportService, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	pdf := NewPDFExportService(export.NewNativeEngine(), nil, nil)
	cfg := ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour}
	svc := NewExportService(calc, NewReportRenderer(nil), pdf, store, signer, NewMetricsService(), cfg, zap.NewNop())
	return svc, store
}

func readStored(t *testing.T, store *storage.LocalStorage, relPath string) []byte {
	t.Helper()
	rc, err := store.Open(relPath)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return data
}

func TestExportServiceGenerateCSV(t *testing.T) {
	svc, store := newExportServiceForTest(t, calculatorStub{summary: &models.ReportSummary{LettersReceivedHindi: 7}})
	job := &models.ReportJob{
		ID:        "job-1",
		Type:      models.ReportTypeRajbhasha,
		Params:    models.ReportJobParams{Month: 3, Year: 2024, Format: models.ReportFormatCSV},
		CreatedBy: "admin",
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, "job-1_Rajbhasha_Report_Mar_2024.csv", result.RelativePath)
	assert.True(t, strings.HasPrefix(result.URL, "/api/v1/export/"))
	assert.Equal(t, models.ReportFormatCSV, result.Format)

	data := string(readStored(t, store, result.RelativePath))
	assert.Contains(t, data, "Total letters received in Hindi,7")
}

func TestExportServiceGeneratePDF(t *testing.T) {
	svc, store := newExportServiceForTest(t, calculatorStub{})
	job := &models.ReportJob{
		ID:     "job-2",
		Type:   models.ReportTypeRajbhasha,
		Params: models.ReportJobParams{Month: 1, Year: 2025, Format: models.ReportFormatPDF},
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	data := readStored(t, store, result.RelativePath)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))

	jobID, relPath, _, err := svc.ParseToken(result.Token, false)
	require.NoError(t, err)
	assert.Equal(t, "job-2", jobID)
	assert.Equal(t, result.RelativePath, relPath)
}

func TestExportServiceGenerateFailures(t *testing.T) {
	svc, _ := newExportServiceForTest(t, calculatorStub{err: errors.New("db down")})
	_, err := svc.Generate(context.Background(), &models.ReportJob{ID: "job-3", Params: models.ReportJobParams{Month: 1, Year: 2025, Format: models.ReportFormatPDF}})
	require.Error(t, err)

	svc, _ = newExportServiceForTest(t, calculatorStub{})
	_, err = svc.Generate(context.Background(), &models.ReportJob{ID: "job-4", Params: models.ReportJobParams{Month: 1, Year: 2025, Format: "xlsx"}})
	require.Error(t, err)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "abc-123_x", sanitizeFilename("abc-123_x"))
	assert.Equal(t, "a__b", sanitizeFilename("a/.b"))
}
