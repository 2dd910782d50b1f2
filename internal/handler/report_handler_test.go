package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rajbhasha-api/internal/dto"
	"github.com/noah-isme/rajbhasha-api/internal/middleware"
	"github.com/noah-isme/rajbhasha-api/internal/models"
	"github.com/noah-isme/rajbhasha-api/internal/service"
	appErrors "github.com/noah-isme/rajbhasha-api/pkg/errors"
)

type calculatorStub struct {
	summary *models.ReportSummary
	err     error
	calls   []models.ReportFilter
}

func (s *calculatorStub) CalculateReportData(_ context.Context, filter models.ReportFilter) (*models.ReportSummary, error) {
	s.calls = append(s.calls, filter)
	return s.summary, s.err
}

type pdfStub struct {
	err      error
	rendered *service.RenderedReport
}

func (s *pdfStub) ExportToPDF(_ context.Context, rendered *service.RenderedReport) (*service.ExportedFile, error) {
	s.rendered = rendered
	if s.err != nil {
		return nil, s.err
	}
	return &service.ExportedFile{Filename: rendered.Filename, ContentType: "application/pdf", Data: []byte("%PDF-1.4 stub")}, nil
}

type groupsStub struct {
	groups []string
	err    error
}

func (s groupsStub) ListGroups(context.Context) ([]string, error) { return s.groups, s.err }

func newReportHandlerForTest(calc *calculatorStub, pdf *pdfStub) *ReportHandler {
	cache := service.NewCacheService(newMemoryCache(), nil, 0, nil, true)
	return NewReportHandler(calc, nil, pdf, service.NewRenderCache(cache, 0), groupsStub{groups: []string{"Finance", "HR"}}, nil)
}

func marchFilter(t *testing.T) []byte {
	return mustJSON(t, dto.ReportFilterRequest{Month: 3, Year: 2024, Office: " Pune ", Group: "HR"})
}

func TestReportDataReturnsSummary(t *testing.T) {
	calc := &calculatorStub{summary: &models.ReportSummary{LettersReceivedHindi: 7, GroupName: "HR"}}
	h := newReportHandlerForTest(calc, &pdfStub{})

	c, w := newGinContext(http.MethodPost, "/admin/report/data", marchFilter(t))
	asUser(c, adminUser)
	h.ReportData(c)

	require.Equal(t, http.StatusOK, w.Code)
	var summary models.ReportSummary
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &summary))
	assert.Equal(t, 7, summary.LettersReceivedHindi)
	require.Len(t, calc.calls, 1)
	assert.Equal(t, "Pune", calc.calls[0].Office)
}

func TestReportDataRejectsBadFilter(t *testing.T) {
	calc := &calculatorStub{summary: &models.ReportSummary{}}
	h := newReportHandlerForTest(calc, &pdfStub{})

	for _, body := range [][]byte{
		[]byte(`{"month":`),
		mustJSON(t, dto.ReportFilterRequest{Month: 13, Year: 2024}),
		mustJSON(t, dto.ReportFilterRequest{Month: 3, Year: 24}),
	} {
		c, w := newGinContext(http.MethodPost, "/admin/report/data", body)
		asUser(c, adminUser)
		h.ReportData(c)
		require.Equal(t, http.StatusBadRequest, w.Code, string(body))
		assert.Equal(t, appErrors.ErrValidation.Code, decode(t, w).Error.Code)
	}
	assert.Empty(t, calc.calls)
}

func TestReportDataRequiresClaims(t *testing.T) {
	h := newReportHandlerForTest(&calculatorStub{}, &pdfStub{})
	c, w := newGinContext(http.MethodPost, "/admin/report/data", marchFilter(t))
	h.ReportData(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestReportDataPropagatesAggregatorFailure(t *testing.T) {
	calc := &calculatorStub{err: appErrors.Internal(errors.New("db down"), "failed to calculate report")}
	h := newReportHandlerForTest(calc, &pdfStub{})

	c, w := newGinContext(http.MethodPost, "/admin/report/data", marchFilter(t))
	asUser(c, adminUser)
	h.ReportData(c)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db down")
}

func TestReportViewReturnsHTMLAndFilename(t *testing.T) {
	calc := &calculatorStub{summary: &models.ReportSummary{TotalInwards: 12}}
	h := newReportHandlerForTest(calc, &pdfStub{})

	c, w := newGinContext(http.MethodPost, "/admin/report/view", marchFilter(t))
	asUser(c, adminUser)
	h.ReportView(c)

	require.Equal(t, http.StatusOK, w.Code)
	var view dto.ReportViewResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &view))
	assert.Equal(t, "Rajbhasha_Report_Mar_2024.pdf", view.Filename)
	assert.Contains(t, view.HTML, "Monthly data for Quarterly Report for Hindi Rajbhasha")
}

func TestReportPDFReusesMatchingRender(t *testing.T) {
	calc := &calculatorStub{summary: &models.ReportSummary{TotalInwards: 12}}
	pdf := &pdfStub{}
	h := newReportHandlerForTest(calc, pdf)

	c, _ := newGinContext(http.MethodPost, "/admin/report/view", marchFilter(t))
	asUser(c, adminUser)
	h.ReportView(c)
	require.Len(t, calc.calls, 1)

	c, w := newGinContext(http.MethodPost, "/admin/report/pdf", marchFilter(t))
	asUser(c, adminUser)
	h.ReportPDF(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, calc.calls, 1)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename=Rajbhasha_Report_Mar_2024.pdf`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.Equal(t, true, middleware.ExtractMeta(c)["cache_hit"])
	assert.True(t, w.Body.Len() > 0)
}

func TestReportPDFRendersAgainForNewFilter(t *testing.T) {
	calc := &calculatorStub{summary: &models.ReportSummary{}}
	pdf := &pdfStub{}
	h := newReportHandlerForTest(calc, pdf)

	c, _ := newGinContext(http.MethodPost, "/admin/report/view", marchFilter(t))
	asUser(c, adminUser)
	h.ReportView(c)

	c, w := newGinContext(http.MethodPost, "/admin/report/pdf", mustJSON(t, dto.ReportFilterRequest{Month: 4, Year: 2024}))
	asUser(c, adminUser)
	h.ReportPDF(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, calc.calls, 2)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Equal(t, `attachment; filename=Rajbhasha_Report_Apr_2024.pdf`, w.Header().Get("Content-Disposition"))
	require.NotNil(t, pdf.rendered)
	assert.Equal(t, 4, pdf.rendered.Filter.Month)
}

func TestReportPDFCacheIsPerCaller(t *testing.T) {
	calc := &calculatorStub{summary: &models.ReportSummary{}}
	h := newReportHandlerForTest(calc, &pdfStub{})

	c, _ := newGinContext(http.MethodPost, "/admin/report/view", marchFilter(t))
	asUser(c, adminUser)
	h.ReportView(c)

	other := &models.JWTClaims{UserID: "admin-2", Role: models.RoleAdmin}
	c, w := newGinContext(http.MethodPost, "/admin/report/pdf", marchFilter(t))
	asUser(c, other)
	h.ReportPDF(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Len(t, calc.calls, 2)
}

func TestReportPDFFailureIsOpaque(t *testing.T) {
	calc := &calculatorStub{summary: &models.ReportSummary{}}
	pdf := &pdfStub{err: appErrors.Internal(errors.New("chrome crashed"), "failed to generate PDF")}
	h := newReportHandlerForTest(calc, pdf)

	c, w := newGinContext(http.MethodPost, "/admin/report/pdf", marchFilter(t))
	asUser(c, adminUser)
	h.ReportPDF(c)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	env := decode(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, "failed to generate PDF", env.Error.Message)
	assert.Empty(t, w.Header().Get("Content-Disposition"))
}

func TestInvalidateCacheForcesRender(t *testing.T) {
	calc := &calculatorStub{summary: &models.ReportSummary{}}
	h := newReportHandlerForTest(calc, &pdfStub{})

	c, _ := newGinContext(http.MethodPost, "/admin/report/view", marchFilter(t))
	asUser(c, adminUser)
	h.ReportView(c)

	c, w := newGinContext(http.MethodDelete, "/admin/report/cache", nil)
	asUser(c, adminUser)
	h.InvalidateCache(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)

	c, w = newGinContext(http.MethodPost, "/admin/report/pdf", marchFilter(t))
	asUser(c, adminUser)
	h.ReportPDF(c)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Len(t, calc.calls, 2)
}

func TestReportPDFWithoutCache(t *testing.T) {
	calc := &calculatorStub{summary: &models.ReportSummary{}}
	h := NewReportHandler(calc, nil, &pdfStub{}, nil, groupsStub{}, nil)

	c, w := newGinContext(http.MethodPost, "/admin/report/pdf", marchFilter(t))
	asUser(c, adminUser)
	h.ReportPDF(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
}

func TestGroups(t *testing.T) {
	h := newReportHandlerForTest(&calculatorStub{}, &pdfStub{})
	c, w := newGinContext(http.MethodGet, "/admin/report/groups", nil)
	asUser(c, adminUser)
	h.Groups(c)

	require.Equal(t, http.StatusOK, w.Code)
	var groups []string
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &groups))
	assert.Equal(t, []string{"Finance", "HR"}, groups)

	h = NewReportHandler(&calculatorStub{}, nil, &pdfStub{}, nil, groupsStub{err: errors.New("boom")}, nil)
	c, w = newGinContext(http.MethodGet, "/admin/report/groups", nil)
	h.Groups(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestReportRoutesWithMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	calc := &calculatorStub{summary: &models.ReportSummary{}}
	h := newReportHandlerForTest(calc, &pdfStub{})

	r := gin.New()
	r.Use(middleware.WithResponseMeta())
	r.Use(func(c *gin.Context) { asUser(c, adminUser) })
	r.POST("/admin/report/pdf", h.ReportPDF)
	r.POST("/admin/report/data", h.ReportData)

	c, _ := newGinContext(http.MethodPost, "/admin/report/data", marchFilter(t))
	w := performRequest(r, c.Request)
	require.Equal(t, http.StatusOK, w.Code)

	c, _ = newGinContext(http.MethodPost, "/admin/report/pdf", marchFilter(t))
	w = performRequest(r, c.Request)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
}
