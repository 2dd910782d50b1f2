package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/rajbhasha-api/internal/dto"
	"github.com/noah-isme/rajbhasha-api/internal/models"
	"github.com/noah-isme/rajbhasha-api/internal/service"
	"github.com/noah-isme/rajbhasha-api/pkg/response"
)

type reportJobService interface {
	CreateJob(ctx context.Context, req dto.ReportRequest, actor *models.JWTClaims) (*dto.ReportJobResponse, error)
	GetStatus(ctx context.Context, id string, actor *models.JWTClaims) (*dto.ReportStatusResponse, error)
	ResolveDownload(ctx context.Context, token string) (*service.ReportDownload, error)
}

// ReportJobHandler exposes asynchronous report generation.
type ReportJobHandler struct {
	jobs reportJobService
}

// NewReportJobHandler constructs handler.
func NewReportJobHandler(jobs reportJobService) *ReportJobHandler {
	return &ReportJobHandler{jobs: jobs}
}

// GenerateReport godoc
// @Summary Queue a report export
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.ReportRequest true "Report request"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/reports/generate [post]
func (h *ReportJobHandler) GenerateReport(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req dto.ReportRequest
	if !bindJSON(c, &req, "invalid report request") {
		return
	}

	res, err := h.jobs.CreateJob(c.Request.Context(), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, res)
}

// ReportStatus godoc
// @Summary Report job status
// @Tags Reports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/reports/status/{id} [get]
func (h *ReportJobHandler) ReportStatus(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}

	res, err := h.jobs.GetStatus(c.Request.Context(), c.Param("id"), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// DownloadReport godoc
// @Summary Download an exported report
// @Tags Reports
// @Produce application/pdf
// @Produce text/csv
// @Param token path string true "Signed token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /export/{token} [get]
func (h *ReportJobHandler) DownloadReport(c *gin.Context) {
	download, err := h.jobs.ResolveDownload(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.Reader.Close()

	response.AttachmentFromReader(c, download.Filename, contentTypeFor(download.Format), download.Reader)
}

func contentTypeFor(format models.ReportFormat) string {
	switch format {
	case models.ReportFormatPDF:
		return "application/pdf"
	case models.ReportFormatCSV:
		return "text/csv; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
