package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/rajbhasha-api/internal/dto"
	"github.com/noah-isme/rajbhasha-api/internal/middleware"
	"github.com/noah-isme/rajbhasha-api/internal/models"
	"github.com/noah-isme/rajbhasha-api/internal/service"
	appErrors "github.com/noah-isme/rajbhasha-api/pkg/errors"
	"github.com/noah-isme/rajbhasha-api/pkg/response"
)

type reportCalculator interface {
	CalculateReportData(ctx context.Context, filter models.ReportFilter) (*models.ReportSummary, error)
}

type pdfExporter interface {
	ExportToPDF(ctx context.Context, rendered *service.RenderedReport) (*service.ExportedFile, error)
}

type groupLister interface {
	ListGroups(ctx context.Context) ([]string, error)
}

// ReportHandler serves the interactive compliance report screen.
type ReportHandler struct {
	reports  reportCalculator
	renderer *service.ReportRenderer
	pdf      pdfExporter
	cache    *service.RenderCache
	groups   groupLister
	logger   *zap.Logger
}

// NewReportHandler constructs handler. A nil cache disables render reuse.
func NewReportHandler(reports reportCalculator, renderer *service.ReportRenderer, pdf pdfExporter, cache *service.RenderCache, groups groupLister, logger *zap.Logger) *ReportHandler {
	if renderer == nil {
		renderer = service.NewReportRenderer(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{reports: reports, renderer: renderer, pdf: pdf, cache: cache, groups: groups, logger: logger}
}

// ReportData godoc
// @Summary Aggregate the monthly compliance report
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.ReportFilterRequest true "Report filter"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/report/data [post]
func (h *ReportHandler) ReportData(c *gin.Context) {
	claims, filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	summary, rendered, err := h.render(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.store(c.Request.Context(), claims.UserID, rendered)

	response.JSON(c, http.StatusOK, summary, nil, middleware.ExtractMeta(c))
}

// ReportView godoc
// @Summary Render the compliance report as HTML
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.ReportFilterRequest true "Report filter"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/report/view [post]
func (h *ReportHandler) ReportView(c *gin.Context) {
	claims, filter, ok := h.bindFilter(c)
	if !ok {
		return
	}

	_, rendered, err := h.render(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.store(c.Request.Context(), claims.UserID, rendered)

	response.JSON(c, http.StatusOK, dto.ReportViewResponse{HTML: rendered.HTML, Filename: rendered.Filename}, nil, middleware.ExtractMeta(c))
}

// ReportPDF godoc
// @Summary Export the compliance report as PDF
// @Description Reuses the caller's last render when its filter matches, otherwise renders afresh.
// @Tags Reports
// @Accept json
// @Produce application/pdf
// @Param payload body dto.ReportFilterRequest true "Report filter"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /admin/report/pdf [post]
func (h *ReportHandler) ReportPDF(c *gin.Context) {
	claims, filter, ok := h.bindFilter(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	rendered, hit := h.cache.Lookup(ctx, claims.UserID, filter)
	middleware.SetCacheHit(c, hit)
	if !hit {
		var err error
		if _, rendered, err = h.render(ctx, filter); err != nil {
			response.Error(c, err)
			return
		}
		h.store(ctx, claims.UserID, rendered)
	}

	file, err := h.pdf.ExportToPDF(ctx, rendered)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Attachment(c, file.Filename, file.ContentType, file.Data, map[string]string{"X-Cache": cacheHeader(hit)})
}

// InvalidateCache godoc
// @Summary Drop the caller's cached report render
// @Tags Reports
// @Success 204
// @Router /admin/report/cache [delete]
func (h *ReportHandler) InvalidateCache(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	if err := h.cache.Invalidate(c.Request.Context(), claims.UserID); err != nil {
		h.logger.Warn("render cache invalidate failed", zap.String("user_id", claims.UserID), zap.Error(err))
	}
	response.NoContent(c)
}

// Groups godoc
// @Summary List user groups for the report filter
// @Tags Reports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/report/groups [get]
func (h *ReportHandler) Groups(c *gin.Context) {
	groups, err := h.groups.ListGroups(c.Request.Context())
	if err != nil {
		response.Error(c, appErrors.Internal(err, "failed to list groups"))
		return
	}
	response.JSON(c, http.StatusOK, groups, nil)
}

func (h *ReportHandler) bindFilter(c *gin.Context) (*models.JWTClaims, models.ReportFilter, bool) {
	claims := requireClaims(c)
	if claims == nil {
		return nil, models.ReportFilter{}, false
	}
	var req dto.ReportFilterRequest
	if !bindJSON(c, &req, "invalid report filter") {
		return nil, models.ReportFilter{}, false
	}
	filter, err := service.NormalizeReportFilter(req.Filter())
	if err != nil {
		response.Error(c, err)
		return nil, models.ReportFilter{}, false
	}
	return claims, filter, true
}

func (h *ReportHandler) render(ctx context.Context, filter models.ReportFilter) (*models.ReportSummary, *service.RenderedReport, error) {
	summary, err := h.reports.CalculateReportData(ctx, filter)
	if err != nil {
		return nil, nil, err
	}
	rendered, err := h.renderer.Render(summary, filter)
	if err != nil {
		return nil, nil, err
	}
	return summary, rendered, nil
}

func (h *ReportHandler) store(ctx context.Context, owner string, rendered *service.RenderedReport) {
	if err := h.cache.Store(ctx, owner, rendered); err != nil {
		h.logger.Warn("render cache store failed", zap.String("user_id", owner), zap.Error(err))
	}
}

func cacheHeader(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}
