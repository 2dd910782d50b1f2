package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/rajbhasha-api/internal/dto"
	"github.com/noah-isme/rajbhasha-api/internal/models"
	"github.com/noah-isme/rajbhasha-api/pkg/response"
)

type recordService interface {
	CreateInward(ctx context.Context, actor *models.JWTClaims, req dto.InwardRequest) (*models.InwardRecord, error)
	CreateOutward(ctx context.Context, actor *models.JWTClaims, req dto.OutwardRequest) (*models.OutwardRecord, error)
	SearchInward(ctx context.Context, actor *models.JWTClaims, prefix string) ([]models.InwardRecord, error)
	RecentInward(ctx context.Context, actor *models.JWTClaims) ([]models.InwardRecord, error)
	RecentOutward(ctx context.Context, actor *models.JWTClaims) ([]models.OutwardRecord, error)
	States() dto.StatesResponse
}

// RecordHandler registers inward and outward correspondence.
type RecordHandler struct {
	records recordService
}

// NewRecordHandler constructs handler.
func NewRecordHandler(records recordService) *RecordHandler {
	return &RecordHandler{records: records}
}

// CreateInward godoc
// @Summary Register an inward record
// @Tags Records
// @Accept json
// @Produce json
// @Param payload body dto.InwardRequest true "Inward record"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /inward [post]
func (h *RecordHandler) CreateInward(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req dto.InwardRequest
	if !bindJSON(c, &req, "invalid inward payload") {
		return
	}

	record, err := h.records.CreateInward(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// CreateOutward godoc
// @Summary Register an outward record
// @Description Linking an inward number marks that inward as replied.
// @Tags Records
// @Accept json
// @Produce json
// @Param payload body dto.OutwardRequest true "Outward record"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /outward [post]
func (h *RecordHandler) CreateOutward(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req dto.OutwardRequest
	if !bindJSON(c, &req, "invalid outward payload") {
		return
	}

	record, err := h.records.CreateOutward(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// SearchInward godoc
// @Summary Search inward records by number prefix
// @Tags Records
// @Produce json
// @Param q query string true "Inward number prefix"
// @Success 200 {object} response.Envelope
// @Router /inward/search [get]
func (h *RecordHandler) SearchInward(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}

	records, err := h.records.SearchInward(c.Request.Context(), claims, c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// RecentInward godoc
// @Summary Latest inward records of the caller's group
// @Tags Records
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /inward/recent [get]
func (h *RecordHandler) RecentInward(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}

	records, err := h.records.RecentInward(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// RecentOutward godoc
// @Summary Latest outward records of the caller's group
// @Tags Records
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /outward/recent [get]
func (h *RecordHandler) RecentOutward(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}

	records, err := h.records.RecentOutward(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// States godoc
// @Summary States grouped by language region
// @Tags Records
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /regions/states [get]
func (h *RecordHandler) States(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.records.States(), nil)
}
