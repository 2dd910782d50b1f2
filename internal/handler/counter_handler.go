package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/rajbhasha-api/internal/dto"
	"github.com/noah-isme/rajbhasha-api/internal/models"
	appErrors "github.com/noah-isme/rajbhasha-api/pkg/errors"
	"github.com/noah-isme/rajbhasha-api/pkg/response"
)

type counterService interface {
	UpsertNotingsCount(ctx context.Context, actor *models.JWTClaims, req dto.NotingsCountRequest) (*models.NotingsCount, error)
	UpsertEmailCount(ctx context.Context, actor *models.JWTClaims, req dto.EmailCountRequest) (*models.EmailCount, error)
	ListNotingsCounts(ctx context.Context, actor *models.JWTClaims, req dto.CounterPeriodRequest) ([]models.NotingsCount, error)
	ListEmailCounts(ctx context.Context, actor *models.JWTClaims, req dto.CounterPeriodRequest) ([]models.EmailCount, error)
}

// CounterHandler saves and reads back the monthly notings and email counters.
type CounterHandler struct {
	counters counterService
}

// NewCounterHandler constructs handler.
func NewCounterHandler(counters counterService) *CounterHandler {
	return &CounterHandler{counters: counters}
}

// SaveNotings godoc
// @Summary Save the monthly notings count
// @Tags Counters
// @Accept json
// @Produce json
// @Param payload body dto.NotingsCountRequest true "Notings count"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /notings/save [post]
func (h *CounterHandler) SaveNotings(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req dto.NotingsCountRequest
	if !bindJSON(c, &req, "invalid notings payload") {
		return
	}

	saved, err := h.counters.UpsertNotingsCount(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, saved, nil)
}

// SaveEmails godoc
// @Summary Save the monthly email count for a region
// @Tags Counters
// @Accept json
// @Produce json
// @Param payload body dto.EmailCountRequest true "Email count"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /emails/save [post]
func (h *CounterHandler) SaveEmails(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	var req dto.EmailCountRequest
	if !bindJSON(c, &req, "invalid email payload") {
		return
	}

	saved, err := h.counters.UpsertEmailCount(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, saved, nil)
}

// Notings godoc
// @Summary List the notings saved for a month
// @Tags Counters
// @Produce json
// @Param month query int true "Month"
// @Param year query int true "Year"
// @Param group query string false "Group (admins only)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /notings [get]
func (h *CounterHandler) Notings(c *gin.Context) {
	claims, req, ok := bindPeriod(c)
	if !ok {
		return
	}
	rows, err := h.counters.ListNotingsCounts(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Emails godoc
// @Summary List the email counters saved for a month
// @Tags Counters
// @Produce json
// @Param month query int true "Month"
// @Param year query int true "Year"
// @Param group query string false "Group (admins only)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /emails [get]
func (h *CounterHandler) Emails(c *gin.Context) {
	claims, req, ok := bindPeriod(c)
	if !ok {
		return
	}
	rows, err := h.counters.ListEmailCounts(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

func bindPeriod(c *gin.Context) (*models.JWTClaims, dto.CounterPeriodRequest, bool) {
	var req dto.CounterPeriodRequest
	claims := requireClaims(c)
	if claims == nil {
		return nil, req, false
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "month and year must be numbers"))
		return nil, req, false
	}
	return claims, req, true
}
