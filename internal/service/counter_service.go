package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/rajbhasha-api/internal/dto"
	"github.com/noah-isme/rajbhasha-api/internal/models"
	appErrors "github.com/noah-isme/rajbhasha-api/pkg/errors"
	"github.com/noah-isme/rajbhasha-api/pkg/region"
)

type counterRepository interface {
	UpsertEmailCount(ctx context.Context, count *models.EmailCount) error
	UpsertNotingsCount(ctx context.Context, count *models.NotingsCount) error
	ListEmailCounts(ctx context.Context, period models.CounterPeriod) ([]models.EmailCount, error)
	ListNotingsCounts(ctx context.Context, period models.CounterPeriod) ([]models.NotingsCount, error)
}

// CounterService records the monthly notings and email forms.
type CounterService struct {
	repo      counterRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewCounterService constructs the counter service.
func NewCounterService(repo counterRepository, validate *validator.Validate, logger *zap.Logger) *CounterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CounterService{repo: repo, validator: validate, logger: logger, now: time.Now}
}

// UpsertNotingsCount stores the notings entry for the caller's group, replacing
// any earlier entry for the same month and entry type.
func (s *CounterService) UpsertNotingsCount(ctx context.Context, actor *models.JWTClaims, req dto.NotingsCountRequest) (*models.NotingsCount, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notings payload")
	}
	group, err := resolveGroup(actor, req.Group)
	if err != nil {
		return nil, err
	}

	count := &models.NotingsCount{
		GroupName: group,
		Month:     req.Month,
		Year:      req.Year,
		EntryType: models.NotingsEntryType(req.EntryType),
		UpdatedAt: s.now().UTC(),
	}
	switch count.EntryType {
	case models.NotingsComment:
		count.EofficeComments = clampCount(req.Eoffice)
	default:
		count.HindiPages = clampCount(req.Hindi)
		count.EnglishPages = clampCount(req.English)
	}

	if err := s.repo.UpsertNotingsCount(ctx, count); err != nil {
		return nil, appErrors.Internal(err, "failed to save notings")
	}
	s.logger.Info("notings saved",
		zap.String("group", group),
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
		zap.String("entry_type", req.EntryType),
	)
	return count, nil
}

// UpsertEmailCount stores the email entry for the caller's group, replacing
// any earlier entry for the same month, entry type and region.
func (s *CounterService) UpsertEmailCount(ctx context.Context, actor *models.JWTClaims, req dto.EmailCountRequest) (*models.EmailCount, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid email count payload")
	}
	group, err := resolveGroup(actor, req.Group)
	if err != nil {
		return nil, err
	}

	count := &models.EmailCount{
		GroupName:    group,
		Month:        req.Month,
		Year:         req.Year,
		EntryType:    models.EmailEntryType(req.EntryType),
		Region:       region.Parse(req.Region),
		TotalEnglish: clampCount(req.TotalEnglish),
		TotalHindi:   clampCount(req.TotalHindi),
		UpdatedAt:    s.now().UTC(),
	}
	if err := s.repo.UpsertEmailCount(ctx, count); err != nil {
		return nil, appErrors.Internal(err, "failed to save email count")
	}
	s.logger.Info("email count saved",
		zap.String("group", group),
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
		zap.String("entry_type", req.EntryType),
		zap.String("region", req.Region),
	)
	return count, nil
}

// ListNotingsCounts returns the notings saved for a month so the form can be
// pre-filled.
func (s *CounterService) ListNotingsCounts(ctx context.Context, actor *models.JWTClaims, req dto.CounterPeriodRequest) ([]models.NotingsCount, error) {
	period, err := s.period(actor, req)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListNotingsCounts(ctx, period)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load notings")
	}
	return rows, nil
}

// ListEmailCounts returns the email counters saved for a month.
func (s *CounterService) ListEmailCounts(ctx context.Context, actor *models.JWTClaims, req dto.CounterPeriodRequest) ([]models.EmailCount, error) {
	period, err := s.period(actor, req)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListEmailCounts(ctx, period)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to load email counts")
	}
	return rows, nil
}

func (s *CounterService) period(actor *models.JWTClaims, req dto.CounterPeriodRequest) (models.CounterPeriod, error) {
	if err := s.validator.Struct(req); err != nil {
		return models.CounterPeriod{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid counter period")
	}
	if actor == nil {
		return models.CounterPeriod{}, appErrors.ErrUnauthorized
	}
	period := models.CounterPeriod{Month: req.Month, Year: req.Year}
	if actor.IsAdmin() {
		period.Group = strings.TrimSpace(req.Group)
		return period, nil
	}
	group, err := resolveGroup(actor, "")
	if err != nil {
		return models.CounterPeriod{}, err
	}
	period.Group = group
	return period, nil
}

// resolveGroup picks the group a write belongs to. Only admins may name a
// group other than their own.
func resolveGroup(actor *models.JWTClaims, requested string) (string, error) {
	if actor == nil {
		return "", appErrors.ErrUnauthorized
	}
	requested = strings.TrimSpace(requested)
	if actor.IsAdmin() && requested != "" {
		return requested, nil
	}
	if actor.GroupName == "" {
		return "", appErrors.Validation("group is required")
	}
	return actor.GroupName, nil
}

func clampCount(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
