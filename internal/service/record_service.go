package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/rajbhasha-api/internal/dto"
	"github.com/noah-isme/rajbhasha-api/internal/models"
	"github.com/noah-isme/rajbhasha-api/internal/repository"
	appErrors "github.com/noah-isme/rajbhasha-api/pkg/errors"
	"github.com/noah-isme/rajbhasha-api/pkg/region"
)

type recordRepository interface {
	NextInwardSequence(ctx context.Context) (int64, error)
	NextOutwardSequence(ctx context.Context) (int64, error)
	CreateInward(ctx context.Context, rec *models.InwardRecord) error
	CreateOutward(ctx context.Context, rec *models.OutwardRecord) error
	FindInwardByNo(ctx context.Context, inwardNo string) (*models.InwardRecord, error)
	IsInwardLinked(ctx context.Context, inwardSNo int64) (bool, error)
	SyncInwardReply(ctx context.Context, sync models.InwardReplySync) error
	SearchInward(ctx context.Context, prefix string, scope models.RecordScope) ([]models.InwardRecord, error)
	RecentInward(ctx context.Context, scope models.RecordScope) ([]models.InwardRecord, error)
	RecentOutward(ctx context.Context, scope models.RecordScope) ([]models.OutwardRecord, error)
}

var (
	alphaSpacePattern = regexp.MustCompile(`^[A-Za-z ]+$`)
	personNamePattern = regexp.MustCompile(`^[A-Za-z .]+$`)
	pinPattern        = regexp.MustCompile(`^[0-9]{6}$`)
)

// recordRule makes fields required or clears them when trigger field holds value.
type recordRule struct {
	Field    string
	Value    string
	Required []string
	Nulled   []string
}

var recordRules = []recordRule{
	{Field: "reply_required", Value: models.ReplyRequiredYes, Required: []string{"reply_sent_date", "reply_sent_in"}},
	{Field: "reply_required", Value: models.ReplyRequiredNo, Nulled: []string{"reply_sent_date", "reply_ref_no", "reply_sent_by", "reply_sent_in", "reply_count"}},
	{Field: "type_of_document", Value: models.DocumentTypeOther, Required: []string{"other_document"}},
}

// ruleField exposes one form field to the rule table.
type ruleField struct {
	get   func() string
	clear func()
}

func stringField(p *string) ruleField {
	return ruleField{get: func() string { return strings.TrimSpace(*p) }, clear: func() { *p = "" }}
}

func formFields(reply *dto.ReplyFields, docType, otherDoc *string) map[string]ruleField {
	return map[string]ruleField{
		"reply_required":   stringField(&reply.ReplyRequired),
		"reply_sent_date":  stringField(&reply.ReplySentDate),
		"reply_ref_no":     stringField(&reply.ReplyRefNo),
		"reply_sent_by":    stringField(&reply.ReplySentBy),
		"reply_sent_in":    stringField(&reply.ReplySentIn),
		"type_of_document": stringField(docType),
		"other_document":   stringField(otherDoc),
		"reply_count": {
			get: func() string {
				if reply.ReplyCount == nil {
					return ""
				}
				return fmt.Sprint(*reply.ReplyCount)
			},
			clear: func() { reply.ReplyCount = nil },
		},
	}
}

// applyRecordRules clears dependent fields and reports the first missing required one.
func applyRecordRules(fields map[string]ruleField) error {
	for _, rule := range recordRules {
		trigger, ok := fields[rule.Field]
		if !ok || trigger.get() != rule.Value {
			continue
		}
		for _, name := range rule.Nulled {
			if f, ok := fields[name]; ok {
				f.clear()
			}
		}
		for _, name := range rule.Required {
			if f, ok := fields[name]; ok && f.get() == "" {
				return appErrors.Validation(fmt.Sprintf("%s is required when %s is %s", name, rule.Field, rule.Value))
			}
		}
	}
	return nil
}

// RecordService registers inward and outward correspondence.
type RecordService struct {
	repo      recordRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRecordService constructs the record service and registers its validators.
func NewRecordService(repo recordRepository, validate *validator.Validate, logger *zap.Logger) *RecordService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &RecordService{repo: repo, validator: validate, logger: logger}
	svc.validator.RegisterValidation("alphaspace", func(fl validator.FieldLevel) bool {
		return alphaSpacePattern.MatchString(fl.Field().String())
	})
	svc.validator.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return personNamePattern.MatchString(fl.Field().String())
	})
	svc.validator.RegisterValidation("pin", func(fl validator.FieldLevel) bool {
		return pinPattern.MatchString(fl.Field().String())
	})
	return svc
}

// CreateInward validates and stores an inward letter.
func (s *RecordService) CreateInward(ctx context.Context, actor *models.JWTClaims, req dto.InwardRequest) (*models.InwardRecord, error) {
	if err := applyRecordRules(formFields(&req.ReplyFields, &req.TypeOfDocument, &req.OtherDocument)); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid inward payload")
	}
	group, err := resolveGroup(actor, req.Group)
	if err != nil {
		return nil, err
	}
	received, err := time.Parse(time.DateOnly, req.DateOfReceipt)
	if err != nil {
		return nil, appErrors.Validation("date_of_receipt must be YYYY-MM-DD")
	}
	reply, err := buildReplyMetadata(req.ReplyFields)
	if err != nil {
		return nil, err
	}

	seq, err := s.repo.NextInwardSequence(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to allocate inward number")
	}

	rec := &models.InwardRecord{
		InwardNo:        formatRecordNo("INW", received.Year(), seq),
		DateOfReceipt:   received,
		Office:          strings.TrimSpace(req.Office),
		GroupName:       group,
		NameOfSender:    strings.TrimSpace(req.NameOfSender),
		AddressOfSender: strings.TrimSpace(req.AddressOfSender),
		SenderCity:      strings.TrimSpace(req.SenderCity),
		SenderState:     req.SenderState,
		SenderPin:       req.SenderPin,
		SenderRegion:    region.Classify(req.SenderState),
		SenderOrgType:   req.SenderOrgType,
		TypeOfDocument:  documentType(req.TypeOfDocument, req.OtherDocument),
		Language:        models.Language(req.Language),
		Count:           req.Count,
		Remarks:         req.Remarks,
		ReplyMetadata:   reply,
		CreatedBy:       actor.UserID,
	}
	if err := s.repo.CreateInward(ctx, rec); err != nil {
		return nil, appErrors.Internal(err, "failed to save inward record")
	}
	s.logger.Info("inward record created", zap.String("inward_no", rec.InwardNo), zap.String("group", group))
	return rec, nil
}

// CreateOutward validates and stores an outward letter. When it answers an
// inward letter the inward row's reply fields are updated afterwards; that
// update is not transactional and a failure is only logged.
func (s *RecordService) CreateOutward(ctx context.Context, actor *models.JWTClaims, req dto.OutwardRequest) (*models.OutwardRecord, error) {
	if err := applyRecordRules(formFields(&req.ReplyFields, &req.TypeOfDocument, &req.OtherDocument)); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid outward payload")
	}
	group, err := resolveGroup(actor, req.Group)
	if err != nil {
		return nil, err
	}
	despatched, err := time.Parse(time.DateOnly, req.DateOfDespatch)
	if err != nil {
		return nil, appErrors.Validation("date_of_despatch must be YYYY-MM-DD")
	}
	reply, err := buildReplyMetadata(req.ReplyFields)
	if err != nil {
		return nil, err
	}

	rec := &models.OutwardRecord{
		DateOfDespatch:    despatched,
		Office:            strings.TrimSpace(req.Office),
		GroupName:         group,
		NameOfReceiver:    strings.TrimSpace(req.NameOfReceiver),
		AddressOfReceiver: strings.TrimSpace(req.AddressOfReceiver),
		ReceiverCity:      strings.TrimSpace(req.ReceiverCity),
		ReceiverState:     req.ReceiverState,
		ReceiverPin:       req.ReceiverPin,
		ReceiverRegion:    region.Classify(req.ReceiverState),
		ReceiverOrgType:   req.ReceiverOrgType,
		TypeOfDocument:    documentType(req.TypeOfDocument, req.OtherDocument),
		Language:          models.Language(req.Language),
		Count:             req.Count,
		Remarks:           req.Remarks,
		ReplyMetadata:     reply,
		ReplyIssuedBy:     strings.TrimSpace(req.ReplyIssuedBy),
		CreatedBy:         actor.UserID,
	}

	if inwardNo := strings.TrimSpace(req.InwardNo); inwardNo != "" {
		inward, err := s.repo.FindInwardByNo(ctx, inwardNo)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "inward record not found")
			}
			return nil, appErrors.Internal(err, "failed to load inward record")
		}
		linked, err := s.repo.IsInwardLinked(ctx, inward.SNo)
		if err != nil {
			return nil, appErrors.Internal(err, "failed to check inward link")
		}
		if linked {
			return nil, appErrors.Clone(appErrors.ErrConflict, "inward record already has a reply")
		}
		original := inward.Language
		rec.InwardNo = &inward.InwardNo
		rec.InwardSNo = &inward.SNo
		rec.OriginalLanguage = &original
	}

	seq, err := s.repo.NextOutwardSequence(ctx)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to allocate outward number")
	}
	rec.OutwardNo = formatRecordNo("OUT", despatched.Year(), seq)

	if err := s.repo.CreateOutward(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrInwardAlreadyLinked) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "inward record already has a reply")
		}
		return nil, appErrors.Internal(err, "failed to save outward record")
	}
	s.logger.Info("outward record created", zap.String("outward_no", rec.OutwardNo), zap.String("group", group))

	if rec.InwardSNo != nil {
		sync := models.InwardReplySync{
			InwardSNo:     *rec.InwardSNo,
			ReplyRequired: models.ReplyRequiredYes,
			ReplySentDate: rec.DateOfDespatch,
			ReplyRefNo:    rec.OutwardNo,
			ReplySentBy:   rec.ReplyIssuedBy,
			ReplySentIn:   rec.Language,
			ReplyCount:    rec.Count,
		}
		if err := s.repo.SyncInwardReply(ctx, sync); err != nil {
			s.logger.Warn("inward reply sync failed",
				zap.String("outward_no", rec.OutwardNo),
				zap.Int64("inward_s_no", sync.InwardSNo),
				zap.Error(err),
			)
		}
	}
	return rec, nil
}

// SearchInward suggests inward numbers for the outward form.
func (s *RecordService) SearchInward(ctx context.Context, actor *models.JWTClaims, prefix string) ([]models.InwardRecord, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return []models.InwardRecord{}, nil
	}
	rows, err := s.repo.SearchInward(ctx, prefix, scopeFor(actor, 10))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to search inward records")
	}
	return rows, nil
}

// RecentInward lists the caller's latest inward entries.
func (s *RecordService) RecentInward(ctx context.Context, actor *models.JWTClaims) ([]models.InwardRecord, error) {
	rows, err := s.repo.RecentInward(ctx, scopeFor(actor, 5))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list inward records")
	}
	return rows, nil
}

// RecentOutward lists the caller's latest outward entries.
func (s *RecordService) RecentOutward(ctx context.Context, actor *models.JWTClaims) ([]models.OutwardRecord, error) {
	rows, err := s.repo.RecentOutward(ctx, scopeFor(actor, 5))
	if err != nil {
		return nil, appErrors.Internal(err, "failed to list outward records")
	}
	return rows, nil
}

// States lists the states of every reported region for the entry forms.
func (s *RecordService) States() dto.StatesResponse {
	return dto.StatesResponse{
		A: region.States(region.A),
		B: region.States(region.B),
		C: region.States(region.C),
	}
}

func scopeFor(actor *models.JWTClaims, limit int) models.RecordScope {
	scope := models.RecordScope{Limit: limit}
	if actor != nil && !actor.IsAdmin() {
		scope.Group = actor.GroupName
	}
	return scope
}

func formatRecordNo(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s/%d/%06d", prefix, year, seq)
}

func documentType(docType, other string) string {
	if docType == models.DocumentTypeOther {
		return strings.TrimSpace(other)
	}
	return docType
}

func buildReplyMetadata(f dto.ReplyFields) (models.ReplyMetadata, error) {
	meta := models.ReplyMetadata{ReplyRequired: f.ReplyRequired, ReplyCount: f.ReplyCount}
	if f.ReplySentDate != "" {
		sent, err := time.Parse(time.DateOnly, f.ReplySentDate)
		if err != nil {
			return meta, appErrors.Validation("reply_sent_date must be YYYY-MM-DD")
		}
		meta.ReplySentDate = &sent
	}
	meta.ReplyRefNo = optionalString(f.ReplyRefNo)
	meta.ReplySentBy = optionalString(f.ReplySentBy)
	meta.ReplySentIn = optionalString(f.ReplySentIn)
	return meta, nil
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
