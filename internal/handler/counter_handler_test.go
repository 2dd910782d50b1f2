package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rajbhasha-api/internal/dto"
	"github.com/noah-isme/rajbhasha-api/internal/models"
	appErrors "github.com/noah-isme/rajbhasha-api/pkg/errors"
	"github.com/noah-isme/rajbhasha-api/pkg/region"
)

type counterServiceStub struct {
	notings dto.NotingsCountRequest
	emails  dto.EmailCountRequest
	period  dto.CounterPeriodRequest
	actor   *models.JWTClaims
	err     error
}

func (s *counterServiceStub) UpsertNotingsCount(_ context.Context, actor *models.JWTClaims, req dto.NotingsCountRequest) (*models.NotingsCount, error) {
	s.actor, s.notings = actor, req
	if s.err != nil {
		return nil, s.err
	}
	return &models.NotingsCount{GroupName: actor.GroupName, Month: req.Month, Year: req.Year, EntryType: models.NotingsEntryType(req.EntryType)}, nil
}

func (s *counterServiceStub) UpsertEmailCount(_ context.Context, actor *models.JWTClaims, req dto.EmailCountRequest) (*models.EmailCount, error) {
	s.actor, s.emails = actor, req
	if s.err != nil {
		return nil, s.err
	}
	return &models.EmailCount{GroupName: actor.GroupName, Month: req.Month, Year: req.Year, Region: region.Region(req.Region)}, nil
}

func (s *counterServiceStub) ListNotingsCounts(_ context.Context, actor *models.JWTClaims, req dto.CounterPeriodRequest) ([]models.NotingsCount, error) {
	s.actor, s.period = actor, req
	if s.err != nil {
		return nil, s.err
	}
	return []models.NotingsCount{{GroupName: actor.GroupName, Month: req.Month, Year: req.Year, EntryType: models.NotingsNoting, HindiPages: 4}}, nil
}

func (s *counterServiceStub) ListEmailCounts(_ context.Context, actor *models.JWTClaims, req dto.CounterPeriodRequest) ([]models.EmailCount, error) {
	s.actor, s.period = actor, req
	if s.err != nil {
		return nil, s.err
	}
	return []models.EmailCount{}, nil
}

func TestSaveNotings(t *testing.T) {
	stub := &counterServiceStub{}
	h := NewCounterHandler(stub)

	c, w := newGinContext(http.MethodPost, "/notings/save", []byte(`{"month":3,"year":2024,"entry_type":"Noting","hindi":4,"english":2}`))
	asUser(c, hrUser)
	h.SaveNotings(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, hrUser, stub.actor)
	assert.Equal(t, 4, stub.notings.Hindi)
	assert.Contains(t, w.Body.String(), `"HR"`)
}

func TestSaveEmails(t *testing.T) {
	stub := &counterServiceStub{}
	h := NewCounterHandler(stub)

	c, w := newGinContext(http.MethodPost, "/emails/save", []byte(`{"month":3,"year":2024,"entry_type":"Received","region":"B","total_english":5,"total_hindi":1}`))
	asUser(c, hrUser)
	h.SaveEmails(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "B", stub.emails.Region)
	assert.Equal(t, 5, stub.emails.TotalEnglish)
}

func TestSaveCountersErrors(t *testing.T) {
	h := NewCounterHandler(&counterServiceStub{err: appErrors.Validation("region must be one of A B C")})

	c, w := newGinContext(http.MethodPost, "/emails/save", []byte(`{"month":3,"year":2024,"entry_type":"Received","region":"D"}`))
	asUser(c, hrUser)
	h.SaveEmails(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newGinContext(http.MethodPost, "/notings/save", []byte(`{"month":"three"}`))
	asUser(c, hrUser)
	h.SaveNotings(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newGinContext(http.MethodPost, "/notings/save", []byte(`{}`))
	h.SaveNotings(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListCounters(t *testing.T) {
	stub := &counterServiceStub{}
	h := NewCounterHandler(stub)

	c, w := newGinContext(http.MethodGet, "/notings?month=3&year=2024&group=Finance", nil)
	asUser(c, hrUser)
	h.Notings(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.CounterPeriodRequest{Month: 3, Year: 2024, Group: "Finance"}, stub.period)
	assert.Contains(t, w.Body.String(), `"hindi_pages":4`)

	c, w = newGinContext(http.MethodGet, "/emails?month=3&year=2024", nil)
	asUser(c, hrUser)
	h.Emails(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)

	c, w = newGinContext(http.MethodGet, "/emails?month=March&year=2024", nil)
	asUser(c, hrUser)
	h.Emails(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newGinContext(http.MethodGet, "/notings?month=3&year=2024", nil)
	h.Notings(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
