package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rajbhasha-api/internal/models"
	appErrors "github.com/noah-isme/rajbhasha-api/pkg/errors"
)

type authServiceStub struct {
	req models.LoginRequest
	err error
}

func (s *authServiceStub) Login(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	s.req = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.LoginResponse{AccessToken: "token", ExpiresIn: 3600}, nil
}

func TestLoginHandler(t *testing.T) {
	stub := &authServiceStub{}
	h := NewAuthHandler(stub)

	c, w := newGinContext(http.MethodPost, "/auth/login", []byte(`{"email":"meena@example.gov.in","password":"secret"}`))
	h.Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"access_token":"token"`)
	assert.Equal(t, "meena@example.gov.in", stub.req.Email)
}

func TestLoginHandlerInvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&authServiceStub{err: appErrors.ErrInvalidCredentials})

	c, w := newGinContext(http.MethodPost, "/auth/login", []byte(`{"email":"meena@example.gov.in","password":"wrong"}`))
	h.Login(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c, w = newGinContext(http.MethodPost, "/auth/login", []byte(`{`))
	h.Login(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMeHandler(t *testing.T) {
	h := NewAuthHandler(&authServiceStub{})

	c, w := newGinContext(http.MethodGet, "/auth/me", nil)
	asUser(c, hrUser)
	h.Me(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"group_name":"HR"`)

	c, w = newGinContext(http.MethodGet, "/auth/me", nil)
	h.Me(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
