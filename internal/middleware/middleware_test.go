package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/rajbhasha-api/internal/models"
	"github.com/noah-isme/rajbhasha-api/internal/service"
	appErrors "github.com/noah-isme/rajbhasha-api/pkg/errors"
)

type validatorStub struct {
	claims *models.JWTClaims
	err    error
	token  string
}

func (v *validatorStub) ValidateToken(token string) (*models.JWTClaims, error) {
	v.token = token
	return v.claims, v.err
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/reports", append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": CurrentUser(c)})
	})...)
	return r
}

func doRequest(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/reports", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code
}

func TestJWTRejectsMissingAndMalformedHeaders(t *testing.T) {
	stub := &validatorStub{claims: &models.JWTClaims{UserID: "u-1"}}
	r := newRouter(JWT(stub))

	for _, header := range []string{"", "Token abc", "Bearer ", "Bearer"} {
		w := doRequest(r, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
		assert.Equal(t, "UNAUTHORIZED", errorCode(t, w), header)
	}
	assert.Empty(t, stub.token)
}

func TestJWTPropagatesValidatorError(t *testing.T) {
	stub := &validatorStub{err: appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")}
	w := doRequest(newRouter(JWT(stub)), "Bearer expired")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "expired", stub.token)
}

func TestJWTStoresClaims(t *testing.T) {
	stub := &validatorStub{claims: &models.JWTClaims{UserID: "u-1", Role: models.RoleUser, GroupName: "HR"}}
	w := doRequest(newRouter(JWT(stub)), "bearer good-token")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"u-1"`)
}

func TestRequireRoles(t *testing.T) {
	user := &validatorStub{claims: &models.JWTClaims{UserID: "u-1", Role: models.RoleUser}}
	admin := &validatorStub{claims: &models.JWTClaims{UserID: "a-1", Role: models.RoleAdmin}}

	w := doRequest(newRouter(JWT(user), RequireRoles(models.RoleAdmin)), "Bearer t")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(t, w))

	w = doRequest(newRouter(JWT(admin), RequireRoles(models.RoleAdmin)), "Bearer t")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(newRouter(RequireRoles(models.RoleAdmin)), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestResponseMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var meta map[string]interface{}
	r := gin.New()
	r.Use(WithResponseMeta())
	r.Use(func(c *gin.Context) {
		c.Next()
		meta = ExtractMeta(c)
	})
	r.GET("/pdf", func(c *gin.Context) {
		SetCacheHit(c, true)
		c.Status(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/pdf", nil))
	require.NotNil(t, meta)
	assert.Equal(t, true, meta["cache_hit"])
}

func TestSetCacheHitWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, ExtractMeta(c))
	SetCacheHit(c, false)
	assert.Equal(t, false, ExtractMeta(c)["cache_hit"])
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/reports/:id/status", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/reports/abc/status", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/reports/def/status", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	count, err := testutil.GatherAndCount(metrics.Registry(), "http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMetricsSkipsOperationalRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(Metrics(metrics))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/inwards", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/inwards", nil))

	count, err := testutil.GatherAndCount(metrics.Registry(), "http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
