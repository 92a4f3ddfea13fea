package middlewares

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"OdontoSystem/apperrors"
	"OdontoSystem/logger"
	"OdontoSystem/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuthenticator map[string]*utils.TokenClaims

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (*utils.TokenClaims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, apperrors.Unauthorized("invalid or expired token")
}

func newProtectedRouter() *gin.Engine {
	auth := stubAuthenticator{
		"admin-token": {UserID: "u1", Role: "admin"},
		"staff-token": {UserID: "u2", Role: "receptionist"},
	}
	r := gin.New()
	r.Use(RequestID(logger.Nop()))
	r.GET("/me", TokenAuthMiddleware(auth), func(c *gin.Context) {
		id, _ := ExtractUserIDFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"id": id})
	})
	r.GET("/admin", TokenAuthMiddleware(auth), RoleAuthMiddleware("admin"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func doRequest(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestTokenAuthMiddleware(t *testing.T) {
	r := newProtectedRouter()

	rec := doRequest(r, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "missing bearer token", errorBody(t, rec))

	rec = doRequest(r, http.MethodGet, "/me", "forged")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid or expired token", errorBody(t, rec))

	rec = doRequest(r, http.MethodGet, "/me", "staff-token")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"u2"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestRoleAuthMiddleware(t *testing.T) {
	r := newProtectedRouter()

	rec := doRequest(r, http.MethodGet, "/admin", "staff-token")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(r, http.MethodGet, "/admin", "admin-token")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHttpErrorHidesInternalDetails(t *testing.T) {
	r := gin.New()
	r.GET("/down", func(c *gin.Context) {
		HttpError(c, apperrors.Wrap(apperrors.CodeUnavailable, assert.AnError, "connection refused to db:5432"))
	})
	r.GET("/boom", func(c *gin.Context) {
		HttpError(c, assert.AnError)
	})

	rec := doRequest(r, http.MethodGet, "/down", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "data store unavailable", errorBody(t, rec))

	rec = doRequest(r, http.MethodGet, "/boom", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", errorBody(t, rec))
}

func TestBindJSONRejectsUnknownFields(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	r := gin.New()
	r.POST("/items", func(c *gin.Context) {
		var in payload
		if !BindJSON(c, &in) {
			return
		}
		c.JSON(http.StatusOK, in)
	})
	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/items", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	rec := post(`{"name":"Ana"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"Ana"}`, rec.Body.String())

	rec = post(`{"name":"Ana","admin":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorBody(t, rec), `unknown field "admin"`)

	rec = post(``)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Strictness is local to BindJSON and leaves gin's package settings alone.
	assert.False(t, binding.EnableDecoderDisallowUnknownFields)
}

func TestRateLimiterPerClient(t *testing.T) {
	r := gin.New()
	r.Use(NewRateLimiterMiddleware(RateLimiterConfig{RequestsPerSecond: 0.001, Burst: 2}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, doRequest(r, http.MethodGet, "/", "").Code)
	}
	rec := doRequest(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate limit exceeded", errorBody(t, rec))

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "10.0.0.9:1234"
	otherRec := httptest.NewRecorder()
	r.ServeHTTP(otherRec, other)
	assert.Equal(t, http.StatusOK, otherRec.Code)
}

func TestMetricsMiddlewareCountsRoutes(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)

	r := gin.New()
	r.Use(metrics.Middleware())
	r.GET("/patients/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	doRequest(r, http.MethodGet, "/patients/1", "")
	doRequest(r, http.MethodGet, "/patients/2", "")

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.requests.WithLabelValues("/patients/:id", http.MethodGet, "200")))
}

func TestBearerTokenParsing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	c.Request.Header.Set("Authorization", "bearer abc")
	token, ok := bearerToken(c)
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	c.Request.Header.Set("Authorization", "Basic abc")
	_, ok = bearerToken(c)
	assert.False(t, ok)

	c.Request.Header.Set("Authorization", "Bearer ")
	_, ok = bearerToken(c)
	assert.False(t, ok)
}
