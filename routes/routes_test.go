package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"OdontoSystem/cache"
	"OdontoSystem/config"
	"OdontoSystem/database"
	"OdontoSystem/logger"
	"OdontoSystem/models"
	"OdontoSystem/repositories"
	"OdontoSystem/services"
	"OdontoSystem/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.BcryptCost = bcrypt.MinCost
}

type apiFixture struct {
	t       *testing.T
	handler http.Handler
	store   database.Store
}

func newAPI(t *testing.T, requireAuth bool) *apiFixture {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	store := database.NewGormStore(db, time.Second)

	tokens, err := utils.NewTokenMaker("0123456789abcdef0123456789abcdef", 8*time.Hour)
	require.NoError(t, err)

	cfg := &config.AppConfig{
		Env:                  "test",
		RequireAuthOnRecords: requireAuth,
		CorsAllowedOrigins:   []string{"http://localhost:8501"},
		RateLimitRPS:         1000,
		RateLimitBurst:       1000,
		LoginAttempts:        10,
		LoginWindow:          time.Minute,
	}
	handler := SetupRoutes(Dependencies{
		Config: cfg,
		Store:  store,
		Cache:  cache.NewMemory(),
		Tokens: tokens,
		Logger: logger.Nop(),
	})

	users := services.NewUserService(repositories.NewUserRepository(store), nil)
	for _, u := range []models.NewUserInput{
		{Name: "Admin", Email: "admin@clinic.com", Password: "secret1", Role: models.RoleAdmin},
		{Name: "Rita", Email: "rita@clinic.com", Password: "secret1", Role: models.RoleReceptionist},
	} {
		_, err := users.Create(context.Background(), u)
		require.NoError(t, err)
	}
	return &apiFixture{t: t, handler: handler, store: store}
}

func (f *apiFixture) do(method, path, token string, body any) *httptest.ResponseRecorder {
	f.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(f.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *apiFixture) login(email string) string {
	f.t.Helper()
	rec := f.do(http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": "secret1"})
	require.Equal(f.t, http.StatusOK, rec.Code, rec.Body.String())
	var res models.LoginResult
	require.NoError(f.t, json.Unmarshal(rec.Body.Bytes(), &res))
	return res.AccessToken
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestRootHealthAndMetrics(t *testing.T) {
	f := newAPI(t, true)

	rec := f.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "OdontoSystem API")

	rec = f.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "odonto_http_requests_total")
}

func TestLoginAndProfile(t *testing.T) {
	f := newAPI(t, true)

	rec := f.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "admin@clinic.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "incorrect email or password", decode[map[string]string](t, rec)["error"])

	token := f.login("admin@clinic.com")
	rec = f.do(http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[map[string]any](t, rec)
	assert.Equal(t, "admin", me["role"])
	assert.NotContains(t, me, "password_hash")

	rec = f.do(http.MethodPost, "/auth/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = f.do(http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Reset routes are only mounted with SMTP configured.
	rec = f.do(http.MethodPost, "/auth/send-reset-code", "", map[string]string{"email": "admin@clinic.com"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUserAdministrationRequiresAdmin(t *testing.T) {
	f := newAPI(t, true)
	admin := f.login("admin@clinic.com")
	staff := f.login("rita@clinic.com")

	rec := f.do(http.MethodGet, "/auth/users", staff, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(http.MethodGet, "/auth/users", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	users := decode[[]models.UserProfile](t, rec)
	require.Len(t, users, 2)
	assert.Equal(t, "Admin", users[0].Name)

	rec = f.do(http.MethodPost, "/auth/users", admin, map[string]string{
		"name": "Davi", "email": "davi@clinic.com", "password": "secret1", "role": "dentist",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[models.UserProfile](t, rec)

	rec = f.do(http.MethodPost, "/auth/users", admin, map[string]string{
		"name": "Davi", "email": "davi@clinic.com", "password": "secret1", "role": "dentist",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(http.MethodDelete, "/auth/users/"+created.ID, admin, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(http.MethodPost, "/auth/login", "", map[string]string{"email": "davi@clinic.com", "password": "secret1"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	me := decode[models.UserProfile](t, f.do(http.MethodGet, "/auth/me", admin, nil))
	rec = f.do(http.MethodDelete, "/auth/users/"+me.ID, admin, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPatientRoutes(t *testing.T) {
	f := newAPI(t, true)
	token := f.login("rita@clinic.com")

	rec := f.do(http.MethodGet, "/patients", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodPost, "/patients", token, map[string]string{"name": "Ana"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPost, "/patients", token, `{"name":"Ana","phone":"555","nickname":"A"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPost, "/patients", token, map[string]string{"name": "Ana", "phone": "555", "birth_date": "1990-05-04T10:00:00"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	patient := decode[models.Patient](t, rec)
	assert.True(t, patient.Active)
	require.NotNil(t, patient.BirthDate)
	assert.Equal(t, models.Date("1990-05-04"), *patient.BirthDate)

	rec = f.do(http.MethodGet, "/patients?sort=name", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPut, "/patients/"+patient.ID, token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodDelete, "/patients/"+patient.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(http.MethodGet, "/patients/"+patient.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[models.Patient](t, rec).Active)

	rec = f.do(http.MethodGet, "/patients?active=true", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]models.Patient](t, rec))

	rec = f.do(http.MethodGet, "/patients/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecordsOpenWhenAuthDisabled(t *testing.T) {
	f := newAPI(t, false)
	rec := f.do(http.MethodGet, "/dentists", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestAppointmentRoutes(t *testing.T) {
	f := newAPI(t, true)
	token := f.login("rita@clinic.com")

	body := map[string]string{"patient_id": "p1", "dentist_id": "d1", "starts_at": "2025-03-01T10:00:00-03:00"}
	rec := f.do(http.MethodPost, "/appointments", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	appt := decode[models.Appointment](t, rec)
	assert.Equal(t, models.DateTime("2025-03-01T13:00:00Z"), appt.StartsAt)
	assert.Equal(t, models.StatusScheduled, appt.Status)

	rec = f.do(http.MethodPost, "/appointments", token, map[string]string{"patient_id": "p2", "dentist_id": "d1", "starts_at": "2025-03-01T13:00:00Z"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(http.MethodGet, "/appointments?date=2025-03-01&dentist_id=d1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Appointment](t, rec), 1)

	rec = f.do(http.MethodGet, "/appointments?date=03/01/2025", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodDelete, "/appointments/"+appt.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(http.MethodGet, "/appointments?status=canceled", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Appointment](t, rec), 1)
}

func TestFinanceRoutes(t *testing.T) {
	f := newAPI(t, true)
	token := f.login("rita@clinic.com")

	rec := f.do(http.MethodGet, "/finance/clinic/categories", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	categories := decode[map[string][]string](t, rec)
	assert.Contains(t, categories["expense"], "Dental Supplies")

	rec = f.do(http.MethodPost, "/finance/personal", token, `{"type":"expense","description":"Market","amount":150,"entry_date":"2025-03-10","category":"Food"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(http.MethodPost, "/finance/personal", token, `{"type":"expense","description":"X","amount":-1,"entry_date":"2025-03-10","category":"Food"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPost, "/finance/personal/goals", token, `{"category":"Food","target_amount":200,"month":3,"year":2025}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(http.MethodGet, "/finance/personal/summary?month=3&year=2025", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"month": 3, "year": 2025, "income": 0, "expense": 150, "balance": -150,
		"per_category": {"Food": 150},
		"goals": [{"category": "Food", "goal": 200, "spent": 150, "remaining": 50, "percent": 75}]
	}`, rec.Body.String())

	rec = f.do(http.MethodGet, "/finance/clinic/summary?month=3&year=2025", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "goals")

	rec = f.do(http.MethodGet, "/finance/clinic/goals", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(http.MethodGet, "/finance/personal?month=3&year=2025&type=expense", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.LedgerEntry](t, rec), 1)

	rec = f.do(http.MethodGet, "/finance/personal?month=abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
