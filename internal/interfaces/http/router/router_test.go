package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	appcrm "github.com/crm/backend/internal/application/crm"
	appidentity "github.com/crm/backend/internal/application/identity"
	domaincrm "github.com/crm/backend/internal/domain/crm"
	domainidentity "github.com/crm/backend/internal/domain/identity"
	"github.com/crm/backend/internal/infrastructure/auth"
	"github.com/crm/backend/internal/infrastructure/cache"
	"github.com/crm/backend/internal/infrastructure/config"
	"github.com/crm/backend/internal/infrastructure/persistence"
	"github.com/crm/backend/internal/infrastructure/ratelimit"
	"github.com/crm/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return newTestRouterWithRateLimit(t, config.RateLimitConfig{
		Enabled: true,
		Global:  config.LimiterConfig{Window: time.Minute, MaxRequests: 1000},
		Auth:    config.LimiterConfig{Window: 15 * time.Minute, MaxRequests: 100},
		API:     config.LimiterConfig{Window: time.Minute, MaxRequests: 1000},
		PerUser: config.LimiterConfig{Window: time.Minute, MaxRequests: 1000},
	})
}

func newTestRouterWithRateLimit(t *testing.T, rl config.RateLimitConfig) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domainidentity.Company{}, &domainidentity.User{},
		&domaincrm.Contact{}, &domaincrm.Deal{}, &domaincrm.Pipeline{},
		&domaincrm.Activity{}, &domaincrm.Task{}, &domaincrm.Note{},
		&domaincrm.Email{}, &domaincrm.Notification{}, &domaincrm.AuditLog{},
		&domaincrm.Report{}, &domaincrm.Integration{},
	))

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := zap.NewNop()
	c := cache.NewCache(client, logger)

	cfg := &config.Config{
		App:       config.AppConfig{Env: "test"},
		RateLimit: rl,
		HTTP:      config.HTTPConfig{CORSAllowOrigins: []string{"*"}},
	}

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "router-test-secret",
		AccessTokenExpiration:  time.Hour,
		RefreshTokenExpiration: 2 * time.Hour,
		Issuer:                 "crm-backend",
	})

	users := persistence.NewGormUserRepository(db)
	companies := persistence.NewGormCompanyRepository(db)
	contacts := persistence.NewGormContactRepository(db)
	deals := persistence.NewGormDealRepository(db)
	pipelines := persistence.NewGormPipelineRepository(db)
	activities := persistence.NewGormActivityRepository(db)
	tasks := persistence.NewGormTaskRepository(db)
	notes := persistence.NewGormNoteRepository(db)
	emails := persistence.NewGormEmailRepository(db)
	notifications := persistence.NewGormNotificationRepository(db)
	audits := persistence.NewGormAuditLogRepository(db)
	reports := persistence.NewGormReportRepository(db)
	integrations := persistence.NewGormIntegrationRepository(db)

	authService := appidentity.NewAuthService(users, companies, persistence.NewGormRegistrar(&persistence.Database{DB: db}), jwtService, logger)
	listTTL := 5 * time.Minute

	handlers := Handlers{
		Auth:         handler.NewAuthHandler(authService),
		User:         handler.NewUserHandler(authService),
		Contact:      handler.NewContactHandler(appcrm.NewContactService(contacts, audits, c, listTTL, logger)),
		Deal:         handler.NewDealHandler(appcrm.NewDealService(deals, pipelines, notifications, audits, c, listTTL, logger)),
		Pipeline:     handler.NewPipelineHandler(appcrm.NewPipelineService(pipelines, audits, logger)),
		Activity:     handler.NewActivityHandler(appcrm.NewActivityService(activities, audits, logger)),
		Task:         handler.NewTaskHandler(appcrm.NewTaskService(tasks, notifications, audits, logger)),
		Note:         handler.NewNoteHandler(appcrm.NewNoteService(notes, audits, logger)),
		Email:        handler.NewEmailHandler(appcrm.NewEmailService(emails, audits, logger)),
		Notification: handler.NewNotificationHandler(appcrm.NewNotificationService(notifications, logger)),
		Audit:        handler.NewAuditHandler(appcrm.NewAuditService(audits, logger)),
		Report:       handler.NewReportHandler(appcrm.NewReportService(reports, audits, logger)),
		Integration:  handler.NewIntegrationHandler(appcrm.NewIntegrationService(integrations, audits, logger)),
		Dashboard:    handler.NewDashboardHandler(appcrm.NewDashboardService(deals, contacts, tasks, c, listTTL, logger)),
		System:       handler.NewSystemHandler(&persistence.Database{DB: db}, client),
	}
	limiters := Limiters{
		Global:  ratelimit.New(client, logger, "global", cfg.RateLimit.Global),
		Auth:    ratelimit.New(client, logger, "auth", cfg.RateLimit.Auth),
		API:     ratelimit.New(client, logger, "api", cfg.RateLimit.API),
		PerUser: ratelimit.New(client, logger, "user", cfg.RateLimit.PerUser),
	}

	return New(cfg, logger, jwtService, handlers, limiters)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func registerAndLogin(t *testing.T, engine *gin.Engine) (token string, companyID string) {
	t.Helper()
	w := doJSON(t, engine, http.MethodPost, "/api/auth/register", "", gin.H{
		"company_name": "Acme Inc",
		"name":         "Alice Admin",
		"email":        "alice@acme.test",
		"password":     "s3cret-pass",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var result struct {
		Company struct {
			ID string `json:"id"`
		} `json:"company"`
		Tokens struct {
			AccessToken string `json:"access_token"`
		} `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	return result.Tokens.AccessToken, result.Company.ID
}

func TestHealthAndReady(t *testing.T) {
	engine := newTestRouter(t)

	w := doJSON(t, engine, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	engine := newTestRouter(t)

	for _, path := range []string{"/api/contacts", "/api/deals", "/api/dashboard/stats"} {
		w := doJSON(t, engine, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestRegisterLoginAndContactFlow(t *testing.T) {
	engine := newTestRouter(t)
	token, _ := registerAndLogin(t, engine)

	// Create
	w := doJSON(t, engine, http.MethodPost, "/api/contacts", token, gin.H{
		"first_name": "Grace",
		"last_name":  "Hopper",
		"email":      "grace@navy.test",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var contact struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &contact))

	// Read back
	w = doJSON(t, engine, http.MethodGet, "/api/contacts/"+contact.ID, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// List with pagination envelope
	w = doJSON(t, engine, http.MethodGet, "/api/contacts?page=1&limit=10", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listBody struct {
		Success    bool `json:"success"`
		Pagination struct {
			Total      int64 `json:"total"`
			TotalPages int   `json:"totalPages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listBody))
	assert.True(t, listBody.Success)
	assert.EqualValues(t, 1, listBody.Pagination.Total)
	assert.Equal(t, 1, listBody.Pagination.TotalPages)

	// Unknown ID is indistinguishable from another tenant's resource
	w = doJSON(t, engine, http.MethodGet, "/api/contacts/00000000-0000-0000-0000-000000000001", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDealStageEndpoint(t *testing.T) {
	engine := newTestRouter(t)
	token, _ := registerAndLogin(t, engine)

	w := doJSON(t, engine, http.MethodPost, "/api/deals", token, gin.H{
		"name":  "Enterprise license",
		"value": "5000",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var deal struct {
		ID    string `json:"id"`
		Stage string `json:"stage"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &deal))
	assert.Equal(t, "prospecting", deal.Stage)

	w = doJSON(t, engine, http.MethodPost, fmt.Sprintf("/api/deals/%s/stage", deal.ID), token, gin.H{
		"stage": "proposal",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	var moved struct {
		Stage       string `json:"stage"`
		Probability int    `json:"probability"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &moved))
	assert.Equal(t, "proposal", moved.Stage)
	assert.Equal(t, 50, moved.Probability, "probability comes from the default pipeline")
}

func TestAuditLogsRequireAdmin(t *testing.T) {
	engine := newTestRouter(t)
	token, _ := registerAndLogin(t, engine)

	// The registering user is an admin and may read the audit trail
	w := doJSON(t, engine, http.MethodGet, "/api/audit-logs", token, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestValidationErrorDetails(t *testing.T) {
	engine := newTestRouter(t)
	token, _ := registerAndLogin(t, engine)

	w := doJSON(t, engine, http.MethodPost, "/api/contacts", token, gin.H{
		"first_name": "OnlyFirst",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Success bool     `json:"success"`
		Details []string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.NotEmpty(t, body.Details)
}

func TestRateLimitHeadersPresent(t *testing.T) {
	engine := newTestRouter(t)

	w := doJSON(t, engine, http.MethodGet, "/health", "", nil)
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Remaining"))
}

func TestAuthLimiterBlocksRepeatedBadLogins(t *testing.T) {
	engine := newTestRouterWithRateLimit(t, config.RateLimitConfig{
		Enabled: true,
		Global:  config.LimiterConfig{Window: time.Minute, MaxRequests: 1000},
		Auth:    config.LimiterConfig{Window: 15 * time.Minute, MaxRequests: 5},
		API:     config.LimiterConfig{Window: time.Minute, MaxRequests: 1000},
		PerUser: config.LimiterConfig{Window: time.Minute, MaxRequests: 1000},
	})

	badLogin := gin.H{"email": "nobody@acme.test", "password": "wrong-pass"}
	for i := 0; i < 5; i++ {
		w := doJSON(t, engine, http.MethodPost, "/api/auth/login", "", badLogin)
		require.Equal(t, http.StatusUnauthorized, w.Code, "attempt %d", i+1)
	}

	// The sixth attempt inside the window is limited, with the retry hint
	// covering the full fifteen minutes
	w := doJSON(t, engine, http.MethodPost, "/api/auth/login", "", badLogin)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "900", w.Header().Get("Retry-After"))
}
