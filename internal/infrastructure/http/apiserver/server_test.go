package apiserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/kondate/mealplanner/internal/application/history"
	"github.com/kondate/mealplanner/internal/application/mealplan"
	"github.com/kondate/mealplanner/internal/infrastructure/config"
	"github.com/kondate/mealplanner/internal/infrastructure/http/handlers"
	"github.com/kondate/mealplanner/internal/infrastructure/monitoring"
	gormrepo "github.com/kondate/mealplanner/internal/infrastructure/persistence/gorm"
	"github.com/kondate/mealplanner/internal/infrastructure/persistence/memory"
	"github.com/kondate/mealplanner/pkg/healthcheck"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "kondate", Version: "test", Environment: "test"},
		Server: config.ServerConfig{
			Host:           "127.0.0.1",
			Port:           0,
			ReadTimeout:    5 * time.Second,
			WriteTimeout:   5 * time.Second,
			IdleTimeout:    5 * time.Second,
			RequestTimeout: 5 * time.Second,
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Cache:      config.CacheConfig{LatestPlanTTL: time.Hour},
		RateLimit:  config.RateLimitConfig{Enabled: true, RequestsPerSecond: 100, Burst: 100},
		Monitoring: config.MonitoringConfig{MetricsEnabled: true, MetricsPath: "/metrics"},
	}
}

// newTestServer wires the real services with the rule-based generator, sqlite and the memory cache
func newTestServer(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	logger := zaptest.NewLogger(t)

	db, err := gormrepo.Open(context.Background(), gormrepo.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          "file::memory:",
		MaxOpenConns: 1,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = gormrepo.Close(db) })

	cache := memory.NewCacheRepository(time.Minute)
	t.Cleanup(func() { _ = cache.Close() })

	metrics := monitoring.NewMetricsCollector(logger)
	mealPlans := mealplan.NewService(nil, metrics, logger)
	hist := history.NewService(gormrepo.NewMealPlanRepository(db), cache, cfg.Cache.LatestPlanTTL, metrics, logger)

	srv, err := NewServer(cfg,
		logger,
		handlers.NewMealPlanHandlers(mealPlans, hist, logger),
		handlers.NewHealthHandlers(healthcheck.New(cfg.App.Version, logger), logger),
		metrics,
	)
	require.NoError(t, err)
	return srv.Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestServer_GenerateThenLatestAndList(t *testing.T) {
	h := newTestServer(t, testConfig())

	rec := do(t, h, http.MethodPost, "/api/v1/meal_plans/generate",
		`{"meal_plan":{"ingredients":[{"name":"pork","category":"meat"},{"name":"cabbage","category":"vegetable"}],"preferences":{"cuisine_type":"japanese"}}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	suggestions := data["meal_suggestions"].(map[string]interface{})
	assert.NotNil(t, suggestions["main_dish"])
	assert.NotEmpty(t, rec.Header().Get("X-Content-Type-Options"))

	rec = do(t, h, http.MethodGet, "/api/v1/meal_plans/latest", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	latest := decode(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, suggestions["main_dish"], latest["meal_suggestions"].(map[string]interface{})["main_dish"])

	rec = do(t, h, http.MethodGet, "/api/v1/meal_plans?limit=5&cuisine_type=japanese", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	list := decode(t, rec)["data"].(map[string]interface{})
	assert.EqualValues(t, 1, list["count"])
}

func TestServer_LatestBeforeAnyPlanIs404(t *testing.T) {
	h := newTestServer(t, testConfig())

	rec := do(t, h, http.MethodGet, "/api/v1/meal_plans/latest", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_MissingIngredientsIs400(t *testing.T) {
	h := newTestServer(t, testConfig())

	rec := do(t, h, http.MethodPost, "/api/v1/meal_plans/generate", `{"meal_plan":{}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/meal_plans/generate", `{"meal_plan":{"ingredients":[]}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/v1/meal_plans/regenerate_dish",
		`{"regenerate":{"dish_type":"soup","current_dishes":{"main_dish":"A"}}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Soup")
}

func TestServer_BlankCurrentDishesIs400(t *testing.T) {
	h := newTestServer(t, testConfig())

	rec := do(t, h, http.MethodPost, "/api/v1/meal_plans/regenerate_dish",
		`{"regenerate":{"dish_type":"soup","ingredients":[{"name":"tofu","category":"protein"}],"current_dishes":{}}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_RegenerateDish(t *testing.T) {
	h := newTestServer(t, testConfig())

	rec := do(t, h, http.MethodPost, "/api/v1/meal_plans/regenerate_dish",
		`{"regenerate":{"dish_type":"soup","ingredients":[{"name":"tofu","category":"protein"}],"current_dishes":{"main_dish":"Ginger Pork","soup":"Miso Soup"}}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := decode(t, rec)["data"].(map[string]interface{})
	assert.Equal(t, "soup", data["dish_type"])
	assert.NotNil(t, data["dish"])
}

func TestServer_RejectsNonJSONBody(t *testing.T) {
	h := newTestServer(t, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/meal_plans/generate", strings.NewReader("x"))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestServer_HealthAndMetrics(t *testing.T) {
	h := newTestServer(t, testConfig())

	rec := do(t, h, http.MethodGet, "/up", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	do(t, h, http.MethodPost, "/api/v1/meal_plans/generate", `{"meal_plan":{"ingredients":[{"name":"egg","category":"protein"}]}}`)

	rec = do(t, h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "kondate_http_requests_total")
	assert.Contains(t, rec.Body.String(), "kondate_generations_total")
}

func TestServer_MetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Monitoring.MetricsEnabled = false
	h := newTestServer(t, cfg)

	rec := do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_RateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 1}
	h := newTestServer(t, cfg)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/v1/meal_plans/latest", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, do(t, h, http.MethodGet, "/api/v1/meal_plans/latest", "").Code)
}

func TestServer_OpenAPI(t *testing.T) {
	h := newTestServer(t, testConfig())

	rec := do(t, h, http.MethodGet, "/api/v1/openapi.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := decode(t, rec)
	assert.Equal(t, "3.0.3", doc["openapi"])
	assert.Contains(t, doc["paths"], "/meal_plans/generate")

	rec = do(t, h, http.MethodGet, "/api/v1/openapi.yaml", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "openapi: 3.0.3")
}
