package app_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
	"todoTracker/internal/app"
	"todoTracker/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            "0",
			ShutdownTimeout: time.Second,
		},
		Repository: config.RepositoryConfig{Type: "inmemory"},
		RateLimit:  config.RateLimitConfig{RequestsPerMinute: 1000},
		Tracing: config.TracingConfig{
			Enabled:     true,
			ServiceName: "todoTracker",
			SampleRatio: 1,
			Exporter:    "none",
		},
	}
}

// TestApp_Routes прогоняет основные маршруты через собранный роутер
func TestApp_Routes(t *testing.T) {
	a, err := app.New(testConfig()).Init(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, a.Shutdown()) })

	handler := a.Handler()

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusFound, rr.Code)

	form := url.Values{"title": {"From form"}}
	req := httptest.NewRequest(http.MethodPost, "/todos/new", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusSeeOther, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/todos", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "From form")
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/todos", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"title":"From form"`)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

// TestApp_UnknownRepository тестирует ошибку выбора хранилища
func TestApp_UnknownRepository(t *testing.T) {
	cfg := testConfig()
	cfg.Repository.Type = "redis"

	_, err := app.New(cfg).Init(context.Background())
	assert.Error(t, err)
}

// TestApp_RunStopsOnCancel тестирует остановку по отмене контекста
func TestApp_RunStopsOnCancel(t *testing.T) {
	a, err := app.New(testConfig()).Init(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run не завершился после отмены контекста")
	}
}

// TestApp_RateLimitIgnoresForwardedFor тестирует, что подмена X-Forwarded-For не обходит лимит
func TestApp_RateLimitIgnoresForwardedFor(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.RequestsPerMinute = 2

	a, err := app.New(cfg).Init(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, a.Shutdown()) })

	codes := make([]int, 0, 3)
	for _, spoofed := range []string{"203.0.113.1", "203.0.113.2", "203.0.113.3"} {
		req := httptest.NewRequest(http.MethodGet, "/todos", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		req.Header.Set("X-Forwarded-For", spoofed)
		rr := httptest.NewRecorder()
		a.Handler().ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

// TestApp_RateLimitTrustProxy тестирует учёт X-Forwarded-For за доверенным прокси
func TestApp_RateLimitTrustProxy(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.RequestsPerMinute = 1
	cfg.Server.TrustProxy = true

	a, err := app.New(cfg).Init(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, a.Shutdown()) })

	for _, client := range []string{"203.0.113.1", "203.0.113.2"} {
		req := httptest.NewRequest(http.MethodGet, "/todos", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set("X-Forwarded-For", client)
		rr := httptest.NewRecorder()
		a.Handler().ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code, client)
	}
}

// TestApp_TracerProvider тестирует установку SDK провайдера трассировки
func TestApp_TracerProvider(t *testing.T) {
	a, err := app.New(testConfig()).Init(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, a.Shutdown()) })

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok, "глобальный провайдер должен быть из SDK")

	_, span := otel.Tracer("test").Start(context.Background(), "check")
	defer span.End()
	assert.True(t, span.IsRecording())
	assert.True(t, span.SpanContext().IsValid())
}

// TestApp_UnknownExporter тестирует ошибку неизвестного экспортёра
func TestApp_UnknownExporter(t *testing.T) {
	cfg := testConfig()
	cfg.Tracing.Exporter = "jaeger"

	_, err := app.New(cfg).Init(context.Background())
	assert.Error(t, err)
}
