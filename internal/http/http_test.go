package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/startupheroes/package-events/internal/broker"
	"github.com/startupheroes/package-events/internal/config"
	eventsHTTP "github.com/startupheroes/package-events/internal/events/http"
	eventsMocks "github.com/startupheroes/package-events/internal/events/usecase/mocks"
	"github.com/startupheroes/package-events/internal/metrics"
	"github.com/startupheroes/package-events/internal/testutil"
)

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// createTestServer creates a server without dependencies.
func createTestServer() *Server {
	return NewServer(nil, nil, "localhost", 8080, discardLogger())
}

func testConfig() *config.Config {
	return &config.Config{
		RateLimitEnabled:        true,
		RateLimitRequestsPerSec: 100,
		RateLimitBurst:          100,
		MetricsNamespace:        "test_app",
	}
}

// createRouterServer creates a server with a full router over a mock use case.
func createRouterServer(t *testing.T, cfg *config.Config) (*Server, *eventsMocks.MockPackageEventUseCase) {
	t.Helper()

	db, _ := testutil.NewMockDB(t)
	producer := broker.NewMemoryProducer()
	t.Cleanup(func() { _ = producer.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	mockUseCase := &eventsMocks.MockPackageEventUseCase{}
	server := NewServer(db, producer, "localhost", 8080, discardLogger())
	server.SetupRouter(ctx, cfg, eventsHTTP.NewPackageEventHandler(mockUseCase, discardLogger()), nil)

	return server, mockUseCase
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestHealthHandler(t *testing.T) {
	server := createTestServer()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	server.healthHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])
}

func TestReadinessHandler(t *testing.T) {
	t.Run("NotReady_NilDependencies", func(t *testing.T) {
		server := createTestServer()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		server.readinessHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		response := decode(t, w)
		assert.Equal(t, "not_ready", response["status"])

		components, ok := response["components"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "error", components["database"])
		assert.Equal(t, "error", components["broker"])
	})

	t.Run("Ready_DependenciesReachable", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer func() { _ = db.Close() }()
		sqlMock.ExpectPing()

		producer := broker.NewMemoryProducer()
		defer func() { _ = producer.Close() }()

		server := NewServer(db, producer, "localhost", 8080, discardLogger())

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		server.readinessHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		response := decode(t, w)
		assert.Equal(t, "ready", response["status"])
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("NotReady_DatabaseUnreachable", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		require.NoError(t, err)
		defer func() { _ = db.Close() }()
		sqlMock.ExpectPing().WillReturnError(errors.New("connection refused"))

		producer := broker.NewMemoryProducer()
		defer func() { _ = producer.Close() }()

		server := NewServer(db, producer, "localhost", 8080, discardLogger())

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		server.readinessHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		components := decode(t, w)["components"].(map[string]any)
		assert.Equal(t, "error", components["database"])
		assert.Equal(t, "ok", components["broker"])
	})

	t.Run("NotReady_ProducerClosed", func(t *testing.T) {
		db, _ := testutil.NewMockDB(t)
		producer := broker.NewMemoryProducer()
		require.NoError(t, producer.Close())

		server := NewServer(db, producer, "localhost", 8080, discardLogger())

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

		server.readinessHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		components := decode(t, w)["components"].(map[string]any)
		assert.Equal(t, "ok", components["database"])
		assert.Equal(t, "error", components["broker"])
	})
}

func TestCustomLoggerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	router := gin.New()
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(logger))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})
	router.GET("/missing", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "missing"})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test?verbose=1", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "http request", entry["msg"])
	assert.Equal(t, "/test", entry["path"])
	assert.Equal(t, "verbose=1", entry["query"])
	assert.NotEmpty(t, entry["request_id"])

	buf.Reset()
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
}

func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(discardLogger()))
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRouter_HealthEndpoint(t *testing.T) {
	server, _ := createRouterServer(t, testConfig())

	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestRouter_ReadyEndpoint(t *testing.T) {
	server, _ := createRouterServer(t, testConfig())

	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ready", decode(t, w)["status"])
}

func TestRouter_PublishRoutes(t *testing.T) {
	server, mockUseCase := createRouterServer(t, testConfig())
	mockUseCase.On("SendOne", mock.Anything, int64(1)).Return(int64(1), nil).Once()
	mockUseCase.On("SendAll", mock.Anything).Return(2, nil).Once()

	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/events/send/1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, eventsHTTP.MessagePackageSent, decode(t, w)["message"])

	w = httptest.NewRecorder()
	server.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/events/bootstrap", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode(t, w)["data"])

	mockUseCase.AssertExpectations(t)
}

func TestRouter_RateLimitedPublishRoutes(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitRequestsPerSec = 1
	cfg.RateLimitBurst = 1

	server, mockUseCase := createRouterServer(t, cfg)
	mockUseCase.On("SendAll", mock.Anything).Return(0, nil).Once()

	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/events/bootstrap", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	server.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/events/bootstrap", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// probes are not rate limited
	w = httptest.NewRecorder()
	server.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	mockUseCase.AssertExpectations(t)
}

func TestRouter_NotFoundEndpoint(t *testing.T) {
	server, _ := createRouterServer(t, testConfig())

	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nonexistent", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	response := decode(t, w)
	assert.Equal(t, false, response["success"])
	assert.Equal(t, "Resource not found", response["message"])
}

func TestRouter_NoMetricsEndpoint(t *testing.T) {
	server, _ := createRouterServer(t, testConfig())

	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_StartWithoutRouter(t *testing.T) {
	server := createTestServer()

	err := server.Start(context.Background())

	assert.EqualError(t, err, "router not configured")
}

func TestNewRequestID(t *testing.T) {
	first, err := uuid.Parse(newRequestID())
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), first.Version())
	assert.NotEqual(t, newRequestID(), newRequestID())
}

func TestServer_GetHandler(t *testing.T) {
	assert.Nil(t, createTestServer().GetHandler())

	server, _ := createRouterServer(t, testConfig())
	handler := server.GetHandler()
	require.NotNil(t, handler)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_ShutdownGracefully(t *testing.T) {
	server, _ := createRouterServer(t, testConfig())
	server.server.Addr = "127.0.0.1:0"

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(context.Background())
	}()

	time.Sleep(100 * time.Millisecond)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	assert.NoError(t, server.Shutdown(shutdownCtx))

	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestMetricsServer_Endpoints(t *testing.T) {
	provider, err := metrics.NewProvider("test_app")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	metricsServer := NewMetricsServer("localhost", 8081, discardLogger(), provider)
	require.NotNil(t, metricsServer)

	w := httptest.NewRecorder()
	metricsServer.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), "go_goroutines")

	w = httptest.NewRecorder()
	metricsServer.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestMetricsServer_ShutdownGracefully(t *testing.T) {
	provider, err := metrics.NewProvider("test_app")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	metricsServer := NewMetricsServer("127.0.0.1", 0, discardLogger(), provider)

	errChan := make(chan error, 1)
	go func() {
		errChan <- metricsServer.Start(context.Background())
	}()

	time.Sleep(100 * time.Millisecond)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	assert.NoError(t, metricsServer.Shutdown(shutdownCtx))

	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("metrics server did not stop")
	}
}
