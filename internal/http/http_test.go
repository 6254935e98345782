package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	authDomain "github.com/allisson/vaultkeeper/internal/auth/domain"
	authHTTP "github.com/allisson/vaultkeeper/internal/auth/http"
	authMocks "github.com/allisson/vaultkeeper/internal/auth/usecase/mocks"
	"github.com/allisson/vaultkeeper/internal/metrics"
	secretsHTTP "github.com/allisson/vaultkeeper/internal/secrets/http"
	secretsMocks "github.com/allisson/vaultkeeper/internal/secrets/usecase/mocks"
	userHTTP "github.com/allisson/vaultkeeper/internal/user/http"
	userMocks "github.com/allisson/vaultkeeper/internal/user/usecase/mocks"
)

// TestMain sets Gin to test mode for all tests in this package.
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error { return f(ctx) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type routerFixture struct {
	server  *Server
	issuer  *authMocks.MockCredentialIssuer
	users   *userMocks.MockUseCase
	secrets *secretsMocks.MockSecretUseCase
}

func newRouterFixture(db Pinger) *routerFixture {
	f := &routerFixture{
		server:  NewServer(db, "localhost", 0, discardLogger()),
		issuer:  &authMocks.MockCredentialIssuer{},
		users:   &userMocks.MockUseCase{},
		secrets: &secretsMocks.MockSecretUseCase{},
	}
	f.server.SetupRouter(RouterConfig{
		UserHandler:   userHTTP.NewUserHandler(f.users, discardLogger()),
		TokenHandler:  authHTTP.NewTokenHandler(f.issuer, discardLogger()),
		SecretHandler: secretsHTTP.NewSecretHandler(f.secrets, discardLogger()),
		Issuer:        f.issuer,
	})
	return f
}

func (f *routerFixture) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	f.server.GetHandler().ServeHTTP(w, req)
	return w
}

func TestHealthHandler(t *testing.T) {
	f := newRouterFixture(nil)

	w := f.do(httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name       string
		db         Pinger
		wantCode   int
		wantStatus string
		wantDB     string
	}{
		{"nil db", nil, http.StatusServiceUnavailable, "not_ready", "error"},
		{"ping fails", pingerFunc(func(context.Context) error { return errors.New("down") }),
			http.StatusServiceUnavailable, "not_ready", "error"},
		{"ping ok", pingerFunc(func(context.Context) error { return nil }), http.StatusOK, "ready", "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRouterFixture(tt.db)

			w := f.do(httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.wantCode, w.Code)
			var response map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.wantStatus, response["status"])
			components, ok := response["components"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, tt.wantDB, components["database"])
		})
	}
}

func TestRouter_SecretsRequireBearerToken(t *testing.T) {
	f := newRouterFixture(nil)

	for _, route := range []struct{ method, path string }{
		{http.MethodPost, "/v1/secrets"},
		{http.MethodGet, "/v1/secrets"},
		{http.MethodGet, "/v1/secrets/" + uuid.Must(uuid.NewV7()).String()},
		{http.MethodGet, "/v1/secrets/owner/john@example.com"},
		{http.MethodDelete, "/v1/secrets/" + uuid.Must(uuid.NewV7()).String()},
	} {
		w := f.do(httptest.NewRequest(route.method, route.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", route.method, route.path)
	}
	f.secrets.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
}

func TestRouter_AuthenticatedSecretList(t *testing.T) {
	f := newRouterFixture(nil)

	f.issuer.On("Authenticate", mock.Anything, "good-token").
		Return(&authDomain.Claims{Subject: "john@example.com"}, nil).
		Once()
	f.secrets.On("ListByOwner", mock.Anything, "john@example.com").Return(nil, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/v1/secrets/owner/john@example.com", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := f.do(req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[]}`, w.Body.String())
	f.issuer.AssertExpectations(t)
	f.secrets.AssertExpectations(t)
}

func TestRouter_PublicRoutes(t *testing.T) {
	f := newRouterFixture(nil)

	f.issuer.On("JWKS", mock.Anything).Return(&authDomain.KeySet{Keys: []authDomain.JWK{}}, nil).Once()

	w := f.do(httptest.NewRequest(http.MethodGet, "/.well-known/jwks.json", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = f.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCustomLoggerMiddleware_RecoversPanics(t *testing.T) {
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

func TestServer_StartWithoutRouter(t *testing.T) {
	server := NewServer(nil, "localhost", 0, discardLogger())
	assert.Error(t, server.Start(context.Background()))
}

func TestServer_ShutdownGracefully(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	server := NewServer(nil, "127.0.0.1", port, discardLogger())
	server.router = gin.New()

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start(context.Background())
	}()

	time.Sleep(100 * time.Millisecond)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Shutdown(shutdownCtx))
	assert.NoError(t, <-errChan)
}

func TestMetricsServer_Endpoints(t *testing.T) {
	provider, err := metrics.NewProvider("vk_server_test")
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	}()

	metricsServer := NewMetricsServer("localhost", 0, discardLogger(), provider)

	w := httptest.NewRecorder()
	metricsServer.GetHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}
