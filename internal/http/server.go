// Package http assembles the gin router and runs the API and metrics servers.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/vaultkeeper/internal/auth/http"
	authUseCase "github.com/allisson/vaultkeeper/internal/auth/usecase"
	"github.com/allisson/vaultkeeper/internal/metrics"
	secretsHTTP "github.com/allisson/vaultkeeper/internal/secrets/http"
	userHTTP "github.com/allisson/vaultkeeper/internal/user/http"
)

const readinessTimeout = 2 * time.Second

// Pinger reports whether the backing store is reachable. *sql.DB satisfies it;
// MongoDB is adapted by the app container.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server is the public API server.
type Server struct {
	db     Pinger
	server *http.Server
	logger *slog.Logger
	router *gin.Engine
}

// RouterConfig carries the handlers and options SetupRouter mounts.
type RouterConfig struct {
	UserHandler      *userHTTP.UserHandler
	TokenHandler     *authHTTP.TokenHandler
	SecretHandler    *secretsHTTP.SecretHandler
	Issuer           authUseCase.CredentialIssuer
	CORSEnabled      bool
	CORSAllowOrigins string
	MetricsProvider  *metrics.Provider
	MetricsNamespace string
}

// NewServer creates a Server. A nil db makes /ready report not ready.
func NewServer(db Pinger, host string, port int, logger *slog.Logger) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// SetupRouter mounts every route:
//
//	GET    /health, /ready
//	GET    /.well-known/jwks.json
//	POST   /v1/users
//	POST   /v1/token
//	POST   /v1/secrets                 (bearer)
//	GET    /v1/secrets                 (bearer)
//	GET    /v1/secrets/:id             (bearer)
//	GET    /v1/secrets/owner/:owner    (bearer)
//	DELETE /v1/secrets/:id             (bearer)
func (s *Server) SetupRouter(cfg RouterConfig) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if cors := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); cors != nil {
		router.Use(cors)
	}
	if cfg.MetricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(cfg.MetricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)
	router.GET("/.well-known/jwks.json", cfg.TokenHandler.JWKSHandler)

	v1 := router.Group("/v1")
	v1.POST("/users", cfg.UserHandler.RegisterHandler)
	v1.POST("/token", cfg.TokenHandler.IssueTokenHandler)

	secrets := v1.Group("/secrets")
	secrets.Use(authHTTP.AuthenticationMiddleware(cfg.Issuer, s.logger))
	secrets.POST("", cfg.SecretHandler.CreateHandler)
	secrets.GET("", cfg.SecretHandler.ListHandler)
	secrets.GET("/owner/:owner", cfg.SecretHandler.ListByOwnerHandler)
	secrets.GET("/:id", cfg.SecretHandler.GetHandler)
	secrets.DELETE("/:id", cfg.SecretHandler.DeleteHandler)

	s.router = router
}

// GetHandler returns the router for tests.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured")
	}
	s.server.Handler = s.router

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	status := "ok"
	if s.db == nil {
		status = "error"
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			s.logger.Warn("readiness check failed", slog.Any("error", err))
			status = "error"
		}
	}

	code, overall := http.StatusOK, "ready"
	if status != "ok" {
		code, overall = http.StatusServiceUnavailable, "not_ready"
	}
	c.JSON(code, gin.H{
		"status":     overall,
		"components": gin.H{"database": status},
	})
}
