package app

import (
	"context"
	"fmt"

	"github.com/allisson/vaultkeeper/internal/http"
)

type pinger = http.Pinger

// HTTPServer returns the API server with every route mounted.
func (c *Container) HTTPServer(ctx context.Context) (*http.Server, error) {
	return c.httpServer.get(func() (*http.Server, error) {
		store, err := c.readinessPinger()
		if err != nil {
			return nil, fmt.Errorf("failed to get store for http server: %w", err)
		}
		userHandler, err := c.UserHandler()
		if err != nil {
			return nil, err
		}
		tokenHandler, err := c.TokenHandler(ctx)
		if err != nil {
			return nil, err
		}
		secretHandler, err := c.SecretHandler(ctx)
		if err != nil {
			return nil, err
		}
		issuer, err := c.CredentialIssuer(ctx)
		if err != nil {
			return nil, err
		}
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, err
		}

		server := http.NewServer(store, c.config.ServerHost, c.config.ServerPort, c.Logger())
		server.SetupRouter(http.RouterConfig{
			UserHandler:      userHandler,
			TokenHandler:     tokenHandler,
			SecretHandler:    secretHandler,
			Issuer:           issuer,
			CORSEnabled:      c.config.CORSEnabled,
			CORSAllowOrigins: c.config.CORSAllowOrigins,
			MetricsProvider:  provider,
			MetricsNamespace: c.config.MetricsNamespace,
		})
		return server, nil
	})
}

// MetricsServer returns the metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	return c.metricsServer.get(func() (*http.MetricsServer, error) {
		provider, err := c.MetricsProvider()
		if err != nil || provider == nil {
			return nil, err
		}
		return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
	})
}
