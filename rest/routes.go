// Package rest exposes the HTTP surface of the feed refresher.
package rest

import (
	"context"

	"feed-refresher/domain"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RefreshEnqueuer starts a discovery run for one user.
type RefreshEnqueuer interface {
	EnqueueForUser(ctx context.Context, userID string) (*domain.RefreshContext, bool, error)
}

// HealthCheck pings one dependency.
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// Components holds what the handlers need.
type Components struct {
	Refresh      RefreshEnqueuer
	HealthChecks []HealthCheck
}

func RegisterRoutes(e *echo.Echo, components *Components) {
	e.GET("/health", handleHealth(components))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/api/v1")
	registerFeedRoutes(v1, components)
}
