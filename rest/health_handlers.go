package rest

import (
	"context"
	"net/http"
	"time"

	"feed-refresher/utils/logger"

	"github.com/labstack/echo/v4"
)

const healthCheckTimeout = 3 * time.Second

func handleHealth(components *Components) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
		defer cancel()

		failures := make(map[string]string)
		for _, check := range components.HealthChecks {
			if err := check.Ping(ctx); err != nil {
				logger.Logger.WarnContext(ctx, "Health check failed", "dependency", check.Name, "error", err)
				failures[check.Name] = err.Error()
			}
		}

		if len(failures) > 0 {
			return c.JSON(http.StatusServiceUnavailable, map[string]any{
				"status": "unhealthy",
				"checks": failures,
			})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	}
}
