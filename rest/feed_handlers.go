package rest

import (
	"errors"
	"net/http"

	"feed-refresher/usecase/enqueue_refresh_usecase"
	"feed-refresher/utils/logger"

	"github.com/labstack/echo/v4"
)

type refreshRequest struct {
	UserID string `json:"userId"`
}

type refreshResponse struct {
	RefreshID string `json:"refreshID"`
	Queued    bool   `json:"queued"`
}

func registerFeedRoutes(v1 *echo.Group, components *Components) {
	feeds := v1.Group("/feeds")
	feeds.POST("/refresh", handleRefreshFeeds(components))
}

// handleRefreshFeeds queues a discovery run for the user. A run that is still
// outstanding for the same user is reported with queued=false.
func handleRefreshFeeds(components *Components) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req refreshRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request format"})
		}

		ctx := c.Request().Context()
		rc, queued, err := components.Refresh.EnqueueForUser(ctx, req.UserID)
		if errors.Is(err, enqueue_refresh_usecase.ErrUserIDRequired) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		if err != nil {
			logger.Logger.ErrorContext(ctx, "Failed to enqueue refresh", "user_id", req.UserID, "error", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to enqueue refresh"})
		}

		return c.JSON(http.StatusAccepted, refreshResponse{RefreshID: rc.RunID, Queued: queued})
	}
}
