package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"feed-refresher/domain"
	"feed-refresher/mocks"
	"feed-refresher/usecase/enqueue_refresh_usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestServer(components *Components) *echo.Echo {
	e := echo.New()
	RegisterRoutes(e, components)
	return e
}

func doRequest(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRefreshFeedsEndpoint(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setup          func(queue *mocks.MockJobQueuePort)
		expectedStatus int
		expectedQueued bool
	}{
		{
			name: "queues a user scoped run",
			body: `{"userId":"user-1"}`,
			setup: func(queue *mocks.MockJobQueuePort) {
				queue.EXPECT().
					Enqueue(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, job *domain.Job, opts domain.EnqueueOptions) (bool, error) {
						assert.Equal(t, "refresh-all-feeds:user:user-1", job.ID)
						assert.Equal(t, domain.JobPriorityHigh, opts.Priority)
						assert.Equal(t, domain.RefreshKindUserAdded, job.RefreshAllFeeds.RefreshContext.Kind)
						return true, nil
					})
			},
			expectedStatus: http.StatusAccepted,
			expectedQueued: true,
		},
		{
			name: "outstanding run is not queued again",
			body: `{"userId":"user-1"}`,
			setup: func(queue *mocks.MockJobQueuePort) {
				queue.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
			},
			expectedStatus: http.StatusAccepted,
			expectedQueued: false,
		},
		{
			name:           "blank user id",
			body:           `{"userId":"  "}`,
			setup:          func(*mocks.MockJobQueuePort) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed body",
			body:           `{"userId":`,
			setup:          func(*mocks.MockJobQueuePort) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "queue failure",
			body: `{"userId":"user-1"}`,
			setup: func(queue *mocks.MockJobQueuePort) {
				queue.EXPECT().Enqueue(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, errors.New("redis down"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			queue := mocks.NewMockJobQueuePort(ctrl)
			tt.setup(queue)

			e := newTestServer(&Components{Refresh: enqueue_refresh_usecase.NewEnqueueRefreshUsecase(queue)})
			rec := doRequest(e, http.MethodPost, "/api/v1/feeds/refresh", tt.body)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus != http.StatusAccepted {
				return
			}

			var resp refreshResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.RefreshID)
			assert.Equal(t, tt.expectedQueued, resp.Queued)
		})
	}
}

func TestHealthEndpoint(t *testing.T) {
	healthy := HealthCheck{Name: "redis", Ping: func(context.Context) error { return nil }}
	broken := HealthCheck{Name: "postgres", Ping: func(context.Context) error { return errors.New("connection refused") }}

	t.Run("all dependencies reachable", func(t *testing.T) {
		e := newTestServer(&Components{HealthChecks: []HealthCheck{healthy}})
		rec := doRequest(e, http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
	})

	t.Run("failing dependency is reported", func(t *testing.T) {
		e := newTestServer(&Components{HealthChecks: []HealthCheck{healthy, broken}})
		rec := doRequest(e, http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.JSONEq(t, `{"status":"unhealthy","checks":{"postgres":"connection refused"}}`, rec.Body.String())
	})
}

func TestMetricsEndpoint(t *testing.T) {
	e := newTestServer(&Components{})
	rec := doRequest(e, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
