package fetch_feed_gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"feed-refresher/domain"
	"feed-refresher/driver"
	"feed-refresher/utils/rate_limiter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGateway(interval time.Duration) *FetchFeedGateway {
	fetcher := driver.NewFeedFetchDriver(driver.FetchOptions{
		Timeout:      5 * time.Second,
		MaxRedirects: 3,
		UserAgent:    "test-agent",
		Accept:       "application/rss+xml",
		MaxBodySize:  1 << 20,
	})
	return NewFetchFeedGateway(fetcher, rate_limiter.NewHostRateLimiter(interval))
}

func TestFetchFeedGateway_FetchFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.UserAgent())
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte("<rss></rss>"))
	}))
	defer server.Close()

	result, err := newGateway(0).FetchFeed(context.Background(), server.URL+"/rss")
	require.NoError(t, err)
	assert.Equal(t, "<rss></rss>", string(result.Content))
	assert.Len(t, result.Checksum, 64)
}

func TestFetchFeedGateway_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	result, err := newGateway(0).FetchFeed(context.Background(), server.URL)
	assert.Nil(t, result)

	var httpErr *domain.ExternalHTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
}

func TestFetchFeedGateway_RateLimitHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	gw := newGateway(time.Hour)

	_, err := gw.FetchFeed(context.Background(), server.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = gw.FetchFeed(ctx, server.URL)
	assert.Error(t, err, "second request to the same host waits past the deadline")
}
