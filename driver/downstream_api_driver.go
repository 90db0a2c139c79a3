package driver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"feed-refresher/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// ErrDownstreamDisabled is returned when no endpoint is configured.
var ErrDownstreamDisabled = errors.New("downstream endpoint not configured")

// DownstreamAPIDriver posts JSON to the content fetch and save content
// services.
type DownstreamAPIDriver struct {
	client          *http.Client
	contentFetchURL string
	saveContentURL  string
	token           string
}

func NewDownstreamAPIDriver(contentFetchURL, saveContentURL, token string, timeout time.Duration) *DownstreamAPIDriver {
	return &DownstreamAPIDriver{
		client:          &http.Client{Timeout: timeout},
		contentFetchURL: contentFetchURL,
		saveContentURL:  saveContentURL,
		token:           token,
	}
}

// RequestContentFetch asks the content fetch service to fetch and save
// req.URL for every listed user.
func (d *DownstreamAPIDriver) RequestContentFetch(ctx context.Context, req *domain.FetchContentRequest) error {
	return d.post(ctx, d.contentFetchURL, req)
}

// SaveFeedItem saves an item built from feed content.
func (d *DownstreamAPIDriver) SaveFeedItem(ctx context.Context, req *domain.SaveContentRequest) error {
	return d.post(ctx, d.saveContentURL, req)
}

func (d *DownstreamAPIDriver) post(ctx context.Context, endpoint string, body any) error {
	if endpoint == "" {
		return ErrDownstreamDisabled
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if d.token != "" {
		req.Header.Set("Authorization", "Bearer "+d.token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.ExternalHTTPError{StatusCode: resp.StatusCode, URL: endpoint}
	}

	return nil
}
