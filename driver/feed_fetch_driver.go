package driver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"feed-refresher/domain"
)

// FetchOptions configures FeedFetchDriver.
type FetchOptions struct {
	Timeout      time.Duration
	MaxRedirects int
	UserAgent    string
	Accept       string
	MaxBodySize  int64
}

// FeedFetchDriver downloads feed documents over HTTP.
type FeedFetchDriver struct {
	client *http.Client
	opts   FetchOptions
}

// NewFeedFetchDriver builds a driver with its own client. Redirects beyond
// opts.MaxRedirects fail the fetch.
func NewFeedFetchDriver(opts FetchOptions) *FeedFetchDriver {
	client := &http.Client{
		Timeout: opts.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > opts.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", opts.MaxRedirects)
			}
			return nil
		},
	}
	return &FeedFetchDriver{client: client, opts: opts}
}

// Fetch returns the body of rawURL with its sha256 checksum.
func (d *FeedFetchDriver) Fetch(ctx context.Context, rawURL string) (*domain.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", d.opts.UserAgent)
	req.Header.Set("Accept", d.opts.Accept)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.ExternalHTTPError{StatusCode: resp.StatusCode, URL: rawURL}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, d.opts.MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", rawURL, err)
	}
	if int64(len(body)) > d.opts.MaxBodySize {
		return nil, fmt.Errorf("read body of %s: %w", rawURL, errBodyTooLarge)
	}

	sum := sha256.Sum256(body)

	return &domain.FetchResult{
		URL:         rawURL,
		Content:     body,
		ContentType: resp.Header.Get("Content-Type"),
		Checksum:    hex.EncodeToString(sum[:]),
	}, nil
}

var errBodyTooLarge = errors.New("response body exceeds size limit")
