// Package scrape fetches pages from the news site and parses the archive
// listing and article page markup.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ErrStatus marks a response that arrived but carried a non-2xx status.
var ErrStatus = errors.New("response not OK")

// Getter fetches one page body. The production implementation is Client;
// tests substitute a stub so no network is involved.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Client issues plain GET requests with a bounded timeout. One request is
// in flight at a time; the pipeline is strictly sequential.
type Client struct {
	http   *http.Client
	logger *zap.Logger
}

// NewClient returns a client whose requests time out after the given
// duration.
func NewClient(timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Get fetches the page at url and returns its body. A reachable server
// answering with a non-2xx status yields an error wrapping ErrStatus.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	c.logger.Debug("page fetched", zap.String("url", url), zap.Int("bytes", len(body)))
	return body, nil
}

// RequestErrorMessage converts a Get failure into the message recorded on
// the affected cache entry.
func RequestErrorMessage(err error) string {
	if errors.Is(err, ErrStatus) {
		return "response not OK"
	}
	return "IO error on request"
}
