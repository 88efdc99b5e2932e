package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/barelands/server/internal/observability"
)

// Revalidator signals that cached/rendered output for the given logical
// paths must be regenerated before next serving. Implementations are
// best-effort: failures are logged, never escalated, and never roll back the
// mutation that triggered them.
type Revalidator interface {
	Revalidate(ctx context.Context, paths []string)
}

// NopRevalidator is used when no frontend is configured
type NopRevalidator struct{}

// Revalidate does nothing
func (NopRevalidator) Revalidate(ctx context.Context, paths []string) {
	observability.WithContext(ctx).Debugf("Revalidation skipped (no frontend configured), paths: %v", paths)
}

// HTTPRevalidator notifies a rendering frontend over its revalidation
// endpoint, one bounded call per path
type HTTPRevalidator struct {
	baseURL string
	secret  string
	timeout time.Duration
	client  *http.Client
}

// NewHTTPRevalidator creates an HTTPRevalidator for the frontend at baseURL.
// The secret gates the frontend's revalidation endpoint.
func NewHTTPRevalidator(baseURL, secret string, timeout time.Duration) *HTTPRevalidator {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPRevalidator{
		baseURL: baseURL,
		secret:  secret,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

// Revalidate calls the frontend once per path. Each call gets its own
// bounded timeout; a failed path is logged and the rest still run.
func (r *HTTPRevalidator) Revalidate(ctx context.Context, paths []string) {
	log := observability.WithContext(ctx)

	for _, p := range paths {
		if err := r.revalidatePath(ctx, p); err != nil {
			log.Warnf("Failed to revalidate path %s: %v", p, err)
			continue
		}
		log.Debugf("Revalidated path: %s", p)
	}
}

func (r *HTTPRevalidator) revalidatePath(ctx context.Context, path string) error {
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/api/revalidate?path=%s&secret=%s",
		r.baseURL, url.QueryEscape(path), url.QueryEscape(r.secret))

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("frontend responded %d", resp.StatusCode)
	}
	return nil
}
