package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/cincodev/cinco-billing/internal/models"
)

// Remote is the fetch/post boundary to the shared-data endpoint.
type Remote interface {
	FetchSnapshot(ctx context.Context) (*models.SharedSnapshot, error)
	PushSnapshot(ctx context.Context, snapshot models.SharedSnapshot) error
}

// HTTPRemote talks to the shared-data endpoint over plain HTTP.
type HTTPRemote struct {
	client *resty.Client
}

// NewHTTPRemote creates a client for the shared-data endpoint at baseURL.
func NewHTTPRemote(baseURL string, timeout time.Duration) *HTTPRemote {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)
	return &HTTPRemote{client: client}
}

// FetchSnapshot retrieves the full shared snapshot.
func (r *HTTPRemote) FetchSnapshot(ctx context.Context) (*models.SharedSnapshot, error) {
	var snapshot models.SharedSnapshot
	resp, err := r.client.R().
		SetContext(ctx).
		SetResult(&snapshot).
		Get("/api/shared-data")
	if err != nil {
		return nil, fmt.Errorf("fetch shared data: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("fetch shared data: unexpected status %s", resp.Status())
	}
	return &snapshot, nil
}

// PushSnapshot replaces the server-held snapshot wholesale. The endpoint
// stamps lastUpdated on receipt; whatever value the body carries is
// ignored server-side.
func (r *HTTPRemote) PushSnapshot(ctx context.Context, snapshot models.SharedSnapshot) error {
	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(snapshot).
		Post("/api/shared-data")
	if err != nil {
		return fmt.Errorf("push shared data: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("push shared data: unexpected status %s", resp.Status())
	}
	return nil
}
