package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
)

// WebhookDispatcher posts notifications as JSON to an email relay endpoint.
// Transient relay failures are retried with backoff by the underlying client.
type WebhookDispatcher struct {
	endpoint string
	client   *retryablehttp.Client
}

var _ Dispatcher = (*WebhookDispatcher)(nil)

type WebhookOption func(*WebhookDispatcher)

// WithRetryMax overrides the retry budget of the HTTP client.
func WithRetryMax(n int) WebhookOption {
	return func(d *WebhookDispatcher) {
		d.client.RetryMax = n
	}
}

func NewWebhookDispatcher(endpoint string, opts ...WebhookOption) *WebhookDispatcher {
	client := retryablehttp.NewClient()
	client.Logger = nil

	d := &WebhookDispatcher{
		endpoint: endpoint,
		client:   client,
	}

	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *WebhookDispatcher) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("deliver notification: relay returned %d", resp.StatusCode)
	}
	return nil
}
