package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coinbridge/withdrawal-processor/internal/domain/entity"
	coreport "github.com/coinbridge/withdrawal-processor/internal/domain/port/core"
)

// defaultWebhookTimeout bounds one delivery attempt; the engine treats
// delivery as fire-and-forget so a slow receiver must not stall approvals
const defaultWebhookTimeout = 10 * time.Second

// WebhookSink posts lifecycle events as JSON to a configured endpoint, e.g. a
// chat-platform webhook that renders them for administrators
type WebhookSink struct {
	endpoint string
	client   *http.Client
	logger   coreport.Logger
}

// NewWebhookSink creates a webhook-backed notification sink
func NewWebhookSink(endpoint string, timeout time.Duration, logger coreport.Logger) (*WebhookSink, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, fmt.Errorf("webhook endpoint must be provided")
	}
	if timeout <= 0 {
		timeout = defaultWebhookTimeout
	}
	return &WebhookSink{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}, nil
}

// Notify delivers the event once; any failure is reported to the caller, which
// logs it and moves on
func (s *WebhookSink) Notify(ctx context.Context, event entity.StatusEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("deliver webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}

	s.logger.Debug("Webhook notification delivered", map[string]any{
		"request_id": event.RequestID,
		"new_status": string(event.NewStatus),
	})
	return nil
}
