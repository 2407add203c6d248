package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single payment submission when no timeout is
// configured. Submit must never hang indefinitely.
const DefaultTimeout = 30 * time.Second

// postJSON sends the payload and returns the response status and body. The
// body is truncated so a misbehaving provider cannot blow up logs or stored
// failure reasons.
func postJSON(ctx context.Context, client *http.Client, endpoint string, headers map[string]string, payload any) (int, []byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response body: %w", err)
	}
	return resp.StatusCode, body, nil
}

// extractTransactionID returns the first non-empty identifier among the given
// alias keys. Providers disagree on the field name, so the caller passes its
// recognized aliases in priority order.
func extractTransactionID(body []byte, aliases ...string) (string, bool) {
	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", false
	}

	for _, alias := range aliases {
		value, ok := parsed[alias]
		if !ok || value == nil {
			continue
		}
		id := stringifyIdentifier(value)
		if id != "" {
			return id, true
		}
	}
	return "", false
}

// stringifyIdentifier normalizes string and numeric identifiers
func stringifyIdentifier(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", v), "0"), ".")
	default:
		return ""
	}
}
