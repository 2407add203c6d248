package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinbridge/withdrawal-processor/internal/domain/entity"
	tport "github.com/coinbridge/withdrawal-processor/internal/domain/port/core"
)

type testLogger struct{}

func (testLogger) SetLevel(tport.LogLevel)      {}
func (testLogger) GetLevel() tport.LogLevel     { return tport.LogLevelError }
func (testLogger) Debug(string, map[string]any) {}
func (testLogger) Info(string, map[string]any)  {}
func (testLogger) Warn(string, map[string]any)  {}
func (testLogger) Error(string, map[string]any) {}
func (testLogger) Flush() error                 { return nil }

func sampleEvent() entity.StatusEvent {
	return entity.StatusEvent{
		RequestID:     "req-1",
		OldStatus:     entity.StatusProcessing,
		NewStatus:     entity.StatusApproved,
		PlayerName:    "Steve",
		Amount:        "0.5",
		Currency:      "BTC",
		Actor:         "admin#1",
		TransactionID: "tx-1",
	}
}

func TestNewWebhookSinkRequiresEndpoint(t *testing.T) {
	_, err := NewWebhookSink("", time.Second, testLogger{})
	assert.Error(t, err)
}

func TestWebhookSinkDeliversEvent(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	sink, err := NewWebhookSink(server.URL, time.Second, testLogger{})
	require.NoError(t, err)

	require.NoError(t, sink.Notify(context.Background(), sampleEvent()))
	assert.Equal(t, "req-1", captured["request_id"])
	assert.Equal(t, "approved", captured["new_status"])
	assert.Equal(t, "processing", captured["old_status"])
	assert.Equal(t, "tx-1", captured["transaction_id"])
}

func TestWebhookSinkReportsFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	sink, err := NewWebhookSink(server.URL, time.Second, testLogger{})
	require.NoError(t, err)

	err = sink.Notify(context.Background(), sampleEvent())
	assert.ErrorContains(t, err, "502")

	server.Close()
	err = sink.Notify(context.Background(), sampleEvent())
	assert.ErrorContains(t, err, "deliver webhook")
}

func TestLogSinkNeverFails(t *testing.T) {
	sink := NewLogSink(testLogger{})
	assert.NoError(t, sink.Notify(context.Background(), sampleEvent()))
	assert.NoError(t, sink.Notify(context.Background(), entity.StatusEvent{RequestID: "req-2", NewStatus: entity.StatusPending}))
}
