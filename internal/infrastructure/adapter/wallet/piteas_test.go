package wallet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/coinbridge/withdrawal-processor/internal/domain/error"
)

func validPiteasConfig(baseURL string) PiteasConfig {
	return PiteasConfig{
		BaseURL:     baseURL,
		APIKey:      "piteas-key",
		ProjectID:   "proj-1",
		WalletID:    "wallet-9",
		AssetSymbol: "BTC",
		Network:     "bitcoin",
		Timeout:     time.Second,
	}
}

func TestNewPiteasBackendValidation(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*PiteasConfig)
	}{
		{"missing base URL", func(c *PiteasConfig) { c.BaseURL = "" }},
		{"missing API key", func(c *PiteasConfig) { c.APIKey = "" }},
		{"missing project ID", func(c *PiteasConfig) { c.ProjectID = "" }},
		{"missing wallet ID", func(c *PiteasConfig) { c.WalletID = "" }},
		{"missing asset symbol", func(c *PiteasConfig) { c.AssetSymbol = "" }},
		{"missing network", func(c *PiteasConfig) { c.Network = "" }},
		{"base URL without scheme", func(c *PiteasConfig) { c.BaseURL = "piteas.example.com" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validPiteasConfig("https://piteas.example.com")
			tc.mutate(&cfg)
			_, err := NewPiteasBackend(cfg, testLogger{})
			assert.ErrorIs(t, err, errs.ErrWalletConfig)
		})
	}
}

func TestNewPiteasBackendEndpoint(t *testing.T) {
	backend, err := NewPiteasBackend(validPiteasConfig("https://piteas.example.com/"), testLogger{})
	require.NoError(t, err)
	assert.Equal(t, "https://piteas.example.com/api/projects/proj-1/wallets/wallet-9/withdrawals", backend.Endpoint())

	// Priority is optional
	cfg := validPiteasConfig("https://piteas.example.com")
	cfg.Priority = "high"
	_, err = NewPiteasBackend(cfg, testLogger{})
	assert.NoError(t, err)
}

func TestPiteasBackendSubmit(t *testing.T) {
	var captured map[string]any
	var path, authHeader string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		authHeader = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"transactionHash": "0xdeadbeef", "id": "internal-7"}`))
	}))
	defer server.Close()

	cfg := validPiteasConfig(server.URL)
	cfg.Priority = "high"
	backend, err := NewPiteasBackend(cfg, testLogger{})
	require.NoError(t, err)

	result := backend.Submit(context.Background(), sampleRequest())
	require.False(t, result.Failed)

	// transactionHash outranks the generic aliases
	assert.Equal(t, "0xdeadbeef", result.TransactionID)
	assert.Equal(t, "/api/projects/proj-1/wallets/wallet-9/withdrawals", path)
	assert.Equal(t, "Bearer piteas-key", authHeader)

	assert.Equal(t, "bc1qexample", captured["address"])
	assert.Equal(t, "0.5", captured["amount"])
	assert.Equal(t, "BTC", captured["asset"])
	assert.Equal(t, "bitcoin", captured["network"])
	assert.Equal(t, "req-1", captured["externalId"])
	assert.Equal(t, "Steve", captured["playerName"])
	assert.Equal(t, "high", captured["priority"])
	assert.Equal(t, "tip", captured["memo"])
	assert.Equal(t, map[string]any{"memo": "tip"}, captured["metadata"])
}

func TestPiteasBackendGenericAliasFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"txid": "fallback-id"}`))
	}))
	defer server.Close()

	backend, err := NewPiteasBackend(validPiteasConfig(server.URL), testLogger{})
	require.NoError(t, err)

	result := backend.Submit(context.Background(), sampleRequest())
	require.False(t, result.Failed)
	assert.Equal(t, "fallback-id", result.TransactionID)
}

func TestPiteasBackendFailures(t *testing.T) {
	t.Run("provider error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"error": "insufficient funds"}`, http.StatusBadRequest)
		}))
		defer server.Close()

		backend, err := NewPiteasBackend(validPiteasConfig(server.URL), testLogger{})
		require.NoError(t, err)

		result := backend.Submit(context.Background(), sampleRequest())
		assert.True(t, result.Failed)
		assert.Contains(t, result.Reason, "400")
		assert.Contains(t, result.Reason, "insufficient funds")
	})

	t.Run("missing identifier", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"status": "queued"}`))
		}))
		defer server.Close()

		backend, err := NewPiteasBackend(validPiteasConfig(server.URL), testLogger{})
		require.NoError(t, err)

		result := backend.Submit(context.Background(), sampleRequest())
		assert.True(t, result.Failed)
		assert.Contains(t, result.Reason, "missing transaction identifier")
	})
}
