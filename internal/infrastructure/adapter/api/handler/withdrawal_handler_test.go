package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coinbridge/withdrawal-processor/internal/domain/entity"
	walletport "github.com/coinbridge/withdrawal-processor/internal/domain/port/wallet"
	withdrawalUseCase "github.com/coinbridge/withdrawal-processor/internal/domain/usecase/withdrawal"
	"github.com/coinbridge/withdrawal-processor/internal/infrastructure/adapter/api/handler"
	"github.com/coinbridge/withdrawal-processor/internal/infrastructure/adapter/api/routes"
	"github.com/coinbridge/withdrawal-processor/internal/infrastructure/adapter/logger"
	"github.com/coinbridge/withdrawal-processor/internal/infrastructure/adapter/repository"
	timeProvider "github.com/coinbridge/withdrawal-processor/internal/infrastructure/adapter/time"
	"github.com/coinbridge/withdrawal-processor/internal/infrastructure/adapter/wallet"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// failingBackend rejects every submission with a fixed reason
type failingBackend struct{}

func (b *failingBackend) Name() string { return "failing" }

func (b *failingBackend) Submit(_ context.Context, _ *entity.WithdrawalRequest) walletport.Result {
	return walletport.Fail("insufficient hot wallet balance")
}

func newTestRouter(t *testing.T, backend walletport.Backend) *gin.Engine {
	t.Helper()

	log := logger.NewNoopLogger()
	tp := timeProvider.NewRealTimeProvider()
	if backend == nil {
		backend = wallet.NewSimulatedBackend(log)
	}

	store := repository.NewMemoryWithdrawalRepository(tp)
	engine := withdrawalUseCase.NewEngine(store, backend, nil, tp, log)

	router := gin.New()
	routes.SetupRoutes(router,
		handler.NewWithdrawalHandler(engine, log),
		handler.NewHealthHandler("memory", backend.Name()))
	return router
}

func performJSON(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func createWithdrawal(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := performJSON(router, http.MethodPost, "/withdrawals", map[string]any{
		"playerName":    "Steve",
		"walletAddress": "bc1qexample",
		"amount":        "0.05",
		"currency":      "BTC",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	id, ok := body["id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)
	return id
}

func TestCreateWithdrawal(t *testing.T) {
	router := newTestRouter(t, nil)

	w := performJSON(router, http.MethodPost, "/withdrawals", map[string]any{
		"playerName":    "Steve",
		"playerUuid":    "069a79f4-44e9-4726-a5be-fca90e38aaf5",
		"walletAddress": "bc1qexample",
		"amount":        "0.05",
		"currency":      "BTC",
		"metadata":      map[string]string{"memo": "weekly payout"},
	})

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, "0.05", body["amount"])
	assert.Equal(t, "Steve", body["playerName"])
	assert.NotEmpty(t, body["id"])
	assert.Empty(t, body["transactionId"])
}

func TestCreateWithdrawalValidation(t *testing.T) {
	router := newTestRouter(t, nil)

	tests := []struct {
		name string
		body map[string]any
	}{
		{
			name: "missing player name",
			body: map[string]any{
				"walletAddress": "bc1qexample",
				"amount":        "0.05",
				"currency":      "BTC",
			},
		},
		{
			name: "non-numeric amount",
			body: map[string]any{
				"playerName":    "Steve",
				"walletAddress": "bc1qexample",
				"amount":        "lots",
				"currency":      "BTC",
			},
		},
		{
			name: "negative amount",
			body: map[string]any{
				"playerName":    "Steve",
				"walletAddress": "bc1qexample",
				"amount":        "-1",
				"currency":      "BTC",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performJSON(router, http.MethodPost, "/withdrawals", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestGetWithdrawal(t *testing.T) {
	router := newTestRouter(t, nil)
	id := createWithdrawal(t, router)

	w := performJSON(router, http.MethodGet, "/withdrawals/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, id, body["id"])
	assert.Equal(t, "pending", body["status"])
}

func TestGetWithdrawalNotFound(t *testing.T) {
	router := newTestRouter(t, nil)

	w := performJSON(router, http.MethodGet, "/withdrawals/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApproveWithdrawal(t *testing.T) {
	router := newTestRouter(t, nil)
	id := createWithdrawal(t, router)

	w := performJSON(router, http.MethodPost, "/withdrawals/"+id+"/approve", map[string]any{
		"actor": "admin",
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "approved", body["status"])
	assert.Equal(t, "admin", body["approvedBy"])
	assert.NotEmpty(t, body["transactionId"])
}

func TestApproveWithdrawalTwice(t *testing.T) {
	router := newTestRouter(t, nil)
	id := createWithdrawal(t, router)

	first := performJSON(router, http.MethodPost, "/withdrawals/"+id+"/approve", map[string]any{"actor": "admin"})
	require.Equal(t, http.StatusOK, first.Code)

	second := performJSON(router, http.MethodPost, "/withdrawals/"+id+"/approve", map[string]any{"actor": "admin"})
	assert.Equal(t, http.StatusConflict, second.Code)
}

func TestApproveWithdrawalBackendFailure(t *testing.T) {
	router := newTestRouter(t, &failingBackend{})
	id := createWithdrawal(t, router)

	w := performJSON(router, http.MethodPost, "/withdrawals/"+id+"/approve", map[string]any{"actor": "admin"})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "failed", body["status"])
	assert.Equal(t, "insufficient hot wallet balance", body["failureReason"])
	assert.Empty(t, body["transactionId"])
}

func TestApproveWithdrawalMissingActor(t *testing.T) {
	router := newTestRouter(t, nil)
	id := createWithdrawal(t, router)

	w := performJSON(router, http.MethodPost, "/withdrawals/"+id+"/approve", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRejectWithdrawal(t *testing.T) {
	router := newTestRouter(t, nil)
	id := createWithdrawal(t, router)

	w := performJSON(router, http.MethodPost, "/withdrawals/"+id+"/reject", map[string]any{
		"actor": "moderator",
	})

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "rejected", body["status"])
	assert.Equal(t, "moderator", body["approvedBy"])
}

func TestRejectApprovedWithdrawal(t *testing.T) {
	router := newTestRouter(t, nil)
	id := createWithdrawal(t, router)

	approve := performJSON(router, http.MethodPost, "/withdrawals/"+id+"/approve", map[string]any{"actor": "admin"})
	require.Equal(t, http.StatusOK, approve.Code)

	reject := performJSON(router, http.MethodPost, "/withdrawals/"+id+"/reject", map[string]any{"actor": "admin"})
	assert.Equal(t, http.StatusConflict, reject.Code)
}

func TestListWithdrawals(t *testing.T) {
	router := newTestRouter(t, nil)
	first := createWithdrawal(t, router)
	second := createWithdrawal(t, router)

	approve := performJSON(router, http.MethodPost, "/withdrawals/"+second+"/approve", map[string]any{"actor": "admin"})
	require.Equal(t, http.StatusOK, approve.Code)

	t.Run("all requests in creation order", func(t *testing.T) {
		w := performJSON(router, http.MethodGet, "/withdrawals", nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.EqualValues(t, 2, body["count"])

		withdrawals := body["withdrawals"].([]any)
		require.Len(t, withdrawals, 2)
		assert.Equal(t, first, withdrawals[0].(map[string]any)["id"])
		assert.Equal(t, second, withdrawals[1].(map[string]any)["id"])
	})

	t.Run("filtered by status", func(t *testing.T) {
		w := performJSON(router, http.MethodGet, "/withdrawals?status=pending", nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.EqualValues(t, 1, body["count"])
	})

	t.Run("invalid status filter", func(t *testing.T) {
		w := performJSON(router, http.MethodGet, "/withdrawals?status=sideways", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("limit applies", func(t *testing.T) {
		w := performJSON(router, http.MethodGet, "/withdrawals?limit=1", nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.EqualValues(t, 1, body["count"])
	})

	t.Run("invalid limit", func(t *testing.T) {
		w := performJSON(router, http.MethodGet, "/withdrawals?limit=0", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = performJSON(router, http.MethodGet, "/withdrawals?limit=5000", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	w := performJSON(router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "memory", body["storage"])
}
