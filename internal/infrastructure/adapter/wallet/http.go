package wallet

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coinbridge/withdrawal-processor/internal/domain/entity"
	errs "github.com/coinbridge/withdrawal-processor/internal/domain/error"
	coreport "github.com/coinbridge/withdrawal-processor/internal/domain/port/core"
	walletport "github.com/coinbridge/withdrawal-processor/internal/domain/port/wallet"
)

// genericAliases are the identifier field names a generic payout endpoint may
// use, in priority order
var genericAliases = []string{"transaction_id", "txid", "id"}

// HTTPBackend sends withdrawals to a configured payout endpoint as a JSON
// payload with an optional bearer credential
type HTTPBackend struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   coreport.Logger
}

// NewHTTPBackend creates a generic HTTP wallet backend. The endpoint is
// required; configuration is validated here, not on first call.
func NewHTTPBackend(endpoint, apiKey string, timeout time.Duration, logger coreport.Logger) (*HTTPBackend, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, fmt.Errorf("%w: wallet endpoint must be provided", errs.ErrWalletConfig)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPBackend{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}, nil
}

// Name identifies the backend variant
func (b *HTTPBackend) Name() string { return "http" }

// Submit posts the payment and reports the definitive outcome. Transport
// errors, non-2xx statuses and unrecognized bodies all normalize to Fail; the
// engine moves the request to a terminal status either way.
func (b *HTTPBackend) Submit(ctx context.Context, request *entity.WithdrawalRequest) walletport.Result {
	payload := map[string]any{
		"request_id":     request.ID,
		"player_name":    request.PlayerName,
		"wallet_address": request.WalletAddress,
		"amount":         request.Amount.String(),
		"currency":       request.Currency,
		"metadata":       request.Metadata,
	}

	headers := map[string]string{}
	if b.apiKey != "" {
		headers["Authorization"] = "Bearer " + b.apiKey
	}

	status, body, err := postJSON(ctx, b.client, b.endpoint, headers, payload)
	if err != nil {
		b.logger.Warn("Wallet endpoint unreachable", map[string]any{
			"request_id": request.ID,
			"error":      err.Error(),
		})
		return walletport.Fail(fmt.Sprintf("failed to contact wallet endpoint: %v", err))
	}

	if status < 200 || status >= 300 {
		return walletport.Fail(fmt.Sprintf("wallet request failed with status %d: %s",
			status, strings.TrimSpace(string(body))))
	}

	transactionID, ok := extractTransactionID(body, genericAliases...)
	if !ok {
		return walletport.Fail("wallet response missing transaction identifier")
	}

	b.logger.Info("Wallet payout completed", map[string]any{
		"request_id":     request.ID,
		"transaction_id": transactionID,
	})
	return walletport.Ok(transactionID)
}
