package wallet

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/coinbridge/withdrawal-processor/internal/domain/entity"
	errs "github.com/coinbridge/withdrawal-processor/internal/domain/error"
	coreport "github.com/coinbridge/withdrawal-processor/internal/domain/port/core"
	walletport "github.com/coinbridge/withdrawal-processor/internal/domain/port/wallet"
)

// piteasAliases recognize the provider-specific transactionHash before the
// generic identifier fields
var piteasAliases = []string{"transactionHash", "transaction_id", "txid", "id"}

// PiteasConfig carries the parameters required by a self-hosted Piteas API
// instance. All fields except Priority and Timeout are required.
type PiteasConfig struct {
	BaseURL     string
	APIKey      string
	ProjectID   string
	WalletID    string
	AssetSymbol string
	Network     string
	Priority    string
	Timeout     time.Duration
}

// PiteasBackend addresses a fixed per-project, per-wallet withdrawal resource
// on a Piteas API instance
type PiteasBackend struct {
	endpoint string
	apiKey   string
	asset    string
	network  string
	priority string
	client   *http.Client
	logger   coreport.Logger
}

// NewPiteasBackend creates the provider-specific backend, failing fast when
// any required parameter is absent
func NewPiteasBackend(cfg PiteasConfig, logger coreport.Logger) (*PiteasBackend, error) {
	required := []struct {
		name  string
		value string
	}{
		{"base URL", cfg.BaseURL},
		{"API key", cfg.APIKey},
		{"project ID", cfg.ProjectID},
		{"wallet ID", cfg.WalletID},
		{"asset symbol", cfg.AssetSymbol},
		{"network", cfg.Network},
	}
	for _, param := range required {
		if strings.TrimSpace(param.value) == "" {
			return nil, fmt.Errorf("%w: piteas %s must be provided", errs.ErrWalletConfig, param.name)
		}
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: piteas base URL must include a scheme, got %q", errs.ErrWalletConfig, cfg.BaseURL)
	}

	endpoint := fmt.Sprintf("%s/api/projects/%s/wallets/%s/withdrawals",
		strings.TrimRight(base.String(), "/"),
		url.PathEscape(cfg.ProjectID),
		url.PathEscape(cfg.WalletID),
	)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &PiteasBackend{
		endpoint: endpoint,
		apiKey:   cfg.APIKey,
		asset:    cfg.AssetSymbol,
		network:  cfg.Network,
		priority: cfg.Priority,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}, nil
}

// Name identifies the backend variant
func (b *PiteasBackend) Name() string { return "piteas" }

// Endpoint exposes the resolved withdrawal resource URL, mainly for logging
func (b *PiteasBackend) Endpoint() string { return b.endpoint }

// Submit posts the withdrawal to the Piteas instance and reports the outcome
func (b *PiteasBackend) Submit(ctx context.Context, request *entity.WithdrawalRequest) walletport.Result {
	payload := map[string]any{
		"address":    request.WalletAddress,
		"amount":     request.Amount.String(),
		"asset":      b.asset,
		"network":    b.network,
		"externalId": request.ID,
		"playerName": request.PlayerName,
	}
	if len(request.Metadata) > 0 {
		payload["metadata"] = request.Metadata
		if memo := request.Metadata["memo"]; memo != "" {
			payload["memo"] = memo
		}
	}
	if b.priority != "" {
		payload["priority"] = b.priority
	}

	headers := map[string]string{"Authorization": "Bearer " + b.apiKey}

	status, body, err := postJSON(ctx, b.client, b.endpoint, headers, payload)
	if err != nil {
		b.logger.Warn("Piteas endpoint unreachable", map[string]any{
			"request_id": request.ID,
			"error":      err.Error(),
		})
		return walletport.Fail(fmt.Sprintf("failed to contact piteas wallet endpoint: %v", err))
	}

	if status < 200 || status >= 300 {
		return walletport.Fail(fmt.Sprintf("piteas wallet request failed with status %d: %s",
			status, strings.TrimSpace(string(body))))
	}

	transactionID, ok := extractTransactionID(body, piteasAliases...)
	if !ok {
		return walletport.Fail("piteas response missing transaction identifier")
	}

	b.logger.Info("Piteas payout completed", map[string]any{
		"request_id":     request.ID,
		"transaction_id": transactionID,
	})
	return walletport.Ok(transactionID)
}
