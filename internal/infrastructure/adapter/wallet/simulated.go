package wallet

import (
	"context"

	"github.com/google/uuid"

	"github.com/coinbridge/withdrawal-processor/internal/domain/entity"
	coreport "github.com/coinbridge/withdrawal-processor/internal/domain/port/core"
	walletport "github.com/coinbridge/withdrawal-processor/internal/domain/port/wallet"
)

// SimulatedBackend synthesizes transaction identifiers without touching the
// network. Used for local development.
type SimulatedBackend struct {
	logger coreport.Logger
}

// NewSimulatedBackend creates a simulated wallet backend
func NewSimulatedBackend(logger coreport.Logger) *SimulatedBackend {
	return &SimulatedBackend{logger: logger}
}

// Name identifies the backend variant
func (b *SimulatedBackend) Name() string { return "simulated" }

// Submit returns a synthesized settlement identifier immediately
func (b *SimulatedBackend) Submit(_ context.Context, request *entity.WithdrawalRequest) walletport.Result {
	transactionID := "sim-" + uuid.NewString()
	b.logger.Info("Simulated payout completed", map[string]any{
		"request_id":     request.ID,
		"amount":         request.Amount.String(),
		"currency":       request.Currency,
		"transaction_id": transactionID,
	})
	return walletport.Ok(transactionID)
}
