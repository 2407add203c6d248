package wallet

import (
	"context"

	"github.com/coinbridge/withdrawal-processor/internal/domain/entity"
)

// Result is the outcome of a single payment submission. Ordinary business
// failures (insufficient funds, provider errors, timeouts) are reported through
// Failed/Reason, never as a Go error: the dispatch engine always moves the
// request to a terminal status after one backend call.
type Result struct {
	TransactionID string
	Failed        bool
	Reason        string
}

// Ok builds a successful result carrying the settlement identifier
func Ok(transactionID string) Result {
	return Result{TransactionID: transactionID}
}

// Fail builds a failed result carrying a human-readable reason
func Fail(reason string) Result {
	return Result{Failed: true, Reason: reason}
}

// Backend executes one payment for one withdrawal request. Implementations are
// stateless per call: no retry, no backoff, no idempotency key. At-most-once
// invocation is guaranteed by the dispatch engine, not by the backend.
//
// Timeout policy is the implementation's responsibility; Submit must never
// hang indefinitely. Construction-time configuration is validated eagerly and
// surfaces as ErrWalletConfig.
type Backend interface {
	// Name identifies the backend variant for logging
	Name() string

	// Submit sends the payment and reports the definitive outcome
	Submit(ctx context.Context, request *entity.WithdrawalRequest) Result
}
