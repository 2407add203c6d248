package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	errs "github.com/coinbridge/withdrawal-processor/internal/domain/error"
	tport "github.com/coinbridge/withdrawal-processor/internal/domain/port/core"
)

// Status represents the lifecycle state of a withdrawal request
type Status string

// Withdrawal lifecycle states
const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusApproved   Status = "approved"
	StatusRejected   Status = "rejected"
	StatusFailed     Status = "failed"
)

// ParseStatus converts a raw string into a Status
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: %s", errs.ErrInvalidStatus, raw)
	}
	return s, nil
}

// Valid reports whether the status is one of the five lifecycle states
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusApproved, StatusRejected, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether the status permits no further transitions
func (s Status) Terminal() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusFailed:
		return true
	}
	return false
}

// CanTransitionTo reports whether the state machine allows moving from s to next.
// The graph is pending → processing → {approved, failed} and pending → rejected.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing || next == StatusRejected
	case StatusProcessing:
		return next == StatusApproved || next == StatusFailed
	}
	return false
}

// WithdrawalRequest represents one withdrawal lifecycle record.
// Payment fields are immutable after creation; only the dispatch engine mutates
// status and its dependent fields.
type WithdrawalRequest struct {
	ID            string            // Opaque unique identifier, assigned at creation
	PlayerName    string            // Player initiating the withdrawal
	PlayerUUID    string            // Optional opaque player identifier
	WalletAddress string            // Destination wallet address
	Amount        decimal.Decimal   // Fixed-precision amount, never a float
	Currency      string            // Currency ticker, e.g. BTC
	Metadata      map[string]string // Opaque pass-through for the wallet backend
	Status        Status
	ApprovedBy    string // Actor who approved or rejected, audit only
	TransactionID string // Settlement identifier, set iff status is approved
	FailureReason string // Set only when status is failed
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewWithdrawalRequest creates a pending withdrawal request with validated
// payment fields
func NewWithdrawalRequest(
	id string,
	playerName string,
	playerUUID string,
	walletAddress string,
	amount decimal.Decimal,
	currency string,
	metadata map[string]string,
	timeProvider tport.TimeProvider,
) (*WithdrawalRequest, error) {
	if playerName == "" {
		return nil, errs.ErrInvalidPlayerName
	}
	if walletAddress == "" {
		return nil, errs.ErrInvalidAddress
	}
	if currency == "" {
		return nil, errs.ErrInvalidCurrency
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidAmount, amount.String())
	}

	now := timeProvider.Now()
	return &WithdrawalRequest{
		ID:            id,
		PlayerName:    playerName,
		PlayerUUID:    playerUUID,
		WalletAddress: walletAddress,
		Amount:        amount,
		Currency:      currency,
		Metadata:      metadata,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// ParseAmount converts a raw decimal string into a validated positive amount
func ParseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", errs.ErrInvalidAmount, raw)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s", errs.ErrInvalidAmount, raw)
	}
	return amount, nil
}
