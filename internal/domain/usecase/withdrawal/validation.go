package withdrawal

import (
	"github.com/shopspring/decimal"

	"github.com/coinbridge/withdrawal-processor/internal/domain/entity"
	errs "github.com/coinbridge/withdrawal-processor/internal/domain/error"
)

// RequestValidator provides validation for withdrawal creation input
type RequestValidator struct{}

// NewRequestValidator creates a new RequestValidator
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{}
}

// ValidateCreate checks all creation fields and returns the parsed amount.
// Validation happens before any state is created; nothing is persisted for
// invalid input.
func (v *RequestValidator) ValidateCreate(req CreateRequest) (decimal.Decimal, error) {
	if req.PlayerName == "" {
		return decimal.Zero, errs.ErrInvalidPlayerName
	}
	if req.WalletAddress == "" {
		return decimal.Zero, errs.ErrInvalidAddress
	}
	if req.Currency == "" {
		return decimal.Zero, errs.ErrInvalidCurrency
	}
	return entity.ParseAmount(req.Amount)
}
