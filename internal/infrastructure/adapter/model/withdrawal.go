package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coinbridge/withdrawal-processor/internal/domain/entity"
)

// Withdrawal represents the database model for withdrawal requests
type Withdrawal struct {
	ID            string    `gorm:"primaryKey;size:64"`
	PlayerName    string    `gorm:"not null;size:255"`
	PlayerUUID    string    `gorm:"size:64;index"`
	WalletAddress string    `gorm:"not null;size:255"`
	Amount        string    `gorm:"not null;size:64"`
	Currency      string    `gorm:"not null;size:16"`
	Metadata      string    `gorm:"type:text"`
	Status        string    `gorm:"not null;size:20;index"`
	ApprovedBy    string    `gorm:"size:255"`
	TransactionID string    `gorm:"size:255"`
	FailureReason string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"not null;index"`
	UpdatedAt     time.Time `gorm:"not null"`
}

// TableName specifies the table name for Withdrawal
func (Withdrawal) TableName() string {
	return "withdrawals"
}

// FromEntity converts a domain request into the database model
func FromEntity(request *entity.WithdrawalRequest) (*Withdrawal, error) {
	metadata := ""
	if len(request.Metadata) > 0 {
		encoded, err := json.Marshal(request.Metadata)
		if err != nil {
			return nil, err
		}
		metadata = string(encoded)
	}

	return &Withdrawal{
		ID:            request.ID,
		PlayerName:    request.PlayerName,
		PlayerUUID:    request.PlayerUUID,
		WalletAddress: request.WalletAddress,
		Amount:        request.Amount.String(),
		Currency:      request.Currency,
		Metadata:      metadata,
		Status:        string(request.Status),
		ApprovedBy:    request.ApprovedBy,
		TransactionID: request.TransactionID,
		FailureReason: request.FailureReason,
		CreatedAt:     request.CreatedAt,
		UpdatedAt:     request.UpdatedAt,
	}, nil
}

// ToEntity converts the database model back into a domain request
func (w *Withdrawal) ToEntity() (*entity.WithdrawalRequest, error) {
	amount, err := decimal.NewFromString(w.Amount)
	if err != nil {
		return nil, err
	}

	var metadata map[string]string
	if w.Metadata != "" {
		if err := json.Unmarshal([]byte(w.Metadata), &metadata); err != nil {
			return nil, err
		}
	}

	return &entity.WithdrawalRequest{
		ID:            w.ID,
		PlayerName:    w.PlayerName,
		PlayerUUID:    w.PlayerUUID,
		WalletAddress: w.WalletAddress,
		Amount:        amount,
		Currency:      w.Currency,
		Metadata:      metadata,
		Status:        entity.Status(w.Status),
		ApprovedBy:    w.ApprovedBy,
		TransactionID: w.TransactionID,
		FailureReason: w.FailureReason,
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
	}, nil
}
