package dto

import (
	"github.com/coinbridge/withdrawal-processor/internal/domain/entity"
)

// CreateWithdrawalRequest represents the API request for creating a withdrawal
type CreateWithdrawalRequest struct {
	PlayerName    string            `json:"playerName" binding:"required"`
	PlayerUUID    string            `json:"playerUuid"`
	WalletAddress string            `json:"walletAddress" binding:"required"`
	Amount        string            `json:"amount" binding:"required"`
	Currency      string            `json:"currency" binding:"required"`
	Metadata      map[string]string `json:"metadata"`
}

// ActionRequest carries the acting operator for approve and reject calls
type ActionRequest struct {
	Actor string `json:"actor" binding:"required"`
}

// WithdrawalResponse represents a withdrawal request in API responses
type WithdrawalResponse struct {
	ID            string            `json:"id"`
	PlayerName    string            `json:"playerName"`
	PlayerUUID    string            `json:"playerUuid,omitempty"`
	WalletAddress string            `json:"walletAddress"`
	Amount        string            `json:"amount"`
	Currency      string            `json:"currency"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Status        string            `json:"status"`
	ApprovedBy    string            `json:"approvedBy,omitempty"`
	TransactionID string            `json:"transactionId,omitempty"`
	FailureReason string            `json:"failureReason,omitempty"`
	CreatedAt     string            `json:"createdAt"`
	UpdatedAt     string            `json:"updatedAt"`
}

// ListWithdrawalsResponse wraps a page of withdrawal requests
type ListWithdrawalsResponse struct {
	Withdrawals []WithdrawalResponse `json:"withdrawals"`
	Count       int                  `json:"count"`
}

// FromEntity maps a domain withdrawal request to its API representation
func FromEntity(request *entity.WithdrawalRequest) WithdrawalResponse {
	return WithdrawalResponse{
		ID:            request.ID,
		PlayerName:    request.PlayerName,
		PlayerUUID:    request.PlayerUUID,
		WalletAddress: request.WalletAddress,
		Amount:        request.Amount.String(),
		Currency:      request.Currency,
		Metadata:      request.Metadata,
		Status:        string(request.Status),
		ApprovedBy:    request.ApprovedBy,
		TransactionID: request.TransactionID,
		FailureReason: request.FailureReason,
		CreatedAt:     request.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z"),
		UpdatedAt:     request.UpdatedAt.UTC().Format("2006-01-02T15:04:05.000Z"),
	}
}

// FromEntities maps a slice of domain requests into a list response
func FromEntities(requests []*entity.WithdrawalRequest) ListWithdrawalsResponse {
	withdrawals := make([]WithdrawalResponse, 0, len(requests))
	for _, request := range requests {
		withdrawals = append(withdrawals, FromEntity(request))
	}
	return ListWithdrawalsResponse{
		Withdrawals: withdrawals,
		Count:       len(withdrawals),
	}
}
