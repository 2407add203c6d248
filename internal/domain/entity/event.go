package entity

// StatusEvent describes one committed lifecycle transition, delivered to the
// notification sink after the store write. OldStatus is empty for the creation
// event.
type StatusEvent struct {
	RequestID     string `json:"request_id"`
	OldStatus     Status `json:"old_status,omitempty"`
	NewStatus     Status `json:"new_status"`
	PlayerName    string `json:"player_name"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Actor         string `json:"actor,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
	FailureReason string `json:"failure_reason,omitempty"`
}

// NewStatusEvent builds the event for a transition that has already been
// committed to the store
func NewStatusEvent(request *WithdrawalRequest, oldStatus Status) StatusEvent {
	return StatusEvent{
		RequestID:     request.ID,
		OldStatus:     oldStatus,
		NewStatus:     request.Status,
		PlayerName:    request.PlayerName,
		Amount:        request.Amount.String(),
		Currency:      request.Currency,
		Actor:         request.ApprovedBy,
		TransactionID: request.TransactionID,
		FailureReason: request.FailureReason,
	}
}
