package withdrawal

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/coinbridge/withdrawal-processor/internal/domain/entity"
	errs "github.com/coinbridge/withdrawal-processor/internal/domain/error"
	coreport "github.com/coinbridge/withdrawal-processor/internal/domain/port/core"
	"github.com/coinbridge/withdrawal-processor/internal/domain/port/notification"
	"github.com/coinbridge/withdrawal-processor/internal/domain/port/persistence"
	"github.com/coinbridge/withdrawal-processor/internal/domain/port/wallet"
)

// CreateRequest represents the input for creating a withdrawal request
type CreateRequest struct {
	PlayerName    string
	PlayerUUID    string
	WalletAddress string
	Amount        string
	Currency      string
	Metadata      map[string]string
}

// Engine owns the withdrawal state machine. It serializes concurrent approval
// attempts per request through the store's compare-and-update primitive,
// invokes the wallet backend at most once per request, and reconciles the
// outcome back into the store.
//
// No process-wide lock is held anywhere: contention is scoped to the single
// record being approved, and the backend call happens outside any lock.
type Engine struct {
	store        persistence.WithdrawalRepository
	backend      wallet.Backend
	sink         notification.Sink
	validator    *RequestValidator
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewEngine creates a dispatch engine with its collaborators injected
func NewEngine(
	store persistence.WithdrawalRepository,
	backend wallet.Backend,
	sink notification.Sink,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Engine {
	return &Engine{
		store:        store,
		backend:      backend,
		sink:         sink,
		validator:    NewRequestValidator(),
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Create validates the input, persists a new request at status pending and
// emits the new-request event
func (e *Engine) Create(ctx context.Context, req CreateRequest) (*entity.WithdrawalRequest, error) {
	amount, err := e.validator.ValidateCreate(req)
	if err != nil {
		return nil, fmt.Errorf("invalid withdrawal request: %w", err)
	}

	request, err := entity.NewWithdrawalRequest(
		uuid.NewString(),
		req.PlayerName,
		req.PlayerUUID,
		req.WalletAddress,
		amount,
		req.Currency,
		req.Metadata,
		e.timeProvider,
	)
	if err != nil {
		return nil, err
	}

	if err := e.store.Create(ctx, request); err != nil {
		return nil, err
	}

	e.logger.Info("Withdrawal request created", map[string]any{
		"request_id": request.ID,
		"player":     request.PlayerName,
		"amount":     request.Amount.String(),
		"currency":   request.Currency,
	})

	e.notify(ctx, entity.NewStatusEvent(request, ""))
	return request, nil
}

// Approve moves the request through processing, submits the payment exactly
// once and records the definitive outcome.
//
// The pending → processing compare-and-update is the single serialization
// point: among any number of concurrent Approve calls for the same id, exactly
// one wins it and invokes the backend; every loser returns ErrInvalidTransition
// with no side effect.
func (e *Engine) Approve(ctx context.Context, id, actor string) (*entity.WithdrawalRequest, error) {
	processing, err := e.store.UpdateStatus(ctx, id, entity.StatusPending, persistence.StatusUpdate{
		NewStatus:  entity.StatusProcessing,
		ApprovedBy: &actor,
	})
	if err != nil {
		return nil, e.translateStale(ctx, id, "approve", err)
	}

	e.logger.Info("Withdrawal approval won processing lock", map[string]any{
		"request_id": id,
		"actor":      actor,
	})
	e.notify(ctx, entity.NewStatusEvent(processing, entity.StatusPending))

	// The single winner reaches this point. The backend call runs outside any
	// lock and may take arbitrary time; its adapter owns the timeout policy.
	result := e.backend.Submit(ctx, processing)

	if result.Failed {
		return e.settle(ctx, id, persistence.StatusUpdate{
			NewStatus:     entity.StatusFailed,
			FailureReason: &result.Reason,
		})
	}
	return e.settle(ctx, id, persistence.StatusUpdate{
		NewStatus:     entity.StatusApproved,
		TransactionID: &result.TransactionID,
	})
}

// Reject moves a pending request to rejected. Rejecting a request that already
// left the approvable state returns ErrInvalidTransition and changes nothing.
func (e *Engine) Reject(ctx context.Context, id, actor string) (*entity.WithdrawalRequest, error) {
	rejected, err := e.store.UpdateStatus(ctx, id, entity.StatusPending, persistence.StatusUpdate{
		NewStatus:  entity.StatusRejected,
		ApprovedBy: &actor,
	})
	if err != nil {
		return nil, e.translateStale(ctx, id, "reject", err)
	}

	e.logger.Info("Withdrawal request rejected", map[string]any{
		"request_id": id,
		"actor":      actor,
	})
	e.notify(ctx, entity.NewStatusEvent(rejected, entity.StatusPending))
	return rejected, nil
}

// GetStatus returns the current record for the given id
func (e *Engine) GetStatus(ctx context.Context, id string) (*entity.WithdrawalRequest, error) {
	return e.store.GetByID(ctx, id)
}

// List returns requests ordered by creation time ascending, optionally
// filtered by status
func (e *Engine) List(ctx context.Context, status *entity.Status, limit int) ([]*entity.WithdrawalRequest, error) {
	return e.store.List(ctx, status, limit)
}

// settle writes the terminal outcome of a payment call. The caller holds the
// processing lock, so the compare-and-update must succeed; a failure here means
// the store broke its exclusivity guarantee and is surfaced loudly.
func (e *Engine) settle(ctx context.Context, id string, update persistence.StatusUpdate) (*entity.WithdrawalRequest, error) {
	settled, err := e.store.UpdateStatus(ctx, id, entity.StatusProcessing, update)
	if err != nil {
		consistencyErr := errs.NewConsistencyError(id, string(entity.StatusProcessing), err)
		e.logger.Error("Processing lock violated while settling withdrawal", map[string]any{
			"request_id": id,
			"new_status": string(update.NewStatus),
			"error":      err.Error(),
		})
		return nil, consistencyErr
	}

	fields := map[string]any{
		"request_id": id,
		"status":     string(settled.Status),
	}
	if settled.TransactionID != "" {
		fields["transaction_id"] = settled.TransactionID
	}
	if settled.FailureReason != "" {
		fields["failure_reason"] = settled.FailureReason
	}
	e.logger.Info("Withdrawal settled", fields)

	e.notify(ctx, entity.NewStatusEvent(settled, entity.StatusProcessing))
	return settled, nil
}

// translateStale maps the store's compare-and-update race signal to the
// caller-facing invalid-transition error, enriched with the observed status.
// Losing the race is expected under concurrency and logged below error level.
func (e *Engine) translateStale(ctx context.Context, id, action string, err error) error {
	if !errs.IsStaleStateError(err) {
		return err
	}

	current := "unknown"
	if existing, getErr := e.store.GetByID(ctx, id); getErr == nil {
		current = string(existing.Status)
	}

	e.logger.Debug("Withdrawal action lost the state race", map[string]any{
		"request_id":     id,
		"action":         action,
		"current_status": current,
	})
	return errs.NewTransitionError(id, current, action)
}

// notify delivers a lifecycle event best-effort. Sink failures are logged and
// never affect the committed status.
func (e *Engine) notify(ctx context.Context, event entity.StatusEvent) {
	if e.sink == nil {
		return
	}
	if err := e.sink.Notify(ctx, event); err != nil {
		e.logger.Warn("Failed to deliver withdrawal notification", map[string]any{
			"request_id": event.RequestID,
			"new_status": string(event.NewStatus),
			"error":      err.Error(),
		})
	}
}
