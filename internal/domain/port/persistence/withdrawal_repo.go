package persistence

import (
	"context"

	"github.com/coinbridge/withdrawal-processor/internal/domain/entity"
)

// StatusUpdate describes the fields applied by a compare-and-update. Only the
// fields relevant to the target status are set; nil pointers leave the stored
// value untouched.
type StatusUpdate struct {
	NewStatus     entity.Status
	ApprovedBy    *string
	TransactionID *string
	FailureReason *string
}

// WithdrawalRepository defines the durable store for withdrawal requests.
// The compare-and-update primitive is the sole mutation path after insert and
// the mechanism that prevents double-processing.
type WithdrawalRepository interface {
	// Create inserts a new request at its initial status
	//
	// Possible errors:
	// - ErrDuplicateRequest: if a request with the same ID already exists
	// - ErrDatabaseConnection: if the store is unreachable
	Create(ctx context.Context, request *entity.WithdrawalRequest) error

	// GetByID retrieves a request by its identifier
	//
	// Possible errors:
	// - ErrRequestNotFound: if no request with the given ID exists
	// - ErrDatabaseConnection: if the store is unreachable
	GetByID(ctx context.Context, id string) (*entity.WithdrawalRequest, error)

	// List returns requests ordered by creation time ascending. A nil status
	// returns all requests. Limit bounds the result size; zero means no bound.
	//
	// Possible errors:
	// - ErrDatabaseConnection: if the store is unreachable
	List(ctx context.Context, status *entity.Status, limit int) ([]*entity.WithdrawalRequest, error)

	// UpdateStatus atomically applies update iff the stored status equals
	// expected, refreshing updated_at, and returns the record as written.
	// Exactly one of any set of concurrent callers with the same expected
	// status observes success.
	//
	// Possible errors:
	// - ErrRequestNotFound: if no request with the given ID exists
	// - ErrStaleState: if the stored status did not match expected
	// - ErrDatabaseConnection: if the store is unreachable
	UpdateStatus(ctx context.Context, id string, expected entity.Status, update StatusUpdate) (*entity.WithdrawalRequest, error)
}
