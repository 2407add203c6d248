package repository

import (
	"context"
	"sync"

	"github.com/coinbridge/withdrawal-processor/internal/domain/entity"
	errs "github.com/coinbridge/withdrawal-processor/internal/domain/error"
	coreport "github.com/coinbridge/withdrawal-processor/internal/domain/port/core"
	"github.com/coinbridge/withdrawal-processor/internal/domain/port/persistence"
)

// MemoryWithdrawalRepository keeps withdrawal requests in process memory with
// the same compare-and-update semantics as the database-backed store. Used for
// local development together with the simulated wallet backend, and as the
// store under test.
type MemoryWithdrawalRepository struct {
	mu           sync.RWMutex
	requests     map[string]*entity.WithdrawalRequest
	order        []string
	timeProvider coreport.TimeProvider
}

// NewMemoryWithdrawalRepository creates an empty in-memory store
func NewMemoryWithdrawalRepository(timeProvider coreport.TimeProvider) *MemoryWithdrawalRepository {
	return &MemoryWithdrawalRepository{
		requests:     make(map[string]*entity.WithdrawalRequest),
		timeProvider: timeProvider,
	}
}

// Create inserts a new withdrawal request
func (r *MemoryWithdrawalRepository) Create(_ context.Context, request *entity.WithdrawalRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.requests[request.ID]; exists {
		return errs.ErrDuplicateRequest
	}
	r.requests[request.ID] = cloneRequest(request)
	r.order = append(r.order, request.ID)
	return nil
}

// GetByID retrieves a withdrawal request by its identifier
func (r *MemoryWithdrawalRepository) GetByID(_ context.Context, id string) (*entity.WithdrawalRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	request, ok := r.requests[id]
	if !ok {
		return nil, errs.ErrRequestNotFound
	}
	return cloneRequest(request), nil
}

// List returns requests in creation order, optionally filtered by status
func (r *MemoryWithdrawalRepository) List(_ context.Context, status *entity.Status, limit int) ([]*entity.WithdrawalRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*entity.WithdrawalRequest
	for _, id := range r.order {
		request := r.requests[id]
		if status != nil && request.Status != *status {
			continue
		}
		result = append(result, cloneRequest(request))
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

// UpdateStatus applies the update iff the stored status equals expected. The
// write lock makes the check-and-write atomic per store, which scopes
// contention well below the durations involved in payment calls.
func (r *MemoryWithdrawalRepository) UpdateStatus(_ context.Context, id string, expected entity.Status, update persistence.StatusUpdate) (*entity.WithdrawalRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	request, ok := r.requests[id]
	if !ok {
		return nil, errs.ErrRequestNotFound
	}
	if request.Status != expected {
		return nil, errs.ErrStaleState
	}

	request.Status = update.NewStatus
	if update.ApprovedBy != nil {
		request.ApprovedBy = *update.ApprovedBy
	}
	if update.TransactionID != nil {
		request.TransactionID = *update.TransactionID
	}
	if update.FailureReason != nil {
		request.FailureReason = *update.FailureReason
	}
	request.UpdatedAt = r.timeProvider.Now()

	return cloneRequest(request), nil
}

// cloneRequest copies the record so readers never observe a partial write
func cloneRequest(request *entity.WithdrawalRequest) *entity.WithdrawalRequest {
	clone := *request
	if request.Metadata != nil {
		clone.Metadata = make(map[string]string, len(request.Metadata))
		for key, value := range request.Metadata {
			clone.Metadata[key] = value
		}
	}
	return &clone
}
