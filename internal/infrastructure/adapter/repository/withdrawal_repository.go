package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/coinbridge/withdrawal-processor/internal/domain/entity"
	errs "github.com/coinbridge/withdrawal-processor/internal/domain/error"
	coreport "github.com/coinbridge/withdrawal-processor/internal/domain/port/core"
	"github.com/coinbridge/withdrawal-processor/internal/domain/port/persistence"
	"github.com/coinbridge/withdrawal-processor/internal/infrastructure/adapter/model"
)

// WithdrawalRepository implements the durable request store using GORM.
// The single-row conditional UPDATE in UpdateStatus is the per-request
// exclusivity mechanism: exactly one of any set of concurrent callers with the
// same expected status sees RowsAffected == 1.
type WithdrawalRepository struct {
	db           *gorm.DB
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewWithdrawalRepository creates a new WithdrawalRepository instance
func NewWithdrawalRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *WithdrawalRepository {
	return &WithdrawalRepository{
		db:           db,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Create inserts a new withdrawal request
func (r *WithdrawalRepository) Create(ctx context.Context, request *entity.WithdrawalRequest) error {
	record, err := model.FromEntity(request)
	if err != nil {
		return fmt.Errorf("serialize withdrawal: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		if isDuplicateKeyError(err) {
			return errs.ErrDuplicateRequest
		}
		r.logger.Error("Failed to insert withdrawal", map[string]any{
			"request_id": request.ID,
			"error":      err.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}
	return nil
}

// GetByID retrieves a withdrawal request by its identifier
func (r *WithdrawalRepository) GetByID(ctx context.Context, id string) (*entity.WithdrawalRequest, error) {
	var record model.Withdrawal
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.ErrRequestNotFound
		}
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}
	return record.ToEntity()
}

// List returns withdrawal requests ordered by creation time ascending
func (r *WithdrawalRepository) List(ctx context.Context, status *entity.Status, limit int) ([]*entity.WithdrawalRequest, error) {
	query := r.db.WithContext(ctx).Model(&model.Withdrawal{}).Order("created_at ASC")
	if status != nil {
		query = query.Where("status = ?", string(*status))
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var records []model.Withdrawal
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}

	requests := make([]*entity.WithdrawalRequest, 0, len(records))
	for i := range records {
		request, err := records[i].ToEntity()
		if err != nil {
			return nil, fmt.Errorf("deserialize withdrawal %s: %w", records[i].ID, err)
		}
		requests = append(requests, request)
	}
	return requests, nil
}

// UpdateStatus applies the update iff the stored status equals expected, in a
// single conditional UPDATE
func (r *WithdrawalRepository) UpdateStatus(ctx context.Context, id string, expected entity.Status, update persistence.StatusUpdate) (*entity.WithdrawalRequest, error) {
	fields := map[string]any{
		"status":     string(update.NewStatus),
		"updated_at": r.timeProvider.Now(),
	}
	if update.ApprovedBy != nil {
		fields["approved_by"] = *update.ApprovedBy
	}
	if update.TransactionID != nil {
		fields["transaction_id"] = *update.TransactionID
	}
	if update.FailureReason != nil {
		fields["failure_reason"] = *update.FailureReason
	}

	result := r.db.WithContext(ctx).
		Model(&model.Withdrawal{}).
		Where("id = ? AND status = ?", id, string(expected)).
		Updates(fields)
	if result.Error != nil {
		r.logger.Error("Failed to update withdrawal status", map[string]any{
			"request_id": id,
			"new_status": string(update.NewStatus),
			"error":      result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	if result.RowsAffected == 0 {
		// Nothing matched: either the id is unknown or the status moved on.
		var count int64
		if err := r.db.WithContext(ctx).Model(&model.Withdrawal{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
		}
		if count == 0 {
			return nil, errs.ErrRequestNotFound
		}
		return nil, errs.ErrStaleState
	}

	return r.GetByID(ctx, id)
}

// isDuplicateKeyError checks if an error indicates a unique constraint violation
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "sqlstate 23505")
}
