package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidRequest    = 4000
	CodeInvalidAmount     = 4001
	CodeInvalidCurrency   = 4002
	CodeInvalidAddress    = 4003
	CodeInvalidStatus     = 4004
	CodeRequestNotFound   = 4040
	CodeInvalidTransition = 4090
	CodeDuplicateRequest  = 4091

	// 5xxx - Server errors
	CodeInternalServer    = 5000
	CodeWalletConfig      = 5001
	CodeStoreInconsistent = 5002
)

// Base error types
var (
	// ErrInvalidRequest is returned when the request body or parameters are malformed
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidAmount is returned when the withdrawal amount is missing, malformed or not positive
	ErrInvalidAmount = errors.New("amount must be a positive decimal")

	// ErrInvalidCurrency is returned when the currency ticker is empty
	ErrInvalidCurrency = errors.New("currency cannot be empty")

	// ErrInvalidAddress is returned when the destination wallet address is empty
	ErrInvalidAddress = errors.New("wallet address cannot be empty")

	// ErrInvalidPlayerName is returned when the requesting player name is empty
	ErrInvalidPlayerName = errors.New("player name cannot be empty")

	// ErrInvalidStatus is returned when a status string is not one of the known lifecycle states
	ErrInvalidStatus = errors.New("invalid withdrawal status")

	// ErrRequestNotFound is returned when the requested withdrawal doesn't exist
	ErrRequestNotFound = errors.New("withdrawal request not found")

	// ErrInvalidTransition is returned when an action is attempted against a request
	// that has already left the required source state. Expected under concurrent
	// approvals; callers must not treat it as an anomaly.
	ErrInvalidTransition = errors.New("withdrawal is not in a state that allows this action")

	// ErrStaleState is the store-level signal that a compare-and-update lost the
	// race. It never crosses the engine boundary; the engine translates it to
	// ErrInvalidTransition.
	ErrStaleState = errors.New("stored status did not match expected status")

	// ErrDuplicateRequest is returned when inserting a request whose id already exists
	ErrDuplicateRequest = errors.New("withdrawal request with this ID already exists")

	// ErrWalletConfig is returned when a wallet backend is constructed with
	// missing or malformed parameters
	ErrWalletConfig = errors.New("wallet backend configuration is invalid")

	// ErrStoreInconsistent indicates the processing lock was stolen or the store
	// dropped a record mid-flight. Always a fatal anomaly, never expected.
	ErrStoreInconsistent = errors.New("store consistency violation")

	// ErrDatabaseConnection is returned when there's a problem talking to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return CodeInvalidRequest
	case errors.Is(err, ErrInvalidAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrInvalidCurrency):
		return CodeInvalidCurrency
	case errors.Is(err, ErrInvalidAddress), errors.Is(err, ErrInvalidPlayerName):
		return CodeInvalidAddress
	case errors.Is(err, ErrInvalidStatus):
		return CodeInvalidStatus
	case errors.Is(err, ErrInvalidTransition):
		return CodeInvalidTransition
	case errors.Is(err, ErrDuplicateRequest):
		return CodeDuplicateRequest
	case errors.Is(err, ErrRequestNotFound):
		return CodeRequestNotFound
	case errors.Is(err, ErrWalletConfig):
		return CodeWalletConfig
	case errors.Is(err, ErrStoreInconsistent):
		return CodeStoreInconsistent
	default:
		return CodeInternalServer
	}
}

// TransitionError carries the observed status when an action is rejected
// because the request already left the required source state.
type TransitionError struct {
	RequestID     string
	CurrentStatus string
	Action        string
}

// Error implements the error interface for TransitionError
func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s withdrawal %s: current status is %s",
		e.Action, e.RequestID, e.CurrentStatus)
}

// Is checks if the target error is an ErrInvalidTransition
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// LogFields returns a map of fields for structured logging
func (e *TransitionError) LogFields() map[string]any {
	return map[string]any{
		"error_type":     "invalid_transition",
		"request_id":     e.RequestID,
		"current_status": e.CurrentStatus,
		"action":         e.Action,
		"error_code":     CodeInvalidTransition,
	}
}

// NewTransitionError creates a detailed invalid-transition error
func NewTransitionError(requestID, currentStatus, action string) error {
	return &TransitionError{
		RequestID:     requestID,
		CurrentStatus: currentStatus,
		Action:        action,
	}
}

// ConsistencyError describes a compare-and-update that failed while the caller
// held the processing lock. Indicates store corruption or a broken exclusivity
// guarantee.
type ConsistencyError struct {
	RequestID      string
	ExpectedStatus string
	Err            error
}

// Error implements the error interface for ConsistencyError
func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("consistency violation on withdrawal %s (expected status %s): %v",
		e.RequestID, e.ExpectedStatus, e.Err)
}

// Unwrap returns the underlying error
func (e *ConsistencyError) Unwrap() error {
	return e.Err
}

// Is checks if the target error is an ErrStoreInconsistent
func (e *ConsistencyError) Is(target error) bool {
	return target == ErrStoreInconsistent
}

// LogFields returns a map of fields for structured logging
func (e *ConsistencyError) LogFields() map[string]any {
	return map[string]any{
		"error_type":      "store_inconsistency",
		"request_id":      e.RequestID,
		"expected_status": e.ExpectedStatus,
		"error":           e.Err.Error(),
		"error_code":      CodeStoreInconsistent,
	}
}

// NewConsistencyError creates a new ConsistencyError
func NewConsistencyError(requestID, expectedStatus string, err error) error {
	return &ConsistencyError{
		RequestID:      requestID,
		ExpectedStatus: expectedStatus,
		Err:            err,
	}
}

// IsValidationError checks if the error is a creation-input validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidCurrency) ||
		errors.Is(err, ErrInvalidAddress) ||
		errors.Is(err, ErrInvalidPlayerName) ||
		errors.Is(err, ErrInvalidStatus)
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrRequestNotFound)
}

// IsInvalidTransitionError checks if the error is an invalid transition error
func IsInvalidTransitionError(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}

// IsStaleStateError checks if the error is the internal compare-and-update signal
func IsStaleStateError(err error) bool {
	return errors.Is(err, ErrStaleState)
}

// IsConsistencyError checks if the error indicates a broken store guarantee
func IsConsistencyError(err error) bool {
	return errors.Is(err, ErrStoreInconsistent)
}
