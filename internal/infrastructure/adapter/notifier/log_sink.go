package notifier

import (
	"context"

	"github.com/coinbridge/withdrawal-processor/internal/domain/entity"
	coreport "github.com/coinbridge/withdrawal-processor/internal/domain/port/core"
)

// LogSink renders lifecycle events to the structured log. The default sink
// when no webhook is configured.
type LogSink struct {
	logger coreport.Logger
}

// NewLogSink creates a log-backed notification sink
func NewLogSink(logger coreport.Logger) *LogSink {
	return &LogSink{logger: logger}
}

// Notify logs the lifecycle event
func (s *LogSink) Notify(_ context.Context, event entity.StatusEvent) error {
	fields := map[string]any{
		"request_id": event.RequestID,
		"new_status": string(event.NewStatus),
		"player":     event.PlayerName,
		"amount":     event.Amount,
		"currency":   event.Currency,
	}
	if event.OldStatus != "" {
		fields["old_status"] = string(event.OldStatus)
	}
	if event.Actor != "" {
		fields["actor"] = event.Actor
	}
	if event.TransactionID != "" {
		fields["transaction_id"] = event.TransactionID
	}
	if event.FailureReason != "" {
		fields["failure_reason"] = event.FailureReason
	}

	s.logger.Info("Withdrawal lifecycle event", fields)
	return nil
}
