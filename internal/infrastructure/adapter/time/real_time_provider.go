package time

import (
	"context"
	stdtime "time"

	"github.com/coinbridge/withdrawal-processor/internal/domain/port/core"
)

// RealTimeProvider implements the TimeProvider port using the system clock
type RealTimeProvider struct{}

// NewRealTimeProvider creates a new RealTimeProvider
func NewRealTimeProvider() *RealTimeProvider {
	return &RealTimeProvider{}
}

// Now returns the current UTC time
func (p *RealTimeProvider) Now() stdtime.Time {
	return stdtime.Now().UTC()
}

// Since returns the duration elapsed since t
func (p *RealTimeProvider) Since(t stdtime.Time) core.Duration {
	return core.Duration(stdtime.Since(t))
}

// Sleep pauses the current goroutine for the given duration
func (p *RealTimeProvider) Sleep(d core.Duration) {
	stdtime.Sleep(d.Std())
}

// WithTimeout returns a context that is cancelled after the given duration
func (p *RealTimeProvider) WithTimeout(ctx context.Context, timeout core.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout.Std())
}
