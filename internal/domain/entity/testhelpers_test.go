package entity

import (
	"context"
	"time"

	tport "github.com/coinbridge/withdrawal-processor/internal/domain/port/core"
)

// stubTimeProvider returns a fixed instant so tests control timestamps
type stubTimeProvider struct {
	now time.Time
}

func (s *stubTimeProvider) Now() time.Time { return s.now }

func (s *stubTimeProvider) Since(t time.Time) tport.Duration {
	return tport.Duration(s.now.Sub(t))
}

func (s *stubTimeProvider) Sleep(tport.Duration) {}

func (s *stubTimeProvider) WithTimeout(ctx context.Context, timeout tport.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout.Std())
}
