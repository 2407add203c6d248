package notification

import (
	"context"

	"github.com/coinbridge/withdrawal-processor/internal/domain/entity"
)

// Sink receives lifecycle events after every committed transition. Delivery is
// fire-and-forget and at-most-once: the engine never retries and a sink error
// never rolls back the already-committed status.
type Sink interface {
	Notify(ctx context.Context, event entity.StatusEvent) error
}
