package services

import (
	"context"
	"time"
)

// RecurringSvcFacade is the recurring transaction scheduler. Selection and
// processing are decoupled: selection publishes one work item per due
// template and never blocks on processing; processing consumes work items
// independently and is idempotent against redelivery.
type RecurringSvcFacade interface {
	// RunSelection finds all due recurring templates and publishes one
	// process work item per template. Returns the number published. A publish
	// failure for one template does not stop the others.
	RunSelection(ctx context.Context, now time.Time) (int, error)

	// ProcessWorkItem handles one work item: re-fetches the template,
	// re-checks dueness (a stale or duplicate delivery is a no-op), then
	// atomically spawns the occurrence, adjusts the account balance, and
	// advances the template's due date.
	ProcessWorkItem(ctx context.Context, transactionID string, userID string, now time.Time) error
}
