package repositories

import "context"

// UnitOfWork couples a database state change to everything it must persist
// atomically (an Attempt update, an Outbox row, a Refund status write).
type UnitOfWork interface {
	// Do executes fn within a transaction scope. fn's context carries the
	// transaction handle so repositories called from within it join the
	// same transaction automatically.
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	// WithLock marks the context so repository reads issued from it take a
	// row lock (SELECT ... FOR UPDATE SKIP LOCKED), used by the Outbox
	// Drainer and the webhook retry sweep to claim rows safely across
	// concurrent instances.
	WithLock(ctx context.Context) context.Context
}
