package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"openpayflow/internal/domain/entities"
)

// OutboxRepository persists Outbox rows written transactionally alongside
// the state change they describe.
type OutboxRepository interface {
	Create(ctx context.Context, o *entities.Outbox) error
	// ClaimUnprocessed returns up to limit unprocessed rows ordered by
	// createdAt ASC, locked FOR UPDATE SKIP LOCKED via ctx (see UnitOfWork.WithLock).
	ClaimUnprocessed(ctx context.Context, limit int) ([]*entities.Outbox, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	DeleteProcessedBefore(ctx context.Context, before time.Time, batch int) (int, error)
}

// EventRepository persists immutable Event rows.
type EventRepository interface {
	Create(ctx context.Context, e *entities.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Event, error)
	DeleteOrphansBefore(ctx context.Context, before time.Time, batch int) (int, error)
}
