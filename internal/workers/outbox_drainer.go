package workers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"openpayflow/internal/domain/entities"
	domainrepos "openpayflow/internal/domain/repositories"
	"openpayflow/internal/infrastructure/queue"
	"openpayflow/pkg/logger"
)

const (
	drainerInterval = 5 * time.Second
	drainerBatch    = 100
)

// OutboxDrainer promotes unprocessed Outbox rows into Event + WebhookDelivery
// rows and enqueues the new deliveries, following the ticker-loop shape of
// the teacher's PaymentRequestExpiryJob (internal/infrastructure/jobs/payment_request_expiry.go).
type OutboxDrainer struct {
	uow        domainrepos.UnitOfWork
	outbox     domainrepos.OutboxRepository
	events     domainrepos.EventRepository
	endpoints  domainrepos.WebhookEndpointRepository
	deliveries domainrepos.WebhookDeliveryRepository
	workQueue  *queue.WorkQueue

	interval time.Duration
	stop     chan struct{}
}

func NewOutboxDrainer(
	uow domainrepos.UnitOfWork,
	outbox domainrepos.OutboxRepository,
	events domainrepos.EventRepository,
	endpoints domainrepos.WebhookEndpointRepository,
	deliveries domainrepos.WebhookDeliveryRepository,
	workQueue *queue.WorkQueue,
) *OutboxDrainer {
	return &OutboxDrainer{
		uow:        uow,
		outbox:     outbox,
		events:     events,
		endpoints:  endpoints,
		deliveries: deliveries,
		workQueue:  workQueue,
		interval:   drainerInterval,
		stop:       make(chan struct{}),
	}
}

func (d *OutboxDrainer) Start(ctx context.Context) {
	logger.Info(ctx, "starting outbox drainer")

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "outbox drainer stopped (context cancelled)")
			return
		case <-d.stop:
			logger.Info(ctx, "outbox drainer stopped")
			return
		case <-ticker.C:
			d.drainOnce(ctx)
		}
	}
}

func (d *OutboxDrainer) Stop() {
	close(d.stop)
}

func (d *OutboxDrainer) drainOnce(ctx context.Context) {
	rows, err := d.uowClaim(ctx)
	if err != nil {
		logger.Error(ctx, "failed to claim unprocessed outbox rows", zap.Error(err))
		return
	}

	for _, row := range rows {
		deliveryIDs, err := d.drainRow(ctx, row)
		if err != nil {
			logger.Error(ctx, "failed to drain outbox row", zap.String("outbox_id", row.ID.String()), zap.Error(err))
			continue // left unprocessed, retried on next poll
		}
		for _, id := range deliveryIDs {
			if err := d.workQueue.Push(ctx, id); err != nil {
				// The store is authoritative; the retry sweep will pick this
				// delivery up even if the queue push is lost.
				logger.Error(ctx, "failed to enqueue delivery", zap.String("delivery_id", id.String()), zap.Error(err))
			}
		}
	}
}

func (d *OutboxDrainer) uowClaim(ctx context.Context) ([]*entities.Outbox, error) {
	var rows []*entities.Outbox
	err := d.uow.Do(d.uow.WithLock(ctx), func(ctx context.Context) error {
		var err error
		rows, err = d.outbox.ClaimUnprocessed(ctx, drainerBatch)
		return err
	})
	return rows, err
}

// drainRow performs steps 1-4 of the drain in one transaction: inserting the
// Event, fanning out a PENDING WebhookDelivery per subscribed active
// endpoint, and flipping processed=true. All-or-nothing: a mid-drain
// failure leaves processed=false so the row is retried whole on the next poll.
func (d *OutboxDrainer) drainRow(ctx context.Context, row *entities.Outbox) ([]uuid.UUID, error) {
	var deliveryIDs []uuid.UUID

	err := d.uow.Do(ctx, func(ctx context.Context) error {
		event := &entities.Event{ID: uuid.New(), Type: row.EventType, Payload: row.Payload}
		if err := d.events.Create(ctx, event); err != nil {
			return err
		}

		endpoints, err := d.endpoints.ListActiveSubscribedTo(ctx, row.EventType)
		if err != nil {
			return err
		}

		for _, ep := range endpoints {
			delivery := &entities.WebhookDelivery{
				ID:         uuid.New(),
				EndpointID: ep.ID,
				EventID:    event.ID,
				Status:     entities.DeliveryStatusPending,
			}
			if err := d.deliveries.Create(ctx, delivery); err != nil {
				return err
			}
			deliveryIDs = append(deliveryIDs, delivery.ID)
		}

		return d.outbox.MarkProcessed(ctx, row.ID)
	})
	if err != nil {
		return nil, err
	}
	return deliveryIDs, nil
}
