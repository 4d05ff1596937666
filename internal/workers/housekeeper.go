package workers

import (
	"context"
	"time"

	"go.uber.org/zap"

	domainrepos "openpayflow/internal/domain/repositories"
	"openpayflow/pkg/logger"
)

const (
	housekeeperInterval = time.Hour
	housekeeperBatch    = 500
	outboxRetention     = 7 * 24 * time.Hour
	deliveredRetention  = 30 * 24 * time.Hour
	eventRetention      = 90 * 24 * time.Hour
)

// Housekeeper periodically reaps processed outbox rows, delivered webhook
// deliveries, and aged orphaned events, following the same ticker-loop
// shape as OutboxDrainer and the teacher's PaymentRequestExpiryJob.
type Housekeeper struct {
	outbox     domainrepos.OutboxRepository
	deliveries domainrepos.WebhookDeliveryRepository
	events     domainrepos.EventRepository

	interval time.Duration
	stop     chan struct{}
}

func NewHousekeeper(
	outbox domainrepos.OutboxRepository,
	deliveries domainrepos.WebhookDeliveryRepository,
	events domainrepos.EventRepository,
) *Housekeeper {
	return &Housekeeper{
		outbox:     outbox,
		deliveries: deliveries,
		events:     events,
		interval:   housekeeperInterval,
		stop:       make(chan struct{}),
	}
}

func (h *Housekeeper) Start(ctx context.Context) {
	logger.Info(ctx, "starting housekeeper")

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "housekeeper stopped (context cancelled)")
			return
		case <-h.stop:
			logger.Info(ctx, "housekeeper stopped")
			return
		case <-ticker.C:
			h.sweepOnce(ctx)
		}
	}
}

func (h *Housekeeper) Stop() {
	close(h.stop)
}

func (h *Housekeeper) sweepOnce(ctx context.Context) {
	now := time.Now().UTC()

	if n, err := h.outbox.DeleteProcessedBefore(ctx, now.Add(-outboxRetention), housekeeperBatch); err != nil {
		logger.Error(ctx, "failed to reap processed outbox rows", zap.Error(err))
	} else if n > 0 {
		logger.Info(ctx, "reaped processed outbox rows", zap.Int("count", n))
	}

	if n, err := h.deliveries.DeleteDeliveredBefore(ctx, now.Add(-deliveredRetention), housekeeperBatch); err != nil {
		logger.Error(ctx, "failed to reap delivered webhook deliveries", zap.Error(err))
	} else if n > 0 {
		logger.Info(ctx, "reaped delivered webhook deliveries", zap.Int("count", n))
	}

	if n, err := h.events.DeleteOrphansBefore(ctx, now.Add(-eventRetention), housekeeperBatch); err != nil {
		logger.Error(ctx, "failed to reap aged events", zap.Error(err))
	} else if n > 0 {
		logger.Info(ctx, "reaped aged events", zap.Int("count", n))
	}
}
