package workers

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/big"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"openpayflow/internal/domain/entities"
	domainrepos "openpayflow/internal/domain/repositories"
	"openpayflow/internal/infrastructure/queue"
	"openpayflow/pkg/logger"
	"openpayflow/pkg/webhooksig"
)

const (
	retrySweepInterval = 30 * time.Second
	retrySweepBatch    = 50
	queuePopTimeout    = 5 * time.Second

	backoffInitial    = time.Second
	backoffMultiplier = 2.0
	backoffMax        = 24 * time.Hour
	backoffJitter     = 0.1
)

// WebhookScheduler drains delivery work from two input surfaces — a
// blocking work queue for newly enqueued deliveries and a periodic retry
// sweep for FAILED-and-due ones — signs and POSTs each delivery, and
// advances its state machine per spec.
type WebhookScheduler struct {
	uow        domainrepos.UnitOfWork
	deliveries domainrepos.WebhookDeliveryRepository
	workQueue  *queue.WorkQueue
	deadLetter *queue.DeadLetterQueue
	httpClient *http.Client

	stopQueue chan struct{}
	stopSweep chan struct{}
}

func NewWebhookScheduler(
	uow domainrepos.UnitOfWork,
	deliveries domainrepos.WebhookDeliveryRepository,
	workQueue *queue.WorkQueue,
	deadLetter *queue.DeadLetterQueue,
	webhookTimeout time.Duration,
) *WebhookScheduler {
	if webhookTimeout <= 0 {
		webhookTimeout = 30 * time.Second
	}
	return &WebhookScheduler{
		uow:        uow,
		deliveries: deliveries,
		workQueue:  workQueue,
		deadLetter: deadLetter,
		httpClient: &http.Client{Timeout: webhookTimeout},
		stopQueue:  make(chan struct{}),
		stopSweep:  make(chan struct{}),
	}
}

// Start launches the queue consumer and the retry sweep as independent
// goroutines, as spec.md §5 requires ("each run as independent tasks").
func (s *WebhookScheduler) Start(ctx context.Context) {
	go s.consumeQueue(ctx)
	go s.runRetrySweep(ctx)
}

func (s *WebhookScheduler) Stop() {
	close(s.stopQueue)
	close(s.stopSweep)
}

func (s *WebhookScheduler) consumeQueue(ctx context.Context) {
	logger.Info(ctx, "starting webhook queue consumer")
	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "webhook queue consumer stopped (context cancelled)")
			return
		case <-s.stopQueue:
			logger.Info(ctx, "webhook queue consumer stopped")
			return
		default:
		}

		id, err := s.workQueue.Pop(ctx, queuePopTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error(ctx, "webhook work queue pop failed", zap.Error(err))
			continue
		}
		if id == uuid.Nil {
			continue // timeout, loop back and re-check stop conditions
		}
		s.processDelivery(ctx, id)
	}
}

func (s *WebhookScheduler) runRetrySweep(ctx context.Context) {
	logger.Info(ctx, "starting webhook retry sweep")
	ticker := time.NewTicker(retrySweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "webhook retry sweep stopped (context cancelled)")
			return
		case <-s.stopSweep:
			logger.Info(ctx, "webhook retry sweep stopped")
			return
		case <-ticker.C:
			s.sweepOnce(ctx)
		}
	}
}

func (s *WebhookScheduler) sweepOnce(ctx context.Context) {
	var due []*entities.WebhookDelivery
	err := s.uow.Do(s.uow.WithLock(ctx), func(ctx context.Context) error {
		var err error
		due, err = s.deliveries.ClaimDueRetries(ctx, time.Now().UTC(), retrySweepBatch)
		return err
	})
	if err != nil {
		logger.Error(ctx, "retry sweep claim failed", zap.Error(err))
		return
	}
	for _, d := range due {
		s.processDelivery(ctx, d.ID)
	}
}

// processDelivery implements steps 1-7 of spec.md §4.5 for one delivery id.
func (s *WebhookScheduler) processDelivery(ctx context.Context, deliveryID uuid.UUID) {
	delivery, err := s.deliveries.GetWithRefs(ctx, deliveryID)
	if err != nil {
		return // not found: drop
	}
	if delivery.Status == entities.DeliveryStatusDelivered {
		return // idempotent late-arrival
	}
	if delivery.AttemptCount >= entities.MaxDeliveryAttempts {
		s.abandon(ctx, delivery, "attempt cap reached before dispatch")
		return
	}

	// Step 2: increment before the HTTP call — at-least-once semantics.
	delivery.AttemptCount++
	if err := s.deliveries.Update(ctx, delivery); err != nil {
		logger.Error(ctx, "failed to persist attempt increment", zap.Error(err))
		return
	}

	body, err := buildPayload(delivery.Event)
	if err != nil {
		logger.Error(ctx, "failed to build webhook payload", zap.Error(err))
		return
	}

	status, lastErr := s.dispatch(ctx, delivery, body)

	if status == entities.DeliveryStatusDelivered {
		delivery.Status = status
		delivery.LastError = nil
		delivery.NextRetryAt = nil
		if err := s.deliveries.Update(ctx, delivery); err != nil {
			logger.Error(ctx, "failed to persist delivered status", zap.Error(err))
		}
		return
	}

	if delivery.AttemptCount >= entities.MaxDeliveryAttempts {
		s.abandon(ctx, delivery, lastErr)
		return
	}

	delay, err := computeBackoff(delivery.AttemptCount)
	if err != nil {
		logger.Error(ctx, "failed to compute backoff jitter", zap.Error(err))
		delay = backoffMax
	}
	next := time.Now().UTC().Add(delay)

	delivery.Status = entities.DeliveryStatusFailed
	delivery.LastError = &lastErr
	delivery.NextRetryAt = &next
	if err := s.deliveries.Update(ctx, delivery); err != nil {
		logger.Error(ctx, "failed to persist failed status", zap.Error(err))
	}
}

func (s *WebhookScheduler) dispatch(ctx context.Context, delivery *entities.WebhookDelivery, body []byte) (entities.DeliveryStatus, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, delivery.Endpoint.URL, bytes.NewReader(body))
	if err != nil {
		return entities.DeliveryStatusFailed, fmt.Sprintf("transport:%v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "OpenPayFlow/1.0")
	req.Header.Set("X-OpenPayFlow-Signature", webhooksig.Header(delivery.Endpoint.Secret, body))
	req.Header.Set("X-OpenPayFlow-Event-Type", string(delivery.Event.Type))
	req.Header.Set("X-OpenPayFlow-Delivery-Id", delivery.ID.String())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return entities.DeliveryStatusFailed, fmt.Sprintf("transport:%v", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return entities.DeliveryStatusDelivered, ""
	}
	return entities.DeliveryStatusFailed, fmt.Sprintf("http:%d", resp.StatusCode)
}

func (s *WebhookScheduler) abandon(ctx context.Context, delivery *entities.WebhookDelivery, lastErr string) {
	delivery.Status = entities.DeliveryStatusAbandoned
	delivery.NextRetryAt = nil
	if lastErr != "" {
		delivery.LastError = &lastErr
	}
	if err := s.deliveries.Update(ctx, delivery); err != nil {
		logger.Error(ctx, "failed to persist abandoned status", zap.Error(err))
		return
	}

	dl := &entities.DeadLetter{
		Type:       "webhook_delivery_abandoned",
		DeliveryID: delivery.ID,
		EndpointID: delivery.EndpointID,
		EventID:    delivery.EventID,
		Attempts:   delivery.AttemptCount,
		LastError:  lastErr,
		Timestamp:  time.Now().UTC(),
	}
	if err := s.deadLetter.Append(ctx, dl); err != nil {
		logger.Error(ctx, "failed to append dead-letter record", zap.Error(err))
	}
}

func buildPayload(event *entities.Event) ([]byte, error) {
	return json.Marshal(map[string]any{
		"id":      event.ID,
		"type":    event.Type,
		"created": event.CreatedAt.Unix(),
		"data":    event.Payload,
	})
}

// computeBackoff implements delay = min(MAX, INITIAL * MULTIPLIER^(n-1)) + U(0, delay*JITTER).
func computeBackoff(attemptCount int) (time.Duration, error) {
	exp := math.Pow(backoffMultiplier, float64(attemptCount-1))
	base := time.Duration(float64(backoffInitial) * exp)
	if base > backoffMax || base < 0 {
		base = backoffMax
	}

	jitterSpan := int64(float64(base) * backoffJitter)
	if jitterSpan <= 0 {
		return base, nil
	}
	n, err := rand.Int(rand.Reader, big.NewInt(jitterSpan))
	if err != nil {
		return base, err
	}

	delay := base + time.Duration(n.Int64())
	if delay > backoffMax {
		delay = backoffMax
	}
	return delay, nil
}
