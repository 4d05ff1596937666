package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"openpayflow/internal/domain/entities"
)

func TestWebhookEndpointRepository_CreateListAndSubscription(t *testing.T) {
	db := newTestDB(t)
	createWebhookTables(t, db)
	repo := NewWebhookEndpointRepository(db)
	ctx := context.Background()
	merchantID := uuid.New()

	ep := &entities.WebhookEndpoint{
		ID:         uuid.New(),
		MerchantID: merchantID,
		URL:        "https://merchant.example/hooks",
		Secret:     "whsec_12345678",
		Events:     []entities.EventType{entities.EventTypePaymentCreated},
		IsActive:   true,
	}
	require.NoError(t, repo.Create(ctx, ep))

	byMerchant, err := repo.ListByMerchant(ctx, merchantID)
	require.NoError(t, err)
	require.Len(t, byMerchant, 1)

	subscribed, err := repo.ListActiveSubscribedTo(ctx, entities.EventTypePaymentCreated)
	require.NoError(t, err)
	require.Len(t, subscribed, 1)

	notSubscribed, err := repo.ListActiveSubscribedTo(ctx, entities.EventTypeRefundCreated)
	require.NoError(t, err)
	require.Len(t, notSubscribed, 0)

	ep.IsActive = false
	require.NoError(t, repo.Update(ctx, ep))

	subscribed, err = repo.ListActiveSubscribedTo(ctx, entities.EventTypePaymentCreated)
	require.NoError(t, err)
	require.Len(t, subscribed, 0)

	require.NoError(t, repo.Delete(ctx, ep.ID))
	_, err = repo.GetByID(ctx, ep.ID)
	require.Error(t, err)
}

func TestWebhookDeliveryRepository_LifecycleAndRetrySweep(t *testing.T) {
	db := newTestDB(t)
	createWebhookTables(t, db)
	createOutboxAndEventTables(t, db)
	endpoints := NewWebhookEndpointRepository(db)
	events := NewEventRepository(db)
	deliveries := NewWebhookDeliveryRepository(db)
	ctx := context.Background()

	ep := &entities.WebhookEndpoint{ID: uuid.New(), MerchantID: uuid.New(), URL: "https://x", Secret: "whsec_12345678", Events: []entities.EventType{entities.EventTypePaymentCreated}, IsActive: true}
	require.NoError(t, endpoints.Create(ctx, ep))

	ev := &entities.Event{ID: uuid.New(), Type: entities.EventTypePaymentCreated, Payload: map[string]any{}}
	require.NoError(t, events.Create(ctx, ev))

	d := &entities.WebhookDelivery{ID: uuid.New(), EndpointID: ep.ID, EventID: ev.ID, Status: entities.DeliveryStatusPending}
	require.NoError(t, deliveries.Create(ctx, d))

	withRefs, err := deliveries.GetWithRefs(ctx, d.ID)
	require.NoError(t, err)
	require.Equal(t, ep.ID, withRefs.Endpoint.ID)
	require.Equal(t, ev.ID, withRefs.Event.ID)

	errMsg := "transport: timeout"
	past := time.Now().Add(-time.Minute)
	d.Status = entities.DeliveryStatusFailed
	d.AttemptCount = 1
	d.LastError = &errMsg
	d.NextRetryAt = &past
	require.NoError(t, deliveries.Update(ctx, d))

	due, err := deliveries.ClaimDueRetries(ctx, time.Now(), 10)
	require.NoError(t, err)
	require.Len(t, due, 1)

	hasNonTerminal, err := deliveries.HasNonTerminalForEvent(ctx, ev.ID)
	require.NoError(t, err)
	require.True(t, hasNonTerminal)

	d.Status = entities.DeliveryStatusDelivered
	require.NoError(t, deliveries.Update(ctx, d))

	n, err := deliveries.DeleteDeliveredBefore(ctx, time.Now().Add(time.Hour), 10)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
