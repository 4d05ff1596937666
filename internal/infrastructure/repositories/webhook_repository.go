package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"openpayflow/internal/domain/entities"
	domainerrors "openpayflow/internal/domain/errors"
	"openpayflow/internal/infrastructure/models"
)

// WebhookEndpointRepository is a gorm-backed domainrepos.WebhookEndpointRepository.
type WebhookEndpointRepository struct {
	db *gorm.DB
}

func NewWebhookEndpointRepository(db *gorm.DB) *WebhookEndpointRepository {
	return &WebhookEndpointRepository{db: db}
}

func (r *WebhookEndpointRepository) Create(ctx context.Context, e *entities.WebhookEndpoint) error {
	row := toEndpointModel(e)
	if err := dbFrom(ctx, r.db).Create(row).Error; err != nil {
		return err
	}
	e.ID = row.ID
	e.CreatedAt = row.CreatedAt
	e.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *WebhookEndpointRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.WebhookEndpoint, error) {
	var row models.WebhookEndpoint
	if err := dbFrom(ctx, r.db).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return fromEndpointModel(&row), nil
}

func (r *WebhookEndpointRepository) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]*entities.WebhookEndpoint, error) {
	var rows []models.WebhookEndpoint
	if err := dbFrom(ctx, r.db).Where("merchant_id = ?", merchantID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.WebhookEndpoint, 0, len(rows))
	for i := range rows {
		out = append(out, fromEndpointModel(&rows[i]))
	}
	return out, nil
}

// ListActiveSubscribedTo is used by the Outbox Drainer's step 2: select all
// WebhookEndpoint where isActive and eventType in events. The events column
// is stored comma-joined, so the subscription filter happens in Go after a
// coarse LIKE narrows the scan — acceptable at this table's expected size.
func (r *WebhookEndpointRepository) ListActiveSubscribedTo(ctx context.Context, eventType entities.EventType) ([]*entities.WebhookEndpoint, error) {
	var rows []models.WebhookEndpoint
	if err := dbFrom(ctx, r.db).Where("is_active = ? AND events LIKE ?", true, "%"+string(eventType)+"%").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.WebhookEndpoint, 0, len(rows))
	for i := range rows {
		ep := fromEndpointModel(&rows[i])
		if ep.Subscribes(eventType) {
			out = append(out, ep)
		}
	}
	return out, nil
}

func (r *WebhookEndpointRepository) Update(ctx context.Context, e *entities.WebhookEndpoint) error {
	row := toEndpointModel(e)
	return dbFrom(ctx, r.db).Model(&models.WebhookEndpoint{}).Where("id = ?", e.ID).Updates(map[string]interface{}{
		"url":       row.URL,
		"secret":    row.Secret,
		"events":    row.Events,
		"is_active": row.IsActive,
	}).Error
}

func (r *WebhookEndpointRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFrom(ctx, r.db).Delete(&models.WebhookEndpoint{}, "id = ?", id).Error
}

func toEndpointModel(e *entities.WebhookEndpoint) *models.WebhookEndpoint {
	names := make([]string, 0, len(e.Events))
	for _, ev := range e.Events {
		names = append(names, string(ev))
	}
	return &models.WebhookEndpoint{
		ID:         e.ID,
		MerchantID: e.MerchantID,
		URL:        e.URL,
		Secret:     e.Secret,
		Events:     strings.Join(names, ","),
		IsActive:   e.IsActive,
	}
}

func fromEndpointModel(row *models.WebhookEndpoint) *entities.WebhookEndpoint {
	var events []entities.EventType
	if row.Events != "" {
		for _, s := range strings.Split(row.Events, ",") {
			events = append(events, entities.EventType(s))
		}
	}
	return &entities.WebhookEndpoint{
		ID:         row.ID,
		MerchantID: row.MerchantID,
		URL:        row.URL,
		Secret:     row.Secret,
		Events:     events,
		IsActive:   row.IsActive,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}

// WebhookDeliveryRepository is a gorm-backed domainrepos.WebhookDeliveryRepository.
type WebhookDeliveryRepository struct {
	db *gorm.DB
}

func NewWebhookDeliveryRepository(db *gorm.DB) *WebhookDeliveryRepository {
	return &WebhookDeliveryRepository{db: db}
}

func (r *WebhookDeliveryRepository) Create(ctx context.Context, d *entities.WebhookDelivery) error {
	row := toDeliveryModel(d)
	if err := dbFrom(ctx, r.db).Create(row).Error; err != nil {
		return err
	}
	d.ID = row.ID
	d.CreatedAt = row.CreatedAt
	d.UpdatedAt = row.UpdatedAt
	return nil
}

// GetWithRefs loads a delivery together with its endpoint and event, as
// the Webhook Scheduler needs both to build and sign the outbound payload.
func (r *WebhookDeliveryRepository) GetWithRefs(ctx context.Context, id uuid.UUID) (*entities.WebhookDelivery, error) {
	var row models.WebhookDelivery
	if err := dbFrom(ctx, r.db).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	d := fromDeliveryModel(&row)

	var epRow models.WebhookEndpoint
	if err := r.db.WithContext(ctx).First(&epRow, "id = ?", d.EndpointID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	d.Endpoint = fromEndpointModel(&epRow)

	var evRow models.Event
	if err := r.db.WithContext(ctx).First(&evRow, "id = ?", d.EventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	ev, err := (&EventRepository{db: r.db}).GetByID(ctx, evRow.ID)
	if err != nil {
		return nil, err
	}
	d.Event = ev

	return d, nil
}

func (r *WebhookDeliveryRepository) Update(ctx context.Context, d *entities.WebhookDelivery) error {
	row := toDeliveryModel(d)
	return dbFrom(ctx, r.db).Model(&models.WebhookDelivery{}).Where("id = ?", d.ID).Updates(map[string]interface{}{
		"status":        row.Status,
		"attempt_count": row.AttemptCount,
		"last_error":    row.LastError,
		"next_retry_at": row.NextRetryAt,
	}).Error
}

func (r *WebhookDeliveryRepository) ClaimDueRetries(ctx context.Context, now time.Time, limit int) ([]*entities.WebhookDelivery, error) {
	var rows []models.WebhookDelivery
	err := dbFrom(ctx, r.db).
		Where("status = ? AND next_retry_at <= ? AND attempt_count < ?", string(entities.DeliveryStatusFailed), now, entities.MaxDeliveryAttempts).
		Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*entities.WebhookDelivery, 0, len(rows))
	for i := range rows {
		out = append(out, fromDeliveryModel(&rows[i]))
	}
	return out, nil
}

func (r *WebhookDeliveryRepository) DeleteDeliveredBefore(ctx context.Context, before time.Time, batch int) (int, error) {
	res := dbFrom(ctx, r.db).Where("status = ? AND created_at < ?", string(entities.DeliveryStatusDelivered), before).
		Limit(batch).Delete(&models.WebhookDelivery{})
	return int(res.RowsAffected), res.Error
}

func (r *WebhookDeliveryRepository) HasNonTerminalForEvent(ctx context.Context, eventID uuid.UUID) (bool, error) {
	var count int64
	err := dbFrom(ctx, r.db).Model(&models.WebhookDelivery{}).
		Where("event_id = ? AND status IN ?", eventID, []string{string(entities.DeliveryStatusPending), string(entities.DeliveryStatusFailed)}).
		Count(&count).Error
	return count > 0, err
}

func toDeliveryModel(d *entities.WebhookDelivery) *models.WebhookDelivery {
	return &models.WebhookDelivery{
		ID:           d.ID,
		EndpointID:   d.EndpointID,
		EventID:      d.EventID,
		Status:       string(d.Status),
		AttemptCount: d.AttemptCount,
		LastError:    d.LastError,
		NextRetryAt:  d.NextRetryAt,
	}
}

func fromDeliveryModel(row *models.WebhookDelivery) *entities.WebhookDelivery {
	return &entities.WebhookDelivery{
		ID:           row.ID,
		EndpointID:   row.EndpointID,
		EventID:      row.EventID,
		Status:       entities.DeliveryStatus(row.Status),
		AttemptCount: row.AttemptCount,
		LastError:    row.LastError,
		NextRetryAt:  row.NextRetryAt,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
