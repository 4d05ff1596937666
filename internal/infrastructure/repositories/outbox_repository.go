package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"openpayflow/internal/domain/entities"
	domainerrors "openpayflow/internal/domain/errors"
	"openpayflow/internal/infrastructure/models"
)

// OutboxRepository is a gorm-backed domainrepos.OutboxRepository.
type OutboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) Create(ctx context.Context, o *entities.Outbox) error {
	payload, err := json.Marshal(o.Payload)
	if err != nil {
		return err
	}
	row := &models.Outbox{
		ID:            o.ID,
		AggregateType: o.AggregateType,
		AggregateID:   o.AggregateID,
		EventType:     string(o.EventType),
		Payload:       string(payload),
		Processed:     o.Processed,
	}
	if err := dbFrom(ctx, r.db).Create(row).Error; err != nil {
		return err
	}
	o.ID = row.ID
	o.CreatedAt = row.CreatedAt
	return nil
}

// ClaimUnprocessed returns unprocessed rows FIFO by createdAt, within a
// WithLock(ctx) scope the caller wraps in a SELECT ... FOR UPDATE SKIP
// LOCKED so a multi-instance Drainer never double-promotes a row.
func (r *OutboxRepository) ClaimUnprocessed(ctx context.Context, limit int) ([]*entities.Outbox, error) {
	var rows []models.Outbox
	err := dbFrom(ctx, r.db).Where("processed = ?", false).Order("created_at ASC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]*entities.Outbox, 0, len(rows))
	for i := range rows {
		o, err := fromOutboxModel(&rows[i])
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, nil
}

func (r *OutboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error {
	res := dbFrom(ctx, r.db).Model(&models.Outbox{}).Where("id = ? AND processed = ?", id, false).Update("processed", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *OutboxRepository) DeleteProcessedBefore(ctx context.Context, before time.Time, batch int) (int, error) {
	res := dbFrom(ctx, r.db).Where("processed = ? AND created_at < ?", true, before).Limit(batch).Delete(&models.Outbox{})
	return int(res.RowsAffected), res.Error
}

func fromOutboxModel(row *models.Outbox) (*entities.Outbox, error) {
	var payload map[string]any
	if row.Payload != "" {
		if err := json.Unmarshal([]byte(row.Payload), &payload); err != nil {
			return nil, err
		}
	}
	return &entities.Outbox{
		ID:            row.ID,
		AggregateType: row.AggregateType,
		AggregateID:   row.AggregateID,
		EventType:     entities.EventType(row.EventType),
		Payload:       payload,
		Processed:     row.Processed,
		CreatedAt:     row.CreatedAt,
	}, nil
}

// EventRepository is a gorm-backed domainrepos.EventRepository.
type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, e *entities.Event) error {
	payload, err := json.Marshal(e.Payload)
	if err != nil {
		return err
	}
	row := &models.Event{ID: e.ID, Type: string(e.Type), Payload: string(payload)}
	if err := dbFrom(ctx, r.db).Create(row).Error; err != nil {
		return err
	}
	e.ID = row.ID
	e.CreatedAt = row.CreatedAt
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Event, error) {
	var row models.Event
	if err := dbFrom(ctx, r.db).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	var payload map[string]any
	if row.Payload != "" {
		if err := json.Unmarshal([]byte(row.Payload), &payload); err != nil {
			return nil, err
		}
	}
	return &entities.Event{ID: row.ID, Type: entities.EventType(row.Type), Payload: payload, CreatedAt: row.CreatedAt}, nil
}

// DeleteOrphansBefore deletes events older than before with no non-terminal
// (PENDING or FAILED) delivery referencing them.
func (r *EventRepository) DeleteOrphansBefore(ctx context.Context, before time.Time, batch int) (int, error) {
	sub := dbFrom(ctx, r.db).Model(&models.WebhookDelivery{}).Select("event_id").
		Where("status IN ?", []string{string(entities.DeliveryStatusPending), string(entities.DeliveryStatusFailed)})
	res := dbFrom(ctx, r.db).
		Where("created_at < ? AND id NOT IN (?)", before, sub).
		Limit(batch).Delete(&models.Event{})
	return int(res.RowsAffected), res.Error
}
