package repositories

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"openpayflow/internal/domain/entities"
	domainerrors "openpayflow/internal/domain/errors"
	domainrepos "openpayflow/internal/domain/repositories"
	"openpayflow/internal/infrastructure/models"
)

// PaymentRepository is a gorm-backed domainrepos.PaymentRepository.
type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *entities.Payment) error {
	row, err := toPaymentModel(p)
	if err != nil {
		return err
	}
	if err := dbFrom(ctx, r.db).Create(row).Error; err != nil {
		return err
	}
	p.ID = row.ID
	p.CreatedAt = row.CreatedAt
	p.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Payment, error) {
	var row models.Payment
	if err := dbFrom(ctx, r.db).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return fromPaymentModel(&row)
}

// GetByMerchantAndIdempotencyKey enforces the unique(merchantId, idempotencyKey)
// invariant: two concurrent intakes with the same key race on the INSERT,
// the loser reads the winner's row back through this lookup.
func (r *PaymentRepository) GetByMerchantAndIdempotencyKey(ctx context.Context, merchantID uuid.UUID, key string) (*entities.Payment, error) {
	var row models.Payment
	err := dbFrom(ctx, r.db).First(&row, "merchant_id = ? AND idempotency_key = ?", merchantID, key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return fromPaymentModel(&row)
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.PaymentStatus) error {
	res := dbFrom(ctx, r.db).Model(&models.Payment{}).Where("id = ?", id).Update("status", string(status))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *PaymentRepository) SetProviderPaymentID(ctx context.Context, id uuid.UUID, providerPaymentID string) error {
	res := dbFrom(ctx, r.db).Model(&models.Payment{}).Where("id = ?", id).Update("provider_payment_id", providerPaymentID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *PaymentRepository) ListByMerchant(ctx context.Context, merchantID uuid.UUID, filter domainrepos.PaymentFilter) ([]*entities.Payment, int, error) {
	q := dbFrom(ctx, r.db).Model(&models.Payment{}).Where("merchant_id = ?", merchantID)
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.Gateway != "" {
		q = q.Where("gateway = ?", string(filter.Gateway))
	}
	if filter.StartDate != nil {
		q = q.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		q = q.Where("created_at <= ?", *filter.EndDate)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var rows []models.Payment
	if err := q.Order("created_at DESC").Limit(limit).Offset(filter.Offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*entities.Payment, 0, len(rows))
	for i := range rows {
		p, err := fromPaymentModel(&rows[i])
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, int(total), nil
}

func (r *PaymentRepository) CreateAttempt(ctx context.Context, a *entities.PaymentAttempt) error {
	row := toAttemptModel(a)
	if err := dbFrom(ctx, r.db).Create(row).Error; err != nil {
		return err
	}
	a.ID = row.ID
	a.CreatedAt = row.CreatedAt
	a.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *PaymentRepository) UpdateAttempt(ctx context.Context, a *entities.PaymentAttempt) error {
	row := toAttemptModel(a)
	return dbFrom(ctx, r.db).Model(&models.PaymentAttempt{}).Where("id = ?", a.ID).Updates(map[string]interface{}{
		"status":            row.Status,
		"error_code":        row.ErrorCode,
		"error_message":     row.ErrorMessage,
		"provider_response": row.ProviderResponse,
	}).Error
}

func (r *PaymentRepository) ListAttempts(ctx context.Context, paymentID uuid.UUID, limit int) ([]*entities.PaymentAttempt, error) {
	q := dbFrom(ctx, r.db).Where("payment_id = ?", paymentID).Order("attempt_no DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []models.PaymentAttempt
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.PaymentAttempt, 0, len(rows))
	for i := range rows {
		out = append(out, fromAttemptModel(&rows[i]))
	}
	return out, nil
}

func toPaymentModel(p *entities.Payment) (*models.Payment, error) {
	metaJSON := "{}"
	if p.Metadata != nil {
		b, err := json.Marshal(p.Metadata)
		if err != nil {
			return nil, err
		}
		metaJSON = string(b)
	}
	return &models.Payment{
		ID:                p.ID,
		MerchantID:        p.MerchantID,
		Amount:            p.Amount,
		Currency:          p.Currency,
		Status:            string(p.Status),
		Gateway:           string(p.Gateway),
		ProviderPaymentID: p.ProviderPaymentID,
		IdempotencyKey:    p.IdempotencyKey,
		Metadata:          metaJSON,
	}, nil
}

func fromPaymentModel(row *models.Payment) (*entities.Payment, error) {
	var meta entities.Metadata
	if row.Metadata != "" && row.Metadata != "{}" {
		if err := json.Unmarshal([]byte(row.Metadata), &meta); err != nil {
			return nil, err
		}
	}
	return &entities.Payment{
		ID:                row.ID,
		MerchantID:        row.MerchantID,
		Amount:            row.Amount,
		Currency:          row.Currency,
		Status:            entities.PaymentStatus(row.Status),
		Gateway:           entities.Gateway(row.Gateway),
		ProviderPaymentID: row.ProviderPaymentID,
		IdempotencyKey:    row.IdempotencyKey,
		Metadata:          meta,
		CreatedAt:         row.CreatedAt,
		UpdatedAt:         row.UpdatedAt,
	}, nil
}

func toAttemptModel(a *entities.PaymentAttempt) *models.PaymentAttempt {
	return &models.PaymentAttempt{
		ID:               a.ID,
		PaymentID:        a.PaymentID,
		AttemptNo:        a.AttemptNo,
		Status:           string(a.Status),
		ErrorCode:        a.ErrorCode,
		ErrorMessage:     a.ErrorMessage,
		ProviderResponse: a.ProviderResponse,
	}
}

func fromAttemptModel(row *models.PaymentAttempt) *entities.PaymentAttempt {
	return &entities.PaymentAttempt{
		ID:               row.ID,
		PaymentID:        row.PaymentID,
		AttemptNo:        row.AttemptNo,
		Status:           entities.AttemptStatus(row.Status),
		ErrorCode:        row.ErrorCode,
		ErrorMessage:     row.ErrorMessage,
		ProviderResponse: row.ProviderResponse,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}
