package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"openpayflow/internal/domain/entities"
	domainerrors "openpayflow/internal/domain/errors"
	"openpayflow/internal/infrastructure/models"
)

// RefundRepository is a gorm-backed domainrepos.RefundRepository.
type RefundRepository struct {
	db *gorm.DB
}

func NewRefundRepository(db *gorm.DB) *RefundRepository {
	return &RefundRepository{db: db}
}

func (r *RefundRepository) Create(ctx context.Context, rf *entities.Refund) error {
	row := toRefundModel(rf)
	if err := dbFrom(ctx, r.db).Create(row).Error; err != nil {
		return err
	}
	rf.ID = row.ID
	rf.CreatedAt = row.CreatedAt
	rf.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *RefundRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Refund, error) {
	var row models.Refund
	if err := dbFrom(ctx, r.db).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return fromRefundModel(&row), nil
}

func (r *RefundRepository) Update(ctx context.Context, rf *entities.Refund) error {
	row := toRefundModel(rf)
	return dbFrom(ctx, r.db).Model(&models.Refund{}).Where("id = ?", rf.ID).Updates(map[string]interface{}{
		"status":             row.Status,
		"provider_refund_id": row.ProviderRefundID,
	}).Error
}

// SumSucceededByPayment computes Sigma(SUCCEEDED refunds of P), the bound
// enforced before creating a new refund (property 7).
func (r *RefundRepository) SumSucceededByPayment(ctx context.Context, paymentID uuid.UUID) (int64, error) {
	var sum int64
	err := dbFrom(ctx, r.db).Model(&models.Refund{}).
		Where("payment_id = ? AND status = ?", paymentID, string(entities.RefundStatusSucceeded)).
		Select("COALESCE(SUM(amount), 0)").Row().Scan(&sum)
	if err != nil {
		return 0, err
	}
	return sum, nil
}

func (r *RefundRepository) ListByPayment(ctx context.Context, paymentID uuid.UUID) ([]*entities.Refund, error) {
	var rows []models.Refund
	if err := dbFrom(ctx, r.db).Where("payment_id = ?", paymentID).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*entities.Refund, 0, len(rows))
	for i := range rows {
		out = append(out, fromRefundModel(&rows[i]))
	}
	return out, nil
}

func toRefundModel(r *entities.Refund) *models.Refund {
	return &models.Refund{
		ID:               r.ID,
		PaymentID:        r.PaymentID,
		Amount:           r.Amount,
		Reason:           r.Reason,
		Status:           string(r.Status),
		ProviderRefundID: r.ProviderRefundID,
	}
}

func fromRefundModel(row *models.Refund) *entities.Refund {
	return &entities.Refund{
		ID:               row.ID,
		PaymentID:        row.PaymentID,
		Amount:           row.Amount,
		Reason:           row.Reason,
		Status:           entities.RefundStatus(row.Status),
		ProviderRefundID: row.ProviderRefundID,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}
