package repositories

import (
	"context"

	"github.com/google/uuid"
	"openpayflow/internal/domain/entities"
)

// MerchantRepository persists Merchant rows.
type MerchantRepository interface {
	Create(ctx context.Context, m *entities.Merchant) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Merchant, error)
	GetByAPIKeyHash(ctx context.Context, hash string) (*entities.Merchant, error)
}
