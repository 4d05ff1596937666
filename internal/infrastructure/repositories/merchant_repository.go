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

// MerchantRepository is a gorm-backed domainrepos.MerchantRepository.
type MerchantRepository struct {
	db *gorm.DB
}

func NewMerchantRepository(db *gorm.DB) *MerchantRepository {
	return &MerchantRepository{db: db}
}

func (r *MerchantRepository) Create(ctx context.Context, m *entities.Merchant) error {
	row := toMerchantModel(m)
	if err := dbFrom(ctx, r.db).Create(row).Error; err != nil {
		return err
	}
	// gorm inserts the column default (true) in place of a false IsActive,
	// so an inactive merchant is written back explicitly.
	if !m.IsActive {
		if err := dbFrom(ctx, r.db).Model(row).Update("is_active", false).Error; err != nil {
			return err
		}
	}
	m.ID = row.ID
	m.CreatedAt = row.CreatedAt
	m.UpdatedAt = row.UpdatedAt
	return nil
}

func (r *MerchantRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Merchant, error) {
	var row models.Merchant
	if err := dbFrom(ctx, r.db).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return fromMerchantModel(&row), nil
}

func (r *MerchantRepository) GetByAPIKeyHash(ctx context.Context, hash string) (*entities.Merchant, error) {
	var row models.Merchant
	if err := dbFrom(ctx, r.db).First(&row, "api_key_hash = ? AND is_active = ?", hash, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return fromMerchantModel(&row), nil
}

func toMerchantModel(m *entities.Merchant) *models.Merchant {
	return &models.Merchant{
		ID:         m.ID,
		Name:       m.Name,
		APIKeyHash: m.APIKeyHash,
		IsActive:   m.IsActive,
	}
}

func fromMerchantModel(row *models.Merchant) *entities.Merchant {
	return &entities.Merchant{
		ID:         row.ID,
		Name:       row.Name,
		APIKeyHash: row.APIKeyHash,
		IsActive:   row.IsActive,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
}
