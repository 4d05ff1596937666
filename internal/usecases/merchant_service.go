package usecases

import (
	"context"

	"openpayflow/internal/domain/entities"
	domainerrors "openpayflow/internal/domain/errors"
	domainrepos "openpayflow/internal/domain/repositories"
)

// MerchantService is a minimal bootstrap path: spec.md's HTTP table assumes
// a merchantApiKey already exists, so this only supplies CreateMerchant for
// seed scripts and tests, not a public HTTP route.
type MerchantService struct {
	merchants domainrepos.MerchantRepository
}

func NewMerchantService(merchants domainrepos.MerchantRepository) *MerchantService {
	return &MerchantService{merchants: merchants}
}

// CreateMerchant stores name with apiKey hashed; the raw key itself is never
// persisted or logged.
func (s *MerchantService) CreateMerchant(ctx context.Context, name, apiKey string) (*entities.Merchant, error) {
	m := &entities.Merchant{
		Name:       name,
		APIKeyHash: HashAPIKey(apiKey),
		IsActive:   true,
	}
	if err := s.merchants.Create(ctx, m); err != nil {
		return nil, domainerrors.Internal(err)
	}
	return m, nil
}
