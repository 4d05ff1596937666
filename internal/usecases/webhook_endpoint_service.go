package usecases

import (
	"context"

	"github.com/google/uuid"

	"openpayflow/internal/domain/entities"
	domainerrors "openpayflow/internal/domain/errors"
	domainrepos "openpayflow/internal/domain/repositories"
)

// WebhookEndpointService backs the /v1/webhook-endpoints* routes: merchants
// register, list, update, and delete receivers for outbox-derived events.
type WebhookEndpointService struct {
	endpoints domainrepos.WebhookEndpointRepository
}

func NewWebhookEndpointService(endpoints domainrepos.WebhookEndpointRepository) *WebhookEndpointService {
	return &WebhookEndpointService{endpoints: endpoints}
}

func (s *WebhookEndpointService) Create(ctx context.Context, merchantID uuid.UUID, req *entities.CreateWebhookEndpointRequest) (*entities.WebhookEndpoint, error) {
	ep := &entities.WebhookEndpoint{
		ID:         uuid.New(),
		MerchantID: merchantID,
		URL:        req.URL,
		Secret:     req.Secret,
		Events:     req.Events,
		IsActive:   true,
	}
	if err := s.endpoints.Create(ctx, ep); err != nil {
		return nil, domainerrors.Internal(err)
	}
	return ep, nil
}

func (s *WebhookEndpointService) Get(ctx context.Context, merchantID, id uuid.UUID) (*entities.WebhookEndpoint, error) {
	ep, err := s.endpoints.GetByID(ctx, id)
	if err != nil || ep.MerchantID != merchantID {
		return nil, domainerrors.DomainNotFound("WEBHOOK_ENDPOINT_NOT_FOUND", "webhook endpoint not found")
	}
	return ep, nil
}

func (s *WebhookEndpointService) List(ctx context.Context, merchantID uuid.UUID) ([]*entities.WebhookEndpoint, error) {
	eps, err := s.endpoints.ListByMerchant(ctx, merchantID)
	if err != nil {
		return nil, domainerrors.Internal(err)
	}
	return eps, nil
}

// UpdateFields applies a partial PATCH: zero values leave the field untouched
// except isActive, which always takes the provided pointer's value.
type UpdateFields struct {
	URL      *string
	Secret   *string
	Events   []entities.EventType
	IsActive *bool
}

func (s *WebhookEndpointService) Update(ctx context.Context, merchantID, id uuid.UUID, fields UpdateFields) (*entities.WebhookEndpoint, error) {
	ep, err := s.Get(ctx, merchantID, id)
	if err != nil {
		return nil, err
	}
	if fields.URL != nil {
		ep.URL = *fields.URL
	}
	if fields.Secret != nil {
		ep.Secret = *fields.Secret
	}
	if fields.Events != nil {
		ep.Events = fields.Events
	}
	if fields.IsActive != nil {
		ep.IsActive = *fields.IsActive
	}
	if err := s.endpoints.Update(ctx, ep); err != nil {
		return nil, domainerrors.Internal(err)
	}
	return ep, nil
}

func (s *WebhookEndpointService) Delete(ctx context.Context, merchantID, id uuid.UUID) error {
	if _, err := s.Get(ctx, merchantID, id); err != nil {
		return err
	}
	if err := s.endpoints.Delete(ctx, id); err != nil {
		return domainerrors.Internal(err)
	}
	return nil
}
