package handlers_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"openpayflow/internal/domain/entities"
	domainerrors "openpayflow/internal/domain/errors"
	domainrepos "openpayflow/internal/domain/repositories"
)

// fakeUnitOfWork runs fn directly with no real transaction, matching the
// in-memory fakes used by the repository fakes below.
type fakeUnitOfWork struct{}

func (fakeUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }
func (fakeUnitOfWork) WithLock(ctx context.Context) context.Context                      { return ctx }

type fakeMerchantRepository struct {
	mu     sync.Mutex
	byHash map[string]*entities.Merchant
}

func newFakeMerchantRepository() *fakeMerchantRepository {
	return &fakeMerchantRepository{byHash: make(map[string]*entities.Merchant)}
}

func (r *fakeMerchantRepository) Create(ctx context.Context, m *entities.Merchant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byHash[m.APIKeyHash] = m
	return nil
}
func (r *fakeMerchantRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Merchant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.byHash {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}
func (r *fakeMerchantRepository) GetByAPIKeyHash(ctx context.Context, hash string) (*entities.Merchant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byHash[hash]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return m, nil
}

type fakePaymentRepository struct {
	mu       sync.Mutex
	byID     map[uuid.UUID]*entities.Payment
	attempts map[uuid.UUID][]*entities.PaymentAttempt
}

func newFakePaymentRepository() *fakePaymentRepository {
	return &fakePaymentRepository{byID: make(map[uuid.UUID]*entities.Payment), attempts: make(map[uuid.UUID][]*entities.PaymentAttempt)}
}

func (r *fakePaymentRepository) Create(ctx context.Context, p *entities.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.MerchantID == p.MerchantID && existing.IdempotencyKey == p.IdempotencyKey {
			return domainerrors.ErrAlreadyExists
		}
	}
	cp := *p
	r.byID[p.ID] = &cp
	return nil
}
func (r *fakePaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	cp := *p
	return &cp, nil
}
func (r *fakePaymentRepository) GetByMerchantAndIdempotencyKey(ctx context.Context, merchantID uuid.UUID, key string) (*entities.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byID {
		if p.MerchantID == merchantID && p.IdempotencyKey == key {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domainerrors.ErrNotFound
}
func (r *fakePaymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.PaymentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	p.Status = status
	return nil
}
func (r *fakePaymentRepository) SetProviderPaymentID(ctx context.Context, id uuid.UUID, providerPaymentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return domainerrors.ErrNotFound
	}
	p.ProviderPaymentID = null.StringFrom(providerPaymentID)
	return nil
}
func (r *fakePaymentRepository) ListByMerchant(ctx context.Context, merchantID uuid.UUID, filter domainrepos.PaymentFilter) ([]*entities.Payment, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []*entities.Payment
	for _, p := range r.byID {
		if p.MerchantID == merchantID {
			cp := *p
			all = append(all, &cp)
		}
	}
	total := len(all)
	if filter.Offset < len(all) {
		all = all[filter.Offset:]
	} else {
		all = nil
	}
	if filter.Limit > 0 && len(all) > filter.Limit {
		all = all[:filter.Limit]
	}
	return all, total, nil
}
func (r *fakePaymentRepository) CreateAttempt(ctx context.Context, a *entities.PaymentAttempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts[a.PaymentID] = append(r.attempts[a.PaymentID], a)
	return nil
}
func (r *fakePaymentRepository) UpdateAttempt(ctx context.Context, a *entities.PaymentAttempt) error {
	return nil
}
func (r *fakePaymentRepository) ListAttempts(ctx context.Context, paymentID uuid.UUID, limit int) ([]*entities.PaymentAttempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempts[paymentID], nil
}

type fakeRefundRepository struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*entities.Refund
}

func newFakeRefundRepository() *fakeRefundRepository {
	return &fakeRefundRepository{byID: make(map[uuid.UUID]*entities.Refund)}
}

func (r *fakeRefundRepository) Create(ctx context.Context, rf *entities.Refund) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rf
	r.byID[rf.ID] = &cp
	return nil
}
func (r *fakeRefundRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Refund, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rf, ok := r.byID[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	return rf, nil
}
func (r *fakeRefundRepository) Update(ctx context.Context, rf *entities.Refund) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *rf
	r.byID[rf.ID] = &cp
	return nil
}
func (r *fakeRefundRepository) SumSucceededByPayment(ctx context.Context, paymentID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum int64
	for _, rf := range r.byID {
		if rf.PaymentID == paymentID && rf.Status == entities.RefundStatusSucceeded {
			sum += rf.Amount
		}
	}
	return sum, nil
}
func (r *fakeRefundRepository) ListByPayment(ctx context.Context, paymentID uuid.UUID) ([]*entities.Refund, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.Refund
	for _, rf := range r.byID {
		if rf.PaymentID == paymentID {
			out = append(out, rf)
		}
	}
	return out, nil
}

type fakeOutboxRepository struct {
	mu   sync.Mutex
	rows []*entities.Outbox
}

func (r *fakeOutboxRepository) Create(ctx context.Context, o *entities.Outbox) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, o)
	return nil
}
func (r *fakeOutboxRepository) ClaimUnprocessed(ctx context.Context, limit int) ([]*entities.Outbox, error) {
	return nil, nil
}
func (r *fakeOutboxRepository) MarkProcessed(ctx context.Context, id uuid.UUID) error { return nil }
func (r *fakeOutboxRepository) DeleteProcessedBefore(ctx context.Context, before time.Time, batch int) (int, error) {
	return 0, nil
}

type fakeWebhookEndpointRepository struct {
	mu   sync.Mutex
	byID map[uuid.UUID]*entities.WebhookEndpoint
}

func newFakeWebhookEndpointRepository() *fakeWebhookEndpointRepository {
	return &fakeWebhookEndpointRepository{byID: make(map[uuid.UUID]*entities.WebhookEndpoint)}
}

func (r *fakeWebhookEndpointRepository) Create(ctx context.Context, e *entities.WebhookEndpoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	r.byID[e.ID] = &cp
	return nil
}
func (r *fakeWebhookEndpointRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.WebhookEndpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[id]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	cp := *e
	return &cp, nil
}
func (r *fakeWebhookEndpointRepository) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]*entities.WebhookEndpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.WebhookEndpoint
	for _, e := range r.byID {
		if e.MerchantID == merchantID {
			out = append(out, e)
		}
	}
	return out, nil
}
func (r *fakeWebhookEndpointRepository) ListActiveSubscribedTo(ctx context.Context, eventType entities.EventType) ([]*entities.WebhookEndpoint, error) {
	return nil, nil
}
func (r *fakeWebhookEndpointRepository) Update(ctx context.Context, e *entities.WebhookEndpoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *e
	r.byID[e.ID] = &cp
	return nil
}
func (r *fakeWebhookEndpointRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domainerrors.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
