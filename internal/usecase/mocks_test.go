// File: internal/usecase/mocks_test.go
package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"incentoro/internal/domain"
	"incentoro/internal/domain/model"
	"incentoro/internal/domain/ports/adapter"
	"incentoro/internal/domain/ports/repository"
)

// memToolRepo is a small in-memory implementation used by unit tests.
type memToolRepo struct {
	mu      sync.RWMutex
	store   map[string]*model.MarketplaceTool
	findErr error
}

func newMemToolRepo() *memToolRepo {
	return &memToolRepo{store: make(map[string]*model.MarketplaceTool)}
}

func (m *memToolRepo) Save(ctx context.Context, _ repository.Tx, t *model.MarketplaceTool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.store[t.ID] = &cp
	return nil
}

func (m *memToolRepo) FindByID(ctx context.Context, _ repository.Tx, id string) (*model.MarketplaceTool, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *memToolRepo) ListAll(ctx context.Context, _ repository.Tx) ([]*model.MarketplaceTool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.MarketplaceTool, 0, len(m.store))
	for _, t := range m.store {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

type memEntryRepo struct {
	mu      sync.RWMutex
	store   map[string]*model.CashbackEntry // by ID
	byKey   map[string]string               // idempotency key -> ID
	saveErr error
	listErr error
}

func newMemEntryRepo() *memEntryRepo {
	return &memEntryRepo{
		store: make(map[string]*model.CashbackEntry),
		byKey: make(map[string]string),
	}
}

func (m *memEntryRepo) Save(ctx context.Context, _ repository.Tx, e *model.CashbackEntry) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, dup := m.byKey[e.IdempotencyKey]; dup {
		return nil // upsert semantics: duplicate key is a no-op
	}
	cp := *e
	m.store[e.ID] = &cp
	m.byKey[e.IdempotencyKey] = e.ID
	return nil
}

func (m *memEntryRepo) FindByID(ctx context.Context, _ repository.Tx, id string) (*model.CashbackEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *memEntryRepo) ListByUser(ctx context.Context, _ repository.Tx, userID string) ([]*model.CashbackEntry, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.CashbackEntry
	for _, e := range m.store {
		if e.UserID == userID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memEntryRepo) ListMaturedPending(ctx context.Context, _ repository.Tx, before time.Time, limit int) ([]*model.CashbackEntry, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.CashbackEntry
	for _, e := range m.store {
		if e.Status == model.EntryStatusPending && !e.CookiePeriodEnd.After(before) {
			cp := *e
			out = append(out, &cp)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *memEntryRepo) MarkCompleted(ctx context.Context, _ repository.Tx, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.store[id]
	if !ok || e.Status != model.EntryStatusPending {
		return false, nil
	}
	e.Status = model.EntryStatusCompleted
	return true, nil
}

type memClickRepo struct {
	mu      sync.RWMutex
	store   []*model.ClickLog
	saveErr error
}

func newMemClickRepo() *memClickRepo { return &memClickRepo{} }

func (m *memClickRepo) Save(ctx context.Context, _ repository.Tx, c *model.ClickLog) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.store = append(m.store, &cp)
	return nil
}

func (m *memClickRepo) CountByUser(ctx context.Context, _ repository.Tx, userID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, c := range m.store {
		if c.UserID == userID {
			n++
		}
	}
	return n, nil
}

type memPurchaseRepo struct {
	mu      sync.RWMutex
	store   map[string]*model.ExternalPurchase // by (platform, external id)
	listErr error
}

func newMemPurchaseRepo() *memPurchaseRepo {
	return &memPurchaseRepo{store: make(map[string]*model.ExternalPurchase)}
}

func purchaseKey(platform, externalID string) string { return platform + "|" + externalID }

func (m *memPurchaseRepo) Upsert(ctx context.Context, _ repository.Tx, p *model.ExternalPurchase) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := purchaseKey(p.Platform, p.ExternalTransactionID)
	if old, ok := m.store[key]; ok {
		cp := *p
		cp.ID = old.ID // keep the first write's row identity
		m.store[key] = &cp
		return nil
	}
	cp := *p
	m.store[key] = &cp
	return nil
}

func (m *memPurchaseRepo) ListByUser(ctx context.Context, _ repository.Tx, userID, platform string) ([]*model.ExternalPurchase, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.ExternalPurchase
	for _, p := range m.store {
		if p.UserID == userID && p.Platform == platform {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memSubscriptionRepo struct {
	mu    sync.RWMutex
	store map[string]*model.PlanSubscription // by userID
}

func newMemSubscriptionRepo() *memSubscriptionRepo {
	return &memSubscriptionRepo{store: make(map[string]*model.PlanSubscription)}
}

func (m *memSubscriptionRepo) Save(ctx context.Context, _ repository.Tx, s *model.PlanSubscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.store[s.UserID] = &cp
	return nil
}

func (m *memSubscriptionRepo) FindActiveByUser(ctx context.Context, _ repository.Tx, userID string) (*model.PlanSubscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.store[userID]
	if !ok || s.Status != model.SubscriptionStatusActive {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

type memProfileRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Profile // by ID
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{store: make(map[string]*model.Profile)}
}

func (m *memProfileRepo) Save(ctx context.Context, _ repository.Tx, p *model.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *memProfileRepo) FindByID(ctx context.Context, _ repository.Tx, id string) (*model.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memProfileRepo) FindByEmail(ctx context.Context, _ repository.Tx, email string) (*model.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.store {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// mockMailer records sends and can simulate failures or slow delivery.
type mockMailer struct {
	mu       sync.Mutex
	sendErr  error
	delay    time.Duration
	tracking []string // recipient emails of click-tracking sends
	confirms []string // recipient emails of confirmation sends
}

func (m *mockMailer) SendClickTracking(ctx context.Context, email, toolName string) error {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if m.sendErr != nil {
		return m.sendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tracking = append(m.tracking, email)
	return nil
}

func (m *mockMailer) SendConfirmation(ctx context.Context, email string, amount decimal.Decimal, toolName string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirms = append(m.confirms, email)
	return nil
}

func (m *mockMailer) trackingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tracking)
}

func (m *mockMailer) confirmCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.confirms)
}

// mockNetwork serves a canned transaction feed.
type mockNetwork struct {
	txs     []adapter.NetworkTransaction
	listErr error
}

func (n *mockNetwork) Name() string { return "partnerstack" }

func (n *mockNetwork) ListTransactions(ctx context.Context) ([]adapter.NetworkTransaction, error) {
	if n.listErr != nil {
		return nil, n.listErr
	}
	return n.txs, nil
}
