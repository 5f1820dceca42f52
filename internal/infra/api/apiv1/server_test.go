//go:build !integration

package apiv1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"incentoro/internal/domain"
	"incentoro/internal/domain/model"
	"incentoro/internal/domain/policy"
	"incentoro/internal/domain/ports/repository"
	mailAdapters "incentoro/internal/infra/adapters/mail"
	"incentoro/internal/infra/api"
	"incentoro/internal/infra/api/apiv1"
	"incentoro/internal/usecase"
)

//
// ---------------- in-memory infra mocks (repos) ----------------
//

type memToolRepo struct {
	mu    sync.RWMutex
	store map[string]*model.MarketplaceTool
}

func newMemToolRepo() *memToolRepo {
	return &memToolRepo{store: map[string]*model.MarketplaceTool{}}
}

func (m *memToolRepo) Save(ctx context.Context, _ repository.Tx, t *model.MarketplaceTool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.store[t.ID] = &cp
	return nil
}

func (m *memToolRepo) FindByID(ctx context.Context, _ repository.Tx, id string) (*model.MarketplaceTool, error) {
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
	mu    sync.RWMutex
	store map[string]*model.CashbackEntry
}

func newMemEntryRepo() *memEntryRepo {
	return &memEntryRepo{store: map[string]*model.CashbackEntry{}}
}

func (m *memEntryRepo) Save(ctx context.Context, _ repository.Tx, e *model.CashbackEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *e
	m.store[e.ID] = &cp
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
	return nil, nil
}

func (m *memEntryRepo) MarkCompleted(ctx context.Context, _ repository.Tx, id string) (bool, error) {
	return false, nil
}

type memClickRepo struct {
	mu    sync.Mutex
	count int64
}

func (m *memClickRepo) Save(ctx context.Context, _ repository.Tx, c *model.ClickLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count++
	return nil
}

func (m *memClickRepo) CountByUser(ctx context.Context, _ repository.Tx, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count, nil
}

type memPurchaseRepo struct{}

func (memPurchaseRepo) Upsert(ctx context.Context, _ repository.Tx, p *model.ExternalPurchase) error {
	return nil
}

func (memPurchaseRepo) ListByUser(ctx context.Context, _ repository.Tx, userID, platform string) ([]*model.ExternalPurchase, error) {
	return nil, nil
}

type memSubRepo struct{}

func (memSubRepo) Save(ctx context.Context, _ repository.Tx, s *model.PlanSubscription) error {
	return nil
}

func (memSubRepo) FindActiveByUser(ctx context.Context, _ repository.Tx, userID string) (*model.PlanSubscription, error) {
	return nil, domain.ErrNotFound
}

//
// -------------------- test helpers --------------------
//

const testSecret = "test-secret"

func newLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func newRouter(tools *memToolRepo, entries *memEntryRepo) *chi.Mux {
	window := policy.DefaultCookieWindow()
	logger := newLogger()

	toolUC := usecase.NewToolUseCase(tools)
	ledgerUC := usecase.NewLedgerUseCase(entries, memPurchaseRepo{}, tools, window, logger)
	clickUC := usecase.NewClickUseCase(tools, &memClickRepo{}, entries, memSubRepo{}, mailAdapters.NewNoopMailer(), window, logger)
	calcUC := usecase.NewCalculatorUseCase()

	srv := apiv1.NewServer(toolUC, ledgerUC, clickUC, calcUC, nil, logger)
	return api.NewRouter(logger, testSecret, func(r chi.Router) {
		apiv1.Register(r, srv)
	})
}

func seedFrase(t *testing.T, tools *memToolRepo) {
	t.Helper()
	frase, err := model.NewMarketplaceTool("frase", "Frase", dec("5"), dec("50"), "https://www.frase.io", "Marketing")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	tools.Save(context.Background(), nil, frase)
}

func bearer(t *testing.T, userID, email string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + signed
}

//
// -------------------- tests --------------------
//

func TestTools_List(t *testing.T) {
	tools := newMemToolRepo()
	seedFrase(t, tools)
	r := newRouter(tools, newMemEntryRepo())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tools", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d, body=%s", rec.Code, rec.Body.String())
	}
	var body struct {
		Items []apiv1.Tool `json:"items"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Items) != 1 || body.Items[0].ID != "frase" {
		t.Fatalf("items mismatch: %+v", body.Items)
	}
	if body.Items[0].Price != "50.00" {
		t.Fatalf("money must render at 2dp, got %q", body.Items[0].Price)
	}
}

func TestClicks_Post(t *testing.T) {
	t.Run("401 without token", func(t *testing.T) {
		tools := newMemToolRepo()
		seedFrase(t, tools)
		r := newRouter(tools, newMemEntryRepo())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/clicks", bytes.NewBufferString(`{"tool_id":"frase"}`))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("want 401, got %d, body=%s", rec.Code, rec.Body.String())
		}
		var body map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["sign_in"] == "" {
			t.Fatal("401 payload must carry the sign-in hint")
		}
	})

	t.Run("200 returns outbound url", func(t *testing.T) {
		tools := newMemToolRepo()
		seedFrase(t, tools)
		r := newRouter(tools, newMemEntryRepo())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/clicks", bytes.NewBufferString(`{"tool_id":"frase"}`))
		req.Header.Set("Authorization", bearer(t, "u1", "u1@example.com"))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("want 200, got %d, body=%s", rec.Code, rec.Body.String())
		}
		var body apiv1.ClickResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.URL != "https://www.frase.io" {
			t.Fatalf("want outbound url, got %q", body.URL)
		}
	})

	t.Run("404 unknown tool", func(t *testing.T) {
		r := newRouter(newMemToolRepo(), newMemEntryRepo())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/clicks", bytes.NewBufferString(`{"tool_id":"ghost"}`))
		req.Header.Set("Authorization", bearer(t, "u1", ""))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("want 404, got %d", rec.Code)
		}
	})

	t.Run("400 missing tool_id", func(t *testing.T) {
		r := newRouter(newMemToolRepo(), newMemEntryRepo())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/clicks", bytes.NewBufferString(`{}`))
		req.Header.Set("Authorization", bearer(t, "u1", ""))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("want 400, got %d", rec.Code)
		}
	})
}

func TestLedger_ClickThenRead(t *testing.T) {
	tools := newMemToolRepo()
	seedFrase(t, tools)
	entries := newMemEntryRepo()
	r := newRouter(tools, entries)
	auth := bearer(t, "u1", "u1@example.com")

	// Record a click: $50 at the free plan's 5% base rate, 60-day window.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/clicks", bytes.NewBufferString(`{"tool_id":"frase"}`))
	req.Header.Set("Authorization", auth)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("click: want 200, got %d, body=%s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/ledger", nil)
	req.Header.Set("Authorization", auth)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("ledger: want 200, got %d, body=%s", rec.Code, rec.Body.String())
	}

	var body apiv1.LedgerResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Entries) != 1 {
		t.Fatalf("want 1 entry, got %d", len(body.Entries))
	}
	e := body.Entries[0]
	if e.ToolName != "Frase" || e.Status != "pending" || e.Amount != "2.50" {
		t.Fatalf("entry mismatch: %+v", e)
	}
	if e.ExpectedConfirmation == nil {
		t.Fatal("pending entry must carry expected confirmation")
	}
	if body.Total != "2.50" || body.Pending != "2.50" || body.Withdrawable != "0.00" {
		t.Fatalf("aggregates mismatch: total=%s pending=%s withdrawable=%s", body.Total, body.Pending, body.Withdrawable)
	}
}

func TestLedger_RequiresAuth(t *testing.T) {
	r := newRouter(newMemToolRepo(), newMemEntryRepo())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ledger", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", rec.Code)
	}
}

func TestCalculator_Quote(t *testing.T) {
	r := newRouter(newMemToolRepo(), newMemEntryRepo())

	t.Run("below premium threshold", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/calculator/quote", bytes.NewBufferString(`{"amount":"50"}`))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("want 200, got %d, body=%s", rec.Code, rec.Body.String())
		}
		var body apiv1.QuoteResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.FreeCashback != "2.50" || body.PremiumCashback != "7.50" {
			t.Fatalf("quote mismatch: %+v", body)
		}
	})

	t.Run("at premium threshold", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/calculator/quote", bytes.NewBufferString(`{"amount":"100"}`))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		var body apiv1.QuoteResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.PremiumRate != "20.00" {
			t.Fatalf("want premium rate 20.00, got %s", body.PremiumRate)
		}
	})

	t.Run("422 negative amount", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/calculator/quote", bytes.NewBufferString(`{"amount":"-1"}`))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("want 422, got %d", rec.Code)
		}
	})

	t.Run("400 malformed amount", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/calculator/quote", bytes.NewBufferString(`{"amount":"abc"}`))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("want 400, got %d", rec.Code)
		}
	})
}

func TestHealth(t *testing.T) {
	r := newRouter(newMemToolRepo(), newMemEntryRepo())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}
}

func TestInvalidTokenIsAnonymous(t *testing.T) {
	r := newRouter(newMemToolRepo(), newMemEntryRepo())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ledger", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("invalid token must behave as anonymous: want 401, got %d", rec.Code)
	}
}
