package mail

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"incentoro/internal/domain/ports/adapter"
)

var _ adapter.Mailer = (*NoopMailer)(nil)

// NoopMailer records sends in memory. Used in tests and when no API key is
// configured.
type NoopMailer struct {
	mu    sync.Mutex
	Sent  []string // recipient emails, in order
	Kinds []string // "click" / "confirmation", parallel to Sent
}

func NewNoopMailer() *NoopMailer { return &NoopMailer{} }

func (m *NoopMailer) SendClickTracking(ctx context.Context, email, toolName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, email)
	m.Kinds = append(m.Kinds, "click")
	return nil
}

func (m *NoopMailer) SendConfirmation(ctx context.Context, email string, amount decimal.Decimal, toolName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, email)
	m.Kinds = append(m.Kinds, "confirmation")
	return nil
}
