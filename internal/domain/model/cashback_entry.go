package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"incentoro/internal/domain"
)

type EntryStatus string

const (
	EntryStatusPending   EntryStatus = "pending"
	EntryStatusCompleted EntryStatus = "completed"
)

type EntrySource string

const (
	EntrySourceInternal     EntrySource = "internal"
	EntrySourcePartnerStack EntrySource = "partnerstack"
)

// UnknownToolName is substituted when an entry's backing tool record is
// missing. Kept as a visible sentinel rather than an empty string so it stays
// distinguishable in any consuming view or test.
const UnknownToolName = "Unknown Tool"

// CashbackEntry is one reward record tied to a single tracked purchase or
// subscription event.
type CashbackEntry struct {
	ID               string // ULID
	UserID           string // UUID of profile
	ToolID           string
	ToolName         string
	Amount           decimal.Decimal
	CreatedAt        time.Time
	CookiePeriodDays int
	CookiePeriodEnd  time.Time
	Status           EntryStatus
	Source           EntrySource
	IdempotencyKey   string
}

// NewCashbackEntry validates and constructs a pending internal entry.
// CookiePeriodEnd is always derived from createdAt, never from the clock.
func NewCashbackEntry(id, userID, toolID, toolName string, amount decimal.Decimal, createdAt time.Time, cookieDays int) (*CashbackEntry, error) {
	if id == "" || userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if amount.IsNegative() {
		return nil, domain.ErrInvalidArgument
	}
	if cookieDays <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &CashbackEntry{
		ID:               id,
		UserID:           userID,
		ToolID:           toolID,
		ToolName:         toolName,
		Amount:           amount,
		CreatedAt:        createdAt,
		CookiePeriodDays: cookieDays,
		CookiePeriodEnd:  createdAt.AddDate(0, 0, cookieDays),
		Status:           EntryStatusPending,
		Source:           EntrySourceInternal,
		IdempotencyKey:   ClickIdempotencyKey(userID, toolID, createdAt),
	}, nil
}

// ClickIdempotencyKey buckets duplicate click events from retried requests
// into one natural key per (user, tool, hour).
func ClickIdempotencyKey(userID, toolID string, at time.Time) string {
	return fmt.Sprintf("%s:%s:%s", userID, toolID, at.UTC().Format("2006010215"))
}

// IsMature reports whether the attribution window has elapsed at `now`.
func (e *CashbackEntry) IsMature(now time.Time) bool {
	return !e.CookiePeriodEnd.IsZero() && !now.Before(e.CookiePeriodEnd)
}

// Complete transitions pending -> completed. Any other transition is invalid;
// reversal/chargeback is an external-system concern and never modeled here.
func (e *CashbackEntry) Complete() error {
	if e.Status != EntryStatusPending {
		return domain.ErrInvalidTransition
	}
	e.Status = EntryStatusCompleted
	return nil
}
