package adapter

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// NetworkTransaction is one transaction as reported by an external affiliate
// network. Status uses the network's own vocabulary.
type NetworkTransaction struct {
	ID            string
	Status        string
	Amount        decimal.Decimal
	Commission    decimal.Decimal
	CustomerEmail string
	CreatedAt     time.Time
}

// AffiliateNetwork is the port for the external affiliate network that is the
// source of truth for real-world purchase confirmation.
type AffiliateNetwork interface {
	Name() string
	ListTransactions(ctx context.Context) ([]NetworkTransaction, error)
}
