package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// External affiliate network status vocabulary. Only "confirmed" maps onto a
// completed entry; everything else stays pending until the network says so.
const ExternalStatusConfirmed = "confirmed"

// ExternalPurchase mirrors a transaction reported by the external affiliate
// network (PartnerStack). The network is the confirmation authority for these
// rows; we only normalize and display them.
type ExternalPurchase struct {
	ID                    string
	UserID                string
	Platform              string // e.g. "partnerstack"
	ExternalTransactionID string
	ExternalStatus        string
	ToolID                string // empty when the network gave no mapping
	Amount                decimal.Decimal
	CashbackAmount        decimal.Decimal
	Status                EntryStatus
	PurchasedAt           time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// NormalizeExternalStatus maps the network vocabulary onto ledger statuses.
func NormalizeExternalStatus(external string) EntryStatus {
	if external == ExternalStatusConfirmed {
		return EntryStatusCompleted
	}
	return EntryStatusPending
}
