package repository

import (
	"context"

	"incentoro/internal/domain/model"
)

// PurchaseRepository is the port for purchases mirrored from external
// affiliate networks.
type PurchaseRepository interface {
	// Upsert is keyed on (platform, external transaction id) so repeated sync
	// runs update in place instead of duplicating.
	Upsert(ctx context.Context, tx Tx, p *model.ExternalPurchase) error

	ListByUser(ctx context.Context, tx Tx, userID, platform string) ([]*model.ExternalPurchase, error)
}
