// File: internal/usecase/sync_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"incentoro/internal/domain"
	"incentoro/internal/domain/model"
	"incentoro/internal/domain/ports/adapter"
	"incentoro/internal/domain/ports/repository"
	"incentoro/internal/infra/metrics"
)

// SyncUseCase mirrors transactions from the external affiliate network into
// the purchases table. The network remains the confirmation authority for
// these rows; the mirror only normalizes status for display.
type SyncUseCase interface {
	// SyncExternal pulls the network's transactions and upserts them,
	// returning how many rows were written.
	SyncExternal(ctx context.Context) (int, error)
}

var _ SyncUseCase = (*syncUC)(nil)

type syncUC struct {
	network   adapter.AffiliateNetwork
	purchases repository.PurchaseRepository
	profiles  repository.ProfileRepository
	log       *zerolog.Logger
}

func NewSyncUseCase(
	network adapter.AffiliateNetwork,
	purchases repository.PurchaseRepository,
	profiles repository.ProfileRepository,
	logger *zerolog.Logger,
) *syncUC {
	l := logger.With().Str("component", "SyncUC").Logger()
	return &syncUC{network: network, purchases: purchases, profiles: profiles, log: &l}
}

func (uc *syncUC) SyncExternal(ctx context.Context) (int, error) {
	txs, err := uc.network.ListTransactions(ctx)
	if err != nil {
		metrics.IncSyncRun("error")
		return 0, err
	}

	written := 0
	for _, t := range txs {
		// Transactions for customers we cannot attribute are skipped, not
		// failed: the network reports every referral, not only ours.
		prof, err := uc.profiles.FindByEmail(ctx, repository.NoTX, t.CustomerEmail)
		if err == domain.ErrNotFound {
			uc.log.Debug().Str("email", t.CustomerEmail).Msg("no profile for network transaction")
			continue
		}
		if err != nil {
			uc.log.Error().Err(err).Str("external_id", t.ID).Msg("profile lookup failed")
			continue
		}

		now := time.Now()
		p := &model.ExternalPurchase{
			ID:                    ulid.Make().String(),
			UserID:                prof.ID,
			Platform:              uc.network.Name(),
			ExternalTransactionID: t.ID,
			ExternalStatus:        t.Status,
			Amount:                t.Amount,
			CashbackAmount:        t.Commission,
			Status:                model.NormalizeExternalStatus(t.Status),
			PurchasedAt:           t.CreatedAt,
			CreatedAt:             now,
			UpdatedAt:             now,
		}
		if err := uc.purchases.Upsert(ctx, repository.NoTX, p); err != nil {
			uc.log.Error().Err(err).Str("external_id", t.ID).Msg("purchase upsert failed")
			continue
		}
		written++
	}

	metrics.IncSyncRun("ok")
	metrics.AddSyncUpserts(written)
	return written, nil
}
