// File: internal/usecase/confirm_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"incentoro/internal/domain"
	"incentoro/internal/domain/model"
	"incentoro/internal/domain/ports/adapter"
	"incentoro/internal/domain/ports/repository"
	"incentoro/internal/infra/metrics"
)

// ConfirmUseCase is the only writer of the pending -> completed transition.
// It confirms internal entries whose attribution window has elapsed and
// notifies the user; the confirmation email is best-effort.
type ConfirmUseCase interface {
	// ConfirmMatured confirms every matured pending entry (up to an internal
	// batch limit) and returns how many were confirmed.
	ConfirmMatured(ctx context.Context) (int, error)
}

var _ ConfirmUseCase = (*confirmUC)(nil)

type confirmUC struct {
	entries  repository.EntryRepository
	profiles repository.ProfileRepository
	mailer   adapter.Mailer
	txm      repository.TransactionManager
	log      *zerolog.Logger

	batchLimit int
	now        func() time.Time
}

func NewConfirmUseCase(
	entries repository.EntryRepository,
	profiles repository.ProfileRepository,
	mailer adapter.Mailer,
	txm repository.TransactionManager,
	logger *zerolog.Logger,
) *confirmUC {
	l := logger.With().Str("component", "ConfirmUC").Logger()
	return &confirmUC{
		entries:    entries,
		profiles:   profiles,
		mailer:     mailer,
		txm:        txm,
		log:        &l,
		batchLimit: 200,
		now:        time.Now,
	}
}

func (uc *confirmUC) ConfirmMatured(ctx context.Context) (int, error) {
	matured, err := uc.entries.ListMaturedPending(ctx, repository.NoTX, uc.now(), uc.batchLimit)
	if err != nil {
		return 0, err
	}

	confirmed := 0
	for _, e := range matured {
		if err := uc.confirmOne(ctx, e); err != nil {
			uc.log.Error().Err(err).Str("entry_id", e.ID).Msg("confirm failed")
			continue
		}
		confirmed++
		metrics.IncEntriesConfirmed()
		uc.notify(ctx, e)
	}
	return confirmed, nil
}

// confirmOne re-checks the entry status inside a transaction so a concurrent
// run cannot double-confirm.
func (uc *confirmUC) confirmOne(ctx context.Context, e *model.CashbackEntry) error {
	if uc.txm == nil {
		// In-memory path for tests.
		ok, err := uc.entries.MarkCompleted(ctx, repository.NoTX, e.ID)
		if err == nil && !ok {
			uc.log.Debug().Str("entry_id", e.ID).Msg("entry no longer pending")
		}
		return err
	}
	return uc.txm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		ok, err := uc.entries.MarkCompleted(ctx, tx, e.ID)
		if err != nil {
			return err
		}
		if !ok {
			uc.log.Debug().Str("entry_id", e.ID).Msg("entry no longer pending")
		}
		return nil
	})
}

func (uc *confirmUC) notify(ctx context.Context, e *model.CashbackEntry) {
	prof, err := uc.profiles.FindByID(ctx, repository.NoTX, e.UserID)
	if err != nil {
		if err != domain.ErrNotFound {
			uc.log.Warn().Err(err).Str("user_id", e.UserID).Msg("profile lookup failed; skipping email")
		}
		return
	}
	if err := uc.mailer.SendConfirmation(ctx, prof.Email, e.Amount, e.ToolName); err != nil {
		metrics.IncEmail("confirmation", "error")
		uc.log.Warn().Err(err).Str("entry_id", e.ID).Msg("confirmation email failed")
		return
	}
	metrics.IncEmail("confirmation", "ok")
}
