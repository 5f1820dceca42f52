package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"incentoro/internal/usecase"
)

// SyncWorker periodically mirrors the external affiliate network's
// transactions into the purchases table.
type SyncWorker struct {
	interval time.Duration
	syncUC   usecase.SyncUseCase
	log      *zerolog.Logger
}

func NewSyncWorker(interval time.Duration, syncUC usecase.SyncUseCase, logger *zerolog.Logger) *SyncWorker {
	l := logger.With().Str("component", "SyncWorker").Logger()
	return &SyncWorker{
		interval: interval,
		syncUC:   syncUC,
		log:      &l,
	}
}

func (w *SyncWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting sync worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping sync worker")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.syncUC.SyncExternal(ctx)
			if err != nil {
				w.log.Error().Err(err).Msg("sync worker error")
				continue
			}
			w.log.Info().Int("upserts", n).Msg("affiliate network sync completed")
		}
	}
}
