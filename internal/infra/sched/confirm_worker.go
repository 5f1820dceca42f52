package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"incentoro/internal/usecase"
)

// ConfirmWorker periodically confirms matured pending entries via the use case.
type ConfirmWorker struct {
	interval  time.Duration
	confirmUC usecase.ConfirmUseCase
	log       *zerolog.Logger
}

func NewConfirmWorker(interval time.Duration, confirmUC usecase.ConfirmUseCase, logger *zerolog.Logger) *ConfirmWorker {
	l := logger.With().Str("component", "ConfirmWorker").Logger()
	return &ConfirmWorker{
		interval:  interval,
		confirmUC: confirmUC,
		log:       &l,
	}
}

func (w *ConfirmWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting confirm worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping confirm worker")
			return ctx.Err()
		case <-ticker.C:
			n, err := w.confirmUC.ConfirmMatured(ctx)
			if err != nil {
				w.log.Error().Err(err).Msg("confirm worker error")
			}
			if n > 0 {
				w.log.Info().Int("count", n).Msg("matured entries confirmed")
			}
		}
	}
}
