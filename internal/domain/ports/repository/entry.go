package repository

import (
	"context"
	"time"

	"incentoro/internal/domain/model"
)

// EntryRepository is the port for cashback ledger entries.
type EntryRepository interface {
	// Save upserts on the entry's idempotency key: duplicate click events from
	// retried requests collapse into one pending entry.
	Save(ctx context.Context, tx Tx, e *model.CashbackEntry) error

	FindByID(ctx context.Context, tx Tx, id string) (*model.CashbackEntry, error)

	// ListByUser returns all of a user's entries, newest first.
	ListByUser(ctx context.Context, tx Tx, userID string) ([]*model.CashbackEntry, error)

	// ListMaturedPending returns pending entries whose cookie period ended at
	// or before `before`, oldest first, capped at limit.
	ListMaturedPending(ctx context.Context, tx Tx, before time.Time, limit int) ([]*model.CashbackEntry, error)

	// MarkCompleted transitions an entry pending -> completed. Returns false
	// when the entry was not pending (already confirmed elsewhere).
	MarkCompleted(ctx context.Context, tx Tx, id string) (bool, error)
}
