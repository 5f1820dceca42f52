package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/shopspring/decimal"

	"incentoro/internal/domain"
	"incentoro/internal/domain/model"
	"incentoro/internal/domain/ports/repository"
)

var _ repository.EntryRepository = (*PostgresEntryRepo)(nil)

type PostgresEntryRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresEntryRepo(pool *pgxpool.Pool) *PostgresEntryRepo {
	return &PostgresEntryRepo{pool: pool}
}

const entryColumns = `id, user_id, tool_id, tool_name, amount::text, created_at, cookie_period_days, cookie_period_end, status, source, idempotency_key`

func (r *PostgresEntryRepo) Save(ctx context.Context, tx repository.Tx, e *model.CashbackEntry) error {
	const q = `
INSERT INTO cashback_entries (
  id, user_id, tool_id, tool_name, amount, created_at,
  cookie_period_days, cookie_period_end, status, source, idempotency_key
) VALUES (
  $1,$2,$3,$4,$5::numeric,$6,$7,$8,$9,$10,$11
) ON CONFLICT (idempotency_key) DO NOTHING;`

	ex, err := querier(r.pool, tx)
	if err != nil {
		return err
	}
	_, err = ex.Exec(ctx, q,
		e.ID, e.UserID, e.ToolID, e.ToolName, e.Amount.String(), e.CreatedAt,
		e.CookiePeriodDays, e.CookiePeriodEnd, e.Status, e.Source, e.IdempotencyKey)
	return err
}

func (r *PostgresEntryRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.CashbackEntry, error) {
	q := `SELECT ` + entryColumns + ` FROM cashback_entries WHERE id=$1`
	if _, ok := tx.(pgx.Tx); ok {
		q += " FOR UPDATE"
	}
	ex, err := querier(r.pool, tx)
	if err != nil {
		return nil, err
	}
	return scanEntry(ex.QueryRow(ctx, q, id))
}

func (r *PostgresEntryRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.CashbackEntry, error) {
	q := `SELECT ` + entryColumns + ` FROM cashback_entries WHERE user_id=$1 ORDER BY created_at DESC`
	ex, err := querier(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (r *PostgresEntryRepo) ListMaturedPending(ctx context.Context, tx repository.Tx, before time.Time, limit int) ([]*model.CashbackEntry, error) {
	q := `SELECT ` + entryColumns + `
  FROM cashback_entries
 WHERE status='pending' AND cookie_period_end <= $1
 ORDER BY cookie_period_end ASC
 LIMIT $2`
	ex, err := querier(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, q, before, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEntries(rows)
}

// MarkCompleted is a guarded transition: the WHERE clause ensures only a
// pending entry moves, so concurrent confirmers cannot double-apply.
func (r *PostgresEntryRepo) MarkCompleted(ctx context.Context, tx repository.Tx, id string) (bool, error) {
	const q = `UPDATE cashback_entries SET status='completed' WHERE id=$1 AND status='pending';`
	ex, err := querier(r.pool, tx)
	if err != nil {
		return false, err
	}
	tag, err := ex.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func scanEntry(row pgx.Row) (*model.CashbackEntry, error) {
	var (
		e      model.CashbackEntry
		amount string
	)
	if err := row.Scan(&e.ID, &e.UserID, &e.ToolID, &e.ToolName, &amount, &e.CreatedAt,
		&e.CookiePeriodDays, &e.CookiePeriodEnd, &e.Status, &e.Source, &e.IdempotencyKey); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}
	e.Amount = d
	return &e, nil
}

func scanEntries(rows pgx.Rows) ([]*model.CashbackEntry, error) {
	var out []*model.CashbackEntry
	for rows.Next() {
		var (
			e      model.CashbackEntry
			amount string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.ToolID, &e.ToolName, &amount, &e.CreatedAt,
			&e.CookiePeriodDays, &e.CookiePeriodEnd, &e.Status, &e.Source, &e.IdempotencyKey); err != nil {
			return nil, err
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, err
		}
		e.Amount = d
		out = append(out, &e)
	}
	return out, rows.Err()
}
