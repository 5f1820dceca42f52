package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/shopspring/decimal"

	"incentoro/internal/domain/model"
	"incentoro/internal/domain/ports/repository"
)

var _ repository.PurchaseRepository = (*PostgresPurchaseRepo)(nil)

type PostgresPurchaseRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresPurchaseRepo(pool *pgxpool.Pool) *PostgresPurchaseRepo {
	return &PostgresPurchaseRepo{pool: pool}
}

const purchaseColumns = `id, user_id, platform, external_transaction_id, external_status, tool_id, amount::text, cashback_amount::text, status, purchased_at, created_at, updated_at`

func (r *PostgresPurchaseRepo) Upsert(ctx context.Context, tx repository.Tx, p *model.ExternalPurchase) error {
	const q = `
INSERT INTO external_purchases (
  id, user_id, platform, external_transaction_id, external_status,
  tool_id, amount, cashback_amount, status, purchased_at, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7::numeric,$8::numeric,$9,$10,$11,$12)
ON CONFLICT (platform, external_transaction_id) DO UPDATE SET
  external_status = EXCLUDED.external_status,
  amount = EXCLUDED.amount,
  cashback_amount = EXCLUDED.cashback_amount,
  status = EXCLUDED.status,
  updated_at = NOW();`

	ex, err := querier(r.pool, tx)
	if err != nil {
		return err
	}
	_, err = ex.Exec(ctx, q,
		p.ID, p.UserID, p.Platform, p.ExternalTransactionID, p.ExternalStatus,
		p.ToolID, p.Amount.String(), p.CashbackAmount.String(), p.Status,
		p.PurchasedAt, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *PostgresPurchaseRepo) ListByUser(ctx context.Context, tx repository.Tx, userID, platform string) ([]*model.ExternalPurchase, error) {
	q := `SELECT ` + purchaseColumns + `
  FROM external_purchases
 WHERE user_id=$1 AND platform=$2
 ORDER BY purchased_at DESC`
	ex, err := querier(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, q, userID, platform)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.ExternalPurchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPurchase(row pgx.Row) (*model.ExternalPurchase, error) {
	var (
		p                model.ExternalPurchase
		amount, cashback string
	)
	if err := row.Scan(&p.ID, &p.UserID, &p.Platform, &p.ExternalTransactionID,
		&p.ExternalStatus, &p.ToolID, &amount, &cashback, &p.Status,
		&p.PurchasedAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if p.Amount, err = decimal.NewFromString(amount); err != nil {
		return nil, err
	}
	if p.CashbackAmount, err = decimal.NewFromString(cashback); err != nil {
		return nil, err
	}
	return &p, nil
}
