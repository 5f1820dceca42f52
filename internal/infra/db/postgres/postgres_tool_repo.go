package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/shopspring/decimal"

	"incentoro/internal/domain"
	"incentoro/internal/domain/model"
	"incentoro/internal/domain/ports/repository"
)

var _ repository.ToolRepository = (*PostgresToolRepo)(nil)

type PostgresToolRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresToolRepo(pool *pgxpool.Pool) *PostgresToolRepo {
	return &PostgresToolRepo{pool: pool}
}

const toolColumns = `id, name, base_cashback_percent::text, price::text, base_url, category, description, image_url, created_at, updated_at`

func (r *PostgresToolRepo) Save(ctx context.Context, tx repository.Tx, t *model.MarketplaceTool) error {
	const q = `
INSERT INTO marketplace_tools (
  id, name, base_cashback_percent, price, base_url, category, description, image_url, created_at, updated_at
) VALUES ($1,$2,$3::numeric,$4::numeric,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET
  name = EXCLUDED.name,
  base_cashback_percent = EXCLUDED.base_cashback_percent,
  price = EXCLUDED.price,
  base_url = EXCLUDED.base_url,
  category = EXCLUDED.category,
  description = EXCLUDED.description,
  image_url = EXCLUDED.image_url,
  updated_at = NOW();`

	ex, err := querier(r.pool, tx)
	if err != nil {
		return err
	}
	_, err = ex.Exec(ctx, q,
		t.ID, t.Name, t.BaseCashbackPercent.String(), t.Price.String(),
		t.BaseURL, t.Category, t.Description, t.ImageURL, t.CreatedAt, t.UpdatedAt)
	return err
}

func (r *PostgresToolRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.MarketplaceTool, error) {
	q := `SELECT ` + toolColumns + ` FROM marketplace_tools WHERE id=$1`
	ex, err := querier(r.pool, tx)
	if err != nil {
		return nil, err
	}
	return scanTool(ex.QueryRow(ctx, q, id))
}

func (r *PostgresToolRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.MarketplaceTool, error) {
	q := `SELECT ` + toolColumns + ` FROM marketplace_tools ORDER BY name ASC`
	ex, err := querier(r.pool, tx)
	if err != nil {
		return nil, err
	}
	rows, err := ex.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.MarketplaceTool
	for rows.Next() {
		t, err := scanTool(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func scanTool(row pgx.Row) (*model.MarketplaceTool, error) {
	var (
		t              model.MarketplaceTool
		percent, price string
	)
	if err := row.Scan(&t.ID, &t.Name, &percent, &price, &t.BaseURL,
		&t.Category, &t.Description, &t.ImageURL, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	var err error
	if t.BaseCashbackPercent, err = decimal.NewFromString(percent); err != nil {
		return nil, err
	}
	if t.Price, err = decimal.NewFromString(price); err != nil {
		return nil, err
	}
	return &t, nil
}
