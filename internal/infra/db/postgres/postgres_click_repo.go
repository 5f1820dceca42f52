package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"incentoro/internal/domain/model"
	"incentoro/internal/domain/ports/repository"
)

var _ repository.ClickRepository = (*PostgresClickRepo)(nil)

type PostgresClickRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresClickRepo(pool *pgxpool.Pool) *PostgresClickRepo {
	return &PostgresClickRepo{pool: pool}
}

func (r *PostgresClickRepo) Save(ctx context.Context, tx repository.Tx, c *model.ClickLog) error {
	const q = `
INSERT INTO click_logs (id, user_id, tool_id, tool_name, affiliate_link, clicked_at)
VALUES ($1,$2,$3,$4,$5,$6);`

	ex, err := querier(r.pool, tx)
	if err != nil {
		return err
	}
	_, err = ex.Exec(ctx, q, c.ID, c.UserID, c.ToolID, c.ToolName, c.AffiliateLink, c.ClickedAt)
	return err
}

func (r *PostgresClickRepo) CountByUser(ctx context.Context, tx repository.Tx, userID string) (int64, error) {
	const q = `SELECT COUNT(*) FROM click_logs WHERE user_id=$1;`
	ex, err := querier(r.pool, tx)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := ex.QueryRow(ctx, q, userID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
