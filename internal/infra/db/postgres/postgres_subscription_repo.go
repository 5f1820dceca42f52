package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"incentoro/internal/domain"
	"incentoro/internal/domain/model"
	"incentoro/internal/domain/ports/repository"
)

var _ repository.SubscriptionRepository = (*PostgresSubscriptionRepo)(nil)

type PostgresSubscriptionRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresSubscriptionRepo(pool *pgxpool.Pool) *PostgresSubscriptionRepo {
	return &PostgresSubscriptionRepo{pool: pool}
}

func (r *PostgresSubscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.PlanSubscription) error {
	const q = `
INSERT INTO plan_subscriptions (id, user_id, plan_type, status, started_at, expires_at, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET
  plan_type = EXCLUDED.plan_type,
  status = EXCLUDED.status,
  expires_at = EXCLUDED.expires_at,
  updated_at = NOW();`

	ex, err := querier(r.pool, tx)
	if err != nil {
		return err
	}
	_, err = ex.Exec(ctx, q, s.ID, s.UserID, s.PlanType, s.Status,
		s.StartedAt, s.ExpiresAt, s.CreatedAt, s.UpdatedAt)
	return err
}

func (r *PostgresSubscriptionRepo) FindActiveByUser(ctx context.Context, tx repository.Tx, userID string) (*model.PlanSubscription, error) {
	const q = `
SELECT id, user_id, plan_type, status, started_at, expires_at, created_at, updated_at
  FROM plan_subscriptions
 WHERE user_id=$1 AND status='active' AND (expires_at IS NULL OR expires_at > NOW())
 ORDER BY started_at DESC
 LIMIT 1;`

	ex, err := querier(r.pool, tx)
	if err != nil {
		return nil, err
	}
	var s model.PlanSubscription
	err = ex.QueryRow(ctx, q, userID).Scan(&s.ID, &s.UserID, &s.PlanType, &s.Status,
		&s.StartedAt, &s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}
