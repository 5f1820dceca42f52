package repository

import (
	"context"

	"incentoro/internal/domain/model"
)

// SubscriptionRepository is the port for plan-tier subscriptions.
type SubscriptionRepository interface {
	Save(ctx context.Context, tx Tx, s *model.PlanSubscription) error

	// FindActiveByUser returns the user's active subscription or ErrNotFound
	// (which callers treat as the free tier).
	FindActiveByUser(ctx context.Context, tx Tx, userID string) (*model.PlanSubscription, error)
}
