package model

import (
	"time"

	"incentoro/internal/domain"
)

type PlanType string

const (
	PlanFree    PlanType = "free"
	PlanPremium PlanType = "premium"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

// PlanSubscription is a user's plan tier record. Users without an active row
// are on the free plan.
type PlanSubscription struct {
	ID        string
	UserID    string
	PlanType  PlanType
	Status    SubscriptionStatus
	StartedAt time.Time
	ExpiresAt *time.Time // nil for open-ended
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPlanSubscription creates an active subscription for a user.
func NewPlanSubscription(id, userID string, plan PlanType) (*PlanSubscription, error) {
	if id == "" || userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if plan != PlanFree && plan != PlanPremium {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &PlanSubscription{
		ID:        id,
		UserID:    userID,
		PlanType:  plan,
		Status:    SubscriptionStatusActive,
		StartedAt: now,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsActive reports whether the subscription grants its tier at `now`.
func (s *PlanSubscription) IsActive(now time.Time) bool {
	if s.Status != SubscriptionStatusActive {
		return false
	}
	return s.ExpiresAt == nil || now.Before(*s.ExpiresAt)
}
