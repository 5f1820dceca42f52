package model

import (
	"time"

	"incentoro/internal/domain"
)

// Profile mirrors the identity provider's user record. Authentication itself
// happens upstream; we only hold what the ledger and mailer need.
type Profile struct {
	ID        string // UUID issued by the identity provider
	Email     string
	FullName  string
	Username  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewProfile(id, email string) (*Profile, error) {
	if id == "" || email == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &Profile{ID: id, Email: email, CreatedAt: now, UpdatedAt: now}, nil
}
