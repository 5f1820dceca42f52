package repository

import (
	"context"

	"incentoro/internal/domain/model"
)

// ProfileRepository is the port for identity-provider profile mirrors.
type ProfileRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Profile) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Profile, error)
	FindByEmail(ctx context.Context, tx Tx, email string) (*model.Profile, error)
}
