package repository

import (
	"context"

	"incentoro/internal/domain/model"
)

// ClickRepository is the port for click-tracking records.
type ClickRepository interface {
	Save(ctx context.Context, tx Tx, c *model.ClickLog) error
	CountByUser(ctx context.Context, tx Tx, userID string) (int64, error)
}
