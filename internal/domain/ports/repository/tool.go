package repository

import (
	"context"

	"incentoro/internal/domain/model"
)

// ToolRepository is the port for the marketplace tool catalog.
type ToolRepository interface {
	Save(ctx context.Context, tx Tx, t *model.MarketplaceTool) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.MarketplaceTool, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.MarketplaceTool, error)
}
