package usecase

import (
	"context"

	"incentoro/internal/domain/model"
	"incentoro/internal/domain/ports/repository"
)

// ToolUseCase manages the marketplace tool catalog.
type ToolUseCase struct {
	repo repository.ToolRepository
}

func NewToolUseCase(repo repository.ToolRepository) *ToolUseCase {
	return &ToolUseCase{repo: repo}
}

// Create saves or updates a tool listing.
func (uc *ToolUseCase) Create(ctx context.Context, t *model.MarketplaceTool) error {
	return uc.repo.Save(ctx, repository.NoTX, t)
}

// Get retrieves a tool by its stable ID.
func (uc *ToolUseCase) Get(ctx context.Context, id string) (*model.MarketplaceTool, error) {
	return uc.repo.FindByID(ctx, repository.NoTX, id)
}

// List returns the whole catalog.
func (uc *ToolUseCase) List(ctx context.Context) ([]*model.MarketplaceTool, error) {
	return uc.repo.ListAll(ctx, repository.NoTX)
}
