package model

import (
	"time"

	"github.com/shopspring/decimal"

	"incentoro/internal/domain"
)

// MarketplaceTool is a third-party tool listed in the marketplace catalog.
// ID is a stable slug; policy tables key on it, the display name is only for
// presentation.
type MarketplaceTool struct {
	ID                  string
	Name                string
	BaseCashbackPercent decimal.Decimal // 0-100
	Price               decimal.Decimal
	BaseURL             string
	Category            string
	Description         string
	ImageURL            string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (t *MarketplaceTool) IsZero() bool { return t == nil || t.ID == "" }

// NewMarketplaceTool validates and constructs a tool listing.
func NewMarketplaceTool(id, name string, basePercent, price decimal.Decimal, baseURL, category string) (*MarketplaceTool, error) {
	if id == "" || name == "" || baseURL == "" {
		return nil, domain.ErrInvalidArgument
	}
	if basePercent.IsNegative() || basePercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, domain.ErrInvalidArgument
	}
	if price.IsNegative() {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &MarketplaceTool{
		ID:                  id,
		Name:                name,
		BaseCashbackPercent: basePercent,
		Price:               price,
		BaseURL:             baseURL,
		Category:            category,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}
