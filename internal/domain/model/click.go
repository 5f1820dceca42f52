package model

import (
	"time"

	"incentoro/internal/domain"
)

// ClickLog records that a user engaged with a tool's outbound affiliate link.
// Losing one is an analytics gap, not a user-facing failure.
type ClickLog struct {
	ID            string
	UserID        string
	ToolID        string
	ToolName      string
	AffiliateLink string
	ClickedAt     time.Time
}

func NewClickLog(id, userID, toolID, toolName, affiliateLink string, clickedAt time.Time) (*ClickLog, error) {
	if id == "" || userID == "" || affiliateLink == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &ClickLog{
		ID:            id,
		UserID:        userID,
		ToolID:        toolID,
		ToolName:      toolName,
		AffiliateLink: affiliateLink,
		ClickedAt:     clickedAt,
	}, nil
}
