package adapter

import (
	"context"

	"github.com/shopspring/decimal"
)

// Mailer is the outbound-notification port. Both sends are best-effort:
// callers log failures and move on, delivery is never on a user-facing
// critical path.
type Mailer interface {
	// SendClickTracking tells the user that cashback tracking has begun.
	SendClickTracking(ctx context.Context, email, toolName string) error

	// SendConfirmation tells the user a cashback amount became withdrawable.
	SendConfirmation(ctx context.Context, email string, amount decimal.Decimal, toolName string) error
}
