package usecase

import (
	"github.com/shopspring/decimal"

	"incentoro/internal/domain"
	"incentoro/internal/domain/policy"
)

// Quote is the plan-comparison figure shown by the savings calculator.
type Quote struct {
	Amount          decimal.Decimal
	FreeRate        decimal.Decimal
	PremiumRate     decimal.Decimal
	FreeCashback    decimal.Decimal
	PremiumCashback decimal.Decimal
}

// CalculatorUseCase computes marketing quotes. Pure; quote figures are never
// used to price a ledger entry.
type CalculatorUseCase struct{}

func NewCalculatorUseCase() *CalculatorUseCase { return &CalculatorUseCase{} }

func (uc *CalculatorUseCase) Quote(amount decimal.Decimal) (*Quote, error) {
	if amount.IsNegative() {
		return nil, domain.ErrInvalidArgument
	}
	free, premium := policy.QuoteRates(amount)
	return &Quote{
		Amount:          amount,
		FreeRate:        free,
		PremiumRate:     premium,
		FreeCashback:    policy.CashbackAmount(amount, free),
		PremiumCashback: policy.CashbackAmount(amount, premium),
	}, nil
}
