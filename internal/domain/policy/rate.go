package policy

import (
	"github.com/shopspring/decimal"

	"incentoro/internal/domain/model"
)

// PremiumCapPercent caps the doubled premium rate.
var PremiumCapPercent = decimal.NewFromInt(20)

var (
	zero    = decimal.Zero
	hundred = decimal.NewFromInt(100)
)

// EffectiveRate computes the cashback percentage actually paid for a purchase.
//
// Rate policy: the free plan pays the tool's listed base percentage unchanged;
// premium doubles it, capped at PremiumCapPercent. The output is clamped to
// [0, 100]. (The flat landing-page table in QuoteRates is a marketing quote
// only and is never used to price a ledger entry.)
func EffectiveRate(base decimal.Decimal, plan model.PlanType) decimal.Decimal {
	rate := base
	if plan == model.PlanPremium {
		rate = base.Mul(decimal.NewFromInt(2))
		if rate.GreaterThan(PremiumCapPercent) {
			rate = PremiumCapPercent
		}
	}
	return clampPercent(rate)
}

// CashbackAmount applies an effective rate to a purchase amount.
// Exact decimal arithmetic; rounding to the currency's 2 places happens at
// the presentation boundary only.
func CashbackAmount(purchase decimal.Decimal, effectiveRate decimal.Decimal) decimal.Decimal {
	return purchase.Mul(effectiveRate).Div(hundred)
}

// QuoteRates is the flat plan-comparison table shown by the landing-page
// calculator: free is always 5%, premium is 15% below 100 currency units and
// 20% from 100 up. Display only.
func QuoteRates(amount decimal.Decimal) (free, premium decimal.Decimal) {
	free = decimal.NewFromInt(5)
	premium = decimal.NewFromInt(15)
	if amount.GreaterThanOrEqual(hundred) {
		premium = decimal.NewFromInt(20)
	}
	return free, premium
}

func clampPercent(p decimal.Decimal) decimal.Decimal {
	if p.LessThan(zero) {
		return zero
	}
	if p.GreaterThan(hundred) {
		return hundred
	}
	return p
}
