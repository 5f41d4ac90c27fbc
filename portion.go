package core

import (
	"github.com/shopspring/decimal"
)

// MaxLiquidationAmount applies the shared liquidation-amount clamp.
//
// The initial amount is first capped at the total balance, then raised to at
// least MAX_LIQUIDATION_PORTION of the total balance (liquidators are
// entitled to take that much even when the closed-form solution asks for
// less), and finally capped at the caller's maximum when one was given. The
// order is deliberate: the portion floor must never override an explicit
// caller ceiling.
func MaxLiquidationAmount(initial, totalBalance, userSpecifiedMaximum decimal.Decimal) decimal.Decimal {
	maxAllowed := totalBalance.Mul(MAX_LIQUIDATION_PORTION)

	result := initial
	if result.GreaterThan(totalBalance) {
		result = totalBalance
	}
	if result.LessThan(maxAllowed) {
		result = maxAllowed
	}
	if userSpecifiedMaximum.IsPositive() && result.GreaterThan(userSpecifiedMaximum) {
		result = userSpecifiedMaximum
	}
	return result
}
