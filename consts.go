package core

import (
	"github.com/shopspring/decimal"
)

var (
	ONE = decimal.NewFromInt(1)

	// Residual cash magnitudes at or below this are rounding dust, not
	// balances.
	EMPTY_BALANCE_THRESHOLD = decimal.NewFromFloat(0.00000001)

	// A liquidator may always take up to this share of the relevant total
	// balance, even when the closed-form solution asks for less.
	MAX_LIQUIDATION_PORTION = decimal.NewFromFloat(0.40)

	// Incentive paid to the liquidator out of the net cash recovered when
	// liquidity claims are withdrawn on the benefit-bearing path.
	LIQUIDITY_REPO_INCENTIVE = decimal.NewFromFloat(0.30)
)
