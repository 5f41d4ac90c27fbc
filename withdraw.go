package core

import (
	"github.com/shopspring/decimal"
)

type (
	// LiquidityPool values a liquidity-claim record at current pool state,
	// returning the (cash, fCash) pair a given number of claim units
	// redeems into.
	LiquidityPool interface {
		GetCashClaims(record *AssetRecord, unitsToRemove decimal.Decimal) (cash, fCash decimal.Decimal, err error)
	}

	// WithdrawAccumulator collects scratch totals while liquidity claims are
	// drained for one currency. Created fresh per withdrawal call.
	WithdrawAccumulator struct {
		// Cash credited to the account, post-haircut, pre-incentive.
		NetCashIncrease decimal.Decimal `json:"netCashIncrease"`
		// Incentive owed to the liquidator out of the net increase.
		IncentivePaid decimal.Decimal `json:"incentivePaid"`
		// Gross cash claimed from the pools, before any haircut.
		TotalCashClaim decimal.Decimal `json:"totalCashClaim"`
		// Fixed-term claims recovered back into the portfolio.
		FCashRecovered decimal.Decimal `json:"fCashRecovered"`
	}
)

// WithdrawLiquidityForBenefit drains the account's liquidity claims in one
// currency until amountRemaining of haircut, incentive-net cash has been
// recovered. Returns the accumulator and whatever amount is still unmet.
func WithdrawLiquidityForBenefit(log Log, pool LiquidityPool, portfolio *PortfolioState, s *RiskSnapshot, currencyId uint16, amountRemaining decimal.Decimal) (*WithdrawAccumulator, decimal.Decimal, error) {
	return withdrawLiquidity(log, pool, portfolio, currencyId, s.LiquidityClaimHaircut, LIQUIDITY_REPO_INCENTIVE, amountRemaining)
}

// WithdrawLiquidityForCollateral is the incentive-free sibling used by the
// collateral-currency waterfall.
func WithdrawLiquidityForCollateral(log Log, pool LiquidityPool, portfolio *PortfolioState, s *RiskSnapshot, currencyId uint16, amountRemaining decimal.Decimal) (*WithdrawAccumulator, decimal.Decimal, error) {
	return withdrawLiquidity(log, pool, portfolio, currencyId, s.LiquidityClaimHaircut, decimal.Zero, amountRemaining)
}

func withdrawLiquidity(log Log, pool LiquidityPool, portfolio *PortfolioState, currencyId uint16, haircut, incentive, amountRemaining decimal.Decimal) (*WithdrawAccumulator, decimal.Decimal, error) {
	w := &WithdrawAccumulator{
		NetCashIncrease: decimal.Zero,
		IncentivePaid:   decimal.Zero,
		TotalCashClaim:  decimal.Zero,
		FCashRecovered:  decimal.Zero,
	}

	for _, a := range portfolio.Assets {
		if !amountRemaining.IsPositive() {
			break
		}
		if a.Storage == AssetStorageDeleted {
			continue
		}
		if a.AssetType != AssetTypeLiquidityClaim || a.CurrencyId != currencyId {
			continue
		}
		if !a.Notional.IsPositive() {
			continue
		}

		cashClaim, fCashClaim, err := pool.GetCashClaims(a, a.Notional)
		if err != nil {
			return nil, decimal.Zero, err
		}

		netCashIncrease := cashClaim.Mul(haircut)
		incentivePaid := netCashIncrease.Mul(incentive)
		netCashToAccount := netCashIncrease.Sub(incentivePaid)

		if netCashToAccount.LessThanOrEqual(amountRemaining) {
			// The whole claim is consumed; the recovered fixed-term claim
			// goes back into the portfolio.
			amountRemaining = amountRemaining.Sub(netCashToAccount)

			w.NetCashIncrease = w.NetCashIncrease.Add(netCashIncrease)
			w.IncentivePaid = w.IncentivePaid.Add(incentivePaid)
			w.TotalCashClaim = w.TotalCashClaim.Add(cashClaim)
			w.FCashRecovered = w.FCashRecovered.Add(fCashClaim)

			a.Storage = AssetStorageDeleted
			portfolio.AddFCash(currencyId, a.Maturity, fCashClaim)

			log.Debug().Msgf("liquidity claim fully withdrawn: currency %d maturity %d cash %s fCash %s",
				currencyId, a.Maturity, cashClaim, fCashClaim)
			continue
		}

		// Partial withdrawal: remove a proportional fraction of the claim.
		// The ratio is strictly below one here, so the units removed can
		// never exceed the record's notional, rounding included.
		ratio := amountRemaining.Div(netCashToAccount)
		unitsToRemove := a.Notional.Mul(ratio)
		if unitsToRemove.GreaterThan(a.Notional) {
			unitsToRemove = a.Notional
		}

		cashRemoved := cashClaim.Mul(ratio)
		fCashRemoved := fCashClaim.Mul(ratio)

		w.NetCashIncrease = w.NetCashIncrease.Add(netCashIncrease.Mul(ratio))
		w.IncentivePaid = w.IncentivePaid.Add(incentivePaid.Mul(ratio))
		w.TotalCashClaim = w.TotalCashClaim.Add(cashRemoved)
		w.FCashRecovered = w.FCashRecovered.Add(fCashRemoved)

		a.Notional = a.Notional.Sub(unitsToRemove)
		a.Storage = AssetStorageUpdated
		portfolio.AddFCash(currencyId, a.Maturity, fCashRemoved)

		log.Debug().Msgf("liquidity claim partially withdrawn: currency %d maturity %d units %s of %s",
			currencyId, a.Maturity, unitsToRemove, unitsToRemove.Add(a.Notional))

		amountRemaining = decimal.Zero
		break
	}

	return w, amountRemaining, nil
}
