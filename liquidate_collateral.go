package core

import (
	"github.com/shopspring/decimal"
)

// LiquidateCollateralCurrency repairs a cross-currency shortfall: the
// account's local buffer is strictly negative and its collateral buffer
// strictly positive. The liquidator supplies local currency and receives
// collateral at the liquidation discount, drawn through a three-stage
// waterfall: stored cash, then liquidity-claim withdrawals, then pooled
// tokens. The liquidator only ever pays for what was actually raised.
func LiquidateCollateralCurrency(log Log, s *RiskSnapshot, collateralBalance *WorkingBalance, portfolio *PortfolioState, pool LiquidityPool, maxCollateralLiquidation, maxPooledTokenLiquidation decimal.Decimal) (*LiquidateResult, error) {
	if !s.LocalAvailable.IsNegative() || !s.CollateralAvailable.IsPositive() {
		return nil, InvalidLiquidationState
	}

	benefitRequired, liquidationDiscount, err := CrossCurrencyBenefitAndDiscount(s)
	if err != nil {
		return nil, err
	}

	// The account must give up benefit * discount of collateral for the
	// local repayment to restore the required risk-adjusted value.
	collateralToRaise := benefitRequired.Mul(liquidationDiscount)
	if collateralToRaise.GreaterThan(s.CollateralAvailable) {
		collateralToRaise = s.CollateralAvailable
	}
	if maxCollateralLiquidation.IsPositive() && collateralToRaise.GreaterThan(maxCollateralLiquidation) {
		collateralToRaise = maxCollateralLiquidation
	}

	collateralToRaise, localToPay, err := LocalToPurchase(s, liquidationDiscount, collateralToRaise, collateralToRaise)
	if err != nil {
		return nil, err
	}

	log.Debug().Msgf("collateral liquidation target: %s collateral for %s local (discount %s)",
		collateralToRaise, localToPay, liquidationDiscount)

	remaining := collateralToRaise

	// Stage 1: stored cash. An account can hold a cash debt in the
	// collateral currency while its buffer comes from pooled tokens; a
	// negative balance contributes nothing here.
	if collateralBalance.StoredCashBalance.IsPositive() {
		cashDraw := decimal.Min(remaining, collateralBalance.StoredCashBalance)
		remaining = remaining.Sub(cashDraw)
	}

	// Stage 2: liquidity-claim cash value.
	if remaining.IsPositive() && portfolio.HasLiquidityClaims(s.CollateralCurrency) {
		w, stillRemaining, err := WithdrawLiquidityForCollateral(log, pool, portfolio, s, s.CollateralCurrency, remaining)
		if err != nil {
			return nil, err
		}
		collateralBalance.AddCashChange(w.NetCashIncrease)
		remaining = stillRemaining
	}

	// Stage 3: pooled-token redemption, in terms of the collateral still
	// needed rather than benefit.
	tokensToLiquidator := decimal.Zero
	tokenCollateralRaised := decimal.Zero
	if remaining.IsPositive() &&
		s.PooledTokenValue.IsPositive() &&
		collateralBalance.StoredPooledTokenBalance.IsPositive() {

		if !s.PooledTokenHaircut.IsPositive() {
			return nil, InvalidLiquidationState
		}
		tokenValue := s.PooledTokenValue.
			Div(collateralBalance.StoredPooledTokenBalance).
			Div(s.PooledTokenHaircut)
		collateralPerToken := tokenValue.Mul(s.PooledTokenLiquidationHaircut)
		if !collateralPerToken.IsPositive() {
			return nil, DegenerateLiquidationMath
		}

		tokensToLiquidator = remaining.Div(collateralPerToken)
		if tokensToLiquidator.GreaterThan(collateralBalance.StoredPooledTokenBalance) {
			tokensToLiquidator = collateralBalance.StoredPooledTokenBalance
		}
		if maxPooledTokenLiquidation.IsPositive() && tokensToLiquidator.GreaterThan(maxPooledTokenLiquidation) {
			tokensToLiquidator = maxPooledTokenLiquidation
		}

		tokenCollateralRaised = tokensToLiquidator.Mul(collateralPerToken)
		remaining = remaining.Sub(tokenCollateralRaised)

		if err := collateralBalance.SetPooledTokenTransfer(tokensToLiquidator.Neg()); err != nil {
			return nil, err
		}
	}

	collateralRealized := collateralToRaise.Sub(remaining)

	if remaining.IsPositive() {
		// Not everything was available; the liquidator pays only for the
		// realized amount.
		_, localToPay, err = LocalToPurchase(s, liquidationDiscount, collateralRealized, collateralRealized)
		if err != nil {
			return nil, err
		}
		log.Warn().Msgf("collateral waterfall exhausted: realized %s of %s, local owed %s",
			collateralRealized, collateralToRaise, localToPay)
	}

	collateralCashToLiquidator := collateralRealized.Sub(tokenCollateralRaised)
	collateralBalance.AddCashChange(collateralCashToLiquidator.Neg())

	return &LiquidateResult{
		Type:               LiquidationTypeCollateralCurrency,
		LocalCurrency:      s.LocalCurrency,
		CollateralCurrency: s.CollateralCurrency,

		NetLocalFromLiquidator:     localToPay,
		CollateralCashToLiquidator: collateralCashToLiquidator,
		PooledTokensToLiquidator:   tokensToLiquidator,

		PreLocalAvailable:       s.LocalAvailable,
		PostLocalAvailable:      s.LocalAvailable.Add(localToPay),
		PreCollateralAvailable:  s.CollateralAvailable,
		PostCollateralAvailable: s.CollateralAvailable.Sub(collateralRealized),
	}, nil
}
