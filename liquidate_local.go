package core

import (
	"github.com/shopspring/decimal"
)

// LiquidateLocalCurrency repairs an account whose aggregate same-currency
// buffer is non-negative but which still flags as impaired through the gap
// between the valuation haircut and the liquidation haircut on its pooled
// token and liquidity claims. No capital moves in from the liquidator beyond
// the discounted pooled-token purchase; the incentive on withdrawn liquidity
// claims is netted against what the liquidator pays.
//
// Returns the signed local amount owed by (positive) or to (negative) the
// liquidator.
func LiquidateLocalCurrency(log Log, s *RiskSnapshot, balance *WorkingBalance, portfolio *PortfolioState, pool LiquidityPool, maxPooledTokenLiquidation decimal.Decimal) (*LiquidateResult, error) {
	if err := s.validateLocal(); err != nil {
		return nil, err
	}
	if !s.NetRiskAdjustedValue.IsNegative() {
		return nil, ErrAccountNotUnhealthy
	}

	benefitRequired := s.NetRiskAdjustedValue.Neg().
		Div(s.LocalRate.Rate).
		Div(s.LocalRate.Buffer)
	benefitRemaining := benefitRequired

	netLocalFromLiquidator := decimal.Zero

	if portfolio.HasLiquidityClaims(s.LocalCurrency) {
		w, remaining, err := WithdrawLiquidityForBenefit(log, pool, portfolio, s, s.LocalCurrency, benefitRemaining)
		if err != nil {
			return nil, err
		}
		benefitRemaining = remaining

		balance.AddCashChange(w.NetCashIncrease.Sub(w.IncentivePaid))
		netLocalFromLiquidator = netLocalFromLiquidator.Sub(w.IncentivePaid)

		log.Debug().Msgf("local liquidity withdrawal: net cash %s incentive %s benefit remaining %s",
			w.NetCashIncrease, w.IncentivePaid, benefitRemaining)
	}

	tokensToLiquidate := decimal.Zero
	if benefitRemaining.IsPositive() &&
		s.PooledTokenValue.IsPositive() &&
		balance.StoredPooledTokenBalance.IsPositive() {

		if !s.PooledTokenHaircut.IsPositive() {
			return nil, InvalidLiquidationState
		}
		haircutGap := s.PooledTokenLiquidationHaircut.Sub(s.PooledTokenHaircut)
		if !haircutGap.IsPositive() {
			return nil, DegenerateLiquidationMath
		}

		// Full per-token present value, with the valuation haircut undone.
		tokenValue := s.PooledTokenValue.
			Div(balance.StoredPooledTokenBalance).
			Div(s.PooledTokenHaircut)

		// benefitGained = tokensToLiquidate * tokenValue * haircutGap
		tokensToLiquidate = benefitRemaining.Div(tokenValue.Mul(haircutGap))
		tokensToLiquidate = MaxLiquidationAmount(tokensToLiquidate, balance.StoredPooledTokenBalance, maxPooledTokenLiquidation)

		// The liquidator pays the liquidation-haircut value, not the
		// valuation-haircut value; the gap is the bonus.
		localCash := tokensToLiquidate.Mul(tokenValue).Mul(s.PooledTokenLiquidationHaircut)

		if err := balance.SetPooledTokenTransfer(tokensToLiquidate.Neg()); err != nil {
			return nil, err
		}
		balance.AddCashChange(localCash)
		netLocalFromLiquidator = netLocalFromLiquidator.Add(localCash)

		benefitRemaining = benefitRemaining.Sub(tokensToLiquidate.Mul(tokenValue).Mul(haircutGap))
	}

	benefitGained := benefitRequired.Sub(benefitRemaining)

	return &LiquidateResult{
		Type:          LiquidationTypeLocalCurrency,
		LocalCurrency: s.LocalCurrency,

		NetLocalFromLiquidator:   netLocalFromLiquidator,
		PooledTokensToLiquidator: tokensToLiquidate,

		PreLocalAvailable:  s.LocalAvailable,
		PostLocalAvailable: s.LocalAvailable.Add(benefitGained),
	}, nil
}
