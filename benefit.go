package core

import (
	"github.com/shopspring/decimal"
)

// CrossCurrencyBenefitAndDiscount derives how much risk-adjusted value must
// move to restore solvency, denominated in collateral-currency units, and
// which liquidation discount applies.
//
// The account's negative net value is converted to collateral units and
// scaled up by the inverse of the collateral's positive-balance haircut. The
// discount is the larger of the two currencies' configured discounts, so the
// liquidator is never under-compensated relative to either currency's own
// risk parameters.
func CrossCurrencyBenefitAndDiscount(s *RiskSnapshot) (decimal.Decimal, decimal.Decimal, error) {
	if err := s.validateCrossCurrency(); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if !s.NetRiskAdjustedValue.IsNegative() {
		return decimal.Zero, decimal.Zero, ErrAccountNotUnhealthy
	}

	benefitRequired := s.NetRiskAdjustedValue.Neg().
		Div(s.CollateralRate.Rate).
		Div(s.CollateralRate.Haircut)

	liquidationDiscount := decimal.Max(
		s.LocalRate.LiquidationDiscount,
		s.CollateralRate.LiquidationDiscount,
	)

	return benefitRequired, liquidationDiscount, nil
}

// LocalToPurchase converts a collateral present value into the local amount
// the liquidator must supply, clamped so the account's negative local buffer
// only ever moves toward zero. When the clamp engages, the collateral amount
// sold scales down proportionally, never up.
func LocalToPurchase(s *RiskSnapshot, liquidationDiscount, collateralPresentValue, collateralToSell decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	return localToPurchase(s, s.LocalAvailable, liquidationDiscount, collateralPresentValue, collateralToSell)
}

// localToPurchase is the worker; the multi-maturity strategies call it with
// a re-tightened local available so later maturities see earlier purchases.
func localToPurchase(s *RiskSnapshot, localAvailable, liquidationDiscount, collateralPresentValue, collateralToSell decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	if !liquidationDiscount.IsPositive() {
		return decimal.Zero, decimal.Zero, DegenerateLiquidationMath
	}

	localAmount := collateralPresentValue.
		Mul(s.localExchangeRate()).
		Div(liquidationDiscount)

	if !localAvailable.IsNegative() {
		return decimal.Zero, decimal.Zero, InvalidLiquidationState
	}

	maxLocal := localAvailable.Neg()
	if localAmount.GreaterThan(maxLocal) {
		ratio := maxLocal.Div(localAmount)
		collateralToSell = collateralToSell.Mul(ratio)
		localAmount = maxLocal
	}

	return collateralToSell, localAmount, nil
}
