package core

import (
	"github.com/shopspring/decimal"
)

// fCashLiquidationContext threads mutable state through a multi-maturity
// liquidation. Each call constructs its own instance.
type fCashLiquidationContext struct {
	BenefitRemaining    decimal.Decimal
	LocalToPurchase     decimal.Decimal
	LiquidationDiscount decimal.Decimal

	// Notional transferred per requested maturity, index-aligned with the
	// caller's maturities slice.
	Transfers []decimal.Decimal
}

func newFCashContext(benefitRequired, discount decimal.Decimal, n int) *fCashLiquidationContext {
	c := &fCashLiquidationContext{
		BenefitRemaining:    benefitRequired,
		LocalToPurchase:     decimal.Zero,
		LiquidationDiscount: discount,
		Transfers:           make([]decimal.Decimal, n),
	}
	for i := range c.Transfers {
		c.Transfers[i] = decimal.Zero
	}
	return c
}

func validateFCashParameters(maturities []int64, maxNotional []decimal.Decimal) error {
	if len(maturities) == 0 {
		return InvalidLiquidationParameters
	}
	if len(maxNotional) != len(maturities) {
		return InvalidLiquidationParameters
	}
	seen := make(map[int64]struct{}, len(maturities))
	for i, m := range maturities {
		if _, ok := seen[m]; ok {
			// A duplicate maturity would double count one position.
			return InvalidLiquidationParameters
		}
		seen[m] = struct{}{}
		if maxNotional[i].IsNegative() {
			return InvalidLiquidationParameters
		}
	}
	return nil
}

// LiquidateLocalFCash purchases the account's fixed-term claims in its own
// currency at the liquidation discount factor, maturity by maturity, until
// the required benefit is recovered. Maturities whose live notional is zero
// are skipped: concurrent liquidations over overlapping maturities are
// expected, not an error.
func LiquidateLocalFCash(log Log, s *RiskSnapshot, localBalance *WorkingBalance, portfolio *PortfolioState, factors DiscountFactorProvider, maturities []int64, maxNotional []decimal.Decimal, blockTime int64) (*LiquidateResult, error) {
	if err := validateFCashParameters(maturities, maxNotional); err != nil {
		return nil, err
	}
	if err := s.validateLocal(); err != nil {
		return nil, err
	}
	if !s.NetRiskAdjustedValue.IsNegative() {
		return nil, ErrAccountNotUnhealthy
	}

	benefitRequired := s.NetRiskAdjustedValue.Neg().
		Div(s.LocalRate.Rate).
		Div(s.LocalRate.Buffer)

	c := newFCashContext(benefitRequired, s.LocalRate.LiquidationDiscount, len(maturities))

	for i, maturity := range maturities {
		if !c.BenefitRemaining.IsPositive() {
			break
		}

		notional := portfolio.LiveNotional(s.LocalCurrency, maturity)
		if notional.IsZero() {
			log.Debug().Msgf("fCash maturity %d already liquidated, skipping", maturity)
			continue
		}

		riskAdjusted, liquidation, err := factors.GetDiscountFactors(s.LocalCurrency, maturity, blockTime)
		if err != nil {
			return nil, err
		}
		factorGap := liquidation.Sub(riskAdjusted)
		if !factorGap.IsPositive() {
			return nil, DegenerateLiquidationMath
		}

		notionalToTransfer := c.BenefitRemaining.Div(factorGap)
		notionalToTransfer = MaxLiquidationAmount(notionalToTransfer, notional, maxNotional[i])

		if err := portfolio.TransferFCash(s.LocalCurrency, maturity, notionalToTransfer); err != nil {
			return nil, err
		}

		c.Transfers[i] = notionalToTransfer
		c.LocalToPurchase = c.LocalToPurchase.Add(notionalToTransfer.Mul(liquidation))
		c.BenefitRemaining = c.BenefitRemaining.Sub(notionalToTransfer.Mul(factorGap))
	}

	localBalance.AddCashChange(c.LocalToPurchase)

	benefitGained := benefitRequired.Sub(c.BenefitRemaining)

	return &LiquidateResult{
		Type:          LiquidationTypeLocalFCash,
		LocalCurrency: s.LocalCurrency,

		NetLocalFromLiquidator: c.LocalToPurchase,
		FCashTransfers:         c.Transfers,

		PreLocalAvailable:  s.LocalAvailable,
		PostLocalAvailable: s.LocalAvailable.Add(benefitGained),
	}, nil
}

// LiquidateCrossCurrencyFCash sells the account's collateral-currency
// fixed-term claims for local cash. The benefit folded into each maturity's
// solve combines the fCash discount gap with the cross-currency buffer and
// haircut terms, and both buffers are re-tightened after every maturity so
// later iterations see the partially liquidated state.
func LiquidateCrossCurrencyFCash(log Log, s *RiskSnapshot, localBalance *WorkingBalance, portfolio *PortfolioState, factors DiscountFactorProvider, maturities []int64, maxNotional []decimal.Decimal, blockTime int64) (*LiquidateResult, error) {
	if err := validateFCashParameters(maturities, maxNotional); err != nil {
		return nil, err
	}
	if !s.LocalAvailable.IsNegative() || !s.CollateralAvailable.IsPositive() {
		return nil, InvalidLiquidationState
	}

	benefitRequired, liquidationDiscount, err := CrossCurrencyBenefitAndDiscount(s)
	if err != nil {
		return nil, err
	}

	c := newFCashContext(benefitRequired, liquidationDiscount, len(maturities))

	localAvailable := s.LocalAvailable
	collateralRemaining := s.CollateralAvailable

	for i, maturity := range maturities {
		if !c.BenefitRemaining.IsPositive() || !collateralRemaining.IsPositive() {
			break
		}
		if !localAvailable.IsNegative() {
			break
		}

		notional := portfolio.LiveNotional(s.CollateralCurrency, maturity)
		if notional.IsZero() {
			log.Debug().Msgf("fCash maturity %d already liquidated, skipping", maturity)
			continue
		}

		riskAdjusted, liquidation, err := factors.GetDiscountFactors(s.CollateralCurrency, maturity, blockTime)
		if err != nil {
			return nil, err
		}
		if !liquidation.GreaterThan(riskAdjusted) {
			return nil, DegenerateLiquidationMath
		}

		// Benefit per notional: the local repayment relieves the buffered
		// local debt, the lost claim was only counted at its risk-adjusted,
		// haircut value.
		benefitMultiplier := liquidation.
			Mul(s.LocalRate.Buffer).
			Div(liquidationDiscount).
			Sub(riskAdjusted.Mul(s.CollateralRate.Haircut))
		if !benefitMultiplier.IsPositive() {
			return nil, DegenerateLiquidationMath
		}

		notionalToTransfer := c.BenefitRemaining.Div(benefitMultiplier)
		notionalToTransfer = MaxLiquidationAmount(notionalToTransfer, notional, maxNotional[i])

		// The liquidator cannot free more collateral value than remains.
		riskAdjustedRemoved := notionalToTransfer.Mul(riskAdjusted)
		if riskAdjustedRemoved.GreaterThan(collateralRemaining) {
			scale := collateralRemaining.Div(riskAdjustedRemoved)
			notionalToTransfer = notionalToTransfer.Mul(scale)
		}

		collateralPresentValue := notionalToTransfer.Mul(liquidation)
		adjustedNotional, localAmount, err := localToPurchase(s, localAvailable, liquidationDiscount, collateralPresentValue, notionalToTransfer)
		if err != nil {
			return nil, err
		}
		notionalToTransfer = adjustedNotional

		if !notionalToTransfer.IsPositive() {
			continue
		}

		if err := portfolio.TransferFCash(s.CollateralCurrency, maturity, notionalToTransfer); err != nil {
			return nil, err
		}

		c.Transfers[i] = notionalToTransfer
		c.LocalToPurchase = c.LocalToPurchase.Add(localAmount)
		c.BenefitRemaining = c.BenefitRemaining.Sub(notionalToTransfer.Mul(benefitMultiplier))

		localAvailable = localAvailable.Add(localAmount)
		collateralRemaining = collateralRemaining.Sub(notionalToTransfer.Mul(riskAdjusted))
	}

	localBalance.AddCashChange(c.LocalToPurchase)

	return &LiquidateResult{
		Type:               LiquidationTypeCrossCurrencyFCash,
		LocalCurrency:      s.LocalCurrency,
		CollateralCurrency: s.CollateralCurrency,

		NetLocalFromLiquidator: c.LocalToPurchase,
		FCashTransfers:         c.Transfers,

		PreLocalAvailable:       s.LocalAvailable,
		PostLocalAvailable:      localAvailable,
		PreCollateralAvailable:  s.CollateralAvailable,
		PostCollateralAvailable: collateralRemaining,
	}, nil
}
