package core

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

type (
	// RiskAssessor builds the risk snapshot from persisted positions. It must
	// settle any pending maturity events for the account before snapshotting,
	// and the snapshot must be captured atomically relative to the ledger.
	RiskAssessor interface {
		GetRiskSnapshot(ctx context.Context, accountId uuid.UUID, localCurrency, collateralCurrency uint16) (*RiskSnapshot, error)
	}

	// DiscountFactorProvider prices a fixed-term claim at a maturity. The
	// liquidation factor is configured strictly above the risk-adjusted one;
	// a violation observed here is a precondition failure, not a case to
	// handle.
	DiscountFactorProvider interface {
		GetDiscountFactors(currency uint16, maturity, blockTime int64) (riskAdjusted, liquidation decimal.Decimal, err error)
	}

	// RiskSnapshot is the immutable-for-the-call view of an insolvent
	// account. Built once by the risk assessor, read-only inside the
	// strategies, discarded after the call.
	RiskSnapshot struct {
		AccountId uuid.UUID `json:"accountId"`

		// Net risk-adjusted value in the common unit. Negative when the
		// account is eligible for liquidation.
		NetRiskAdjustedValue decimal.Decimal `json:"netRiskAdjustedValue"`

		// Available buffers, denominated in their own currency.
		LocalAvailable      decimal.Decimal `json:"localAvailable"`
		CollateralAvailable decimal.Decimal `json:"collateralAvailable"`

		// Risk-adjusted (valuation-haircut) value of the account's pooled
		// token holding in the currency being liquidated, plus the haircut
		// pair that produced it.
		PooledTokenValue              decimal.Decimal `json:"pooledTokenValue"`
		PooledTokenHaircut            decimal.Decimal `json:"pooledTokenHaircut"`
		PooledTokenLiquidationHaircut decimal.Decimal `json:"pooledTokenLiquidationHaircut"`

		// Haircut applied to liquidity-claim cash withdrawals, resolved from
		// the claim's currency at snapshot-build time.
		LiquidityClaimHaircut decimal.Decimal `json:"liquidityClaimHaircut"`

		LocalCurrency      uint16 `json:"localCurrency"`
		CollateralCurrency uint16 `json:"collateralCurrency"`

		LocalRate      *ExchangeRateInfo `json:"localRate"`
		CollateralRate *ExchangeRateInfo `json:"collateralRate"`
	}
)

func (s *RiskSnapshot) validateLocal() error {
	if s.LocalRate == nil {
		return InvalidLiquidationState
	}
	if !s.LocalRate.Rate.IsPositive() || !s.LocalRate.Buffer.IsPositive() {
		return InvalidLiquidationState
	}
	return nil
}

func (s *RiskSnapshot) validateCrossCurrency() error {
	if err := s.validateLocal(); err != nil {
		return err
	}
	if s.CollateralRate == nil {
		return InvalidLiquidationState
	}
	if !s.CollateralRate.Rate.IsPositive() {
		return InvalidLiquidationState
	}
	// A zero positive-balance haircut is a configuration error, never a
	// silent division default.
	if s.CollateralRate.Haircut.IsZero() {
		return InvalidLiquidationState
	}
	return nil
}

// localExchangeRate returns the local-currency price of one collateral unit.
func (s *RiskSnapshot) localExchangeRate() decimal.Decimal {
	return s.CollateralRate.Rate.Div(s.LocalRate.Rate)
}
