package core

import (
	"context"

	"github.com/facebookgo/clock"
	"github.com/shopspring/decimal"
)

type LiquidationType uint8

const (
	LiquidationTypeLocalCurrency LiquidationType = iota + 1
	LiquidationTypeCollateralCurrency
	LiquidationTypeLocalFCash
	LiquidationTypeCrossCurrencyFCash
)

func (t LiquidationType) String() string {
	switch t {
	case LiquidationTypeLocalCurrency:
		return "LocalCurrency"
	case LiquidationTypeCollateralCurrency:
		return "CollateralCurrency"
	case LiquidationTypeLocalFCash:
		return "LocalFCash"
	case LiquidationTypeCrossCurrencyFCash:
		return "CrossCurrencyFCash"
	default:
		return "Unknown"
	}
}

type (
	LiquidationStore interface {
		StorageLiquidationResult(ctx context.Context, result *LiquidateResult) error
	}

	LedgerService struct {
		AccountStore
		BalanceStore
		PortfolioStore
		CurrencyStore
		LiquidationStore
	}

	// LiquidationRequest selects a strategy and carries only the caps that
	// strategy understands. Zero caps mean "no caller limit".
	LiquidationRequest struct {
		Type LiquidationType `json:"type"`

		MaxPooledTokenLiquidation decimal.Decimal `json:"maxPooledTokenLiquidation"`
		MaxCollateralLiquidation  decimal.Decimal `json:"maxCollateralLiquidation"`

		Maturities  []int64           `json:"maturities"`
		MaxNotional []decimal.Decimal `json:"maxNotional"`
	}

	// LiquidateResult is what the caller persists: the transfers owed in
	// each asset class and the buffers before and after. A positive
	// NetLocalFromLiquidator is owed by the liquidator, a negative one to
	// the liquidator.
	LiquidateResult struct {
		Type LiquidationType `json:"type"`

		LocalCurrency      uint16 `json:"localCurrency"`
		CollateralCurrency uint16 `json:"collateralCurrency,omitempty"`

		NetLocalFromLiquidator     decimal.Decimal   `json:"netLocalFromLiquidator"`
		CollateralCashToLiquidator decimal.Decimal   `json:"collateralCashToLiquidator"`
		PooledTokensToLiquidator   decimal.Decimal   `json:"pooledTokensToLiquidator"`
		FCashTransfers             []decimal.Decimal `json:"fCashTransfers,omitempty"`

		PreLocalAvailable       decimal.Decimal `json:"preLocalAvailable"`
		PostLocalAvailable      decimal.Decimal `json:"postLocalAvailable"`
		PreCollateralAvailable  decimal.Decimal `json:"preCollateralAvailable"`
		PostCollateralAvailable decimal.Decimal `json:"postCollateralAvailable"`

		CreatedAt int64 `json:"createdAt"`
	}
)

func (r *LiquidationRequest) Validate() error {
	switch r.Type {
	case LiquidationTypeLocalCurrency:
		if r.MaxPooledTokenLiquidation.IsNegative() {
			return InvalidLiquidationParameters
		}
	case LiquidationTypeCollateralCurrency:
		if r.MaxPooledTokenLiquidation.IsNegative() || r.MaxCollateralLiquidation.IsNegative() {
			return InvalidLiquidationParameters
		}
	case LiquidationTypeLocalFCash, LiquidationTypeCrossCurrencyFCash:
		return validateFCashParameters(r.Maturities, r.MaxNotional)
	default:
		return InvalidLiquidationParameters
	}
	return nil
}

// Liquidate is the single dispatch point over the four strategies. All
// mutation stays in the working balance and portfolio the caller handed in;
// nothing is persisted here, and on error nothing useful was mutated.
func Liquidate(log Log, clk clock.Clock, account *Account, s *RiskSnapshot, balance *WorkingBalance, portfolio *PortfolioState, factors DiscountFactorProvider, pool LiquidityPool, req *LiquidationRequest) (*LiquidateResult, error) {
	if account.GetFlag(AccountDisabledFlag) {
		return nil, AccountDisabled
	}
	if account.GetFlag(AccountInLiquidationFlag) {
		return nil, AccountInLiquidation
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	blockTime := clk.Now().Unix()

	var (
		result *LiquidateResult
		err    error
	)
	switch req.Type {
	case LiquidationTypeLocalCurrency:
		result, err = LiquidateLocalCurrency(log, s, balance, portfolio, pool, req.MaxPooledTokenLiquidation)
	case LiquidationTypeCollateralCurrency:
		result, err = LiquidateCollateralCurrency(log, s, balance, portfolio, pool, req.MaxCollateralLiquidation, req.MaxPooledTokenLiquidation)
	case LiquidationTypeLocalFCash:
		result, err = LiquidateLocalFCash(log, s, balance, portfolio, factors, req.Maturities, req.MaxNotional, blockTime)
	case LiquidationTypeCrossCurrencyFCash:
		result, err = LiquidateCrossCurrencyFCash(log, s, balance, portfolio, factors, req.Maturities, req.MaxNotional, blockTime)
	default:
		return nil, InvalidLiquidationParameters
	}
	if err != nil {
		return nil, err
	}

	// Liquidation may only ever move the liquidated side toward solvency.
	if result.PostLocalAvailable.LessThan(result.PreLocalAvailable) {
		return nil, IllegalLiquidation
	}

	result.CreatedAt = blockTime

	log.Info().Msgf("liquidation %s: local owed %s, collateral cash %s, pooled tokens %s",
		result.Type, result.NetLocalFromLiquidator,
		result.CollateralCashToLiquidator, result.PooledTokensToLiquidator)

	return result, nil
}
