package core

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type (
	CurrencyStore interface {
		GetCurrencyById(ctx context.Context, currencyId uint16) (*Currency, error)
		ListCurrencies(ctx context.Context) ([]*Currency, error)
		UpsertCurrency(ctx context.Context, currency *Currency) error
	}

	// Currency is the decoded, governance-set risk configuration for one
	// currency. The enclosing system decodes its packed storage encoding
	// before anything in this package runs; all percentages arrive here as
	// decimal multipliers (haircut in (0, 1], buffer >= 1, discount >= 1).
	Currency struct {
		Id       uint16 `json:"id"`
		Symbol   string `json:"symbol"`
		Decimals int32  `json:"decimals"`

		ExchangeRate ExchangeRateInfo `json:"exchangeRate"`

		// Valuation haircut and liquidation haircut on the pooled token.
		// The liquidation haircut is the larger of the two; the gap between
		// them is the benefit a local-currency liquidation can harvest.
		PooledTokenHaircut            decimal.Decimal `json:"pooledTokenHaircut"`
		PooledTokenLiquidationHaircut decimal.Decimal `json:"pooledTokenLiquidationHaircut"`

		// Haircut applied to the cash claim of a liquidity token withdrawal.
		LiquidityClaimHaircut decimal.Decimal `json:"liquidityClaimHaircut"`

		CreatedAt  int64 `json:"createdAt"`
		LastUpdate int64 `json:"lastUpdate"`
	}

	// ExchangeRateInfo carries a currency's rate to the common unit plus its
	// regulatory risk parameters.
	ExchangeRateInfo struct {
		Decimals int32 `json:"decimals"`

		// Value of one unit of the currency in the common unit.
		Rate decimal.Decimal `json:"rate"`

		// Penalty multiplier on negative balances, >= 1.
		Buffer decimal.Decimal `json:"buffer"`

		// Valuation discount on positive balances, in (0, 1].
		Haircut decimal.Decimal `json:"haircut"`

		// Bonus multiplier in the liquidator's favor, >= 1. A governance
		// value of "106%" arrives here as 1.06.
		LiquidationDiscount decimal.Decimal `json:"liquidationDiscount"`
	}
)

func (e *ExchangeRateInfo) Validate() error {
	if !e.Rate.IsPositive() {
		return ErrInvalidExchangeRate
	}
	if e.Buffer.LessThan(ONE) {
		return ErrInvalidExchangeRate
	}
	if !e.Haircut.IsPositive() || e.Haircut.GreaterThan(ONE) {
		return ErrInvalidExchangeRate
	}
	if e.LiquidationDiscount.LessThan(ONE) {
		return ErrInvalidExchangeRate
	}
	return nil
}

// ConvertToCommon values a balance in the common unit, haircutting positive
// balances and buffering negative ones.
func (e *ExchangeRateInfo) ConvertToCommon(balance decimal.Decimal) decimal.Decimal {
	if balance.IsNegative() {
		return balance.Mul(e.Rate).Mul(e.Buffer)
	}
	return balance.Mul(e.Rate).Mul(e.Haircut)
}

// ConvertFromCommon converts a common-unit value into currency units without
// applying any haircut or buffer.
func (e *ExchangeRateInfo) ConvertFromCommon(value decimal.Decimal) (decimal.Decimal, error) {
	if !e.Rate.IsPositive() {
		return decimal.Zero, DegenerateLiquidationMath
	}
	return value.Div(e.Rate), nil
}

func FindCurrency(ctx context.Context, store CurrencyStore, currencyId uint16) (*Currency, error) {
	currency, err := store.GetCurrencyById(ctx, currencyId)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, CurrencyNotFound
		}
		return nil, err
	}
	return currency, nil
}

func (c *Currency) Validate() error {
	if err := c.ExchangeRate.Validate(); err != nil {
		return err
	}
	if !c.PooledTokenHaircut.IsPositive() || c.PooledTokenHaircut.GreaterThan(ONE) {
		return ErrInvalidExchangeRate
	}
	if c.PooledTokenLiquidationHaircut.LessThan(c.PooledTokenHaircut) ||
		c.PooledTokenLiquidationHaircut.GreaterThan(ONE) {
		return ErrInvalidExchangeRate
	}
	if c.LiquidityClaimHaircut.IsNegative() || c.LiquidityClaimHaircut.GreaterThan(ONE) {
		return ErrInvalidExchangeRate
	}
	return nil
}

// TruncateToPrecision rounds a transfer amount down to the currency's token
// precision. Residual dust stays with the account, never the liquidator.
func (c *Currency) TruncateToPrecision(amount decimal.Decimal) decimal.Decimal {
	return amount.Truncate(c.Decimals)
}
