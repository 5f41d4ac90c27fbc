package core

import (
	"github.com/pkg/errors"
)

var (
	// Strategy preconditions. Raised before any working state is mutated.
	InvalidLiquidationState      = errors.New("invalid liquidation state")
	InvalidLiquidationParameters = errors.New("invalid liquidation parameters")

	// A zero or inverted factor difference means an upstream configuration
	// invariant broke. Never clamped, always fatal for the call.
	DegenerateLiquidationMath = errors.New("degenerate liquidation math")

	ErrAccountNotUnhealthy = errors.New("account is not unhealthy")
	IllegalLiquidation     = errors.New("illegal liquidation")

	AccountDisabled      = errors.New("account disabled")
	AccountInLiquidation = errors.New("account already in liquidation")

	IllegalBalanceState        = errors.New("illegal balance state")
	PooledTokenBalanceExceeded = errors.New("pooled token transfer exceeds stored balance")
	InsufficientFCashNotional  = errors.New("fcash transfer exceeds held notional")

	CurrencyNotFound              = errors.New("currency not found")
	LendingAccountBalanceNotFound = errors.New("lending account balance not found")
	PortfolioNotFound             = errors.New("portfolio not found")

	ErrInvalidExchangeRate = errors.New("invalid exchange rate config")
)
