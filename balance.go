package core

import (
	"context"

	"github.com/facebookgo/clock"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type (
	BalanceStore interface {
		FindBalance(ctx context.Context, accountId uuid.UUID, currencyId uint16) (*WorkingBalance, error)
		UpsertBalance(ctx context.Context, balance *WorkingBalance) error
		ListBalances(ctx context.Context, accountId uuid.UUID) ([]*WorkingBalance, error)
	}

	// WorkingBalance accumulates one currency's deltas for the account being
	// liquidated. Stored fields reflect the persisted ledger at call start;
	// net fields are local to the call until the caller persists them.
	WorkingBalance struct {
		AccountId  uuid.UUID `json:"accountId"`
		CurrencyId uint16    `json:"currencyId"`

		StoredCashBalance decimal.Decimal `json:"storedCashBalance"`
		NetCashChange     decimal.Decimal `json:"netCashChange"`

		StoredPooledTokenBalance decimal.Decimal `json:"storedPooledTokenBalance"`
		// Negative = removed from the account.
		NetPooledTokenTransfer decimal.Decimal `json:"netPooledTokenTransfer"`

		LastUpdate int64 `json:"lastUpdate"`
	}
)

func NewWorkingBalance(clk clock.Clock, accountId uuid.UUID, currencyId uint16) *WorkingBalance {
	return &WorkingBalance{
		AccountId:  accountId,
		CurrencyId: currencyId,

		StoredCashBalance:        decimal.Zero,
		NetCashChange:            decimal.Zero,
		StoredPooledTokenBalance: decimal.Zero,
		NetPooledTokenTransfer:   decimal.Zero,
		LastUpdate:               clk.Now().Unix(),
	}
}

func FindWorkingBalance(ctx context.Context, ledger LedgerService, accountId uuid.UUID, currencyId uint16) (*WorkingBalance, error) {
	balance, err := ledger.FindBalance(ctx, accountId, currencyId)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, LendingAccountBalanceNotFound
		}
		return nil, err
	}
	return balance, nil
}

func FindOrCreateWorkingBalance(ctx context.Context, clk clock.Clock, ledger LedgerService, accountId uuid.UUID, currencyId uint16) (*WorkingBalance, error) {
	balance, err := FindWorkingBalance(ctx, ledger, accountId, currencyId)
	if err != nil {
		if err == LendingAccountBalanceNotFound {
			balance = NewWorkingBalance(clk, accountId, currencyId)
			if err := ledger.UpsertBalance(ctx, balance); err != nil {
				return nil, err
			}
			return balance, nil
		}
		return nil, err
	}
	return balance, nil
}

func (b *WorkingBalance) Clone() *WorkingBalance {
	return &WorkingBalance{
		AccountId:                b.AccountId,
		CurrencyId:               b.CurrencyId,
		StoredCashBalance:        b.StoredCashBalance,
		NetCashChange:            b.NetCashChange,
		StoredPooledTokenBalance: b.StoredPooledTokenBalance,
		NetPooledTokenTransfer:   b.NetPooledTokenTransfer,
		LastUpdate:               b.LastUpdate,
	}
}

func (b *WorkingBalance) AddCashChange(delta decimal.Decimal) {
	b.NetCashChange = b.NetCashChange.Add(delta)
}

// SetPooledTokenTransfer records tokens leaving the account. The transfer
// magnitude may never exceed what the account actually holds.
func (b *WorkingBalance) SetPooledTokenTransfer(transfer decimal.Decimal) error {
	if transfer.Abs().GreaterThan(b.StoredPooledTokenBalance) {
		return PooledTokenBalanceExceeded
	}
	b.NetPooledTokenTransfer = b.NetPooledTokenTransfer.Add(transfer)
	if b.NetPooledTokenTransfer.Abs().GreaterThan(b.StoredPooledTokenBalance) {
		return PooledTokenBalanceExceeded
	}
	return nil
}

// FinishLiquidation folds the call-local deltas into the stored balances.
// Called by the owner of the persistence transaction, after the strategy
// returned successfully.
func (b *WorkingBalance) FinishLiquidation(clk clock.Clock) error {
	if b.NetPooledTokenTransfer.Abs().GreaterThan(b.StoredPooledTokenBalance) {
		return PooledTokenBalanceExceeded
	}

	cash := b.StoredCashBalance.Add(b.NetCashChange)
	if cash.IsNegative() {
		// Liquidation may drain cash to zero but never create new debt.
		// Rounding dust inside the empty-balance threshold folds to zero.
		if cash.Abs().GreaterThan(EMPTY_BALANCE_THRESHOLD) {
			return IllegalBalanceState
		}
		cash = decimal.Zero
	}

	b.StoredCashBalance = cash
	b.StoredPooledTokenBalance = b.StoredPooledTokenBalance.Add(b.NetPooledTokenTransfer)
	b.NetCashChange = decimal.Zero
	b.NetPooledTokenTransfer = decimal.Zero
	b.LastUpdate = clk.Now().Unix()
	return nil
}
