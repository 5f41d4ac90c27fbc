package core

import (
	"context"
	"strconv"

	"github.com/TermLend/core/utils"
	"github.com/facebookgo/clock"
	"github.com/gofrs/uuid"
)

type (
	AccountStore interface {
		GetAccountById(ctx context.Context, accountId uuid.UUID) (*Account, error)
		GetAccountByOwner(ctx context.Context, owner string, index uint8) (*Account, error)
		ListAccountsByOwner(ctx context.Context, owner string) ([]*Account, error)
		CreateAccount(ctx context.Context, account *Account) error
		UpsertAccount(ctx context.Context, account *Account) error
	}

	Account struct {
		Id           uuid.UUID    `json:"id"`
		Owner        string       `json:"owner"`
		AccountFlags AccountFlags `json:"accountFlags"`
		Index        uint8        `json:"index"`

		CreatedAt int64 `json:"createdAt"`
		UpdatedAt int64 `json:"updatedAt"`
	}
)

type AccountFlags uint8

const (
	AccountDisabledFlag AccountFlags = 1 << 0

	// Set for the duration of one liquidation attempt. Concurrent attempts
	// against the same account must be serialized by the caller; the flag
	// makes a violation fail fast instead of corrupting working state.
	AccountInLiquidationFlag AccountFlags = 1 << 1
)

func (a *Account) SetFlag(flag AccountFlags) {
	a.AccountFlags |= flag
}

func (a *Account) UnsetFlag(flag AccountFlags) {
	a.AccountFlags &= ^flag
}

func (a *Account) GetFlag(flag AccountFlags) bool {
	return a.AccountFlags&flag != 0
}

func NewAccount(clk clock.Clock, owner string, index uint8) *Account {
	return &Account{
		Id:        uuid.Must(uuid.FromString(utils.GenUuidFromStrings(owner, strconv.Itoa(int(index))))),
		Owner:     owner,
		Index:     index,
		CreatedAt: clk.Now().Unix(),
		UpdatedAt: clk.Now().Unix(),
	}
}
