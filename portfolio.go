package core

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type (
	PortfolioStore interface {
		GetPortfolio(ctx context.Context, accountId uuid.UUID) (*PortfolioState, error)
		SavePortfolio(ctx context.Context, portfolio *PortfolioState) error
	}

	// AssetRecord is one position held by the account: either a fixed-term
	// claim or a liquidity claim on a pooled market.
	AssetRecord struct {
		CurrencyId uint16          `json:"currencyId"`
		Maturity   int64           `json:"maturity"`
		AssetType  AssetType       `json:"assetType"`
		Notional   decimal.Decimal `json:"notional"`

		Storage AssetStorageState `json:"-"`
	}

	// PortfolioState is mutated in place during a liquidation. Records are
	// marked rather than removed so indexes stay stable mid-iteration; the
	// caller compacts and persists afterward.
	PortfolioState struct {
		AccountId uuid.UUID      `json:"accountId"`
		Assets    []*AssetRecord `json:"assets"`
	}
)

type AssetType uint8

const (
	AssetTypeFCash AssetType = iota + 1
	AssetTypeLiquidityClaim
)

func (t AssetType) String() string {
	switch t {
	case AssetTypeFCash:
		return "fCash"
	case AssetTypeLiquidityClaim:
		return "LiquidityClaim"
	default:
		return "Unknown"
	}
}

type AssetStorageState uint8

const (
	AssetStorageUnchanged AssetStorageState = iota
	AssetStorageUpdated
	AssetStorageDeleted
)

func FindPortfolio(ctx context.Context, store PortfolioStore, accountId uuid.UUID) (*PortfolioState, error) {
	portfolio, err := store.GetPortfolio(ctx, accountId)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, PortfolioNotFound
		}
		return nil, err
	}
	return portfolio, nil
}

func NewPortfolioState(accountId uuid.UUID, assets []*AssetRecord) *PortfolioState {
	return &PortfolioState{
		AccountId: accountId,
		Assets:    assets,
	}
}

// LiveNotional returns the account's current fCash notional at a maturity.
// Zero means not present or already liquidated; callers treat that as a
// benign skip.
func (p *PortfolioState) LiveNotional(currencyId uint16, maturity int64) decimal.Decimal {
	for _, a := range p.Assets {
		if a.Storage == AssetStorageDeleted {
			continue
		}
		if a.AssetType == AssetTypeFCash && a.CurrencyId == currencyId && a.Maturity == maturity {
			return a.Notional
		}
	}
	return decimal.Zero
}

func (p *PortfolioState) HasLiquidityClaims(currencyId uint16) bool {
	for _, a := range p.Assets {
		if a.Storage == AssetStorageDeleted {
			continue
		}
		if a.AssetType == AssetTypeLiquidityClaim && a.CurrencyId == currencyId && a.Notional.IsPositive() {
			return true
		}
	}
	return false
}

// AddFCash credits recovered fCash notional to the account, merging into a
// live record at the same maturity when one exists.
func (p *PortfolioState) AddFCash(currencyId uint16, maturity int64, notional decimal.Decimal) {
	if notional.IsZero() {
		return
	}
	for _, a := range p.Assets {
		if a.Storage == AssetStorageDeleted {
			continue
		}
		if a.AssetType == AssetTypeFCash && a.CurrencyId == currencyId && a.Maturity == maturity {
			a.Notional = a.Notional.Add(notional)
			a.Storage = AssetStorageUpdated
			return
		}
	}
	p.Assets = append(p.Assets, &AssetRecord{
		CurrencyId: currencyId,
		Maturity:   maturity,
		AssetType:  AssetTypeFCash,
		Notional:   notional,
		Storage:    AssetStorageUpdated,
	})
}

// TransferFCash debits notional from the account's live record at a
// maturity, marking the record deleted when fully consumed.
func (p *PortfolioState) TransferFCash(currencyId uint16, maturity int64, notional decimal.Decimal) error {
	for _, a := range p.Assets {
		if a.Storage == AssetStorageDeleted {
			continue
		}
		if a.AssetType != AssetTypeFCash || a.CurrencyId != currencyId || a.Maturity != maturity {
			continue
		}
		if notional.GreaterThan(a.Notional) {
			return InsufficientFCashNotional
		}
		a.Notional = a.Notional.Sub(notional)
		if a.Notional.IsZero() {
			a.Storage = AssetStorageDeleted
		} else {
			a.Storage = AssetStorageUpdated
		}
		return nil
	}
	return InsufficientFCashNotional
}

// Compact drops deleted records once iteration is over.
func (p *PortfolioState) Compact() {
	live := p.Assets[:0]
	for _, a := range p.Assets {
		if a.Storage != AssetStorageDeleted {
			live = append(live, a)
		}
	}
	p.Assets = live
}
