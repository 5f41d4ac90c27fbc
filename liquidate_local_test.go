package core

import (
	"testing"

	"github.com/facebookgo/clock"
	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func localTestSnapshot() *RiskSnapshot {
	return &RiskSnapshot{
		AccountId:            uuid.Must(uuid.NewV4()),
		NetRiskAdjustedValue: decimal.NewFromInt(-2),
		LocalAvailable:       decimal.NewFromInt(10),
		LocalCurrency:        1,
		LocalRate:            testRate(1, 1, 0.8, 1.05),

		// 100 tokens at full value 1, valuation haircut 0.9.
		PooledTokenValue:              decimal.NewFromInt(90),
		PooledTokenHaircut:            decimal.NewFromFloat(0.9),
		PooledTokenLiquidationHaircut: decimal.NewFromFloat(0.95),
		LiquidityClaimHaircut:         decimal.NewFromFloat(0.9),
	}
}

func localTestBalance(s *RiskSnapshot) *WorkingBalance {
	b := NewWorkingBalance(clock.NewMock(), s.AccountId, s.LocalCurrency)
	b.StoredPooledTokenBalance = decimal.NewFromInt(100)
	return b
}

func TestLiquidateLocalCurrency_PooledTokensOnly(t *testing.T) {
	s := localTestSnapshot()
	balance := localTestBalance(s)
	portfolio := NewPortfolioState(s.AccountId, nil)

	result, err := LiquidateLocalCurrency(NopLog(), s, balance, portfolio, &mockPool{}, decimal.Zero)
	require.NoError(t, err)

	// benefitRequired = 2, haircut gap 0.05, token value 1 -> 40 tokens,
	// exactly the 40% portion floor.
	assert.True(t, result.PooledTokensToLiquidator.Equal(decimal.NewFromInt(40)), "got %s", result.PooledTokensToLiquidator)
	assert.True(t, balance.NetPooledTokenTransfer.Equal(decimal.NewFromInt(-40)), "got %s", balance.NetPooledTokenTransfer)

	// The liquidator pays the liquidation-haircut value: 40 * 0.95 = 38.
	expectedCash := decimal.NewFromInt(38)
	assert.True(t, result.NetLocalFromLiquidator.Equal(expectedCash), "got %s", result.NetLocalFromLiquidator)
	assert.True(t, balance.NetCashChange.Equal(expectedCash), "got %s", balance.NetCashChange)

	assert.True(t, result.PostLocalAvailable.GreaterThanOrEqual(result.PreLocalAvailable))
}

func TestLiquidateLocalCurrency_CallerCapOnTokens(t *testing.T) {
	s := localTestSnapshot()
	balance := localTestBalance(s)
	portfolio := NewPortfolioState(s.AccountId, nil)

	result, err := LiquidateLocalCurrency(NopLog(), s, balance, portfolio, &mockPool{}, decimal.NewFromInt(20))
	require.NoError(t, err)

	// The caller ceiling beats the 40% entitlement.
	assert.True(t, result.PooledTokensToLiquidator.Equal(decimal.NewFromInt(20)), "got %s", result.PooledTokensToLiquidator)
}

func TestLiquidateLocalCurrency_HarvestsLiquidityClaimsFirst(t *testing.T) {
	s := localTestSnapshot()
	s.PooledTokenValue = decimal.Zero
	balance := localTestBalance(s)
	balance.StoredPooledTokenBalance = decimal.Zero

	portfolio := NewPortfolioState(s.AccountId, []*AssetRecord{
		{CurrencyId: 1, Maturity: 1000, AssetType: AssetTypeLiquidityClaim, Notional: decimal.NewFromInt(10)},
	})
	pool := &mockPool{cashPerUnit: decimal.NewFromInt(10), fCashPerUnit: decimal.NewFromInt(5)}

	result, err := LiquidateLocalCurrency(NopLog(), s, balance, portfolio, pool, decimal.Zero)
	require.NoError(t, err)

	// benefitRequired 2 is covered by the claim withdrawal; only a fraction
	// of the record is consumed and the incentive is owed to the liquidator.
	assert.True(t, result.NetLocalFromLiquidator.IsNegative(), "got %s", result.NetLocalFromLiquidator)
	assert.True(t, result.PooledTokensToLiquidator.IsZero())
	assert.Equal(t, AssetStorageUpdated, portfolio.Assets[0].Storage)
	assert.True(t, balance.NetCashChange.IsPositive())
	assert.True(t, result.PostLocalAvailable.Equal(result.PreLocalAvailable.Add(decimal.NewFromInt(2))))
}

func TestLiquidateLocalCurrency_HealthyAccountRejected(t *testing.T) {
	s := localTestSnapshot()
	s.NetRiskAdjustedValue = decimal.NewFromInt(5)
	balance := localTestBalance(s)

	_, err := LiquidateLocalCurrency(NopLog(), s, balance, NewPortfolioState(s.AccountId, nil), &mockPool{}, decimal.Zero)
	assert.ErrorIs(t, err, ErrAccountNotUnhealthy)
}

func TestLiquidateLocalCurrency_NoHaircutGap(t *testing.T) {
	s := localTestSnapshot()
	s.PooledTokenLiquidationHaircut = s.PooledTokenHaircut
	balance := localTestBalance(s)

	_, err := LiquidateLocalCurrency(NopLog(), s, balance, NewPortfolioState(s.AccountId, nil), &mockPool{}, decimal.Zero)
	assert.ErrorIs(t, err, DegenerateLiquidationMath)
}
