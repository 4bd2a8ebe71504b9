package types_test

import (
	"testing"

	"cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/lpool/x/liquidity/types"
)

func TestValidatePair(t *testing.T) {
	tests := []struct {
		name   string
		tokenA string
		tokenB string
		err    error
	}{
		{"canonical", "uatom", "uusdc", nil},
		{"reversed", "uusdc", "uatom", types.ErrInvalidAssetOrdering},
		{"equal", "uatom", "uatom", types.ErrInvalidAssetOrdering},
		{"invalid denom", "1atom", "uusdc", types.ErrInvalidDenom},
		{"empty denom", "uatom", "", types.ErrInvalidDenom},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := types.ValidatePair(tc.tokenA, tc.tokenB)
			if tc.err == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tc.err)
		})
	}
}

func TestValidateFeeRate(t *testing.T) {
	require.NoError(t, types.ValidateFeeRate(1))
	require.NoError(t, types.ValidateFeeRate(30))
	require.NoError(t, types.ValidateFeeRate(types.FeeDenominator-1))
	require.ErrorIs(t, types.ValidateFeeRate(0), types.ErrInvalidFeeRate)
	require.ErrorIs(t, types.ValidateFeeRate(types.FeeDenominator), types.ErrInvalidFeeRate)
}

func TestFeePerShareScale(t *testing.T) {
	require.True(t, types.FeePerShareScale().Equal(math.NewInt(1_000_000_000)))
}

func TestPoolValidate(t *testing.T) {
	valid := types.NewPool(1, "uatom", "uusdc", 30)
	require.NoError(t, valid.Validate())

	funded := valid
	funded.ReserveA = math.NewInt(1000)
	funded.ReserveB = math.NewInt(2000)
	funded.TotalShares = math.NewInt(1414)
	require.NoError(t, funded.Validate())

	orphanShares := valid
	orphanShares.TotalShares = math.NewInt(10)
	require.Error(t, orphanShares.Validate())

	orphanReserves := valid
	orphanReserves.ReserveA = math.NewInt(10)
	require.Error(t, orphanReserves.Validate())

	negative := funded
	negative.UnclaimedFeeA = math.NewInt(-1)
	require.Error(t, negative.Validate())

	zeroID := valid
	zeroID.Id = 0
	require.Error(t, zeroID.Validate())
}

func TestPoolReservesAndDenoms(t *testing.T) {
	pool := types.NewPool(1, "uatom", "uusdc", 30)
	pool.ReserveA = math.NewInt(10)
	pool.ReserveB = math.NewInt(20)

	sell, buy := pool.Reserves(true)
	require.Equal(t, math.NewInt(20), sell)
	require.Equal(t, math.NewInt(10), buy)

	sellDenom, buyDenom := pool.Denoms(true)
	require.Equal(t, "uusdc", sellDenom)
	require.Equal(t, "uatom", buyDenom)

	sell, buy = pool.Reserves(false)
	require.Equal(t, math.NewInt(10), sell)
	require.Equal(t, math.NewInt(20), buy)
}
