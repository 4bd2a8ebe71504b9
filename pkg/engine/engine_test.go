package engine_test

import (
	"context"
	"testing"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/paw-chain/lpool/pkg/engine"
	"github.com/paw-chain/lpool/x/liquidity/types"
)

func addr(seed byte) sdk.AccAddress {
	bz := make([]byte, 20)
	for i := range bz {
		bz[i] = seed
	}
	return sdk.AccAddress(bz)
}

func newEngine(t *testing.T, dataDir string) *engine.Engine {
	t.Helper()
	eng, err := engine.New(engine.Config{DataDir: dataDir})
	require.NoError(t, err)
	return eng
}

// seedPool creates a 30bp uatom/uusdc pool funded by provider.
func seedPool(t *testing.T, eng *engine.Engine, provider sdk.AccAddress, amountA, amountB int64) uint64 {
	t.Helper()
	resp, err := eng.InitializePool(&types.MsgInitializePool{
		Authority: eng.Authority(),
		TokenA:    "uatom",
		TokenB:    "uusdc",
		FeeRate:   30,
	})
	require.NoError(t, err)

	require.NoError(t, eng.Fund(provider, sdk.NewCoins(
		sdk.NewInt64Coin("uatom", amountA),
		sdk.NewInt64Coin("uusdc", amountB),
	)))
	_, err = eng.AddLiquidity(types.NewMsgAddLiquidity(provider.String(), resp.PoolId,
		math.NewInt(amountA), math.ZeroInt(), math.NewInt(amountB), math.ZeroInt()))
	require.NoError(t, err)
	return resp.PoolId
}

func TestEngineLifecycle(t *testing.T) {
	eng := newEngine(t, "")
	defer eng.Close()

	provider, trader := addr(1), addr(2)
	poolID := seedPool(t, eng, provider, 10000, 20000)

	require.NoError(t, eng.Fund(trader, sdk.NewCoins(sdk.NewInt64Coin("uatom", 1000))))
	resp, err := eng.Swap(types.NewMsgSwap(trader.String(), poolID, false, math.NewInt(1813), math.NewInt(1000)))
	require.NoError(t, err)
	require.Equal(t, int64(1000), resp.Result.AmountIn.Int64())
	require.Equal(t, int64(1813), eng.Balance(trader, "uusdc").Amount.Int64())
	require.True(t, eng.Balance(trader, "uatom").IsZero())

	reserves, err := eng.Queries().Reserves(context.Background(), &types.QueryReservesRequest{PoolId: poolID})
	require.NoError(t, err)
	require.Equal(t, int64(10997), reserves.ReserveA.Int64())
	require.Equal(t, int64(18187), reserves.ReserveB.Int64())

	out, fee, err := eng.QuoteSwapOutput(poolID, true, math.NewInt(1000))
	require.NoError(t, err)
	require.True(t, out.IsPositive())
	require.Equal(t, int64(3), fee.Int64())

	require.NoError(t, eng.CheckInvariants())

	gs, err := eng.ExportGenesis()
	require.NoError(t, err)
	require.Len(t, gs.Pools, 1)
	require.Len(t, gs.Positions, 1)
}

func TestEngineFailedOperationDoesNotCommit(t *testing.T) {
	eng := newEngine(t, "")
	defer eng.Close()

	height := eng.Height()
	_, err := eng.InitializePool(&types.MsgInitializePool{
		Authority: addr(9).String(),
		TokenA:    "uatom",
		TokenB:    "uusdc",
		FeeRate:   30,
	})
	require.ErrorIs(t, err, types.ErrUnauthorized)
	require.Equal(t, height, eng.Height())

	poolID := seedPool(t, eng, addr(1), 1000, 2000)
	height = eng.Height()

	_, err = eng.Swap(types.NewMsgSwap(addr(3).String(), poolID, true, math.NewInt(10), math.NewInt(100)))
	require.ErrorIs(t, err, types.ErrInsufficientBalance)
	require.Equal(t, height, eng.Height())
	require.NoError(t, eng.CheckInvariants())
}

func TestEngineConcurrentOperations(t *testing.T) {
	eng := newEngine(t, "")
	defer eng.Close()

	provider := addr(1)
	poolID := seedPool(t, eng, provider, 1_000_000, 2_000_000)

	traders := make([]sdk.AccAddress, 8)
	for i := range traders {
		traders[i] = addr(byte(10 + i))
		require.NoError(t, eng.Fund(traders[i], sdk.NewCoins(
			sdk.NewInt64Coin("uatom", 1_000_000),
			sdk.NewInt64Coin("uusdc", 1_000_000),
		)))
	}

	var g errgroup.Group
	for i, trader := range traders {
		buyA := i%2 == 0
		g.Go(func() error {
			for j := 0; j < 10; j++ {
				if _, err := eng.Swap(types.NewMsgSwap(trader.String(), poolID, buyA, math.NewInt(10_000), math.NewInt(200_000))); err != nil {
					return err
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		for j := 0; j < 5; j++ {
			if _, err := eng.ClaimFees(&types.MsgClaimFees{Provider: provider.String(), PoolId: poolID}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, g.Wait())
	require.NoError(t, eng.CheckInvariants())

	for i, trader := range traders {
		if i%2 == 0 {
			require.Equal(t, int64(1_100_000), eng.Balance(trader, "uatom").Amount.Int64())
		} else {
			require.Equal(t, int64(1_100_000), eng.Balance(trader, "uusdc").Amount.Int64())
		}
	}

	fees, err := eng.Queries().CollectedFees(context.Background(), &types.QueryCollectedFeesRequest{PoolId: poolID})
	require.NoError(t, err)
	require.True(t, fees.FeeA.IsPositive())
	require.True(t, fees.FeeB.IsPositive())
}

func TestEnginePersistsState(t *testing.T) {
	dir := t.TempDir()

	eng := newEngine(t, dir)
	poolID := seedPool(t, eng, addr(1), 1000, 2000)
	height := eng.Height()
	require.NoError(t, eng.Close())

	reopened := newEngine(t, dir)
	defer reopened.Close()
	require.Equal(t, height, reopened.Height())

	pool, err := reopened.Queries().Pool(context.Background(), &types.QueryPoolRequest{PoolId: poolID})
	require.NoError(t, err)
	require.Equal(t, int64(1414), pool.Pool.TotalShares.Int64())

	pos, err := reopened.Queries().Position(context.Background(), &types.QueryPositionRequest{
		PoolId:   poolID,
		Provider: addr(1).String(),
	})
	require.NoError(t, err)
	require.NotNil(t, pos.Position)
	require.NoError(t, reopened.CheckInvariants())
}

func TestEngineRejectsBadAuthority(t *testing.T) {
	_, err := engine.New(engine.Config{Authority: "not-an-address"})
	require.Error(t, err)
}

func TestEngineRemoveAllLiquidity(t *testing.T) {
	eng := newEngine(t, "")
	defer eng.Close()

	provider := addr(1)
	poolID := seedPool(t, eng, provider, 10000, 20000)
	require.NoError(t, eng.Fund(provider, sdk.NewCoins(
		sdk.NewInt64Coin("uatom", 8000),
		sdk.NewInt64Coin("uusdc", 16000),
	)))

	height := eng.Height()
	_, err := eng.RemoveAllLiquidity(types.NewMsgRemoveLiquidity(addr(2).String(), poolID, math.ZeroInt(), math.ZeroInt(), math.ZeroInt()))
	require.ErrorIs(t, err, types.ErrNoPositionFound)
	require.Equal(t, height, eng.Height())

	// deposits racing a full withdrawal never leave shares behind the burn
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			_, err := eng.AddLiquidity(types.NewMsgAddLiquidity(provider.String(), poolID,
				math.NewInt(1000), math.ZeroInt(), math.NewInt(2000), math.ZeroInt()))
			return err
		})
	}
	g.Go(func() error {
		_, err := eng.RemoveAllLiquidity(types.NewMsgRemoveLiquidity(provider.String(), poolID, math.ZeroInt(), math.ZeroInt(), math.ZeroInt()))
		return err
	})
	require.NoError(t, g.Wait())
	require.NoError(t, eng.CheckInvariants())

	_, err = eng.RemoveAllLiquidity(types.NewMsgRemoveLiquidity(provider.String(), poolID, math.ZeroInt(), math.ZeroInt(), math.ZeroInt()))
	if err != nil {
		require.ErrorIs(t, err, types.ErrNoPositionFound)
	}

	pos, err := eng.Queries().Position(context.Background(), &types.QueryPositionRequest{PoolId: poolID, Provider: provider.String()})
	require.NoError(t, err)
	require.Nil(t, pos.Position)

	reserves, err := eng.Queries().Reserves(context.Background(), &types.QueryReservesRequest{PoolId: poolID})
	require.NoError(t, err)
	require.True(t, reserves.ReserveA.IsZero())
	require.True(t, reserves.ReserveB.IsZero())
	require.Equal(t, int64(18000), eng.Balance(provider, "uatom").Amount.Int64())
	require.Equal(t, int64(36000), eng.Balance(provider, "uusdc").Amount.Int64())
	require.NoError(t, eng.CheckInvariants())
}
