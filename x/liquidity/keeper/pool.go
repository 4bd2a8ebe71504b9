package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/lpool/x/liquidity/types"
)

// InitializePool creates the pool for a canonical token pair. Each pair moves from
// uninitialized to active exactly once.
func (k Keeper) InitializePool(ctx context.Context, tokenA, tokenB string, feeRate uint32) (uint64, error) {
	if err := types.ValidatePair(tokenA, tokenB); err != nil {
		return 0, err
	}
	if err := types.ValidateFeeRate(feeRate); err != nil {
		return 0, err
	}
	if id, found := k.GetPoolIDByTokens(ctx, tokenA, tokenB); found {
		return 0, types.ErrAlreadyInitialized.Wrapf("pool %d already trades %s/%s", id, tokenA, tokenB)
	}

	poolID := k.GetNextPoolID(ctx)
	pool := types.NewPool(poolID, tokenA, tokenB, feeRate)
	if err := k.SetPool(ctx, pool); err != nil {
		return 0, err
	}
	k.setPoolByTokens(ctx, tokenA, tokenB, poolID)
	k.SetNextPoolID(ctx, poolID+1)

	sdkCtx := sdk.UnwrapSDKContext(ctx)
	sdkCtx.EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypePoolInitialized,
			sdk.NewAttribute(types.AttributeKeyPoolID, strconv.FormatUint(poolID, 10)),
			sdk.NewAttribute(types.AttributeKeyTokenA, tokenA),
			sdk.NewAttribute(types.AttributeKeyTokenB, tokenB),
			sdk.NewAttribute(types.AttributeKeyFeeRate, strconv.FormatUint(uint64(feeRate), 10)),
		),
	)

	if k.metrics != nil {
		k.metrics.PoolsTotal.Inc()
	}
	k.Logger(ctx).Info("pool initialized", "pool_id", poolID, "token_a", tokenA, "token_b", tokenB, "fee_rate", feeRate)

	return poolID, nil
}

// GetReserves returns the current reserves of a pool.
func (k Keeper) GetReserves(ctx context.Context, poolID uint64) (reserveA, reserveB math.Int, err error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	return pool.ReserveA, pool.ReserveB, nil
}

// CollectedFees returns the lifetime fee totals of a pool.
func (k Keeper) CollectedFees(ctx context.Context, poolID uint64) (feeA, feeB math.Int, err error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	return pool.AccumulatedFeeA, pool.AccumulatedFeeB, nil
}

// atomically runs fn against a branch of ctx and writes the branch back only when fn
// succeeds. Store writes and bank transfers made by a failing fn are discarded together.
func (k Keeper) atomically(ctx context.Context, op string, fn func(cacheCtx sdk.Context) error) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	cacheCtx, writeFn := sdkCtx.CacheContext()

	if err := fn(cacheCtx); err != nil {
		k.Logger(ctx).Error("operation rolled back", "op", op, "err", err)
		return err
	}

	writeFn()
	return nil
}
