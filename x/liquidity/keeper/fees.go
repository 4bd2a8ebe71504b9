package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/lpool/x/liquidity/types"
)

// accrued returns shares*feePerShare/scale, the fee a share balance has earned since the
// accumulator started.
func accrued(shares, feePerShare math.Int) (math.Int, error) {
	return mulDiv(shares, feePerShare, types.FeePerShareScale())
}

// pendingFees returns max(0, accrued - debt) for both assets.
func pendingFees(pool types.Pool, pos types.Position) (pendingA, pendingB math.Int, err error) {
	accA, err := accrued(pos.Shares, pool.FeePerShareA)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	accB, err := accrued(pos.Shares, pool.FeePerShareB)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}

	pendingA, pendingB = math.ZeroInt(), math.ZeroInt()
	if accA.GT(pos.FeeDebtA) {
		pendingA = accA.Sub(pos.FeeDebtA)
	}
	if accB.GT(pos.FeeDebtB) {
		pendingB = accB.Sub(pos.FeeDebtB)
	}
	return pendingA, pendingB, nil
}

// resetDebt prices the current accumulators into the position.
func resetDebt(pool types.Pool, pos *types.Position) error {
	debtA, err := accrued(pos.Shares, pool.FeePerShareA)
	if err != nil {
		return err
	}
	debtB, err := accrued(pos.Shares, pool.FeePerShareB)
	if err != nil {
		return err
	}
	pos.FeeDebtA, pos.FeeDebtB = debtA, debtB
	return nil
}

// settle moves a position's pending fees out of the pool's unclaimed balance and resets
// its debt. Payouts never exceed what the pool holds for providers.
func settle(pool *types.Pool, pos *types.Position) (feeA, feeB math.Int, err error) {
	pendingA, pendingB, err := pendingFees(*pool, *pos)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}

	feeA = math.MinInt(pendingA, pool.UnclaimedFeeA)
	feeB = math.MinInt(pendingB, pool.UnclaimedFeeB)
	pool.UnclaimedFeeA = pool.UnclaimedFeeA.Sub(feeA)
	pool.UnclaimedFeeB = pool.UnclaimedFeeB.Sub(feeB)

	if err := resetDebt(*pool, pos); err != nil {
		return math.Int{}, math.Int{}, err
	}
	return feeA, feeB, nil
}

// distributeFee credits fee to the accumulator of one asset. With no shares outstanding
// the fee is retained in the pool's unclaimed balance and the accumulator is untouched.
func distributeFee(pool *types.Pool, fee math.Int, isA bool) error {
	if fee.IsZero() {
		return nil
	}

	accumulated, unclaimed, perShare := &pool.AccumulatedFeeB, &pool.UnclaimedFeeB, &pool.FeePerShareB
	if isA {
		accumulated, unclaimed, perShare = &pool.AccumulatedFeeA, &pool.UnclaimedFeeA, &pool.FeePerShareA
	}

	var err error
	if *accumulated, err = add(*accumulated, fee); err != nil {
		return err
	}
	if *unclaimed, err = add(*unclaimed, fee); err != nil {
		return err
	}
	if pool.TotalShares.IsZero() {
		return nil
	}

	increment, err := mulDiv(fee, types.FeePerShareScale(), pool.TotalShares)
	if err != nil {
		return err
	}
	*perShare, err = add(*perShare, increment)
	return err
}

// DistributeFee transfers fee of denom from sender to the module and credits it to the
// pool's providers pro rata.
func (k Keeper) DistributeFee(ctx context.Context, sender sdk.AccAddress, poolID uint64, denom string, fee math.Int) error {
	if fee.IsNil() || !fee.IsPositive() {
		return types.ErrInvalidAmount.Wrap("fee must be positive")
	}

	var pool types.Pool
	err := k.atomically(ctx, "DistributeFee", func(cacheCtx sdk.Context) error {
		var err error
		if pool, err = k.GetPool(cacheCtx, poolID); err != nil {
			return err
		}
		if denom != pool.TokenA && denom != pool.TokenB {
			return types.ErrInvalidDenom.Wrapf("pool %d does not trade %s", poolID, denom)
		}
		if err := distributeFee(&pool, fee, denom == pool.TokenA); err != nil {
			return err
		}
		if err := k.SetPool(cacheCtx, pool); err != nil {
			return err
		}
		return k.sendCoins(cacheCtx, sender, k.GetModuleAddress(), sdk.NewCoins(sdk.NewCoin(denom, fee)))
	})
	if err != nil {
		return err
	}

	k.emitFeesDistributed(ctx, poolID, denom, fee)
	return nil
}

func (k Keeper) emitFeesDistributed(ctx context.Context, poolID uint64, denom string, fee math.Int) {
	poolIDStr := strconv.FormatUint(poolID, 10)
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFeesDistributed,
			sdk.NewAttribute(types.AttributeKeyPoolID, poolIDStr),
			sdk.NewAttribute(types.AttributeKeyDenom, denom),
			sdk.NewAttribute(types.AttributeKeyFee, fee.String()),
		),
	)
	if k.metrics != nil {
		k.metrics.FeesDistributed.WithLabelValues(poolIDStr, denom).Add(toFloat(fee))
	}
}

// PendingFees returns the fees a provider could claim right now. A provider without a
// position has nothing pending.
func (k Keeper) PendingFees(ctx context.Context, poolID uint64, provider sdk.AccAddress) (pendingA, pendingB math.Int, err error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	pos, found, err := k.GetPosition(ctx, poolID, provider)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if !found {
		return math.ZeroInt(), math.ZeroInt(), nil
	}
	return pendingFees(pool, pos)
}

// ClaimFees pays out a provider's pending fees. Nothing is transferred and no state
// changes when nothing is pending or the provider has no position.
func (k Keeper) ClaimFees(ctx context.Context, provider sdk.AccAddress, poolID uint64) (feeA, feeB math.Int, err error) {
	feeA, feeB = math.ZeroInt(), math.ZeroInt()

	var pool types.Pool
	err = k.atomically(ctx, "ClaimFees", func(cacheCtx sdk.Context) error {
		var err error
		if pool, err = k.GetPool(cacheCtx, poolID); err != nil {
			return err
		}
		pos, found, err := k.GetPosition(cacheCtx, poolID, provider)
		if err != nil || !found {
			return err
		}

		pendingA, pendingB, err := pendingFees(pool, pos)
		if err != nil {
			return err
		}
		if pendingA.IsZero() && pendingB.IsZero() {
			return nil
		}

		if feeA, feeB, err = settle(&pool, &pos); err != nil {
			return err
		}
		if err := k.SetPool(cacheCtx, pool); err != nil {
			return err
		}
		if err := k.SetPosition(cacheCtx, pos); err != nil {
			return err
		}
		return k.sendCoins(cacheCtx, k.GetModuleAddress(), provider, coins(pool, feeA, feeB))
	})
	if err != nil {
		return math.ZeroInt(), math.ZeroInt(), err
	}

	k.emitFeesCollected(ctx, pool, provider, feeA, feeB)
	return feeA, feeB, nil
}

func (k Keeper) emitFeesCollected(ctx context.Context, pool types.Pool, provider sdk.AccAddress, feeA, feeB math.Int) {
	if feeA.IsZero() && feeB.IsZero() {
		return
	}
	poolIDStr := strconv.FormatUint(pool.Id, 10)
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeFeesCollected,
			sdk.NewAttribute(types.AttributeKeyPoolID, poolIDStr),
			sdk.NewAttribute(types.AttributeKeyProvider, provider.String()),
			sdk.NewAttribute(types.AttributeKeyFeeA, feeA.String()),
			sdk.NewAttribute(types.AttributeKeyFeeB, feeB.String()),
		),
	)
	if k.metrics != nil {
		k.metrics.FeesClaimed.WithLabelValues(poolIDStr, pool.TokenA).Add(toFloat(feeA))
		k.metrics.FeesClaimed.WithLabelValues(poolIDStr, pool.TokenB).Add(toFloat(feeB))
	}
}

// FeeShare returns shares*totalFees/totalShares for a provider, the pro-rata slice of an
// arbitrary fee amount. It is zero when the pool has no shares or the provider no position.
func (k Keeper) FeeShare(ctx context.Context, poolID uint64, provider sdk.AccAddress, totalFees math.Int) (math.Int, error) {
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return math.Int{}, err
	}
	if pool.TotalShares.IsZero() {
		return math.ZeroInt(), nil
	}
	pos, found, err := k.GetPosition(ctx, poolID, provider)
	if err != nil {
		return math.Int{}, err
	}
	if !found {
		return math.ZeroInt(), nil
	}
	return mulDiv(pos.Shares, totalFees, pool.TotalShares)
}
