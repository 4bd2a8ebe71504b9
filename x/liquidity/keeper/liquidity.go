package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/lpool/x/liquidity/types"
)

// depositAmounts fits the desired amounts to the pool ratio. The first deposit into an
// empty pool sets the ratio and is taken as is.
func depositAmounts(pool types.Pool, desiredA, desiredB math.Int) (amountA, amountB math.Int, err error) {
	if pool.ReserveA.IsZero() && pool.ReserveB.IsZero() {
		return desiredA, desiredB, nil
	}
	if pool.ReserveA.IsZero() || pool.ReserveB.IsZero() {
		return math.Int{}, math.Int{}, types.ErrInsufficientLiquidity.Wrapf("pool %d has one-sided reserves", pool.Id)
	}

	optimalB, err := mulDiv(desiredA, pool.ReserveB, pool.ReserveA)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if optimalB.LTE(desiredB) {
		return desiredA, optimalB, nil
	}

	optimalA, err := mulDiv(desiredB, pool.ReserveA, pool.ReserveB)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	return optimalA, desiredB, nil
}

// sharesToMint returns isqrt(a*b) for the first deposit and otherwise the smaller of the
// two ratios implied by the deposit, so an imbalanced deposit never dilutes the pool.
func sharesToMint(pool types.Pool, amountA, amountB math.Int) (math.Int, error) {
	if pool.TotalShares.IsZero() {
		return isqrt(amountA, amountB)
	}

	byA, err := mulDiv(amountA, pool.TotalShares, pool.ReserveA)
	if err != nil {
		return math.Int{}, err
	}
	byB, err := mulDiv(amountB, pool.TotalShares, pool.ReserveB)
	if err != nil {
		return math.Int{}, err
	}
	return math.MinInt(byA, byB), nil
}

// absorbRetainedFees moves fees the pool holds with no shares outstanding into its
// reserves, so they back the shares minted by the next deposit.
func absorbRetainedFees(pool *types.Pool) error {
	var err error
	if pool.ReserveA, err = add(pool.ReserveA, pool.UnclaimedFeeA); err != nil {
		return err
	}
	if pool.ReserveB, err = add(pool.ReserveB, pool.UnclaimedFeeB); err != nil {
		return err
	}
	pool.UnclaimedFeeA, pool.UnclaimedFeeB = math.ZeroInt(), math.ZeroInt()
	return nil
}

// AddLiquidity deposits up to the desired amounts at the pool ratio and mints shares.
// Fees pending on an existing position are paid out before minting so the new shares do
// not inherit them.
func (k Keeper) AddLiquidity(
	ctx context.Context,
	provider sdk.AccAddress,
	poolID uint64,
	desiredA, minA, desiredB, minB math.Int,
) (types.DepositResult, error) {
	if !isPositive(desiredA) || !isPositive(desiredB) {
		return types.DepositResult{}, types.ErrInvalidAmount.Wrap("desired amounts must be positive")
	}
	if !isNonNegative(minA) || !isNonNegative(minB) {
		return types.DepositResult{}, types.ErrInvalidAmount.Wrap("minimum amounts must be non-negative")
	}

	var (
		pool types.Pool
		res  types.DepositResult
	)
	err := k.atomically(ctx, "AddLiquidity", func(cacheCtx sdk.Context) error {
		var err error
		if pool, err = k.GetPool(cacheCtx, poolID); err != nil {
			return err
		}

		amountA, amountB, err := depositAmounts(pool, desiredA, desiredB)
		if err != nil {
			return err
		}
		if amountA.LT(minA) || amountB.LT(minB) {
			return types.ErrSlippageExceeded.Wrapf("deposit %s/%s below minimum %s/%s", amountA, amountB, minA, minB)
		}

		shares, err := sharesToMint(pool, amountA, amountB)
		if err != nil {
			return err
		}
		if !shares.IsPositive() {
			return types.ErrInsufficientLiquidity.Wrapf("deposit %s/%s mints no shares", amountA, amountB)
		}

		pos, found, err := k.GetPosition(cacheCtx, poolID, provider)
		if err != nil {
			return err
		}
		if !found {
			pos = newPosition(poolID, provider)
		}

		feeA, feeB, err := settle(&pool, &pos)
		if err != nil {
			return err
		}
		if pool.TotalShares.IsZero() {
			if err := absorbRetainedFees(&pool); err != nil {
				return err
			}
		}

		deposited, err := add(amountA, amountB)
		if err != nil {
			return err
		}
		if pool.ReserveA, err = add(pool.ReserveA, amountA); err != nil {
			return err
		}
		if pool.ReserveB, err = add(pool.ReserveB, amountB); err != nil {
			return err
		}
		if pool.TotalShares, err = add(pool.TotalShares, shares); err != nil {
			return err
		}
		if pos.Shares, err = add(pos.Shares, shares); err != nil {
			return err
		}
		if pos.Liquidity, err = add(pos.Liquidity, deposited); err != nil {
			return err
		}
		if err := resetDebt(pool, &pos); err != nil {
			return err
		}

		if err := k.SetPool(cacheCtx, pool); err != nil {
			return err
		}
		if err := k.SetPosition(cacheCtx, pos); err != nil {
			return err
		}

		moduleAddr := k.GetModuleAddress()
		if err := k.sendCoins(cacheCtx, provider, moduleAddr, coins(pool, amountA, amountB)); err != nil {
			return err
		}
		if err := k.sendCoins(cacheCtx, moduleAddr, provider, coins(pool, feeA, feeB)); err != nil {
			return err
		}

		res = types.DepositResult{AmountA: amountA, AmountB: amountB, Shares: shares, FeeA: feeA, FeeB: feeB}
		return nil
	})
	if err != nil {
		return types.DepositResult{}, err
	}

	poolIDStr := strconv.FormatUint(poolID, 10)
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeLiquidityAdded,
			sdk.NewAttribute(types.AttributeKeyPoolID, poolIDStr),
			sdk.NewAttribute(types.AttributeKeyProvider, provider.String()),
			sdk.NewAttribute(types.AttributeKeyAmountA, res.AmountA.String()),
			sdk.NewAttribute(types.AttributeKeyAmountB, res.AmountB.String()),
			sdk.NewAttribute(types.AttributeKeyShares, res.Shares.String()),
		),
	)
	k.emitFeesCollected(ctx, pool, provider, res.FeeA, res.FeeB)

	if k.metrics != nil {
		k.metrics.LiquidityAdded.WithLabelValues(poolIDStr, pool.TokenA).Add(toFloat(res.AmountA))
		k.metrics.LiquidityAdded.WithLabelValues(poolIDStr, pool.TokenB).Add(toFloat(res.AmountB))
		k.metrics.observePool(pool)
	}
	k.Logger(ctx).Debug("liquidity added", "pool_id", poolID, "provider", provider.String(), "shares", res.Shares.String())

	return res, nil
}

// RemoveLiquidity burns shares for reserve*shares/totalShares of each asset. The burn
// amount given by the caller is the only quantity the withdrawal is derived from.
func (k Keeper) RemoveLiquidity(
	ctx context.Context,
	provider sdk.AccAddress,
	poolID uint64,
	shares, minA, minB math.Int,
) (types.WithdrawResult, error) {
	if !isPositive(shares) {
		return types.WithdrawResult{}, types.ErrInvalidAmount.Wrap("shares must be positive")
	}
	if !isNonNegative(minA) || !isNonNegative(minB) {
		return types.WithdrawResult{}, types.ErrInvalidAmount.Wrap("minimum amounts must be non-negative")
	}

	var (
		pool types.Pool
		res  types.WithdrawResult
	)
	err := k.atomically(ctx, "RemoveLiquidity", func(cacheCtx sdk.Context) error {
		var err error
		if pool, err = k.GetPool(cacheCtx, poolID); err != nil {
			return err
		}

		pos, found, err := k.GetPosition(cacheCtx, poolID, provider)
		if err != nil {
			return err
		}
		if !found {
			return types.ErrNoPositionFound.Wrapf("%s in pool %d", provider, poolID)
		}
		if pos.Shares.LT(shares) {
			return types.ErrInsufficientShares.Wrapf("have %s, burning %s", pos.Shares, shares)
		}

		feeA, feeB, err := settle(&pool, &pos)
		if err != nil {
			return err
		}

		amountA, err := mulDiv(pool.ReserveA, shares, pool.TotalShares)
		if err != nil {
			return err
		}
		amountB, err := mulDiv(pool.ReserveB, shares, pool.TotalShares)
		if err != nil {
			return err
		}
		if amountA.LT(minA) || amountB.LT(minB) {
			return types.ErrSlippageExceeded.Wrapf("withdrawal %s/%s below minimum %s/%s", amountA, amountB, minA, minB)
		}

		if pool.ReserveA, err = sub(pool.ReserveA, amountA); err != nil {
			return err
		}
		if pool.ReserveB, err = sub(pool.ReserveB, amountB); err != nil {
			return err
		}
		if pool.TotalShares, err = sub(pool.TotalShares, shares); err != nil {
			return err
		}
		withdrawn, err := add(amountA, amountB)
		if err != nil {
			return err
		}
		pos.Shares = pos.Shares.Sub(shares)
		pos.Liquidity = pos.Liquidity.Sub(math.MinInt(pos.Liquidity, withdrawn))
		if err := resetDebt(pool, &pos); err != nil {
			return err
		}

		if err := k.SetPool(cacheCtx, pool); err != nil {
			return err
		}
		if err := k.SetPosition(cacheCtx, pos); err != nil {
			return err
		}

		payoutA, err := add(amountA, feeA)
		if err != nil {
			return err
		}
		payoutB, err := add(amountB, feeB)
		if err != nil {
			return err
		}
		payout := coins(pool, payoutA, payoutB)
		if err := k.sendCoins(cacheCtx, k.GetModuleAddress(), provider, payout); err != nil {
			return err
		}

		res = types.WithdrawResult{AmountA: amountA, AmountB: amountB, FeeA: feeA, FeeB: feeB}
		return nil
	})
	if err != nil {
		return types.WithdrawResult{}, err
	}

	poolIDStr := strconv.FormatUint(poolID, 10)
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeLiquidityRemoved,
			sdk.NewAttribute(types.AttributeKeyPoolID, poolIDStr),
			sdk.NewAttribute(types.AttributeKeyProvider, provider.String()),
			sdk.NewAttribute(types.AttributeKeyAmountA, res.AmountA.String()),
			sdk.NewAttribute(types.AttributeKeyAmountB, res.AmountB.String()),
			sdk.NewAttribute(types.AttributeKeyShares, shares.String()),
		),
	)
	k.emitFeesCollected(ctx, pool, provider, res.FeeA, res.FeeB)

	if k.metrics != nil {
		k.metrics.LiquidityRemoved.WithLabelValues(poolIDStr, pool.TokenA).Add(toFloat(res.AmountA))
		k.metrics.LiquidityRemoved.WithLabelValues(poolIDStr, pool.TokenB).Add(toFloat(res.AmountB))
		k.metrics.observePool(pool)
	}
	k.Logger(ctx).Debug("liquidity removed", "pool_id", poolID, "provider", provider.String(), "shares", shares.String())

	return res, nil
}

func newPosition(poolID uint64, provider sdk.AccAddress) types.Position {
	return types.Position{
		PoolId:    poolID,
		Provider:  provider.String(),
		Shares:    math.ZeroInt(),
		Liquidity: math.ZeroInt(),
		FeeDebtA:  math.ZeroInt(),
		FeeDebtB:  math.ZeroInt(),
	}
}

func isPositive(i math.Int) bool    { return !i.IsNil() && i.IsPositive() }
func isNonNegative(i math.Int) bool { return !i.IsNil() && !i.IsNegative() }
