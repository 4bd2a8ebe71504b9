package keeper

import (
	"context"
	"math/big"
	"strconv"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/lpool/x/liquidity/types"
)

// requiredInput solves the constant-product equation for the input that buys exactOut,
// fee included:
//
//	in  = ceil(rSell * out * D / ((rBuy - out) * (D - f)))
//	fee = floor(in * f / D)
func requiredInput(pool types.Pool, buyA bool, exactOut math.Int) (amountIn, fee math.Int, err error) {
	reserveSell, reserveBuy := pool.Reserves(buyA)
	if reserveSell.IsZero() || reserveBuy.IsZero() {
		return math.Int{}, math.Int{}, types.ErrInsufficientLiquidity.Wrapf("pool %d is empty", pool.Id)
	}
	if exactOut.GTE(reserveBuy) {
		return math.Int{}, math.Int{}, types.ErrInsufficientLiquidity.Wrapf("output %s exhausts reserve %s", exactOut, reserveBuy)
	}

	d := feeDenom()
	num, err := mul(reserveSell, exactOut)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	den, err := mul(reserveBuy.Sub(exactOut), d.SubRaw(int64(pool.FeeRate)))
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	if amountIn, err = mulDivCeil(num, d, den); err != nil {
		return math.Int{}, math.Int{}, err
	}
	if fee, err = mulDiv(amountIn, math.NewInt(int64(pool.FeeRate)), d); err != nil {
		return math.Int{}, math.Int{}, err
	}
	return amountIn, fee, nil
}

// outputFor returns the exact-input quote
//
//	out = in*(D-f)*rOut / (rIn*D + in*(D-f))
func outputFor(pool types.Pool, sellA bool, amountIn math.Int) (amountOut, fee math.Int, err error) {
	reserveIn, reserveOut := pool.Reserves(!sellA)
	if reserveIn.IsZero() || reserveOut.IsZero() {
		return math.Int{}, math.Int{}, types.ErrInsufficientLiquidity.Wrapf("pool %d is empty", pool.Id)
	}

	d := feeDenom()
	inAfterFee := new(big.Int).Mul(amountIn.BigInt(), d.SubRaw(int64(pool.FeeRate)).BigInt())
	num := new(big.Int).Mul(inAfterFee, reserveOut.BigInt())
	den := new(big.Int).Mul(reserveIn.BigInt(), d.BigInt())
	den.Add(den, inAfterFee)

	if amountOut, err = fromBig(num.Quo(num, den)); err != nil {
		return math.Int{}, math.Int{}, err
	}
	if fee, err = mulDiv(amountIn, math.NewInt(int64(pool.FeeRate)), d); err != nil {
		return math.Int{}, math.Int{}, err
	}
	return amountOut, fee, nil
}

// adjustedReserve returns reserve*D + delta scaled by the fee residue: inflows count at
// (D-f) per unit, outflows at D.
func adjustedReserve(reserve math.Int, delta *big.Int, feeRate uint32) *big.Int {
	d := big.NewInt(int64(types.FeeDenominator))
	adj := new(big.Int).Set(delta)
	if delta.Sign() > 0 {
		adj.Mul(adj, big.NewInt(int64(types.FeeDenominator-feeRate)))
	} else {
		adj.Mul(adj, d)
	}
	scaled := new(big.Int).Mul(reserve.BigInt(), d)
	return scaled.Add(scaled, adj)
}

// checkInvariant rejects a trade whose fee-adjusted post-trade product is below the
// pre-trade product.
func checkInvariant(pool types.Pool, buyA bool, amountIn, amountOut math.Int) error {
	reserveSell, reserveBuy := pool.Reserves(buyA)
	d := big.NewInt(int64(types.FeeDenominator))

	after := adjustedReserve(reserveSell, amountIn.BigInt(), pool.FeeRate)
	after.Mul(after, adjustedReserve(reserveBuy, new(big.Int).Neg(amountOut.BigInt()), pool.FeeRate))

	before := new(big.Int).Mul(reserveSell.BigInt(), d)
	before.Mul(before, new(big.Int).Mul(reserveBuy.BigInt(), d))

	if after.Cmp(before) < 0 {
		return types.ErrInvariantViolated.Wrapf("pool %d: in %s out %s", pool.Id, amountIn, amountOut)
	}
	return nil
}

// QuoteSwapInput returns the input and fee Swap would charge to buy exactOut.
func (k Keeper) QuoteSwapInput(ctx context.Context, poolID uint64, buyA bool, exactOut math.Int) (amountIn, fee math.Int, err error) {
	if !isPositive(exactOut) {
		return math.Int{}, math.Int{}, types.ErrInvalidAmount.Wrap("output amount must be positive")
	}
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	return requiredInput(pool, buyA, exactOut)
}

// QuoteSwapOutput returns the output and fee for selling exactly amountIn of token A
// (sellA) or token B.
func (k Keeper) QuoteSwapOutput(ctx context.Context, poolID uint64, sellA bool, amountIn math.Int) (amountOut, fee math.Int, err error) {
	if !isPositive(amountIn) {
		return math.Int{}, math.Int{}, types.ErrInvalidAmount.Wrap("input amount must be positive")
	}
	pool, err := k.GetPool(ctx, poolID)
	if err != nil {
		return math.Int{}, math.Int{}, err
	}
	return outputFor(pool, sellA, amountIn)
}

// Swap buys exactly exactOut of token A (buyA) or token B, paying at most maxIn of the
// other token. The fee part of the input is kept out of the reserves and credited to
// providers.
func (k Keeper) Swap(
	ctx context.Context,
	trader sdk.AccAddress,
	poolID uint64,
	buyA bool,
	exactOut, maxIn math.Int,
) (types.SwapResult, error) {
	if !isPositive(exactOut) {
		return types.SwapResult{}, types.ErrInvalidAmount.Wrap("output amount must be positive")
	}
	if !isPositive(maxIn) {
		return types.SwapResult{}, types.ErrInvalidAmount.Wrap("max input must be positive")
	}

	var (
		pool types.Pool
		res  types.SwapResult
	)
	err := k.atomically(ctx, "Swap", func(cacheCtx sdk.Context) error {
		var err error
		if pool, err = k.GetPool(cacheCtx, poolID); err != nil {
			return err
		}

		amountIn, fee, err := requiredInput(pool, buyA, exactOut)
		if err != nil {
			return err
		}
		if amountIn.GT(maxIn) {
			return types.ErrExcessiveInputRequired.Wrapf("need %s, max %s", amountIn, maxIn)
		}

		denomSell, denomBuy := pool.Denoms(buyA)
		moduleAddr := k.GetModuleAddress()
		if err := k.sendCoins(cacheCtx, trader, moduleAddr, sdk.NewCoins(sdk.NewCoin(denomSell, amountIn))); err != nil {
			return err
		}

		if err := checkInvariant(pool, buyA, amountIn, exactOut); err != nil {
			if k.metrics != nil {
				k.metrics.InvariantRejects.WithLabelValues(strconv.FormatUint(poolID, 10)).Inc()
			}
			return err
		}

		reserveSell, reserveBuy := pool.Reserves(buyA)
		newSell, err := add(reserveSell, amountIn.Sub(fee))
		if err != nil {
			return err
		}
		newBuy := reserveBuy.Sub(exactOut)
		if buyA {
			pool.ReserveA, pool.ReserveB = newBuy, newSell
		} else {
			pool.ReserveA, pool.ReserveB = newSell, newBuy
		}

		if err := distributeFee(&pool, fee, !buyA); err != nil {
			return err
		}
		if err := k.SetPool(cacheCtx, pool); err != nil {
			return err
		}
		if err := k.sendCoins(cacheCtx, moduleAddr, trader, sdk.NewCoins(sdk.NewCoin(denomBuy, exactOut))); err != nil {
			return err
		}

		res = types.SwapResult{AmountIn: amountIn, AmountOut: exactOut, Fee: fee}
		return nil
	})

	poolIDStr := strconv.FormatUint(poolID, 10)
	if err != nil {
		if k.metrics != nil {
			k.metrics.SwapsTotal.WithLabelValues(poolIDStr, "", "failed").Inc()
		}
		return types.SwapResult{}, err
	}

	denomSell, denomBuy := pool.Denoms(buyA)
	sdk.UnwrapSDKContext(ctx).EventManager().EmitEvent(
		sdk.NewEvent(
			types.EventTypeSwapExecuted,
			sdk.NewAttribute(types.AttributeKeyPoolID, poolIDStr),
			sdk.NewAttribute(types.AttributeKeyTrader, trader.String()),
			sdk.NewAttribute(types.AttributeKeyBuyA, strconv.FormatBool(buyA)),
			sdk.NewAttribute(types.AttributeKeyAmountIn, res.AmountIn.String()),
			sdk.NewAttribute(types.AttributeKeyAmountOut, res.AmountOut.String()),
			sdk.NewAttribute(types.AttributeKeyFee, res.Fee.String()),
		),
	)
	if res.Fee.IsPositive() {
		k.emitFeesDistributed(ctx, poolID, denomSell, res.Fee)
	}

	if k.metrics != nil {
		k.metrics.SwapsTotal.WithLabelValues(poolIDStr, denomBuy, "success").Inc()
		k.metrics.SwapVolume.WithLabelValues(poolIDStr, denomSell).Add(toFloat(res.AmountIn))
		k.metrics.observePool(pool)
	}
	k.Logger(ctx).Debug("swap executed", "pool_id", poolID, "trader", trader.String(),
		"amount_in", res.AmountIn.String(), "amount_out", res.AmountOut.String())

	return res, nil
}
