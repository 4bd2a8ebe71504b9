package keeper

import (
	"fmt"
	"sort"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/lpool/x/liquidity/types"
)

// RegisterInvariants registers all liquidity invariants
func RegisterInvariants(ir sdk.InvariantRegistry, k Keeper) {
	ir.RegisterRoute(types.ModuleName, "share-conservation", ShareConservationInvariant(k))
	ir.RegisterRoute(types.ModuleName, "reserve-backing", ReserveBackingInvariant(k))
	ir.RegisterRoute(types.ModuleName, "position-debt", PositionDebtInvariant(k))
}

// AllInvariants runs all invariants of the liquidity module
func AllInvariants(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		res, stop := ShareConservationInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		res, stop = ReserveBackingInvariant(k)(ctx)
		if stop {
			return res, stop
		}

		return PositionDebtInvariant(k)(ctx)
	}
}

// ShareConservationInvariant checks that every pool's total shares equal the sum of its
// positions and that reserves are empty exactly when no shares are outstanding.
func ShareConservationInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		pools, err := k.GetAllPools(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "share-conservation", err.Error()), true
		}

		for _, pool := range pools {
			sum := math.ZeroInt()
			var sumErr error
			if err := k.IteratePositions(ctx, pool.Id, func(pos types.Position) bool {
				sum, sumErr = add(sum, pos.Shares)
				return sumErr != nil
			}); err != nil {
				return sdk.FormatInvariant(types.ModuleName, "share-conservation", err.Error()), true
			}
			if sumErr != nil {
				count++
				msg += fmt.Sprintf("pool %d: position shares: %v\n", pool.Id, sumErr)
				continue
			}

			if !sum.Equal(pool.TotalShares) {
				count++
				msg += fmt.Sprintf("pool %d: total shares %s != sum of positions %s\n", pool.Id, pool.TotalShares, sum)
			}
			if err := pool.Validate(); err != nil {
				count++
				msg += fmt.Sprintf("%v\n", err)
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "share-conservation",
			fmt.Sprintf("found %d share accounting issues\n%s", count, msg),
		), broken
	}
}

// ReserveBackingInvariant checks that the module account holds at least the reserves and
// unclaimed fees of every pool, summed per denom.
func ReserveBackingInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		pools, err := k.GetAllPools(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "reserve-backing", err.Error()), true
		}

		owed := make(map[string]math.Int)
		credit := func(denom string, amounts ...math.Int) error {
			total, ok := owed[denom]
			if !ok {
				total = math.ZeroInt()
			}
			for _, a := range amounts {
				var err error
				if total, err = add(total, a); err != nil {
					return err
				}
			}
			owed[denom] = total
			return nil
		}
		for _, pool := range pools {
			if err := credit(pool.TokenA, pool.ReserveA, pool.UnclaimedFeeA); err != nil {
				return sdk.FormatInvariant(types.ModuleName, "reserve-backing", err.Error()), true
			}
			if err := credit(pool.TokenB, pool.ReserveB, pool.UnclaimedFeeB); err != nil {
				return sdk.FormatInvariant(types.ModuleName, "reserve-backing", err.Error()), true
			}
		}

		denoms := make([]string, 0, len(owed))
		for denom := range owed {
			denoms = append(denoms, denom)
		}
		sort.Strings(denoms)

		var (
			msg   string
			count int
		)
		moduleAddr := k.GetModuleAddress()
		for _, denom := range denoms {
			balance := k.bankKeeper.GetBalance(ctx, moduleAddr, denom)
			if balance.Amount.LT(owed[denom]) {
				count++
				msg += fmt.Sprintf("module balance for %s (%s) < reserves plus unclaimed fees (%s)\n",
					denom, balance.Amount, owed[denom])
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "reserve-backing",
			fmt.Sprintf("found %d under-backed denoms\n%s", count, msg),
		), broken
	}
}

// PositionDebtInvariant checks that no position's fee debt exceeds what its shares have
// accrued.
func PositionDebtInvariant(k Keeper) sdk.Invariant {
	return func(ctx sdk.Context) (string, bool) {
		var (
			msg   string
			count int
		)

		pools, err := k.GetAllPools(ctx)
		if err != nil {
			return sdk.FormatInvariant(types.ModuleName, "position-debt", err.Error()), true
		}

		for _, pool := range pools {
			err := k.IteratePositions(ctx, pool.Id, func(pos types.Position) bool {
				accA, errA := accrued(pos.Shares, pool.FeePerShareA)
				accB, errB := accrued(pos.Shares, pool.FeePerShareB)
				if errA != nil || errB != nil {
					count++
					msg += fmt.Sprintf("pool %d: position %s accrual overflows\n", pool.Id, pos.Provider)
					return false
				}
				if pos.FeeDebtA.GT(accA) || pos.FeeDebtB.GT(accB) {
					count++
					msg += fmt.Sprintf("pool %d: position %s debt %s/%s exceeds accrued %s/%s\n",
						pool.Id, pos.Provider, pos.FeeDebtA, pos.FeeDebtB, accA, accB)
				}
				return false
			})
			if err != nil {
				return sdk.FormatInvariant(types.ModuleName, "position-debt", err.Error()), true
			}
		}

		broken := count != 0
		return sdk.FormatInvariant(
			types.ModuleName, "position-debt",
			fmt.Sprintf("found %d positions with excess debt\n%s", count, msg),
		), broken
	}
}
