package keeper

import (
	"context"
	"fmt"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"

	"github.com/paw-chain/lpool/x/liquidity/types"
)

// Keeper of the liquidity store
type Keeper struct {
	storeKey   storetypes.StoreKey
	bankKeeper types.BankKeeper

	// authority may initialize pools
	authority string

	metrics *LiquidityMetrics
}

// NewKeeper creates a new liquidity Keeper instance
func NewKeeper(key storetypes.StoreKey, bankKeeper types.BankKeeper, authority string) Keeper {
	if _, err := sdk.AccAddressFromBech32(authority); err != nil {
		panic(fmt.Sprintf("invalid liquidity authority address: %s", err))
	}

	return Keeper{
		storeKey:   key,
		bankKeeper: bankKeeper,
		authority:  authority,
		metrics:    NewLiquidityMetrics(),
	}
}

// getStore returns the KVStore for the liquidity module
func (k Keeper) getStore(ctx context.Context) storetypes.KVStore {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	return sdkCtx.KVStore(k.storeKey)
}

// Logger returns a module-specific logger.
func (k Keeper) Logger(ctx context.Context) log.Logger {
	return sdk.UnwrapSDKContext(ctx).Logger().With("module", "x/"+types.ModuleName)
}

// GetAuthority returns the address allowed to initialize pools.
func (k Keeper) GetAuthority() string {
	return k.authority
}

// GetModuleAddress returns the account holding every pool's reserves and unclaimed fees.
func (k Keeper) GetModuleAddress() sdk.AccAddress {
	return authtypes.NewModuleAddress(types.ModuleName)
}

// sendCoins moves the non-zero coins of amt, surfacing ledger failures as ErrInsufficientBalance.
func (k Keeper) sendCoins(ctx context.Context, from, to sdk.AccAddress, amt sdk.Coins) error {
	if amt.IsZero() {
		return nil
	}
	if err := k.bankKeeper.SendCoins(ctx, from, to, amt); err != nil {
		return types.ErrInsufficientBalance.Wrapf("transfer %s from %s to %s: %v", amt, from, to, err)
	}
	return nil
}

// coins builds a coin set from a pool's two denoms, dropping zero amounts.
func coins(pool types.Pool, amountA, amountB math.Int) sdk.Coins {
	return sdk.NewCoins(sdk.NewCoin(pool.TokenA, amountA), sdk.NewCoin(pool.TokenB, amountB))
}
