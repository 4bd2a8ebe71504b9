package keeper

import (
	"testing"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/lpool/pkg/ledger"
	"github.com/paw-chain/lpool/x/liquidity/keeper"
	"github.com/paw-chain/lpool/x/liquidity/types"
)

// Authority is the address the test keeper accepts pool initialization from.
var Authority = authtypes.NewModuleAddress("gov")

// LiquidityKeeper creates a test keeper for the liquidity module backed by an in-memory
// multistore and a store-backed token ledger.
func LiquidityKeeper(t testing.TB) (keeper.Keeper, sdk.Context, ledger.Bank) {
	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	ledgerKey := storetypes.NewKVStoreKey(ledger.StoreKey)

	db := dbm.NewMemDB()
	stateStore := store.NewCommitMultiStore(db, log.NewNopLogger(), metrics.NewNoOpMetrics())
	stateStore.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	stateStore.MountStoreWithDB(ledgerKey, storetypes.StoreTypeIAVL, db)
	require.NoError(t, stateStore.LoadLatestVersion())

	bank := ledger.NewBank(ledgerKey)
	k := keeper.NewKeeper(storeKey, bank, Authority.String())

	ctx := sdk.NewContext(stateStore, cmtproto.Header{}, false, log.NewNopLogger())
	require.NoError(t, k.InitGenesis(ctx, *types.DefaultGenesis()))

	return k, ctx, bank
}

// FundAccount mints coins straight into an account.
func FundAccount(t testing.TB, bank ledger.Bank, ctx sdk.Context, addr sdk.AccAddress, amt sdk.Coins) {
	require.NoError(t, bank.MintCoins(ctx, addr, amt))
}

// CreateTestPool initializes a pool and seeds it with a first deposit from provider.
func CreateTestPool(
	t testing.TB,
	k keeper.Keeper,
	bank ledger.Bank,
	ctx sdk.Context,
	provider sdk.AccAddress,
	tokenA, tokenB string,
	feeRate uint32,
	amountA, amountB math.Int,
) uint64 {
	poolID, err := k.InitializePool(ctx, tokenA, tokenB, feeRate)
	require.NoError(t, err)

	FundAccount(t, bank, ctx, provider, sdk.NewCoins(sdk.NewCoin(tokenA, amountA), sdk.NewCoin(tokenB, amountB)))
	_, err = k.AddLiquidity(ctx, provider, poolID, amountA, math.ZeroInt(), amountB, math.ZeroInt())
	require.NoError(t, err)

	return poolID
}

// TestAddr returns a deterministic 20-byte account address.
func TestAddr(seed byte) sdk.AccAddress {
	addr := make([]byte, 20)
	for i := range addr {
		addr[i] = seed
	}
	return sdk.AccAddress(addr)
}
