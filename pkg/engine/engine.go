// Package engine runs the liquidity keeper outside a chain. It owns a committed
// multistore and admits one operation at a time, so reads and writes of a pool are never
// interleaved.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	"cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/paw-chain/lpool/pkg/ledger"
	"github.com/paw-chain/lpool/pkg/telemetry"
	"github.com/paw-chain/lpool/x/liquidity/keeper"
	"github.com/paw-chain/lpool/x/liquidity/types"
)

// Config configures an Engine.
type Config struct {
	// DataDir holds a goleveldb database; empty keeps all state in memory.
	DataDir string

	// Authority may initialize pools. Defaults to the gov module address.
	Authority string

	Logger log.Logger
}

// Engine serializes liquidity operations over one committed multistore.
type Engine struct {
	mu sync.Mutex

	db     dbm.DB
	cms    storetypes.CommitMultiStore
	logger log.Logger

	keeper  keeper.Keeper
	bank    ledger.Bank
	msgs    types.MsgServer
	queries types.QueryServer

	opDuration metric.Float64Histogram
}

// New opens the store and wires the keeper to a store-backed ledger.
func New(cfg Config) (*Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	authority := cfg.Authority
	if authority == "" {
		authority = authtypes.NewModuleAddress("gov").String()
	}
	if _, err := sdk.AccAddressFromBech32(authority); err != nil {
		return nil, fmt.Errorf("engine: invalid authority: %w", err)
	}

	var (
		db  dbm.DB
		err error
	)
	if cfg.DataDir == "" {
		db = dbm.NewMemDB()
	} else if db, err = dbm.NewGoLevelDB("liquidity", cfg.DataDir, nil); err != nil {
		return nil, fmt.Errorf("engine: open db: %w", err)
	}

	storeKey := storetypes.NewKVStoreKey(types.StoreKey)
	ledgerKey := storetypes.NewKVStoreKey(ledger.StoreKey)

	cms := store.NewCommitMultiStore(db, logger, metrics.NewNoOpMetrics())
	cms.MountStoreWithDB(storeKey, storetypes.StoreTypeIAVL, db)
	cms.MountStoreWithDB(ledgerKey, storetypes.StoreTypeIAVL, db)
	if err := cms.LoadLatestVersion(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("engine: load store: %w", err)
	}

	bank := ledger.NewBank(ledgerKey)
	k := keeper.NewKeeper(storeKey, bank, authority)

	opDuration, err := telemetry.Meter().Float64Histogram(
		"lpool.engine.operation.duration",
		metric.WithDescription("Engine operation latency"),
		metric.WithUnit("s"),
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("engine: create histogram: %w", err)
	}

	e := &Engine{
		db:      db,
		cms:     cms,
		logger:  logger.With("module", "engine"),
		keeper:  k,
		bank:    bank,
		msgs:    keeper.NewMsgServerImpl(k),
		queries: keeper.NewQueryServerImpl(k),

		opDuration: opDuration,
	}

	if cms.LastCommitID().Version == 0 {
		if err := e.exec("InitGenesis", func(ctx sdk.Context) error {
			return k.InitGenesis(ctx, *types.DefaultGenesis())
		}); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("engine: init genesis: %w", err)
		}
	}
	return e, nil
}

// Close releases the underlying database.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.db.Close()
}

// Authority returns the address allowed to initialize pools.
func (e *Engine) Authority() string {
	return e.keeper.GetAuthority()
}

// Height returns the version of the last committed operation.
func (e *Engine) Height() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cms.LastCommitID().Version
}

func (e *Engine) newContext(ms storetypes.MultiStore) sdk.Context {
	header := cmtproto.Header{
		Height: e.cms.LastCommitID().Version + 1,
		Time:   time.Now().UTC(),
	}
	return sdk.NewContext(ms, header, false, e.logger)
}

// exec runs fn on a branch of the committed store and commits the branch only when fn
// succeeds. The caller must not hold e.mu.
func (e *Engine) exec(op string, fn func(ctx sdk.Context) error) (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.instrument(op, true)(&err)

	branch := e.cms.CacheMultiStore()
	if err := fn(e.newContext(branch)); err != nil {
		return err
	}
	branch.Write()
	commit := e.cms.Commit()
	e.logger.Debug("committed", "op", op, "height", commit.Version)
	return nil
}

// query runs fn against the committed state without writing.
func (e *Engine) query(op string, fn func(ctx sdk.Context) error) (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	defer e.instrument(op, false)(&err)

	return fn(e.newContext(e.cms.CacheMultiStore()))
}

// instrument opens a span for op and returns the function that closes it and records
// the operation latency.
func (e *Engine) instrument(op string, write bool) func(*error) {
	start := time.Now()
	_, span := telemetry.StartOperationSpan(context.Background(), op, attribute.Bool("write", write))
	return func(errp *error) {
		status := "ok"
		if *errp != nil {
			status = "error"
		}
		e.opDuration.Record(context.Background(), time.Since(start).Seconds(),
			metric.WithAttributes(attribute.String("operation", op), attribute.String("status", status)))
		telemetry.EndSpan(span, *errp)
	}
}

// Fund mints coins into an account.
func (e *Engine) Fund(addr sdk.AccAddress, amt sdk.Coins) error {
	return e.exec("Fund", func(ctx sdk.Context) error {
		return e.bank.MintCoins(ctx, addr, amt)
	})
}

// Balance returns an account's balance of one denom.
func (e *Engine) Balance(addr sdk.AccAddress, denom string) (coin sdk.Coin) {
	_ = e.query("Balance", func(ctx sdk.Context) error {
		coin = e.bank.GetBalance(ctx, addr, denom)
		return nil
	})
	return coin
}

// Balances returns every non-zero balance of an account.
func (e *Engine) Balances(addr sdk.AccAddress) (balances sdk.Coins) {
	_ = e.query("Balances", func(ctx sdk.Context) error {
		balances = e.bank.GetAllBalances(ctx, addr)
		return nil
	})
	return balances
}

// InitializePool creates a pool. msg.Authority must match the engine authority.
func (e *Engine) InitializePool(msg *types.MsgInitializePool) (resp *types.MsgInitializePoolResponse, err error) {
	err = e.exec("InitializePool", func(ctx sdk.Context) error {
		resp, err = e.msgs.InitializePool(ctx, msg)
		return err
	})
	return resp, err
}

// AddLiquidity deposits into a pool.
func (e *Engine) AddLiquidity(msg *types.MsgAddLiquidity) (resp *types.MsgAddLiquidityResponse, err error) {
	err = e.exec("AddLiquidity", func(ctx sdk.Context) error {
		resp, err = e.msgs.AddLiquidity(ctx, msg)
		return err
	})
	return resp, err
}

// RemoveLiquidity withdraws from a pool.
func (e *Engine) RemoveLiquidity(msg *types.MsgRemoveLiquidity) (resp *types.MsgRemoveLiquidityResponse, err error) {
	err = e.exec("RemoveLiquidity", func(ctx sdk.Context) error {
		resp, err = e.msgs.RemoveLiquidity(ctx, msg)
		return err
	})
	return resp, err
}

// RemoveAllLiquidity burns every share msg.Provider holds in msg.PoolId. The position is
// read under the same lock as the burn, so no other write can change it in between;
// msg.Shares is ignored.
func (e *Engine) RemoveAllLiquidity(msg *types.MsgRemoveLiquidity) (resp *types.MsgRemoveLiquidityResponse, err error) {
	err = e.exec("RemoveAllLiquidity", func(ctx sdk.Context) error {
		provider, err := sdk.AccAddressFromBech32(msg.Provider)
		if err != nil {
			return types.ErrInvalidAddress.Wrapf("provider: %v", err)
		}
		pos, found, err := e.keeper.GetPosition(ctx, msg.PoolId, provider)
		if err != nil {
			return err
		}
		if !found {
			return types.ErrNoPositionFound.Wrapf("%s in pool %d", msg.Provider, msg.PoolId)
		}

		burn := *msg
		burn.Shares = pos.Shares
		resp, err = e.msgs.RemoveLiquidity(ctx, &burn)
		return err
	})
	return resp, err
}

// Swap executes an exact-output swap.
func (e *Engine) Swap(msg *types.MsgSwap) (resp *types.MsgSwapResponse, err error) {
	err = e.exec("Swap", func(ctx sdk.Context) error {
		resp, err = e.msgs.Swap(ctx, msg)
		return err
	})
	return resp, err
}

// ClaimFees pays out a provider's pending fees.
func (e *Engine) ClaimFees(msg *types.MsgClaimFees) (resp *types.MsgClaimFeesResponse, err error) {
	err = e.exec("ClaimFees", func(ctx sdk.Context) error {
		resp, err = e.msgs.ClaimFees(ctx, msg)
		return err
	})
	return resp, err
}

// DistributeFee donates fee of denom from sender to a pool's providers.
func (e *Engine) DistributeFee(sender sdk.AccAddress, poolID uint64, denom string, fee math.Int) error {
	return e.exec("DistributeFee", func(ctx sdk.Context) error {
		return e.keeper.DistributeFee(ctx, sender, poolID, denom, fee)
	})
}

// Queries returns a query server reading committed state.
func (e *Engine) Queries() types.QueryServer {
	return lockedQueries{e: e}
}

// QuoteSwapOutput quotes an exact-input swap.
func (e *Engine) QuoteSwapOutput(poolID uint64, sellA bool, amountIn math.Int) (out, fee math.Int, err error) {
	err = e.query("QuoteSwapOutput", func(ctx sdk.Context) error {
		out, fee, err = e.keeper.QuoteSwapOutput(ctx, poolID, sellA, amountIn)
		return err
	})
	return out, fee, err
}

// Pools returns every pool in id order.
func (e *Engine) Pools() (pools []types.Pool, err error) {
	err = e.query("Pools", func(ctx sdk.Context) error {
		pools, err = e.keeper.GetAllPools(ctx)
		return err
	})
	return pools, err
}

// CheckInvariants runs every module invariant against committed state.
func (e *Engine) CheckInvariants() error {
	return e.query("CheckInvariants", func(ctx sdk.Context) error {
		if msg, broken := keeper.AllInvariants(e.keeper)(ctx); broken {
			return fmt.Errorf("%w: %s", types.ErrInvariantViolated, msg)
		}
		return nil
	})
}

// ExportGenesis exports committed module state.
func (e *Engine) ExportGenesis() (gs *types.GenesisState, err error) {
	err = e.query("ExportGenesis", func(ctx sdk.Context) error {
		gs, err = e.keeper.ExportGenesis(ctx)
		return err
	})
	return gs, err
}

// lockedQueries adapts the query server to the engine's lock and committed state.
type lockedQueries struct {
	e *Engine
}

var _ types.QueryServer = lockedQueries{}

func (q lockedQueries) Pool(_ context.Context, req *types.QueryPoolRequest) (resp *types.QueryPoolResponse, err error) {
	err = q.e.query("Pool", func(ctx sdk.Context) error { resp, err = q.e.queries.Pool(ctx, req); return err })
	return resp, err
}

func (q lockedQueries) Reserves(_ context.Context, req *types.QueryReservesRequest) (resp *types.QueryReservesResponse, err error) {
	err = q.e.query("Reserves", func(ctx sdk.Context) error { resp, err = q.e.queries.Reserves(ctx, req); return err })
	return resp, err
}

func (q lockedQueries) Position(_ context.Context, req *types.QueryPositionRequest) (resp *types.QueryPositionResponse, err error) {
	err = q.e.query("Position", func(ctx sdk.Context) error { resp, err = q.e.queries.Position(ctx, req); return err })
	return resp, err
}

func (q lockedQueries) PendingFees(_ context.Context, req *types.QueryPendingFeesRequest) (resp *types.QueryPendingFeesResponse, err error) {
	err = q.e.query("PendingFees", func(ctx sdk.Context) error { resp, err = q.e.queries.PendingFees(ctx, req); return err })
	return resp, err
}

func (q lockedQueries) CollectedFees(_ context.Context, req *types.QueryCollectedFeesRequest) (resp *types.QueryCollectedFeesResponse, err error) {
	err = q.e.query("CollectedFees", func(ctx sdk.Context) error { resp, err = q.e.queries.CollectedFees(ctx, req); return err })
	return resp, err
}

func (q lockedQueries) QuoteSwap(_ context.Context, req *types.QueryQuoteSwapRequest) (resp *types.QueryQuoteSwapResponse, err error) {
	err = q.e.query("QuoteSwap", func(ctx sdk.Context) error { resp, err = q.e.queries.QuoteSwap(ctx, req); return err })
	return resp, err
}
