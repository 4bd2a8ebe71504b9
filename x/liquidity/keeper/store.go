package keeper

import (
	"context"
	"encoding/json"
	"fmt"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/lpool/x/liquidity/types"
)

// GetNextPoolID returns the id the next initialized pool will receive.
func (k Keeper) GetNextPoolID(ctx context.Context) uint64 {
	bz := k.getStore(ctx).Get(types.NextPoolIDKey)
	if bz == nil {
		return 1
	}
	return types.ParsePoolID(bz)
}

// SetNextPoolID sets the next pool id counter
func (k Keeper) SetNextPoolID(ctx context.Context, poolID uint64) {
	k.getStore(ctx).Set(types.NextPoolIDKey, sdk.Uint64ToBigEndian(poolID))
}

// GetPool returns a pool by ID
func (k Keeper) GetPool(ctx context.Context, poolID uint64) (types.Pool, error) {
	bz := k.getStore(ctx).Get(types.PoolKey(poolID))
	if bz == nil {
		return types.Pool{}, types.ErrPoolNotFound.Wrapf("pool %d", poolID)
	}

	var pool types.Pool
	if err := json.Unmarshal(bz, &pool); err != nil {
		return types.Pool{}, fmt.Errorf("GetPool: unmarshal pool %d: %w", poolID, err)
	}
	return pool, nil
}

// SetPool stores a pool
func (k Keeper) SetPool(ctx context.Context, pool types.Pool) error {
	bz, err := json.Marshal(pool)
	if err != nil {
		return fmt.Errorf("SetPool: marshal pool %d: %w", pool.Id, err)
	}
	k.getStore(ctx).Set(types.PoolKey(pool.Id), bz)
	return nil
}

// GetPoolIDByTokens looks up the pool for a canonical token pair.
func (k Keeper) GetPoolIDByTokens(ctx context.Context, tokenA, tokenB string) (uint64, bool) {
	bz := k.getStore(ctx).Get(types.PoolByTokensKey(tokenA, tokenB))
	if bz == nil {
		return 0, false
	}
	return types.ParsePoolID(bz), true
}

func (k Keeper) setPoolByTokens(ctx context.Context, tokenA, tokenB string, poolID uint64) {
	k.getStore(ctx).Set(types.PoolByTokensKey(tokenA, tokenB), sdk.Uint64ToBigEndian(poolID))
}

// IteratePools iterates over all pools in id order
func (k Keeper) IteratePools(ctx context.Context, cb func(pool types.Pool) (stop bool)) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), types.PoolKeyPrefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var pool types.Pool
		if err := json.Unmarshal(iterator.Value(), &pool); err != nil {
			return fmt.Errorf("IteratePools: unmarshal: %w", err)
		}
		if cb(pool) {
			break
		}
	}
	return nil
}

// GetAllPools returns all pools
func (k Keeper) GetAllPools(ctx context.Context) ([]types.Pool, error) {
	var pools []types.Pool
	err := k.IteratePools(ctx, func(pool types.Pool) bool {
		pools = append(pools, pool)
		return false
	})
	return pools, err
}

// GetPosition returns a provider's position in a pool. The boolean is false when the
// provider holds no shares.
func (k Keeper) GetPosition(ctx context.Context, poolID uint64, provider sdk.AccAddress) (types.Position, bool, error) {
	bz := k.getStore(ctx).Get(types.PositionKey(poolID, provider))
	if bz == nil {
		return types.Position{}, false, nil
	}

	var pos types.Position
	if err := json.Unmarshal(bz, &pos); err != nil {
		return types.Position{}, false, fmt.Errorf("GetPosition: unmarshal position of %s: %w", provider, err)
	}
	return pos, true, nil
}

// SetPosition stores a position, deleting it once its shares reach zero.
func (k Keeper) SetPosition(ctx context.Context, pos types.Position) error {
	provider, err := sdk.AccAddressFromBech32(pos.Provider)
	if err != nil {
		return types.ErrInvalidAddress.Wrapf("position provider: %v", err)
	}

	store := k.getStore(ctx)
	key := types.PositionKey(pos.PoolId, provider)
	if pos.Shares.IsNil() || pos.Shares.IsZero() {
		store.Delete(key)
		return nil
	}

	bz, err := json.Marshal(pos)
	if err != nil {
		return fmt.Errorf("SetPosition: marshal: %w", err)
	}
	store.Set(key, bz)
	return nil
}

// IteratePositions iterates over every position of one pool
func (k Keeper) IteratePositions(ctx context.Context, poolID uint64, cb func(pos types.Position) (stop bool)) error {
	return k.iteratePositionPrefix(ctx, types.PositionsByPoolPrefix(poolID), cb)
}

// GetAllPositions returns every position across all pools
func (k Keeper) GetAllPositions(ctx context.Context) ([]types.Position, error) {
	var positions []types.Position
	err := k.iteratePositionPrefix(ctx, types.PositionKeyPrefix, func(pos types.Position) bool {
		positions = append(positions, pos)
		return false
	})
	return positions, err
}

func (k Keeper) iteratePositionPrefix(ctx context.Context, prefix []byte, cb func(types.Position) bool) error {
	iterator := storetypes.KVStorePrefixIterator(k.getStore(ctx), prefix)
	defer iterator.Close()

	for ; iterator.Valid(); iterator.Next() {
		var pos types.Position
		if err := json.Unmarshal(iterator.Value(), &pos); err != nil {
			return fmt.Errorf("IteratePositions: unmarshal: %w", err)
		}
		if cb(pos) {
			break
		}
	}
	return nil
}
