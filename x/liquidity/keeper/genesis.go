package keeper

import (
	"context"
	"fmt"

	"github.com/paw-chain/lpool/x/liquidity/types"
)

// InitGenesis initializes the liquidity module's state from a genesis state
func (k Keeper) InitGenesis(ctx context.Context, genState types.GenesisState) error {
	if err := genState.Validate(); err != nil {
		return fmt.Errorf("InitGenesis: %w", err)
	}

	k.SetNextPoolID(ctx, genState.NextPoolId)

	for _, pool := range genState.Pools {
		if err := k.SetPool(ctx, pool); err != nil {
			return fmt.Errorf("InitGenesis: set pool %d: %w", pool.Id, err)
		}
		k.setPoolByTokens(ctx, pool.TokenA, pool.TokenB, pool.Id)
	}

	for _, pos := range genState.Positions {
		if err := k.SetPosition(ctx, pos); err != nil {
			return fmt.Errorf("InitGenesis: set position %s in pool %d: %w", pos.Provider, pos.PoolId, err)
		}
	}

	if k.metrics != nil {
		k.metrics.PoolsTotal.Set(float64(len(genState.Pools)))
	}
	return nil
}

// ExportGenesis exports the liquidity module's state
func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	pools, err := k.GetAllPools(ctx)
	if err != nil {
		return nil, fmt.Errorf("ExportGenesis: pools: %w", err)
	}
	positions, err := k.GetAllPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("ExportGenesis: positions: %w", err)
	}

	genesis := types.DefaultGenesis()
	genesis.NextPoolId = k.GetNextPoolID(ctx)
	if pools != nil {
		genesis.Pools = pools
	}
	if positions != nil {
		genesis.Positions = positions
	}
	return genesis, nil
}
