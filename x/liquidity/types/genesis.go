package types

import (
	"fmt"

	"cosmossdk.io/math"
)

// GenesisState is the exported state of the liquidity module.
type GenesisState struct {
	NextPoolId uint64     `json:"next_pool_id"`
	Pools      []Pool     `json:"pools"`
	Positions  []Position `json:"positions"`
}

// DefaultGenesis returns the default genesis state
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		NextPoolId: 1,
		Pools:      []Pool{},
		Positions:  []Position{},
	}
}

// Validate performs basic genesis state validation, including share conservation
// across every pool.
func (gs GenesisState) Validate() error {
	if gs.NextPoolId == 0 {
		return ErrInvalidGenesis.Wrap("next pool id cannot be zero")
	}

	shareSums := make(map[uint64]math.Int, len(gs.Pools))
	pairs := make(map[string]struct{}, len(gs.Pools))
	for _, pool := range gs.Pools {
		if err := pool.Validate(); err != nil {
			return ErrInvalidGenesis.Wrapf("pool %d: %v", pool.Id, err)
		}
		if pool.Id >= gs.NextPoolId {
			return ErrInvalidGenesis.Wrapf("pool id %d not below next pool id %d", pool.Id, gs.NextPoolId)
		}
		if _, dup := shareSums[pool.Id]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate pool id %d", pool.Id)
		}
		pair := pool.TokenA + "/" + pool.TokenB
		if _, dup := pairs[pair]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate pool for pair %s", pair)
		}
		pairs[pair] = struct{}{}
		shareSums[pool.Id] = math.ZeroInt()
	}

	seen := make(map[string]struct{}, len(gs.Positions))
	for _, pos := range gs.Positions {
		if err := pos.Validate(); err != nil {
			return ErrInvalidGenesis.Wrap(err.Error())
		}
		sum, ok := shareSums[pos.PoolId]
		if !ok {
			return ErrInvalidGenesis.Wrapf("position of %s references unknown pool %d", pos.Provider, pos.PoolId)
		}
		key := fmt.Sprintf("%d/%s", pos.PoolId, pos.Provider)
		if _, dup := seen[key]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate position %s", key)
		}
		seen[key] = struct{}{}
		shareSums[pos.PoolId] = sum.Add(pos.Shares)
	}

	for _, pool := range gs.Pools {
		if !shareSums[pool.Id].Equal(pool.TotalShares) {
			return ErrInvalidGenesis.Wrapf("pool %d: total shares %s != sum of positions %s",
				pool.Id, pool.TotalShares, shareSums[pool.Id])
		}
	}
	return nil
}
