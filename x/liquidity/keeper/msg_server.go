package keeper

import (
	"context"
	"fmt"

	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/lpool/x/liquidity/types"
)

type msgServer struct {
	Keeper
}

// NewMsgServerImpl returns an implementation of the liquidity MsgServer interface
func NewMsgServerImpl(keeper Keeper) types.MsgServer {
	return &msgServer{Keeper: keeper}
}

var _ types.MsgServer = msgServer{}

// InitializePool handles pool creation; only the module authority may send it.
func (ms msgServer) InitializePool(goCtx context.Context, msg *types.MsgInitializePool) (*types.MsgInitializePoolResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("InitializePool: validate: %w", err)
	}
	if msg.Authority != ms.authority {
		return nil, types.ErrUnauthorized.Wrapf("expected %s, got %s", ms.authority, msg.Authority)
	}

	poolID, err := ms.Keeper.InitializePool(goCtx, msg.TokenA, msg.TokenB, msg.FeeRate)
	if err != nil {
		return nil, fmt.Errorf("InitializePool: %w", err)
	}

	return &types.MsgInitializePoolResponse{PoolId: poolID}, nil
}

// AddLiquidity handles adding liquidity to an existing pool
func (ms msgServer) AddLiquidity(goCtx context.Context, msg *types.MsgAddLiquidity) (*types.MsgAddLiquidityResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("AddLiquidity: validate: %w", err)
	}

	provider, err := sdk.AccAddressFromBech32(msg.Provider)
	if err != nil {
		return nil, fmt.Errorf("AddLiquidity: invalid provider address: %w", err)
	}

	res, err := ms.Keeper.AddLiquidity(goCtx, provider, msg.PoolId, msg.DesiredA, msg.MinA, msg.DesiredB, msg.MinB)
	if err != nil {
		return nil, fmt.Errorf("AddLiquidity: %w", err)
	}

	return &types.MsgAddLiquidityResponse{Result: res}, nil
}

// RemoveLiquidity handles removing liquidity from a pool
func (ms msgServer) RemoveLiquidity(goCtx context.Context, msg *types.MsgRemoveLiquidity) (*types.MsgRemoveLiquidityResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("RemoveLiquidity: validate: %w", err)
	}

	provider, err := sdk.AccAddressFromBech32(msg.Provider)
	if err != nil {
		return nil, fmt.Errorf("RemoveLiquidity: invalid provider address: %w", err)
	}

	res, err := ms.Keeper.RemoveLiquidity(goCtx, provider, msg.PoolId, msg.Shares, msg.MinA, msg.MinB)
	if err != nil {
		return nil, fmt.Errorf("RemoveLiquidity: %w", err)
	}

	return &types.MsgRemoveLiquidityResponse{Result: res}, nil
}

// Swap handles exact-output swaps
func (ms msgServer) Swap(goCtx context.Context, msg *types.MsgSwap) (*types.MsgSwapResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("Swap: validate: %w", err)
	}

	trader, err := sdk.AccAddressFromBech32(msg.Trader)
	if err != nil {
		return nil, fmt.Errorf("Swap: invalid trader address: %w", err)
	}

	res, err := ms.Keeper.Swap(goCtx, trader, msg.PoolId, msg.BuyA, msg.ExactAmountOut, msg.MaxAmountIn)
	if err != nil {
		return nil, fmt.Errorf("Swap: %w", err)
	}

	return &types.MsgSwapResponse{Result: res}, nil
}

// ClaimFees handles fee claims
func (ms msgServer) ClaimFees(goCtx context.Context, msg *types.MsgClaimFees) (*types.MsgClaimFeesResponse, error) {
	if err := msg.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("ClaimFees: validate: %w", err)
	}

	provider, err := sdk.AccAddressFromBech32(msg.Provider)
	if err != nil {
		return nil, fmt.Errorf("ClaimFees: invalid provider address: %w", err)
	}

	feeA, feeB, err := ms.Keeper.ClaimFees(goCtx, provider, msg.PoolId)
	if err != nil {
		return nil, fmt.Errorf("ClaimFees: %w", err)
	}

	return &types.MsgClaimFeesResponse{FeeA: feeA, FeeB: feeB}, nil
}
