package types

import (
	"context"

	"cosmossdk.io/math"
)

// MsgServer defines the message server interface
type MsgServer interface {
	InitializePool(context.Context, *MsgInitializePool) (*MsgInitializePoolResponse, error)
	AddLiquidity(context.Context, *MsgAddLiquidity) (*MsgAddLiquidityResponse, error)
	RemoveLiquidity(context.Context, *MsgRemoveLiquidity) (*MsgRemoveLiquidityResponse, error)
	Swap(context.Context, *MsgSwap) (*MsgSwapResponse, error)
	ClaimFees(context.Context, *MsgClaimFees) (*MsgClaimFeesResponse, error)
}

// MsgInitializePoolResponse defines the response for InitializePool
type MsgInitializePoolResponse struct {
	PoolId uint64 `json:"pool_id"`
}

// MsgAddLiquidityResponse defines the response for AddLiquidity
type MsgAddLiquidityResponse struct {
	Result DepositResult `json:"result"`
}

// MsgRemoveLiquidityResponse defines the response for RemoveLiquidity
type MsgRemoveLiquidityResponse struct {
	Result WithdrawResult `json:"result"`
}

// MsgSwapResponse defines the response for Swap
type MsgSwapResponse struct {
	Result SwapResult `json:"result"`
}

// MsgClaimFeesResponse defines the response for ClaimFees
type MsgClaimFeesResponse struct {
	FeeA math.Int `json:"fee_a"`
	FeeB math.Int `json:"fee_b"`
}
