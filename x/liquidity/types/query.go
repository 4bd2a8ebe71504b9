package types

import (
	"context"

	"cosmossdk.io/math"
)

// QueryServer defines the read-only query surface of the module
type QueryServer interface {
	Pool(context.Context, *QueryPoolRequest) (*QueryPoolResponse, error)
	Reserves(context.Context, *QueryReservesRequest) (*QueryReservesResponse, error)
	Position(context.Context, *QueryPositionRequest) (*QueryPositionResponse, error)
	PendingFees(context.Context, *QueryPendingFeesRequest) (*QueryPendingFeesResponse, error)
	CollectedFees(context.Context, *QueryCollectedFeesRequest) (*QueryCollectedFeesResponse, error)
	QuoteSwap(context.Context, *QueryQuoteSwapRequest) (*QueryQuoteSwapResponse, error)
}

type QueryPoolRequest struct {
	PoolId uint64 `json:"pool_id"`
}

type QueryPoolResponse struct {
	Pool Pool `json:"pool"`
}

type QueryReservesRequest struct {
	PoolId uint64 `json:"pool_id"`
}

type QueryReservesResponse struct {
	ReserveA math.Int `json:"reserve_a"`
	ReserveB math.Int `json:"reserve_b"`
}

type QueryPositionRequest struct {
	PoolId   uint64 `json:"pool_id"`
	Provider string `json:"provider"`
}

// QueryPositionResponse carries a nil Position when the provider holds no shares.
type QueryPositionResponse struct {
	Position *Position `json:"position,omitempty"`
}

type QueryPendingFeesRequest struct {
	PoolId   uint64 `json:"pool_id"`
	Provider string `json:"provider"`
}

type QueryPendingFeesResponse struct {
	PendingA math.Int `json:"pending_a"`
	PendingB math.Int `json:"pending_b"`
}

type QueryCollectedFeesRequest struct {
	PoolId uint64 `json:"pool_id"`
}

type QueryCollectedFeesResponse struct {
	FeeA math.Int `json:"fee_a"`
	FeeB math.Int `json:"fee_b"`
}

// QueryQuoteSwapRequest quotes the input needed to buy ExactAmountOut.
type QueryQuoteSwapRequest struct {
	PoolId         uint64   `json:"pool_id"`
	BuyA           bool     `json:"buy_a"`
	ExactAmountOut math.Int `json:"exact_amount_out"`
}

type QueryQuoteSwapResponse struct {
	AmountIn math.Int `json:"amount_in"`
	Fee      math.Int `json:"fee"`
}
