package api

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/paw-chain/lpool/x/liquidity/types"
)

// Amounts travel as decimal strings so values above 2^53 survive JSON clients.

// InitializePoolRequest creates a pool. The caller must hold the authority token.
type InitializePoolRequest struct {
	TokenA  string `json:"token_a" binding:"required"`
	TokenB  string `json:"token_b" binding:"required"`
	FeeRate uint32 `json:"fee_rate" binding:"required"`
}

// AddLiquidityRequest deposits up to the desired amounts at the pool ratio.
type AddLiquidityRequest struct {
	DesiredA string `json:"desired_a" binding:"required"`
	DesiredB string `json:"desired_b" binding:"required"`
	MinA     string `json:"min_a,omitempty"`
	MinB     string `json:"min_b,omitempty"`
}

// RemoveLiquidityRequest burns shares; "all" burns the caller's whole position.
type RemoveLiquidityRequest struct {
	Shares string `json:"shares" binding:"required"`
	MinA   string `json:"min_a,omitempty"`
	MinB   string `json:"min_b,omitempty"`
}

// SwapRequest buys exactly AmountOut, paying at most MaxAmountIn.
type SwapRequest struct {
	BuyA        bool   `json:"buy_a"`
	AmountOut   string `json:"amount_out" binding:"required"`
	MaxAmountIn string `json:"max_amount_in" binding:"required"`
}

// DistributeFeeRequest donates Amount of Denom to the pool's providers.
type DistributeFeeRequest struct {
	Denom  string `json:"denom" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

// PoolsResponse lists every pool.
type PoolsResponse struct {
	Pools []types.Pool `json:"pools"`
	Count int          `json:"count"`
}

// QuoteResponse prices a swap in either direction.
type QuoteResponse struct {
	PoolID    uint64   `json:"pool_id"`
	BuyA      bool     `json:"buy_a"`
	AmountIn  math.Int `json:"amount_in"`
	AmountOut math.Int `json:"amount_out"`
	Fee       math.Int `json:"fee"`
}

// BalancesResponse lists an account's balances.
type BalancesResponse struct {
	Address  string    `json:"address"`
	Balances sdk.Coins `json:"balances"`
}

// DistributeFeeResponse acknowledges a fee donation.
type DistributeFeeResponse struct {
	PoolID uint64   `json:"pool_id"`
	Denom  string   `json:"denom"`
	Amount math.Int `json:"amount"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}
