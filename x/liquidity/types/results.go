package types

import (
	"cosmossdk.io/math"
)

// DepositResult is returned by AddLiquidity.
type DepositResult struct {
	AmountA math.Int `json:"amount_a"`
	AmountB math.Int `json:"amount_b"`
	Shares  math.Int `json:"shares"`

	// Fees settled to the provider before minting.
	FeeA math.Int `json:"fee_a"`
	FeeB math.Int `json:"fee_b"`
}

// WithdrawResult is returned by RemoveLiquidity.
type WithdrawResult struct {
	AmountA math.Int `json:"amount_a"`
	AmountB math.Int `json:"amount_b"`
	FeeA    math.Int `json:"fee_a"`
	FeeB    math.Int `json:"fee_b"`
}

// SwapResult is returned by Swap.
type SwapResult struct {
	AmountIn  math.Int `json:"amount_in"`
	AmountOut math.Int `json:"amount_out"`
	Fee       math.Int `json:"fee"`
}
