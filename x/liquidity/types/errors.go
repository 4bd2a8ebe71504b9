package types

import (
	"cosmossdk.io/errors"
)

// Liquidity module sentinel errors
var (
	ErrAlreadyInitialized     = errors.Register(ModuleName, 2, "pool already initialized")
	ErrInvalidAssetOrdering   = errors.Register(ModuleName, 3, "token a must sort strictly before token b")
	ErrInvalidFeeRate         = errors.Register(ModuleName, 4, "invalid fee rate")
	ErrSlippageExceeded       = errors.Register(ModuleName, 5, "amount outside slippage bounds")
	ErrExcessiveInputRequired = errors.Register(ModuleName, 6, "required input exceeds maximum")
	ErrInvariantViolated      = errors.Register(ModuleName, 7, "constant product invariant violated")
	ErrInsufficientShares     = errors.Register(ModuleName, 8, "insufficient liquidity shares")
	ErrNoPositionFound        = errors.Register(ModuleName, 9, "no position found for provider")
	ErrInsufficientBalance    = errors.Register(ModuleName, 10, "insufficient balance")

	ErrPoolNotFound          = errors.Register(ModuleName, 11, "pool not found")
	ErrInvalidAmount         = errors.Register(ModuleName, 12, "invalid amount")
	ErrInsufficientLiquidity = errors.Register(ModuleName, 13, "insufficient liquidity")
	ErrOverflow              = errors.Register(ModuleName, 14, "arithmetic overflow")
	ErrUnauthorized          = errors.Register(ModuleName, 15, "unauthorized")
	ErrInvalidAddress        = errors.Register(ModuleName, 16, "invalid address")
	ErrInvalidGenesis        = errors.Register(ModuleName, 17, "invalid genesis state")
	ErrInvalidDenom          = errors.Register(ModuleName, 18, "invalid token denomination")
)
