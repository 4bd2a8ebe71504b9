package types

import (
	sdkerrors "cosmossdk.io/errors"
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// MsgInitializePool creates a pool for a canonical token pair. Only the module
// authority may send it.
type MsgInitializePool struct {
	Authority string `json:"authority"`
	TokenA    string `json:"token_a"`
	TokenB    string `json:"token_b"`
	FeeRate   uint32 `json:"fee_rate"`
}

// MsgAddLiquidity deposits up to the desired amounts at the pool ratio.
type MsgAddLiquidity struct {
	Provider string   `json:"provider"`
	PoolId   uint64   `json:"pool_id"`
	DesiredA math.Int `json:"desired_a"`
	MinA     math.Int `json:"min_a"`
	DesiredB math.Int `json:"desired_b"`
	MinB     math.Int `json:"min_b"`
}

// MsgRemoveLiquidity burns shares for a proportional withdrawal.
type MsgRemoveLiquidity struct {
	Provider string   `json:"provider"`
	PoolId   uint64   `json:"pool_id"`
	Shares   math.Int `json:"shares"`
	MinA     math.Int `json:"min_a"`
	MinB     math.Int `json:"min_b"`
}

// MsgSwap buys an exact amount of one asset paying at most MaxAmountIn of the other.
type MsgSwap struct {
	Trader         string   `json:"trader"`
	PoolId         uint64   `json:"pool_id"`
	BuyA           bool     `json:"buy_a"`
	ExactAmountOut math.Int `json:"exact_amount_out"`
	MaxAmountIn    math.Int `json:"max_amount_in"`
}

// MsgClaimFees pays out a provider's pending fees.
type MsgClaimFees struct {
	Provider string `json:"provider"`
	PoolId   uint64 `json:"pool_id"`
}

// NewMsgAddLiquidity creates a new MsgAddLiquidity instance
func NewMsgAddLiquidity(provider string, poolID uint64, desiredA, minA, desiredB, minB math.Int) *MsgAddLiquidity {
	return &MsgAddLiquidity{
		Provider: provider,
		PoolId:   poolID,
		DesiredA: desiredA,
		MinA:     minA,
		DesiredB: desiredB,
		MinB:     minB,
	}
}

// NewMsgRemoveLiquidity creates a new MsgRemoveLiquidity instance
func NewMsgRemoveLiquidity(provider string, poolID uint64, shares, minA, minB math.Int) *MsgRemoveLiquidity {
	return &MsgRemoveLiquidity{Provider: provider, PoolId: poolID, Shares: shares, MinA: minA, MinB: minB}
}

// NewMsgSwap creates a new MsgSwap instance
func NewMsgSwap(trader string, poolID uint64, buyA bool, exactOut, maxIn math.Int) *MsgSwap {
	return &MsgSwap{Trader: trader, PoolId: poolID, BuyA: buyA, ExactAmountOut: exactOut, MaxAmountIn: maxIn}
}

func (msg MsgInitializePool) Type() string  { return "initialize_pool" }
func (msg MsgAddLiquidity) Type() string    { return "add_liquidity" }
func (msg MsgRemoveLiquidity) Type() string { return "remove_liquidity" }
func (msg MsgSwap) Type() string            { return "swap" }
func (msg MsgClaimFees) Type() string       { return "claim_fees" }

// GetSigners returns the authority
func (msg MsgInitializePool) GetSigners() []sdk.AccAddress {
	return []sdk.AccAddress{mustAccAddress(msg.Authority)}
}

// GetSigners returns the provider
func (msg MsgAddLiquidity) GetSigners() []sdk.AccAddress {
	return []sdk.AccAddress{mustAccAddress(msg.Provider)}
}

// GetSigners returns the provider
func (msg MsgRemoveLiquidity) GetSigners() []sdk.AccAddress {
	return []sdk.AccAddress{mustAccAddress(msg.Provider)}
}

// GetSigners returns the trader
func (msg MsgSwap) GetSigners() []sdk.AccAddress {
	return []sdk.AccAddress{mustAccAddress(msg.Trader)}
}

// GetSigners returns the provider
func (msg MsgClaimFees) GetSigners() []sdk.AccAddress {
	return []sdk.AccAddress{mustAccAddress(msg.Provider)}
}

// ValidateBasic performs stateless checks
func (msg MsgInitializePool) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Authority); err != nil {
		return sdkerrors.Wrapf(ErrInvalidAddress, "invalid authority address: %s", err)
	}
	if err := ValidatePair(msg.TokenA, msg.TokenB); err != nil {
		return err
	}
	return ValidateFeeRate(msg.FeeRate)
}

// ValidateBasic performs stateless checks
func (msg MsgAddLiquidity) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Provider); err != nil {
		return sdkerrors.Wrapf(ErrInvalidAddress, "invalid provider address: %s", err)
	}
	if msg.PoolId == 0 {
		return sdkerrors.Wrap(ErrPoolNotFound, "pool id cannot be zero")
	}
	if !isPositive(msg.DesiredA) || !isPositive(msg.DesiredB) {
		return sdkerrors.Wrap(ErrInvalidAmount, "desired amounts must be positive")
	}
	if !isNonNegative(msg.MinA) || !isNonNegative(msg.MinB) {
		return sdkerrors.Wrap(ErrInvalidAmount, "minimum amounts must be non-negative")
	}
	if msg.MinA.GT(msg.DesiredA) || msg.MinB.GT(msg.DesiredB) {
		return sdkerrors.Wrap(ErrSlippageExceeded, "minimum exceeds desired amount")
	}
	return nil
}

// ValidateBasic performs stateless checks
func (msg MsgRemoveLiquidity) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Provider); err != nil {
		return sdkerrors.Wrapf(ErrInvalidAddress, "invalid provider address: %s", err)
	}
	if msg.PoolId == 0 {
		return sdkerrors.Wrap(ErrPoolNotFound, "pool id cannot be zero")
	}
	if !isPositive(msg.Shares) {
		return sdkerrors.Wrap(ErrInvalidAmount, "shares must be positive")
	}
	if !isNonNegative(msg.MinA) || !isNonNegative(msg.MinB) {
		return sdkerrors.Wrap(ErrInvalidAmount, "minimum amounts must be non-negative")
	}
	return nil
}

// ValidateBasic performs stateless checks
func (msg MsgSwap) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Trader); err != nil {
		return sdkerrors.Wrapf(ErrInvalidAddress, "invalid trader address: %s", err)
	}
	if msg.PoolId == 0 {
		return sdkerrors.Wrap(ErrPoolNotFound, "pool id cannot be zero")
	}
	if !isPositive(msg.ExactAmountOut) {
		return sdkerrors.Wrap(ErrInvalidAmount, "output amount must be positive")
	}
	if !isPositive(msg.MaxAmountIn) {
		return sdkerrors.Wrap(ErrInvalidAmount, "max input must be positive")
	}
	return nil
}

// ValidateBasic performs stateless checks
func (msg MsgClaimFees) ValidateBasic() error {
	if _, err := sdk.AccAddressFromBech32(msg.Provider); err != nil {
		return sdkerrors.Wrapf(ErrInvalidAddress, "invalid provider address: %s", err)
	}
	if msg.PoolId == 0 {
		return sdkerrors.Wrap(ErrPoolNotFound, "pool id cannot be zero")
	}
	return nil
}

func mustAccAddress(bech string) sdk.AccAddress {
	addr, err := sdk.AccAddressFromBech32(bech)
	if err != nil {
		panic(err)
	}
	return addr
}

func isPositive(i math.Int) bool    { return !i.IsNil() && i.IsPositive() }
func isNonNegative(i math.Int) bool { return !i.IsNil() && !i.IsNegative() }
