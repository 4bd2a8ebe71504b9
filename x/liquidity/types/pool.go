package types

import (
	"fmt"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

const (
	// FeeDenominator is the fixed denominator fee rates are expressed against (basis points).
	FeeDenominator uint32 = 10_000

	// FeePerShareScaleExponent is the decimal exponent of the fee-per-share accumulator scale.
	// It is part of the storage format: accumulators persisted under one scale cannot be read
	// under another.
	FeePerShareScaleExponent = 9
)

// FeePerShareScale returns 10^9, the fixed-point scale of the fee accumulators.
func FeePerShareScale() math.Int {
	return math.NewIntWithDecimal(1, FeePerShareScaleExponent)
}

// Pool is the state of one two-asset constant-product pool.
type Pool struct {
	Id       uint64   `json:"id"`
	TokenA   string   `json:"token_a"`
	TokenB   string   `json:"token_b"`
	FeeRate  uint32   `json:"fee_rate"`
	ReserveA math.Int `json:"reserve_a"`
	ReserveB math.Int `json:"reserve_b"`

	TotalShares math.Int `json:"total_shares"`

	// Accumulated fee per outstanding share, scaled by FeePerShareScale. Never decreases.
	FeePerShareA math.Int `json:"fee_per_share_a"`
	FeePerShareB math.Int `json:"fee_per_share_b"`

	// Lifetime fee totals, reporting only.
	AccumulatedFeeA math.Int `json:"accumulated_fee_a"`
	AccumulatedFeeB math.Int `json:"accumulated_fee_b"`

	// Fees held by the module account for providers; not part of the reserves.
	UnclaimedFeeA math.Int `json:"unclaimed_fee_a"`
	UnclaimedFeeB math.Int `json:"unclaimed_fee_b"`
}

// NewPool returns an empty, active pool for a canonical token pair.
func NewPool(id uint64, tokenA, tokenB string, feeRate uint32) Pool {
	return Pool{
		Id:              id,
		TokenA:          tokenA,
		TokenB:          tokenB,
		FeeRate:         feeRate,
		ReserveA:        math.ZeroInt(),
		ReserveB:        math.ZeroInt(),
		TotalShares:     math.ZeroInt(),
		FeePerShareA:    math.ZeroInt(),
		FeePerShareB:    math.ZeroInt(),
		AccumulatedFeeA: math.ZeroInt(),
		AccumulatedFeeB: math.ZeroInt(),
		UnclaimedFeeA:   math.ZeroInt(),
		UnclaimedFeeB:   math.ZeroInt(),
	}
}

// ValidatePair checks canonical ordering of a token pair.
func ValidatePair(tokenA, tokenB string) error {
	if err := sdk.ValidateDenom(tokenA); err != nil {
		return ErrInvalidDenom.Wrapf("token a: %v", err)
	}
	if err := sdk.ValidateDenom(tokenB); err != nil {
		return ErrInvalidDenom.Wrapf("token b: %v", err)
	}
	if tokenA >= tokenB {
		return ErrInvalidAssetOrdering.Wrapf("%s must sort before %s", tokenA, tokenB)
	}
	return nil
}

// ValidateFeeRate checks 0 < feeRate < FeeDenominator.
func ValidateFeeRate(feeRate uint32) error {
	if feeRate == 0 || feeRate >= FeeDenominator {
		return ErrInvalidFeeRate.Wrapf("fee rate %d must be in (0, %d)", feeRate, FeeDenominator)
	}
	return nil
}

// Validate performs stateless sanity checks on a stored pool.
func (p Pool) Validate() error {
	if p.Id == 0 {
		return fmt.Errorf("pool id cannot be zero")
	}
	if err := ValidatePair(p.TokenA, p.TokenB); err != nil {
		return err
	}
	if err := ValidateFeeRate(p.FeeRate); err != nil {
		return err
	}
	for name, v := range map[string]math.Int{
		"reserve_a":         p.ReserveA,
		"reserve_b":         p.ReserveB,
		"total_shares":      p.TotalShares,
		"fee_per_share_a":   p.FeePerShareA,
		"fee_per_share_b":   p.FeePerShareB,
		"accumulated_fee_a": p.AccumulatedFeeA,
		"accumulated_fee_b": p.AccumulatedFeeB,
		"unclaimed_fee_a":   p.UnclaimedFeeA,
		"unclaimed_fee_b":   p.UnclaimedFeeB,
	} {
		if v.IsNil() || v.IsNegative() {
			return fmt.Errorf("pool %d: %s must be non-negative", p.Id, name)
		}
	}
	if p.TotalShares.IsZero() != (p.ReserveA.IsZero() && p.ReserveB.IsZero()) {
		return fmt.Errorf("pool %d: shares %s inconsistent with reserves %s/%s",
			p.Id, p.TotalShares, p.ReserveA, p.ReserveB)
	}
	return nil
}

// Reserves returns (sell, buy) reserves for a swap that buys token A when buyA is set.
func (p Pool) Reserves(buyA bool) (sell, buy math.Int) {
	if buyA {
		return p.ReserveB, p.ReserveA
	}
	return p.ReserveA, p.ReserveB
}

// Denoms returns (sell, buy) denoms for a swap that buys token A when buyA is set.
func (p Pool) Denoms(buyA bool) (sell, buy string) {
	if buyA {
		return p.TokenB, p.TokenA
	}
	return p.TokenA, p.TokenB
}

// Position is a provider's share balance and fee baselines in one pool.
type Position struct {
	PoolId   uint64   `json:"pool_id"`
	Provider string   `json:"provider"`
	Shares   math.Int `json:"shares"`

	// Liquidity records contributed asset value; it takes no part in payouts.
	Liquidity math.Int `json:"liquidity"`

	// FeeDebtA/B hold shares*fee_per_share/scale as of the last mint, burn or claim.
	FeeDebtA math.Int `json:"fee_debt_a"`
	FeeDebtB math.Int `json:"fee_debt_b"`
}

// Validate performs stateless sanity checks on a stored position.
func (p Position) Validate() error {
	if _, err := sdk.AccAddressFromBech32(p.Provider); err != nil {
		return ErrInvalidAddress.Wrapf("position provider: %v", err)
	}
	if p.Shares.IsNil() || !p.Shares.IsPositive() {
		return ErrInsufficientShares.Wrapf("position of %s in pool %d has no shares", p.Provider, p.PoolId)
	}
	if p.Liquidity.IsNil() || p.Liquidity.IsNegative() {
		return fmt.Errorf("position of %s: liquidity must be non-negative", p.Provider)
	}
	if p.FeeDebtA.IsNil() || p.FeeDebtA.IsNegative() || p.FeeDebtB.IsNil() || p.FeeDebtB.IsNegative() {
		return fmt.Errorf("position of %s: fee debt must be non-negative", p.Provider)
	}
	return nil
}
