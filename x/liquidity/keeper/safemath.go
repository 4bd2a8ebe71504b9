package keeper

import (
	"math/big"

	"cosmossdk.io/math"

	"github.com/paw-chain/lpool/x/liquidity/types"
)

// fromBig converts an intermediate result back into a math.Int, rejecting anything
// wider than 256 bits.
func fromBig(bi *big.Int) (math.Int, error) {
	if bi.BitLen() > math.MaxBitLen {
		return math.Int{}, types.ErrOverflow.Wrapf("result %s exceeds %d bits", bi, math.MaxBitLen)
	}
	return math.NewIntFromBigInt(bi), nil
}

// mulDiv returns floor(a*b/c). The product is carried at full precision.
func mulDiv(a, b, c math.Int) (math.Int, error) {
	if c.IsZero() {
		return math.Int{}, types.ErrOverflow.Wrap("division by zero")
	}
	num := new(big.Int).Mul(a.BigInt(), b.BigInt())
	return fromBig(num.Quo(num, c.BigInt()))
}

// mulDivCeil returns ceil(a*b/c) for non-negative operands.
func mulDivCeil(a, b, c math.Int) (math.Int, error) {
	if c.IsZero() {
		return math.Int{}, types.ErrOverflow.Wrap("division by zero")
	}
	num := new(big.Int).Mul(a.BigInt(), b.BigInt())
	q, r := new(big.Int).QuoRem(num, c.BigInt(), new(big.Int))
	if r.Sign() > 0 {
		q.Add(q, big.NewInt(1))
	}
	return fromBig(q)
}

// mul returns a*b.
func mul(a, b math.Int) (math.Int, error) {
	return fromBig(new(big.Int).Mul(a.BigInt(), b.BigInt()))
}

// add returns a+b.
func add(a, b math.Int) (math.Int, error) {
	return fromBig(new(big.Int).Add(a.BigInt(), b.BigInt()))
}

// sub returns a-b, failing instead of going negative.
func sub(a, b math.Int) (math.Int, error) {
	if a.LT(b) {
		return math.Int{}, types.ErrOverflow.Wrapf("underflow: %s - %s", a, b)
	}
	return a.Sub(b), nil
}

// isqrt returns floor(sqrt(a*b)) without truncating the product.
func isqrt(a, b math.Int) (math.Int, error) {
	prod := new(big.Int).Mul(a.BigInt(), b.BigInt())
	return fromBig(prod.Sqrt(prod))
}

func feeDenom() math.Int { return math.NewInt(int64(types.FeeDenominator)) }
