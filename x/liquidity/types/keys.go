package types

import (
	"encoding/binary"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
)

const (
	// ModuleName defines the module name
	ModuleName = "liquidity"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName

	// QuerierRoute defines the module's query routing key
	QuerierRoute = ModuleName
)

// Store key prefixes
var (
	// PoolKeyPrefix is the prefix for pool records keyed by pool id
	PoolKeyPrefix = []byte{0x01}

	// NextPoolIDKey holds the id assigned to the next initialized pool
	NextPoolIDKey = []byte{0x02}

	// PoolByTokensKeyPrefix indexes pool ids by their canonical token pair
	PoolByTokensKeyPrefix = []byte{0x03}

	// PositionKeyPrefix is the prefix for provider positions keyed by (pool id, provider)
	PositionKeyPrefix = []byte{0x04}
)

// PoolKey returns the store key for a pool by ID
func PoolKey(poolID uint64) []byte {
	return append(append([]byte{}, PoolKeyPrefix...), sdk.Uint64ToBigEndian(poolID)...)
}

// PoolByTokensKey returns the index key for a canonical token pair.
// Callers must pass tokens already in canonical order.
func PoolByTokensKey(tokenA, tokenB string) []byte {
	key := append([]byte{}, PoolByTokensKeyPrefix...)
	key = append(key, []byte(tokenA)...)
	key = append(key, '/')
	return append(key, []byte(tokenB)...)
}

// PositionsByPoolPrefix returns the prefix shared by every position of a pool
func PositionsByPoolPrefix(poolID uint64) []byte {
	return append(append([]byte{}, PositionKeyPrefix...), sdk.Uint64ToBigEndian(poolID)...)
}

// PositionKey returns the store key for a provider's position in a pool
func PositionKey(poolID uint64, provider sdk.AccAddress) []byte {
	return append(PositionsByPoolPrefix(poolID), address.MustLengthPrefix(provider)...)
}

// ParsePoolID decodes a big-endian pool id stored in the index.
func ParsePoolID(bz []byte) uint64 {
	return binary.BigEndian.Uint64(bz)
}
