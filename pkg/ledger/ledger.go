// Package ledger is a store-backed fungible token ledger. It satisfies the liquidity
// module's BankKeeper so pools can settle outside a full application, and because its
// balances live in the same multistore as pool state, a discarded cache context reverts
// transfers together with pool bookkeeping.
package ledger

import (
	"context"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/cosmos/cosmos-sdk/types/address"
	sdkerrors "github.com/cosmos/cosmos-sdk/types/errors"

	"github.com/paw-chain/lpool/x/liquidity/types"
)

// StoreKey is the conventional store key name for the ledger.
const StoreKey = "ledger"

// BalanceKeyPrefix prefixes balances keyed by (address, denom).
var BalanceKeyPrefix = []byte{0x01}

var _ types.BankKeeper = Bank{}

// Bank keeps balances under its own store key.
type Bank struct {
	storeKey storetypes.StoreKey
}

// NewBank returns a ledger reading and writing through key.
func NewBank(key storetypes.StoreKey) Bank {
	return Bank{storeKey: key}
}

func (b Bank) getStore(ctx context.Context) storetypes.KVStore {
	return sdk.UnwrapSDKContext(ctx).KVStore(b.storeKey)
}

func balancesPrefix(addr sdk.AccAddress) []byte {
	return append(append([]byte{}, BalanceKeyPrefix...), address.MustLengthPrefix(addr)...)
}

func balanceKey(addr sdk.AccAddress, denom string) []byte {
	return append(balancesPrefix(addr), []byte(denom)...)
}

// GetBalance returns the balance of one denom, zero when the account never held it.
func (b Bank) GetBalance(ctx context.Context, addr sdk.AccAddress, denom string) sdk.Coin {
	bz := b.getStore(ctx).Get(balanceKey(addr, denom))
	if bz == nil {
		return sdk.NewCoin(denom, math.ZeroInt())
	}

	var amount math.Int
	if err := amount.Unmarshal(bz); err != nil {
		panic(err)
	}
	return sdk.NewCoin(denom, amount)
}

// GetAllBalances returns every non-zero balance of an account.
func (b Bank) GetAllBalances(ctx context.Context, addr sdk.AccAddress) sdk.Coins {
	prefix := balancesPrefix(addr)
	iterator := storetypes.KVStorePrefixIterator(b.getStore(ctx), prefix)
	defer iterator.Close()

	balances := sdk.NewCoins()
	for ; iterator.Valid(); iterator.Next() {
		denom := string(iterator.Key()[len(prefix):])
		var amount math.Int
		if err := amount.Unmarshal(iterator.Value()); err != nil {
			panic(err)
		}
		balances = balances.Add(sdk.NewCoin(denom, amount))
	}
	return balances
}

func (b Bank) setBalance(ctx context.Context, addr sdk.AccAddress, coin sdk.Coin) error {
	store := b.getStore(ctx)
	key := balanceKey(addr, coin.Denom)
	if coin.Amount.IsZero() {
		store.Delete(key)
		return nil
	}

	bz, err := coin.Amount.Marshal()
	if err != nil {
		return err
	}
	store.Set(key, bz)
	return nil
}

// credited returns the balance of addr after receiving coin, failing when it would not
// fit in 256 bits.
func (b Bank) credited(ctx context.Context, addr sdk.AccAddress, coin sdk.Coin) (sdk.Coin, error) {
	balance := b.GetBalance(ctx, addr, coin.Denom)
	amount, err := balance.Amount.SafeAdd(coin.Amount)
	if err != nil {
		return sdk.Coin{}, sdkerrors.ErrInvalidCoins.Wrapf("crediting %s to %s balance %s: %v", coin, addr, balance, err)
	}
	return sdk.NewCoin(coin.Denom, amount), nil
}

// SendCoins moves amt from fromAddr to toAddr. Every debit and credit is checked before
// any balance changes.
func (b Bank) SendCoins(ctx context.Context, fromAddr, toAddr sdk.AccAddress, amt sdk.Coins) error {
	if !amt.IsValid() {
		return sdkerrors.ErrInvalidCoins.Wrap(amt.String())
	}

	for _, coin := range amt {
		balance := b.GetBalance(ctx, fromAddr, coin.Denom)
		if balance.Amount.LT(coin.Amount) {
			return sdkerrors.ErrInsufficientFunds.Wrapf("spendable balance %s is smaller than %s", balance, coin)
		}
		if !fromAddr.Equals(toAddr) {
			if _, err := b.credited(ctx, toAddr, coin); err != nil {
				return err
			}
		}
	}

	for _, coin := range amt {
		if err := b.setBalance(ctx, fromAddr, b.GetBalance(ctx, fromAddr, coin.Denom).Sub(coin)); err != nil {
			return err
		}
		next, err := b.credited(ctx, toAddr, coin)
		if err != nil {
			return err
		}
		if err := b.setBalance(ctx, toAddr, next); err != nil {
			return err
		}
	}
	return nil
}

// MintCoins credits amt to addr out of thin air. It funds accounts in simulations and
// tests.
func (b Bank) MintCoins(ctx context.Context, addr sdk.AccAddress, amt sdk.Coins) error {
	if !amt.IsValid() {
		return sdkerrors.ErrInvalidCoins.Wrap(amt.String())
	}

	next := make([]sdk.Coin, 0, len(amt))
	for _, coin := range amt {
		credited, err := b.credited(ctx, addr, coin)
		if err != nil {
			return err
		}
		next = append(next, credited)
	}
	for _, coin := range next {
		if err := b.setBalance(ctx, addr, coin); err != nil {
			return err
		}
	}
	return nil
}
