package types

// Event types for the liquidity module
const (
	EventTypePoolInitialized  = "pool_initialized"
	EventTypeLiquidityAdded   = "liquidity_added"
	EventTypeLiquidityRemoved = "liquidity_removed"
	EventTypeSwapExecuted     = "swap_executed"
	EventTypeFeesDistributed  = "fees_distributed"
	EventTypeFeesCollected    = "fees_collected"

	AttributeKeyPoolID    = "pool_id"
	AttributeKeyTokenA    = "token_a"
	AttributeKeyTokenB    = "token_b"
	AttributeKeyFeeRate   = "fee_rate"
	AttributeKeyProvider  = "provider"
	AttributeKeyTrader    = "trader"
	AttributeKeyAmountA   = "amount_a"
	AttributeKeyAmountB   = "amount_b"
	AttributeKeyShares    = "shares"
	AttributeKeyFeeA      = "fee_a"
	AttributeKeyFeeB      = "fee_b"
	AttributeKeyBuyA      = "buy_a"
	AttributeKeyAmountIn  = "amount_in"
	AttributeKeyAmountOut = "amount_out"
	AttributeKeyFee       = "fee"
	AttributeKeyDenom     = "denom"
)
