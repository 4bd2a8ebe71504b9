package api

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/gin-gonic/gin"

	"github.com/paw-chain/lpool/x/liquidity/types"
)

// Validation constants
const (
	MaxRequestSize   = 1 << 20 // 1 MB
	MaxAmountLength  = 78      // digits in 2^256
	MaxAddressLength = 100
)

// unsigned decimal integer
var amountRegex = regexp.MustCompile(`^[0-9]+$`)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors holds multiple validation errors
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v *ValidationErrors) Add(field, message string) {
	v.Errors = append(v.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

func (v *ValidationErrors) Error() string {
	if !v.HasErrors() {
		return ""
	}
	var sb strings.Builder
	for i, err := range v.Errors {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return sb.String()
}

// ParsePoolID parses a pool id path parameter.
func ParsePoolID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid pool ID %q", raw)
	}
	return id, nil
}

// ValidateAddress validates a bech32 account address.
func ValidateAddress(address string) (sdk.AccAddress, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("address is required")
	}
	if len(address) > MaxAddressLength {
		return nil, fmt.Errorf("address too long")
	}
	addr, err := sdk.AccAddressFromBech32(address)
	if err != nil {
		return nil, fmt.Errorf("invalid address format: %w", err)
	}
	return addr, nil
}

// ParseAmount parses an unsigned integer amount. An empty optional amount is zero.
func ParseAmount(amount string, optional bool) (math.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		if optional {
			return math.ZeroInt(), nil
		}
		return math.Int{}, fmt.Errorf("amount is required")
	}
	if len(amount) > MaxAmountLength {
		return math.Int{}, fmt.Errorf("amount too long")
	}
	if !amountRegex.MatchString(amount) {
		return math.Int{}, fmt.Errorf("amount must be a non-negative integer")
	}
	v, ok := math.NewIntFromString(amount)
	if !ok {
		return math.Int{}, fmt.Errorf("invalid amount %q", amount)
	}
	return v, nil
}

// ValidateAddLiquidityRequest converts req into a message for provider.
func ValidateAddLiquidityRequest(provider string, poolID uint64, req *AddLiquidityRequest) (*types.MsgAddLiquidity, error) {
	errs := &ValidationErrors{}
	desiredA := parseField(errs, "desired_a", req.DesiredA, false)
	desiredB := parseField(errs, "desired_b", req.DesiredB, false)
	minA := parseField(errs, "min_a", req.MinA, true)
	minB := parseField(errs, "min_b", req.MinB, true)
	if errs.HasErrors() {
		return nil, errs
	}
	return types.NewMsgAddLiquidity(provider, poolID, desiredA, minA, desiredB, minB), nil
}

// ValidateRemoveLiquidityRequest converts req into a message. When req.Shares is "all"
// the message carries no share amount and all is set; the engine resolves the position
// when it burns.
func ValidateRemoveLiquidityRequest(provider string, poolID uint64, req *RemoveLiquidityRequest) (msg *types.MsgRemoveLiquidity, all bool, err error) {
	errs := &ValidationErrors{}
	shares := math.ZeroInt()
	if strings.EqualFold(strings.TrimSpace(req.Shares), "all") {
		all = true
	} else {
		shares = parseField(errs, "shares", req.Shares, false)
	}
	minA := parseField(errs, "min_a", req.MinA, true)
	minB := parseField(errs, "min_b", req.MinB, true)
	if errs.HasErrors() {
		return nil, false, errs
	}
	return types.NewMsgRemoveLiquidity(provider, poolID, shares, minA, minB), all, nil
}

// ValidateSwapRequest converts req into a message for trader.
func ValidateSwapRequest(trader string, poolID uint64, req *SwapRequest) (*types.MsgSwap, error) {
	errs := &ValidationErrors{}
	out := parseField(errs, "amount_out", req.AmountOut, false)
	maxIn := parseField(errs, "max_amount_in", req.MaxAmountIn, false)
	if errs.HasErrors() {
		return nil, errs
	}
	return types.NewMsgSwap(trader, poolID, req.BuyA, out, maxIn), nil
}

func parseField(errs *ValidationErrors, field, raw string, optional bool) math.Int {
	v, err := ParseAmount(raw, optional)
	if err != nil {
		errs.Add(field, err.Error())
	}
	return v
}

// ValidateAndBindJSON validates and binds JSON with size limit
func ValidateAndBindJSON(c *gin.Context, obj interface{}) error {
	if c.Request.ContentLength > MaxRequestSize {
		return fmt.Errorf("request body too large (max %d bytes)", MaxRequestSize)
	}

	if err := c.ShouldBindJSON(obj); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}

// GetAddressFromContext returns the address AuthMiddleware authenticated.
func GetAddressFromContext(c *gin.Context) (string, error) {
	address := c.GetString(contextKeyAddress)
	if address == "" {
		return "", fmt.Errorf("caller not authenticated")
	}
	return address, nil
}
