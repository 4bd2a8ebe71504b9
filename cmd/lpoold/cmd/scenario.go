package cmd

import (
	"fmt"
	"sort"
	"strings"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"github.com/cometbft/cometbft/crypto"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/google/uuid"
	"github.com/spf13/cast"
	"github.com/spf13/viper"

	"github.com/paw-chain/lpool/pkg/engine"
	"github.com/paw-chain/lpool/x/liquidity/types"
)

// Scenario is a scripted sequence of pool operations.
type Scenario struct {
	// Accounts maps an account name to its initial balances, denom -> amount.
	Accounts map[string]map[string]any `mapstructure:"accounts"`
	Pools    []PoolSpec                `mapstructure:"pools"`
	Steps    []Step                    `mapstructure:"steps"`
}

// PoolSpec describes a pool created before the first step. Pools receive ids in order,
// starting at 1.
type PoolSpec struct {
	TokenA  string `mapstructure:"token_a"`
	TokenB  string `mapstructure:"token_b"`
	FeeRate uint32 `mapstructure:"fee_rate"`
}

// Step is one operation. Op-specific arguments land in Args.
type Step struct {
	Op      string         `mapstructure:"op"`
	Account string         `mapstructure:"account"`
	Pool    uint64         `mapstructure:"pool"`
	Args    map[string]any `mapstructure:",remain"`
}

// StepReport records the outcome of one step.
type StepReport struct {
	Index   int    `json:"index"`
	Op      string `json:"op"`
	Account string `json:"account,omitempty"`
	Pool    uint64 `json:"pool,omitempty"`
	Result  any    `json:"result,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Report is the outcome of a scenario run.
type Report struct {
	RunID          string               `json:"run_id"`
	Height         int64                `json:"height"`
	Steps          []StepReport         `json:"steps"`
	Pools          []types.Pool         `json:"pools"`
	Positions      []types.Position     `json:"positions"`
	Balances       map[string]sdk.Coins `json:"balances"`
	InvariantError string               `json:"invariant_error,omitempty"`
}

// LoadScenario reads a scenario file in any format viper understands.
func LoadScenario(path string) (Scenario, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Scenario{}, fmt.Errorf("read scenario %s: %w", path, err)
	}

	var sc Scenario
	if err := v.Unmarshal(&sc); err != nil {
		return Scenario{}, fmt.Errorf("decode scenario %s: %w", path, err)
	}
	return sc, nil
}

// AccountAddress derives the deterministic address of a named scenario account.
func AccountAddress(name string) sdk.AccAddress {
	return sdk.AccAddress(crypto.AddressHash([]byte("lpoold/" + strings.ToLower(name))))
}

type runner struct {
	eng    *engine.Engine
	logger log.Logger
}

// setup funds the accounts and initializes the pools.
func (r runner) setup(sc Scenario) error {
	names := make([]string, 0, len(sc.Accounts))
	for name := range sc.Accounts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		balances, err := coinsArg(sc.Accounts[name])
		if err != nil {
			return fmt.Errorf("account %s: %w", name, err)
		}
		if err := r.eng.Fund(AccountAddress(name), balances); err != nil {
			return fmt.Errorf("fund %s: %w", name, err)
		}
	}

	for i, spec := range sc.Pools {
		resp, err := r.eng.InitializePool(&types.MsgInitializePool{
			Authority: r.eng.Authority(),
			TokenA:    spec.TokenA,
			TokenB:    spec.TokenB,
			FeeRate:   spec.FeeRate,
		})
		if err != nil {
			return fmt.Errorf("pool %d (%s/%s): %w", i+1, spec.TokenA, spec.TokenB, err)
		}
		r.logger.Info("pool ready", "pool_id", resp.PoolId, "token_a", spec.TokenA, "token_b", spec.TokenB)
	}
	return nil
}

// run executes every step. With failFast the first failing step aborts the run.
func (r runner) run(sc Scenario, failFast bool) (Report, error) {
	report := Report{RunID: uuid.NewString(), Balances: map[string]sdk.Coins{}}
	logger := r.logger.With("run_id", report.RunID)

	if err := r.setup(sc); err != nil {
		return report, err
	}

	for i, step := range sc.Steps {
		res, err := r.step(step)
		sr := StepReport{Index: i, Op: step.Op, Account: step.Account, Pool: step.Pool}
		if err != nil {
			sr.Error = err.Error()
			logger.Info("step failed", "index", i, "op", step.Op, "err", err)
		} else {
			sr.Result = res
		}
		report.Steps = append(report.Steps, sr)
		if err != nil && failFast {
			return report, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}
	}

	gs, err := r.eng.ExportGenesis()
	if err != nil {
		return report, err
	}
	report.Pools, report.Positions = gs.Pools, gs.Positions
	report.Height = r.eng.Height()
	for name := range sc.Accounts {
		report.Balances[name] = r.eng.Balances(AccountAddress(name))
	}
	if err := r.eng.CheckInvariants(); err != nil {
		report.InvariantError = err.Error()
	}
	return report, nil
}

func (r runner) step(step Step) (any, error) {
	addr := AccountAddress(step.Account)
	switch step.Op {
	case "add_liquidity":
		desiredA, err := amountArg(step.Args, "desired_a", true)
		if err != nil {
			return nil, err
		}
		desiredB, err := amountArg(step.Args, "desired_b", true)
		if err != nil {
			return nil, err
		}
		minA, err := amountArg(step.Args, "min_a", false)
		if err != nil {
			return nil, err
		}
		minB, err := amountArg(step.Args, "min_b", false)
		if err != nil {
			return nil, err
		}
		resp, err := r.eng.AddLiquidity(types.NewMsgAddLiquidity(addr.String(), step.Pool, desiredA, minA, desiredB, minB))
		if err != nil {
			return nil, err
		}
		return resp.Result, nil

	case "remove_liquidity":
		shares, all, err := sharesArg(step)
		if err != nil {
			return nil, err
		}
		minA, err := amountArg(step.Args, "min_a", false)
		if err != nil {
			return nil, err
		}
		minB, err := amountArg(step.Args, "min_b", false)
		if err != nil {
			return nil, err
		}
		remove := r.eng.RemoveLiquidity
		if all {
			remove = r.eng.RemoveAllLiquidity
		}
		resp, err := remove(types.NewMsgRemoveLiquidity(addr.String(), step.Pool, shares, minA, minB))
		if err != nil {
			return nil, err
		}
		return resp.Result, nil

	case "swap":
		out, err := amountArg(step.Args, "amount_out", true)
		if err != nil {
			return nil, err
		}
		maxIn, err := amountArg(step.Args, "max_in", true)
		if err != nil {
			return nil, err
		}
		buyA, err := cast.ToBoolE(step.Args["buy_a"])
		if err != nil {
			return nil, fmt.Errorf("buy_a: %w", err)
		}
		resp, err := r.eng.Swap(types.NewMsgSwap(addr.String(), step.Pool, buyA, out, maxIn))
		if err != nil {
			return nil, err
		}
		return resp.Result, nil

	case "claim_fees":
		return r.eng.ClaimFees(&types.MsgClaimFees{Provider: addr.String(), PoolId: step.Pool})

	case "distribute_fee":
		amount, err := amountArg(step.Args, "amount", true)
		if err != nil {
			return nil, err
		}
		denom := cast.ToString(step.Args["denom"])
		return nil, r.eng.DistributeFee(addr, step.Pool, denom, amount)

	case "fund":
		amounts, err := coinsArg(cast.ToStringMap(step.Args["amounts"]))
		if err != nil {
			return nil, err
		}
		return nil, r.eng.Fund(addr, amounts)

	default:
		return nil, fmt.Errorf("unknown op %q", step.Op)
	}
}

// sharesArg reads the shares argument; "all" burns the account's whole position.
func sharesArg(step Step) (shares math.Int, all bool, err error) {
	if strings.EqualFold(cast.ToString(step.Args["shares"]), "all") {
		return math.ZeroInt(), true, nil
	}
	shares, err = amountArg(step.Args, "shares", true)
	return shares, false, err
}

// amountArg parses a non-negative integer argument given as a number or a string.
// Optional arguments default to zero.
func amountArg(args map[string]any, key string, required bool) (math.Int, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		if required {
			return math.Int{}, fmt.Errorf("missing argument %s", key)
		}
		return math.ZeroInt(), nil
	}

	s, err := cast.ToStringE(raw)
	if err != nil {
		return math.Int{}, fmt.Errorf("%s: %w", key, err)
	}
	amount, ok := math.NewIntFromString(strings.TrimSpace(s))
	if !ok || amount.IsNegative() {
		return math.Int{}, fmt.Errorf("%s: invalid amount %q", key, s)
	}
	return amount, nil
}

func coinsArg(balances map[string]any) (sdk.Coins, error) {
	coins := sdk.NewCoins()
	for denom := range balances {
		amount, err := amountArg(balances, denom, true)
		if err != nil {
			return nil, err
		}
		if err := sdk.ValidateDenom(denom); err != nil {
			return nil, err
		}
		coins = coins.Add(sdk.NewCoin(denom, amount))
	}
	return coins, nil
}
