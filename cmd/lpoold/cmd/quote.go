package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"cosmossdk.io/math"
	"github.com/spf13/cobra"

	"github.com/paw-chain/lpool/x/liquidity/types"
)

const (
	flagPool      = "pool"
	flagBuyA      = "buy-a"
	flagAmountOut = "amount-out"
	flagAmountIn  = "amount-in"
)

// QuoteResult is printed by the quote command.
type QuoteResult struct {
	PoolID    uint64   `json:"pool_id"`
	BuyA      bool     `json:"buy_a"`
	AmountIn  math.Int `json:"amount_in"`
	AmountOut math.Int `json:"amount_out"`
	Fee       math.Int `json:"fee"`
}

// QuoteCmd replays a scenario and quotes a swap against the resulting pool state.
func QuoteCmd(state *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote [scenario-file]",
		Short: "Quote a swap against the pool state a scenario leaves behind",
		Long: `Quote replays the scenario, then prices a swap without executing it. Give
--amount-out for an exact-output quote or --amount-in for an exact-input quote.`,
		Example: `  lpoold quote scenario.yaml --pool 1 --amount-out 1813
  lpoold quote scenario.yaml --pool 1 --buy-a --amount-in 500`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			poolID, _ := cmd.Flags().GetUint64(flagPool)
			buyA, _ := cmd.Flags().GetBool(flagBuyA)
			outStr, _ := cmd.Flags().GetString(flagAmountOut)
			inStr, _ := cmd.Flags().GetString(flagAmountIn)
			if (outStr == "") == (inStr == "") {
				return fmt.Errorf("exactly one of --%s and --%s is required", flagAmountOut, flagAmountIn)
			}

			sc, err := LoadScenario(args[0])
			if err != nil {
				return err
			}
			eng, err := state.openEngine()
			if err != nil {
				return err
			}
			defer eng.Close()

			if _, err := (runner{eng: eng, logger: state.logger}).run(sc, true); err != nil {
				return err
			}

			res := QuoteResult{PoolID: poolID, BuyA: buyA}
			if outStr != "" {
				out, err := amountArg(map[string]any{flagAmountOut: outStr}, flagAmountOut, true)
				if err != nil {
					return err
				}
				quote, err := eng.Queries().QuoteSwap(context.Background(), &types.QueryQuoteSwapRequest{
					PoolId:         poolID,
					BuyA:           buyA,
					ExactAmountOut: out,
				})
				if err != nil {
					return err
				}
				res.AmountIn, res.AmountOut, res.Fee = quote.AmountIn, out, quote.Fee
			} else {
				in, err := amountArg(map[string]any{flagAmountIn: inStr}, flagAmountIn, true)
				if err != nil {
					return err
				}
				out, fee, err := eng.QuoteSwapOutput(poolID, !buyA, in)
				if err != nil {
					return err
				}
				res.AmountIn, res.AmountOut, res.Fee = in, out, fee
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}

	cmd.Flags().Uint64(flagPool, 1, "pool id")
	cmd.Flags().Bool(flagBuyA, false, "buy token A (default buys token B)")
	cmd.Flags().String(flagAmountOut, "", "exact output amount")
	cmd.Flags().String(flagAmountIn, "", "exact input amount")
	return cmd
}
