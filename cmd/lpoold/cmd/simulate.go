package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

const (
	flagFailFast = "fail-fast"
	flagStrict   = "strict"
)

// SimulateCmd runs a scenario file and prints the report as JSON.
func SimulateCmd(state *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate [scenario-file]",
		Short: "Run a scenario of pool operations and print the resulting state",
		Example: `  lpoold simulate scenario.yaml
  lpoold simulate scenario.yaml --fail-fast --log-level debug`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failFast, _ := cmd.Flags().GetBool(flagFailFast)
			strict, _ := cmd.Flags().GetBool(flagStrict)

			sc, err := LoadScenario(args[0])
			if err != nil {
				return err
			}

			eng, err := state.openEngine()
			if err != nil {
				return err
			}
			defer eng.Close()

			report, runErr := runner{eng: eng, logger: state.logger}.run(sc, failFast)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}

			if runErr != nil {
				return runErr
			}
			if strict && report.InvariantError != "" {
				return fmt.Errorf("invariants broken: %s", report.InvariantError)
			}
			return nil
		},
	}

	cmd.Flags().Bool(flagFailFast, false, "stop at the first failing step")
	cmd.Flags().Bool(flagStrict, true, "exit non-zero when a module invariant is broken after the run")
	return cmd
}
