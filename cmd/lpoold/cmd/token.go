package cmd

import (
	"errors"
	"fmt"
	"time"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/spf13/cobra"

	"github.com/paw-chain/lpool/api"
)

const flagTTL = "ttl"

// TokenCmd mints a bearer token for the REST gateway.
func TokenCmd(state *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token [address]",
		Short: "Mint a gateway token that signs requests as address",
		Example: `  LPOOL_API_JWT_SECRET=s3cret lpoold token cosmos1... --ttl 1h`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if state.cfg.API.JWTSecret == "" {
				return errors.New("api.jwt_secret is not configured")
			}
			if _, err := sdk.AccAddressFromBech32(args[0]); err != nil {
				return fmt.Errorf("invalid address %q: %w", args[0], err)
			}
			ttl, _ := cmd.Flags().GetDuration(flagTTL)
			if ttl <= 0 {
				return fmt.Errorf("--%s must be positive", flagTTL)
			}

			token, err := api.NewAuthService([]byte(state.cfg.API.JWTSecret)).GenerateToken(args[0], ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	cmd.Flags().Duration(flagTTL, 24*time.Hour, "token lifetime")
	return cmd
}
