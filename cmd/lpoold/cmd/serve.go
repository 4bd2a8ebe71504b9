package cmd

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/paw-chain/lpool/api"
)

const flagSeed = "seed"

// ServeCmd runs the REST gateway over a long-lived engine.
func ServeCmd(state *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the liquidity engine over HTTP",
		Long: `Serve opens the engine (persistent with --data-dir) and exposes pool queries and
operations under /api plus health probes under /health. Writes need a bearer token
minted by "lpoold token" with the same api.jwt_secret.`,
		Example: `  LPOOL_API_JWT_SECRET=s3cret lpoold serve --data-dir ./data
  lpoold serve --seed scenario.yaml --api-addr 127.0.0.1:8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			host, port, err := net.SplitHostPort(state.cfg.API.Addr)
			if err != nil {
				return fmt.Errorf("invalid api address %q: %w", state.cfg.API.Addr, err)
			}

			eng, err := state.openEngine()
			if err != nil {
				return err
			}
			defer eng.Close()

			if seed, _ := cmd.Flags().GetString(flagSeed); seed != "" {
				sc, err := LoadScenario(seed)
				if err != nil {
					return err
				}
				if _, err := (runner{eng: eng, logger: state.logger}).run(sc, true); err != nil {
					return fmt.Errorf("seed %s: %w", seed, err)
				}
			}

			cfg := api.DefaultConfig()
			cfg.Host, cfg.Port = host, port
			cfg.JWTSecret = []byte(state.cfg.API.JWTSecret)
			cfg.CORSOrigins = state.cfg.API.CORSOrigins
			cfg.RateLimitRPS = state.cfg.API.RateLimitRPS
			cfg.Version = Version

			server, err := api.NewServer(eng, cfg, state.logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Start(ctx)
		},
	}

	cmd.Flags().String(flagSeed, "", "replay this scenario file before serving")
	return cmd
}
