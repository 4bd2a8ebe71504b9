package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"cosmossdk.io/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/paw-chain/lpool/pkg/engine"
	"github.com/paw-chain/lpool/pkg/telemetry"
)

// cliState carries what PersistentPreRunE prepares for the subcommands.
type cliState struct {
	v         *viper.Viper
	cfg       Config
	logger    log.Logger
	metrics   *http.Server
	telemetry *telemetry.Provider
}

// NewRootCmd creates the lpoold root command.
func NewRootCmd() *cobra.Command {
	state := &cliState{v: viper.New(), logger: log.NewNopLogger()}

	rootCmd := &cobra.Command{
		Use:   "lpoold",
		Short: "Constant-product liquidity pool engine",
		Long: `lpoold runs the liquidity module outside a chain: it replays scenario files of
deposits, swaps, withdrawals and fee claims against a committed store and reports the
resulting pool state, or serves the engine over HTTP.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())
			return state.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return state.shutdown()
		},
	}

	addPersistentFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		SimulateCmd(state),
		QuoteCmd(state),
		ServeCmd(state),
		TokenCmd(state),
		VersionCmd(),
	)

	return rootCmd
}

func (s *cliState) init(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd, s.v)
	if err != nil {
		return err
	}
	s.cfg = cfg

	if s.logger, err = newLogger(cfg, cmd.ErrOrStderr()); err != nil {
		return err
	}

	if s.telemetry, err = telemetry.NewProvider(cfg.telemetryConfig()); err != nil {
		return err
	}
	if cfg.MetricsAddr != "" {
		s.metrics = startPrometheusServer(cfg.MetricsAddr, s.logger)
	}
	return nil
}

func (s *cliState) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var errs []error
	if s.metrics != nil {
		errs = append(errs, s.metrics.Shutdown(ctx))
	}
	if s.telemetry != nil {
		errs = append(errs, s.telemetry.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

func (s *cliState) openEngine() (*engine.Engine, error) {
	return engine.New(engine.Config{
		DataDir:   s.cfg.DataDir,
		Authority: s.cfg.Authority,
		Logger:    s.logger,
	})
}
