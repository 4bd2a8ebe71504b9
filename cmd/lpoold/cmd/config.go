package cmd

import (
	"fmt"
	"io"
	"strings"

	"cosmossdk.io/log"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/paw-chain/lpool/pkg/telemetry"
)

const (
	envPrefix = "LPOOL"

	flagConfig       = "config"
	flagLogLevel     = "log-level"
	flagLogFormat    = "log-format"
	flagMetricsAddr  = "metrics-addr"
	flagDataDir      = "data-dir"
	flagAuthority    = "authority"
	flagOTLPEndpoint = "otlp-endpoint"
	flagAPIAddr      = "api-addr"
)

// Config is the lpoold configuration assembled from file, environment and flags, in
// increasing order of precedence.
type Config struct {
	LogLevel    string          `mapstructure:"log_level"`
	LogFormat   string          `mapstructure:"log_format"`
	MetricsAddr string          `mapstructure:"metrics_addr"`
	DataDir     string          `mapstructure:"data_dir"`
	Authority   string          `mapstructure:"authority"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
	API         APIConfig       `mapstructure:"api"`
}

// APIConfig configures the REST gateway started by serve.
type APIConfig struct {
	Addr         string   `mapstructure:"addr"`
	JWTSecret    string   `mapstructure:"jwt_secret"`
	CORSOrigins  []string `mapstructure:"cors_origins"`
	RateLimitRPS int      `mapstructure:"rate_limit_rps"`
}

// TelemetryConfig configures OpenTelemetry trace export.
type TelemetryConfig struct {
	Enabled      bool    `mapstructure:"enabled"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	SampleRate   float64 `mapstructure:"sample_rate"`
	Environment  string  `mapstructure:"environment"`
}

// addPersistentFlags registers the flags every subcommand shares.
func addPersistentFlags(fs *pflag.FlagSet) {
	fs.String(flagConfig, "", "config file (yaml, toml or json)")
	fs.String(flagLogLevel, "info", "log level (trace, debug, info, warn, error)")
	fs.String(flagLogFormat, "plain", "log format (plain or json)")
	fs.String(flagMetricsAddr, "", "serve Prometheus metrics on this address, e.g. :26660")
	fs.String(flagDataDir, "", "persist engine state in this directory (in-memory when empty)")
	fs.String(flagAuthority, "", "bech32 address allowed to initialize pools")
	fs.String(flagOTLPEndpoint, "", "export traces to this OTLP/HTTP endpoint")
	fs.String(flagAPIAddr, "", "REST gateway listen address (default 0.0.0.0:1317)")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "plain")
	v.SetDefault("telemetry.sample_rate", 1.0)
	v.SetDefault("telemetry.environment", "local")
	v.SetDefault("api.addr", "0.0.0.0:1317")
	v.SetDefault("api.jwt_secret", "")
	v.SetDefault("api.cors_origins", []string{"http://localhost:3000"})
	v.SetDefault("api.rate_limit_rps", 100)
}

// loadConfig merges the config file, LPOOL_* environment variables and flags into cfg.
func loadConfig(cmd *cobra.Command, v *viper.Viper) (Config, error) {
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	fs := cmd.Flags()
	for key, flag := range map[string]string{
		"log_level":               flagLogLevel,
		"log_format":              flagLogFormat,
		"metrics_addr":            flagMetricsAddr,
		"data_dir":                flagDataDir,
		"authority":               flagAuthority,
		"telemetry.otlp_endpoint": flagOTLPEndpoint,
		"api.addr":                flagAPIAddr,
	} {
		if f := fs.Lookup(flag); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", flag, err)
			}
		}
	}

	if path, _ := fs.GetString(flagConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Telemetry.OTLPEndpoint != "" {
		cfg.Telemetry.Enabled = true
	}
	return cfg, nil
}

// newLogger builds the process logger from the configured level and format.
func newLogger(cfg Config, out io.Writer) (log.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	opts := []log.Option{log.LevelOption(level)}
	switch cfg.LogFormat {
	case "json":
		opts = append(opts, log.OutputJSONOption())
	case "plain", "":
		opts = append(opts, log.ColorOption(false))
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.LogFormat)
	}
	return log.NewLogger(out, opts...), nil
}

func (c Config) telemetryConfig() telemetry.Config {
	return telemetry.Config{
		Enabled:           c.Telemetry.Enabled,
		OTLPEndpoint:      c.Telemetry.OTLPEndpoint,
		SampleRate:        c.Telemetry.SampleRate,
		Environment:       c.Telemetry.Environment,
		PrometheusEnabled: c.MetricsAddr != "",
		Version:           Version,
	}
}
