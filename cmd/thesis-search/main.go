// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the thesis-search CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/thesis-search/internal/config"
	"github.com/pdiddy/thesis-search/internal/httputil"
	"github.com/pdiddy/thesis-search/internal/logger"
	"github.com/pdiddy/thesis-search/internal/thesis"
	"github.com/pdiddy/thesis-search/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the thesis-search CLI.
var rootCmd = &cobra.Command{
	Use:   "thesis-search",
	Short: "Semantic search over the university thesis repository",
	Long: `thesis-search queries the thesis search service. It runs one-off searches
and health probes from the command line, or an interactive search screen that
refines results as you type.

The service origin comes from api_base in thesis-search.yaml, from
THESIS_SEARCH_API_BASE (or VITE_API_BASE) in the environment or a .env file,
or from --api-base.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		clientConfig = cfg

		// The TUI owns the terminal and sets up its own logger.
		if cmd == tuiCmd {
			return nil
		}
		log, err := logger.New(cfg.Log.Format, cfg.Log.Level)
		if err != nil {
			return err
		}
		cmd.SetContext(logger.ContextWithLogger(cmd.Context(), log))
		return nil
	},
}

// clientConfig holds the configuration resolved before each command runs.
var clientConfig types.ClientConfig

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./thesis-search.yaml or ~/.config/thesis-search/thesis-search.yaml)")
	flags.String("api-base", "", "search service origin, e.g. https://api.unesumrepo.com")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.String("log-format", "", "log format: console or json")

	_ = viper.BindPFlag(config.KeyAPIBase, flags.Lookup("api-base"))
	_ = viper.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyLogFormat, flags.Lookup("log-format"))
}

func initConfig() {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	config.Setup(viper.GetViper(), cfgFile)

	used, err := config.ReadFile(viper.GetViper())
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning:", err)
		return
	}
	if used != "" {
		fmt.Fprintln(os.Stderr, "Using config file:", used)
	}
}

// newClient builds the service client from the resolved configuration.
func newClient(log *zap.Logger, opts ...httputil.Option) (*thesis.Client, error) {
	opts = append([]httputil.Option{httputil.WithLogger(log)}, opts...)
	return thesis.New(clientConfig, opts...)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
