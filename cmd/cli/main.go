package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"aryastastic/internal"
	"aryastastic/internal/config"
	"aryastastic/internal/container"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootOptions struct {
	envFile  string
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "aryastastic",
		Short:         "Sample size, power and detectable effect calculators",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "Load environment from this file before reading config")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override LOG_LEVEL (ERROR, WARN, INFO, DEBUG, TRACE)")

	rootCmd.AddCommand(
		newDesignsCmd(opts),
		newCalcCmd(opts),
		newSweepCmd(opts),
		newBatchCmd(opts),
		newServeCmd(opts),
	)
	return rootCmd
}

// build loads config and wires the container. With quiet set the log level
// drops to WARN unless --log-level overrides it.
func (o *rootOptions) build(quiet bool) (*container.Container, error) {
	var files []string
	if o.envFile != "" {
		files = append(files, o.envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return nil, err
	}
	switch {
	case o.logLevel != "":
		cfg.Logging.Level = internal.ParseLogLevel(o.logLevel)
	case quiet:
		cfg.Logging.Level = internal.LogLevelWarn
	}
	return container.New(cfg, internal.NewLogger(cfg.Logging.Level))
}
