// Package main provides the esgscope CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	rootCmd := &cobra.Command{
		Use:   "esgscope",
		Short: "Normalize and score sustainability disclosures",
		Long: `esgscope maps ESG disclosure documents onto a canonical schema, scores
each pillar against configurable caps, and ranks organizations against peers.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogger(logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: nearest .esgscope/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn or error")

	rootCmd.AddCommand(
		newNormalizeCmd(),
		newScoreCmd(&configPath),
		newDiffCmd(&configPath),
		newRankCmd(&configPath),
	)
	return rootCmd
}
