package main

import (
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/pairwise/internal/config"
	"github.com/kailas-cloud/pairwise/internal/version"
)

type rootOptions struct {
	env        string
	configPath string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "pairwise",
		Short: "Pairwise comparison survey server",
		Long: `pairwise collects pairwise preference judgments between media samples
and turns each participant's judgments into a ranking.`,
		Version:      version.Version + " (" + version.Commit + ")",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.env, "env", config.GetEnv(), "Environment: local, dev, docker or prod")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file path (overrides --env lookup)")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newScanCommand(opts))
	cmd.AddCommand(newStatsCommand(opts))
	cmd.AddCommand(newExportCommand(opts))
	return cmd
}
