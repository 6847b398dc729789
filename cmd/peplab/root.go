package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/peplab/internal/cli"
	"github.com/aretw0/peplab/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "peplab",
	Short: "peplab is the navigation core of the peptide design front end",
	Long: `peplab tracks where each user is in the peptide design workflow
(initialization, home, dashboard, design, analysis, modeling, optimization),
gates navigation on the backend being reachable, and serves the result over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to peplab.yaml (default: $"+config.PathEnv+" or ./peplab.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging on stderr")
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg config.Config) *slog.Logger {
	debug, _ := cmd.Flags().GetBool("debug")
	return cli.NewLogger(debug, cfg.Log.Level)
}
