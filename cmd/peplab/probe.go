package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/peplab/internal/cli"
	"github.com/aretw0/peplab/internal/presentation/tui"
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check that the backend answers GET /health",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if url, _ := cmd.Flags().GetString("url"); url != "" {
			cfg.Backend.URL = url
		}
		plain, _ := cmd.Flags().GetBool("plain")

		report := cli.Probe(cmd.Context(), cfg)
		fmt.Println(report.Render(plain || !tui.IsTerminal(os.Stdout)))
		if !report.Up {
			return errors.New("backend is not reachable")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().String("url", "", "Backend base URL (overrides backend.url)")
	probeCmd.Flags().Bool("plain", false, "Disable colours")
}
