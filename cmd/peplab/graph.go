package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/peplab/internal/cli"
	"github.com/aretw0/peplab/pkg/domain"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the page hierarchy as a Mermaid diagram",
	Long: `Outputs a Mermaid diagram (graph TD) of home, dashboard, workflow hubs and methods.
With --session, the routes visited by that stored session are highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, _ := cmd.Flags().GetString("session")

		var snap *domain.Snapshot
		if sessionID != "" {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, _, closeStore, err := cli.OpenStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			snap, err = store.Load(cmd.Context(), sessionID)
			if err != nil {
				return fmt.Errorf("error loading session '%s': %w", sessionID, err)
			}
		}
		return cli.WriteGraph(os.Stdout, snap)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("session", "s", "", "Overlay the history of this session")
}
