package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/peplab/internal/cli"
	"github.com/aretw0/peplab/internal/presentation/tui"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List every page route with its title and method",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		plain, _ := cmd.Flags().GetBool("plain")
		return cli.WriteRoutes(os.Stdout, format, plain || !tui.IsTerminal(os.Stdout))
	},
}

func init() {
	rootCmd.AddCommand(routesCmd)
	routesCmd.Flags().StringP("format", "f", "md", "Output format: md or yaml")
	routesCmd.Flags().Bool("plain", false, "Print raw markdown instead of rendering it")
}
