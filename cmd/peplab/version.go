package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/peplab"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of peplab",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("peplab version %s\n", strings.TrimSpace(peplab.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
