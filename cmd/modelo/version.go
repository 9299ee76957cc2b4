package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/modelo"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of modelo",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "modelo version %s\n", strings.TrimSpace(modelo.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
