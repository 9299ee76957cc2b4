package main

import (
	"fmt"
	"os"

	"github.com/aretw0/modelo/internal/cli"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "modelo",
	Short: "Modelo is a reactive object model with undoable changes",
	Long:  `Modelo declares classes of observable objects in YAML, tracks their hierarchy and records every change so it can be undone.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
}

func runOptions(cmd *cobra.Command) cli.RunOptions {
	level, _ := cmd.Flags().GetString("log-level")
	noColor, _ := cmd.Flags().GetBool("no-color")
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		noColor = true
	}
	return cli.RunOptions{LogLevel: level, NoColor: noColor, Out: cmd.OutOrStdout()}
}
