package main

import (
	"fmt"
	"os"

	"github.com/aretw0/modelo/internal/cli"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a scripted editing session",
	Long:  `Creates a small team of people, edits it and rewinds the history while printing every event.`,
	Run: func(cmd *cobra.Command, args []string) {
		quiet, _ := cmd.Flags().GetBool("quiet")
		if err := cli.RunDemo(cli.DemoOptions{RunOptions: runOptions(cmd), Quiet: quiet}); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().BoolP("quiet", "q", false, "Skip the banner")
	rootCmd.Run = demoCmd.Run
}
