package main

import (
	"fmt"
	"os"

	"github.com/aretw0/modelo/internal/cli"
	"github.com/spf13/cobra"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Describe the classes of a declaration file",
	Long:  `Compiles a declaration file and prints each class's attributes, a Mermaid diagram (graph TD) of their dependencies, or their attribute types as JSON.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		class, _ := cmd.Flags().GetString("class")
		mermaid, _ := cmd.Flags().GetBool("mermaid")
		jsonOut, _ := cmd.Flags().GetBool("json")

		err := cli.Inspect(cli.InspectOptions{
			RunOptions: runOptions(cmd),
			Path:       args[0],
			Class:      class,
			Mermaid:    mermaid,
			JSON:       jsonOut,
		})
		if err != nil {
			fmt.Printf("Error inspecting declarations: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringP("class", "c", "", "Only describe this class")
	inspectCmd.Flags().BoolP("mermaid", "m", false, "Print a Mermaid dependency graph")
	inspectCmd.Flags().Bool("json", false, "Print the attribute types as JSON")
	inspectCmd.MarkFlagsMutuallyExclusive("mermaid", "json")
}
