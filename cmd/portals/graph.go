package main

import (
	"os"

	"github.com/aretw0/portals/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <graph>",
	Short: "Export the graph visualization",
	Long: `Resolves the graph and outputs a Mermaid diagram (graph LR) with explicit edges,
dashed virtual edges and the diagnostics highlighted on each Receiver.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		eng, _ := newEngine(cmd)
		err := cli.RunResolve(cmd.Context(), eng, os.Stdout, args[0], cli.ResolveOptions{Format: cli.FormatMermaid})
		if err != nil {
			exitWith(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
