package main

import (
	"fmt"

	"github.com/aretw0/portals/internal/cli"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <workflow.json>",
	Short: "Import a LiteGraph workflow into the store",
	Long: `Converts a LiteGraph workflow export into a graph description and saves it.
The loam store is read-only, so imports default to the file store in --dir.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id, _ := cmd.Flags().GetString("id")

		opts := loadOptions(cmd)
		if opts.Store == cli.StoreLoam {
			opts.Store = cli.StoreFile
		}
		store, _, err := cli.OpenStore(opts)
		if err != nil {
			exitWith(err)
		}

		g, err := cli.RunImport(cmd.Context(), store, args[0], id, opts.NewLogger())
		if err != nil {
			exitWith(err)
		}
		fmt.Printf("Imported %s (%d nodes, %d edges)\n", g.ID, len(g.Nodes), len(g.Edges))
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().String("id", "", "Graph ID (defaults to the file name)")
}
