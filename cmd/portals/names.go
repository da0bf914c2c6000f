package main

import (
	"os"

	"github.com/aretw0/portals/internal/cli"
	"github.com/spf13/cobra"
)

var namesCmd = &cobra.Command{
	Use:   "names <graph>",
	Short: "List the portal names declared in a graph",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var opts cli.NamesOptions
		opts.Used, _ = cmd.Flags().GetBool("used")
		opts.Choices, _ = cmd.Flags().GetBool("choices")
		opts.JSON, _ = cmd.Flags().GetBool("json")

		eng, _ := newEngine(cmd)
		if err := cli.RunNames(cmd.Context(), eng, os.Stdout, args[0], opts); err != nil {
			exitWith(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(namesCmd)

	namesCmd.Flags().Bool("used", false, "Only list portals that a Receiver requests, with their types")
	namesCmd.Flags().Bool("choices", false, "List the options of a Receiver selector")
	namesCmd.Flags().Bool("json", false, "Print as JSON")
}
