package main

import (
	"os"

	"github.com/aretw0/portals/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [graph...]",
	Short: "Check graphs for consistency",
	Long: `Checks the structure of each graph (every graph of the store when none is given)
and reports its portal diagnostics. With --strict, warnings fail the validation.`,
	Run: func(cmd *cobra.Command, args []string) {
		strict, _ := cmd.Flags().GetBool("strict")

		eng, _ := newEngine(cmd)
		if err := cli.RunValidate(cmd.Context(), eng, os.Stdout, args, strict); err != nil {
			exitWith(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("strict", false, "Treat warning diagnostics as failures")
}
