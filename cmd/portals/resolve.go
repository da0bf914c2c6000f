package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/portals/internal/cli"
	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <graph>",
	Short: "Resolve the portals of a graph",
	Long: `Pairs every Receiver with its Sender and prints the virtual edges and diagnostics.

<graph> is a graph ID in the selected store, or a path to a graph file or LiteGraph workflow.
With --translate, portal hops are flattened into direct edges ready for execution.
With --watch, the graph is re-resolved whenever the repository changes.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")
		translate, _ := cmd.Flags().GetBool("translate")
		strict, _ := cmd.Flags().GetBool("strict")
		watchMode, _ := cmd.Flags().GetBool("watch")

		if watchMode && translate {
			exitWith(fmt.Errorf("--watch and --translate cannot be used together"))
		}

		eng, _ := newEngine(cmd)

		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()

		if watchMode {
			if err := cli.RunWatch(sc, eng, os.Stdout, args[0], format); err != nil {
				exitWith(err)
			}
			return
		}

		err := cli.RunResolve(sc, eng, os.Stdout, args[0], cli.ResolveOptions{
			Format:    format,
			Translate: translate,
			Strict:    strict,
		})
		if err != nil {
			exitWith(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringP("format", "f", cli.FormatText, "Output format: "+strings.Join(cli.Formats, ", "))
	resolveCmd.Flags().Bool("translate", false, "Print the flattened edge list instead of the plan")
	resolveCmd.Flags().Bool("strict", false, "Exit with an error when a warning diagnostic is reported")
	resolveCmd.Flags().BoolP("watch", "w", false, "Re-resolve on every change (loam store only)")
}
