package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/portals"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of portals",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("portals version %s\n", strings.TrimSpace(portals.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
