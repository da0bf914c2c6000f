package main

import (
	"os"

	"github.com/aretw0/portals/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Exposes the resolver as a JSON API over HTTP, with graph sessions, server-sent
events, Prometheus metrics on /metrics and the OpenAPI document on /openapi.yaml.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")

		opts := loadOptions(cmd)
		sc := cli.NewSignalContext(cmd.Context())
		defer sc.Cancel()

		if err := cli.RunServe(sc, opts, ":"+port, os.Stdout, opts.NewLogger()); err != nil {
			exitWith(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
