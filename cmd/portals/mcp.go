package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/aretw0/portals/internal/cli"
	"github.com/aretw0/portals/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the resolver as an MCP Server.
This allows AI agents to resolve, list and render portals as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		eng, opts := newEngine(cmd)
		logger := opts.NewLogger()

		srv := mcp.NewServer(eng, eng.Loader(), mcp.WithLogger(logger))

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			logger.Info("Starting Portals MCP Server (Stdio)...")
			if err := srv.ServeStdio(); err != nil {
				exitWith(fmt.Errorf("MCP Server execution failed: %w", err))
			}
		case "sse":
			logger.Info("Starting Portals MCP Server (SSE)", "port", port)

			sc := cli.NewSignalContext(cmd.Context())
			defer sc.Cancel()

			if err := srv.ServeSSE(sc, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				exitWith(fmt.Errorf("MCP Server execution failed: %w", err))
			}
			logger.Info("MCP Server stopped gracefully", "signal", sc.Signal())
		default:
			exitWith(fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport))
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
