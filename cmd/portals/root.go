package main

import (
	"fmt"
	"os"

	"github.com/aretw0/portals"
	"github.com/aretw0/portals/internal/cli"
	"github.com/aretw0/portals/pkg/domain"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "portals",
	Short: "Portals resolves named virtual wiring in node graphs",
	Long: `Portals pairs Receiver nodes with the Sender that declares the same portal name
and reports the virtual edges this produces, without persisting them.

Graphs are read from a Loam repository (the default), a directory of YAML/JSON
graph files, Redis, or directly from a file given as argument. LiteGraph
workflow exports are recognized and imported on the fly.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("dir", ".", "Directory containing the graphs")
	flags.String("store", cli.StoreLoam, "Graph source: loam, file, redis or memory")
	flags.String("redis-url", "redis://localhost:6379/0", "Redis connection URL (only for --store redis)")
	flags.Duration("redis-ttl", 0, "Expiration of graphs saved to Redis (0 keeps them forever)")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.String("log-format", "text", "Log format: text or json")
	flags.StringSlice("placeholder", nil, "Portal names meaning 'nothing selected' (repeatable)")
	flags.String("placeholder-prefix", "", "Treat every portal name with this prefix as a placeholder")
}

// loadOptions reads the persistent flags of cmd.
func loadOptions(cmd *cobra.Command) cli.Options {
	flags := cmd.Flags()
	var opts cli.Options
	opts.Dir, _ = flags.GetString("dir")
	opts.Store, _ = flags.GetString("store")
	opts.RedisURL, _ = flags.GetString("redis-url")
	opts.RedisTTL, _ = flags.GetDuration("redis-ttl")
	opts.LogLevel, _ = flags.GetString("log-level")
	opts.LogFormat, _ = flags.GetString("log-format")
	opts.Placeholders, _ = flags.GetStringSlice("placeholder")
	opts.PlaceholderPrefix, _ = flags.GetString("placeholder-prefix")
	return opts
}

// newEngine builds the engine for the persistent flags of cmd.
func newEngine(cmd *cobra.Command) (*portals.Engine, cli.Options) {
	opts := loadOptions(cmd)
	eng, err := cli.CreateEngine(opts, opts.NewLogger(), domain.LifecycleHooks{}, nil)
	if err != nil {
		exitWith(err)
	}
	return eng, opts
}

func exitWith(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
