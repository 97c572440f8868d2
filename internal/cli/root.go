// Package cli is the CLI front door: a thin cobra command tree over
// the engine, persistence, and driver packages. Interactive
// CLI/REPL front-ends are out of scope as core logic; this package
// exists to demonstrate the wiring a real front-end would sit behind.
// Grounded on cmd/cli/cmd/root.go's persistent-flag + subcommand shape.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/prxssh/mediactl/internal/config"
	"github.com/prxssh/mediactl/internal/engine"
	"github.com/prxssh/mediactl/internal/logging"
	"github.com/prxssh/mediactl/internal/persist"
)

var (
	configFile string
	verbose    bool
	logger     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mediactl",
	Short: "Converge a media player's playlist against a weighted selection network",
	Long: `mediactl maintains a weighted tree of media buckets and joints and
drives an external media player's playlist to match the sequence the
tree's ordering disciplines select, one primitive command at a time.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Init(configFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		level := cfg.LogLevel
		if verbose {
			level = slog.LevelDebug
		}

		var handler slog.Handler
		if cfg.LogFormat == "json" {
			handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
		} else {
			opts := logging.DefaultOptions()
			opts.SlogOpts.Level = level
			handler = logging.NewPrettyHandler(os.Stderr, &opts)
		}

		logger = slog.New(handler)
		slog.SetDefault(logger)
		return nil
	},
}

// Execute runs the CLI, exiting the process with status 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to a config file (overlays defaults; optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(networkCmd)
	rootCmd.AddCommand(runCmd)
}

// loadNetwork opens cfg.NetworkFile in cfg.PersistFormat and replays it
// into a fresh engine.Network.
func loadNetwork(cfg *config.Config) (*engine.Network[string, string], error) {
	f, err := os.Open(cfg.NetworkFile)
	if err != nil {
		if os.IsNotExist(err) {
			return engine.NewNetwork[string, string](), nil
		}
		return nil, fmt.Errorf("open network file: %w", err)
	}
	defer f.Close()

	var cmds []engine.ModifyCmd[persist.Item, persist.Filter]
	switch cfg.PersistFormat {
	case "json":
		cmds, err = persist.ReadJSONLog(f)
	default:
		cmds, err = persist.ReadTextLog(f)
	}
	if err != nil {
		return nil, fmt.Errorf("read network file: %w", err)
	}

	return engine.FromCommands[string, string](cmds)
}

// saveNetwork serializes n into cfg.NetworkFile in cfg.PersistFormat.
func saveNetwork(cfg *config.Config, n *engine.Network[string, string]) error {
	f, err := os.Create(cfg.NetworkFile)
	if err != nil {
		return fmt.Errorf("create network file: %w", err)
	}
	defer f.Close()

	cmds := n.SerializeCollect()
	switch cfg.PersistFormat {
	case "json":
		return persist.WriteJSONLog(f, cmds)
	default:
		return persist.WriteTextLog(f, cmds)
	}
}
