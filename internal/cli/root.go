// Package cli defines the weatherstack command tree.
package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"weatherstack/internal/config"
	"weatherstack/internal/logger"
	"weatherstack/internal/platform"
	"weatherstack/internal/store"
	"weatherstack/internal/ui"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "weatherstack",
	Short: "Bootstrap launcher for the weather-analytics stack",
	Long: `weatherstack starts and inspects the long-running services of a
weather-analytics deployment: the notebook server, the dashboard server,
and the pipeline unit managed by the host service manager.

Services are described in a stack file (stack.yaml by default). Starting
is fire-and-forget: each service is issued exactly once, in order, with
its output appended to a per-service log file.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(verbose)
	},
	// Bare invocation starts the stack, matching the bootstrap script
	// this tool replaced.
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUp(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"stack file path (default stack.yaml, or $WEATHERSTACK_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable debug logging")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadStack() (*config.Stack, error) {
	path := configPath
	if path == "" {
		path = config.Path()
	}
	return config.LoadOrDefault(path)
}

// detectManager returns the host service manager when the stack declares
// unit services, nil otherwise. Detection failure is reported but not
// fatal: the affected unit issuances fail on their own.
func detectManager(stack *config.Stack, console *ui.Console) platform.Manager {
	needed := false
	for _, svc := range stack.Services {
		if svc.Unit != "" {
			needed = true
			break
		}
	}
	if !needed {
		return nil
	}

	m, err := platform.Detect()
	if err != nil {
		console.Warningf("Service manager unavailable: %v", err)
		return nil
	}
	return m
}

// openHistory opens the launch-history database under the stack's log
// directory. History is best-effort: on failure the launcher runs without
// it.
func openHistory(stack *config.Stack) *store.Store {
	if err := os.MkdirAll(stack.LogDir, 0o755); err != nil {
		logger.Warn("failed to create log directory", "dir", stack.LogDir, "error", err)
		return nil
	}
	s, err := store.Open(filepath.Join(stack.LogDir, "weatherstack.db"))
	if err != nil {
		logger.Warn("launch history unavailable", "error", err)
		return nil
	}
	return s
}
