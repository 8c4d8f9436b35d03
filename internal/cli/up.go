package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"weatherstack/internal/launcher"
	"weatherstack/internal/ui"
)

var strict bool

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Start every service in the stack",
	Long: `Start every service in the stack file, in order.

Command services are spawned as detached background processes with their
combined output appended to per-service log files; unit services are
started and enabled through the host service manager. No service is
waited on, and a failed start does not stop the remaining services from
being issued (use --strict to abort at the first failure).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUp(cmd)
	},
}

func init() {
	upCmd.Flags().BoolVar(&strict, "strict", false,
		"abort at the first service that fails to start")
	rootCmd.AddCommand(upCmd)
}

func runUp(cmd *cobra.Command) error {
	stack, err := loadStack()
	if err != nil {
		return err
	}

	console := ui.Stdout()
	manager := detectManager(stack, console)

	opts := []launcher.Option{launcher.WithStrict(strict)}
	if history := openHistory(stack); history != nil {
		defer history.Close()
		opts = append(opts, launcher.WithHistory(history))
	}

	l := launcher.New(console, manager, opts...)
	report := l.RunAll(cmd.Context(), stack.Specs())

	if failed := report.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d services failed to start", len(failed), len(report.Results))
	}
	return nil
}
