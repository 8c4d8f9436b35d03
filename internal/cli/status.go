package cli

import (
	"context"

	"github.com/spf13/cobra"

	"weatherstack/internal/launcher"
	"weatherstack/internal/models"
	"weatherstack/internal/store"
	"weatherstack/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the observed state of every service",
	Long: `Show the observed state of every service in the stack: pid-file
liveness for command services, service-manager state for unit services,
and the most recent recorded launch when history is available.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(ctx context.Context) error {
	stack, err := loadStack()
	if err != nil {
		return err
	}

	console := ui.Stdout()
	manager := detectManager(stack, console)

	var history *store.Store
	if history = openHistory(stack); history != nil {
		defer history.Close()
	}

	console.Headerf("Stack status")
	for _, spec := range stack.Specs() {
		svc := launcher.ObserveStatus(spec, manager)
		printStatus(console, svc)

		if history == nil || svc.Status == models.StatusRunning {
			continue
		}
		last, err := history.LastLaunch(ctx, spec.Name)
		if err != nil {
			continue
		}
		if !last.Issued && last.Error != "" {
			console.Warningf("  last launch failed: %s", last.Error)
		}
	}
	return nil
}

func printStatus(console *ui.Console, svc models.Service) {
	switch svc.Status {
	case models.StatusRunning:
		switch {
		case svc.PID > 0 && svc.Port > 0:
			console.Successf("%-12s running (PID %d, port %d)", svc.Name, svc.PID, svc.Port)
		case svc.PID > 0:
			console.Successf("%-12s running (PID %d)", svc.Name, svc.PID)
		case svc.Enabled:
			console.Successf("%-12s running (unit %s, enabled)", svc.Name, svc.Unit)
		default:
			console.Successf("%-12s running (unit %s)", svc.Name, svc.Unit)
		}
	case models.StatusFailed:
		console.Errorf("%-12s dead (stale pid file)", svc.Name)
	case models.StatusStopped:
		console.Plainf("%-12s stopped", svc.Name)
	default:
		console.Plainf("%-12s unknown", svc.Name)
	}
}
