package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"weatherstack/internal/launcher"
	"weatherstack/internal/models"
	"weatherstack/internal/ui"
)

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Stop every service in the stack",
	Long: `Stop every service in the stack file, in reverse launch order.

Command services are terminated through their pid files (SIGTERM, then
SIGKILL after a grace period). Unit services are stopped through the host
service manager; they stay enabled at boot unless disabled separately.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDown()
	},
}

func init() {
	rootCmd.AddCommand(downCmd)
}

func runDown() error {
	stack, err := loadStack()
	if err != nil {
		return err
	}

	console := ui.Stdout()
	manager := detectManager(stack, console)

	specs := stack.Specs()
	var failures int
	for i := len(specs) - 1; i >= 0; i-- {
		spec := specs[i]
		console.Infof("Stopping %s...", spec.Display())

		var err error
		if spec.Kind() == models.StrategyUnit {
			if manager == nil {
				err = fmt.Errorf("no service manager available")
			} else {
				err = manager.Stop(spec.Unit)
			}
		} else {
			err = launcher.StopDetached(spec)
		}

		if err != nil {
			console.Warningf("%s: %v", spec.Name, err)
			failures++
			continue
		}
		console.Successf("%s stopped", spec.Display())
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d services could not be stopped", failures, len(specs))
	}
	return nil
}
