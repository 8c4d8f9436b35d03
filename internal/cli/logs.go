package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"weatherstack/internal/launcher"
	"weatherstack/internal/models"
	"weatherstack/internal/platform"
)

var logsCmd = &cobra.Command{
	Use:   "logs <service>",
	Short: "Follow the logs of one service",
	Long: `Follow the logs of one service until interrupted: the log file of
a command service, or the service manager's journal for a unit service.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLogs(args[0])
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
}

func runLogs(name string) error {
	stack, err := loadStack()
	if err != nil {
		return err
	}

	spec, ok := stack.Spec(name)
	if !ok {
		return fmt.Errorf("unknown service: %s", name)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var lines <-chan string
	if spec.Kind() == models.StrategyUnit {
		manager, err := platform.Detect()
		if err != nil {
			return err
		}
		lines, err = manager.StreamLogs(ctx, spec.Unit)
		if err != nil {
			return err
		}
	} else {
		lines, err = launcher.FollowFile(ctx, launcher.ResolveLogPath(spec))
		if err != nil {
			return fmt.Errorf("no log file for %s: %w", name, err)
		}
	}

	for line := range lines {
		fmt.Println(line)
	}
	return nil
}
