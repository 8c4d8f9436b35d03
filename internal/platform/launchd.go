package platform

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"os/user"
	"strings"
)

// LaunchdManager implements Manager for macOS launchd. Units are addressed
// by label within the current user's GUI domain.
type LaunchdManager struct {
	uid string
}

// NewLaunchdManager creates a new launchd manager
func NewLaunchdManager() (*LaunchdManager, error) {
	u, err := user.Current()
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return &LaunchdManager{uid: u.Uid}, nil
}

func (m *LaunchdManager) Name() string {
	return "launchd"
}

// serviceTarget returns the gui/<uid>/<label> form launchctl verbs expect.
func (m *LaunchdManager) serviceTarget(label string) string {
	return fmt.Sprintf("gui/%s/%s", m.uid, label)
}

func (m *LaunchdManager) runLaunchctl(args ...string) error {
	cmd := exec.Command("launchctl", args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("launchctl %s failed: %s", args[0], strings.TrimSpace(string(output)))
	}
	return nil
}

func (m *LaunchdManager) Start(unit string) error {
	return m.runLaunchctl("kickstart", m.serviceTarget(unit))
}

func (m *LaunchdManager) Stop(unit string) error {
	return m.runLaunchctl("kill", "SIGTERM", m.serviceTarget(unit))
}

func (m *LaunchdManager) Enable(unit string) error {
	return m.runLaunchctl("enable", m.serviceTarget(unit))
}

func (m *LaunchdManager) Disable(unit string) error {
	return m.runLaunchctl("disable", m.serviceTarget(unit))
}

func (m *LaunchdManager) IsActive(unit string) bool {
	// launchctl list <label> exits non-zero when the label is not loaded;
	// a loaded label with a PID line is running.
	cmd := exec.Command("launchctl", "list", unit)
	output, err := cmd.Output()
	if err != nil {
		return false
	}
	return strings.Contains(string(output), "\"PID\"")
}

func (m *LaunchdManager) IsEnabled(unit string) bool {
	cmd := exec.Command("launchctl", "print-disabled", "gui/"+m.uid)
	output, err := cmd.Output()
	if err != nil {
		return false
	}
	// print-disabled lists labels with an explicit enabled/disabled flag;
	// absent labels default to enabled.
	for _, line := range strings.Split(string(output), "\n") {
		if strings.Contains(line, "\""+unit+"\"") {
			return strings.Contains(line, "false")
		}
	}
	return true
}

func (m *LaunchdManager) StreamLogs(ctx context.Context, unit string) (<-chan string, error) {
	ch := make(chan string, 100)

	predicate := fmt.Sprintf("process == %q", unit)
	cmd := exec.CommandContext(ctx, "log", "stream", "--style", "compact", "--predicate", predicate)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start log stream: %w", err)
	}

	go func() {
		defer close(ch)
		defer cmd.Wait()

		scanner := bufio.NewScanner(stdout)
		for scanner.Scan() {
			select {
			case <-ctx.Done():
				return
			case ch <- scanner.Text():
			}
		}
	}()

	return ch, nil
}
