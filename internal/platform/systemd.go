package platform

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// SystemdManager implements Manager for Linux systemd
type SystemdManager struct {
	// user selects the per-user service manager (systemctl --user)
	user bool
}

// NewSystemdManager creates a systemd manager for the system scope.
func NewSystemdManager() *SystemdManager {
	return &SystemdManager{}
}

// NewUserSystemdManager creates a systemd manager for the per-user scope.
func NewUserSystemdManager() *SystemdManager {
	return &SystemdManager{user: true}
}

func (m *SystemdManager) Name() string {
	return "systemd"
}

// unitName ensures the .service suffix systemctl expects.
func unitName(name string) string {
	if strings.Contains(name, ".") {
		return name
	}
	return name + ".service"
}

func (m *SystemdManager) systemctlArgs(args ...string) []string {
	if m.user {
		return append([]string{"--user"}, args...)
	}
	return args
}

func (m *SystemdManager) runSystemctl(action, unit string) error {
	args := m.systemctlArgs(action, unitName(unit))
	cmd := exec.Command("systemctl", args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("systemctl %s failed: %s", action, strings.TrimSpace(string(output)))
	}
	return nil
}

func (m *SystemdManager) Start(unit string) error {
	return m.runSystemctl("start", unit)
}

func (m *SystemdManager) Stop(unit string) error {
	return m.runSystemctl("stop", unit)
}

func (m *SystemdManager) Enable(unit string) error {
	return m.runSystemctl("enable", unit)
}

func (m *SystemdManager) Disable(unit string) error {
	return m.runSystemctl("disable", unit)
}

func (m *SystemdManager) IsActive(unit string) bool {
	args := m.systemctlArgs("is-active", unitName(unit))
	cmd := exec.Command("systemctl", args...)
	output, _ := cmd.Output()
	return strings.TrimSpace(string(output)) == "active"
}

func (m *SystemdManager) IsEnabled(unit string) bool {
	args := m.systemctlArgs("is-enabled", unitName(unit))
	cmd := exec.Command("systemctl", args...)
	output, _ := cmd.Output()
	return strings.TrimSpace(string(output)) == "enabled"
}

func (m *SystemdManager) StreamLogs(ctx context.Context, unit string) (<-chan string, error) {
	ch := make(chan string, 100)

	args := []string{"-f", "-n", "100"} // Follow, last 100 lines
	if m.user {
		args = append(args, "--user-unit", unitName(unit))
	} else {
		args = append(args, "-u", unitName(unit))
	}

	cmd := exec.CommandContext(ctx, "journalctl", args...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start journalctl: %w", err)
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
