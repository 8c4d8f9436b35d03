package platform

import (
	"context"
	"fmt"
	"os"
	"runtime"
)

// Manager is the interface to the host's service manager, used for services
// launched as managed units rather than raw processes.
type Manager interface {
	// Name returns the manager name (e.g., "systemd", "launchd")
	Name() string

	// Start starts a unit
	Start(unit string) error

	// Stop stops a unit
	Stop(unit string) error

	// Enable marks a unit to start at boot
	Enable(unit string) error

	// Disable unmarks a unit from starting at boot
	Disable(unit string) error

	// IsActive reports whether a unit is currently running
	IsActive(unit string) bool

	// IsEnabled reports whether a unit is marked to start at boot
	IsEnabled(unit string) bool

	// StreamLogs returns a channel that streams log lines for a unit
	StreamLogs(ctx context.Context, unit string) (<-chan string, error)
}

// Detect detects the current platform and returns the appropriate Manager
func Detect() (Manager, error) {
	switch runtime.GOOS {
	case "darwin":
		return NewLaunchdManager()
	case "linux":
		// Check if systemd is available
		if _, err := os.Stat("/run/systemd/system"); err == nil {
			return NewSystemdManager(), nil
		}
		return nil, fmt.Errorf("systemd not detected on this Linux system")
	default:
		return nil, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}
