package launcher

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"weatherstack/internal/logger"
	"weatherstack/internal/models"
)

// DetachedStarter spawns commands in their own process group with combined
// output appended to the spec's log file, so the service keeps running and
// logging after the launcher exits.
type DetachedStarter struct{}

// StartDetached implements ProcessStarter.
func (DetachedStarter) StartDetached(spec models.ServiceSpec) (int, error) {
	if len(spec.Command) == 0 {
		return 0, fmt.Errorf("service %s has no command", spec.Name)
	}

	path := spec.Command[0]
	if strings.ContainsRune(path, os.PathSeparator) && !filepath.IsAbs(path) {
		// Relative executable paths resolve against the spec's workdir,
		// never against the launcher's own working directory.
		path = filepath.Join(spec.WorkDir, path)
	}

	cmd := exec.Command(path, spec.Command[1:]...)
	cmd.Dir = spec.WorkDir
	// New process group so the service survives the launcher's session.
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	logPath := ResolveLogPath(spec)
	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
			return 0, fmt.Errorf("failed to create log directory: %w", err)
		}
		// Append, never truncate: repeated runs must not lose earlier logs.
		logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return 0, fmt.Errorf("failed to open log file: %w", err)
		}
		defer logFile.Close()
		cmd.Stdout = logFile
		cmd.Stderr = logFile
	}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start %s: %w", spec.Name, err)
	}
	pid := cmd.Process.Pid

	if pidPath := PIDFilePath(spec); pidPath != "" {
		if err := writePIDFile(pidPath, pid); err != nil {
			logger.Warn("failed to write pid file", "service", spec.Name, "error", err)
		}
	}

	// The launcher keeps no handle to the child.
	cmd.Process.Release()
	return pid, nil
}

// ResolveLogPath returns the spec's log file path resolved against its
// workdir, or "" when the spec has no log file.
func ResolveLogPath(spec models.ServiceSpec) string {
	if spec.LogFile == "" {
		return ""
	}
	if filepath.IsAbs(spec.LogFile) {
		return spec.LogFile
	}
	return filepath.Join(spec.WorkDir, spec.LogFile)
}

// PIDFilePath returns the pid file written next to the spec's log file, or
// "" for unit specs and specs without a log file.
func PIDFilePath(spec models.ServiceSpec) string {
	logPath := ResolveLogPath(spec)
	if logPath == "" || spec.Kind() != models.StrategyProcess {
		return ""
	}
	return filepath.Join(filepath.Dir(logPath), spec.Name+".pid")
}

func writePIDFile(path string, pid int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(pid)), 0o644)
}

// ReadPIDFile reads the PID recorded for a previously launched service.
func ReadPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid pid file %s: %w", path, err)
	}
	return pid, nil
}

// PIDAlive reports whether a process with the given PID exists. EPERM means
// the process exists but belongs to another user.
func PIDAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := syscall.Kill(pid, syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}

// StopDetached terminates a previously launched process service using its
// pid file: SIGTERM first, SIGKILL if it has not exited after five seconds.
// The pid file is removed once the process is gone.
func StopDetached(spec models.ServiceSpec) error {
	pidPath := PIDFilePath(spec)
	if pidPath == "" {
		return fmt.Errorf("service %s has no pid file", spec.Name)
	}

	pid, err := ReadPIDFile(pidPath)
	if err != nil {
		return fmt.Errorf("no pid file for %s: %w", spec.Name, err)
	}

	if !PIDAlive(pid) {
		os.Remove(pidPath)
		return fmt.Errorf("%s is not running (PID %d)", spec.Name, pid)
	}

	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("process not found: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to signal %s: %w", spec.Name, err)
	}

	for i := 0; i < 50; i++ {
		if !PIDAlive(pid) {
			os.Remove(pidPath)
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}

	proc.Signal(syscall.SIGKILL)
	os.Remove(pidPath)
	return nil
}
