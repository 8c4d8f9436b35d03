package models

import "time"

// Strategy selects how a service is launched.
type Strategy string

const (
	// StrategyProcess spawns the command as a detached background process.
	StrategyProcess Strategy = "process"
	// StrategyUnit delegates to the host service manager (systemd, launchd).
	StrategyUnit Strategy = "unit"
)

// ServiceSpec describes one external service the launcher starts. A spec is
// immutable once built from configuration. Exactly one of Command or Unit is
// set: Command specs are spawned directly, Unit specs go through the service
// manager's start and enable verbs.
type ServiceSpec struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"displayName,omitempty"`
	WorkDir     string   `json:"workDir,omitempty"`
	Command     []string `json:"command,omitempty"`
	Unit        string   `json:"unit,omitempty"`
	LogFile     string   `json:"logFile,omitempty"`
	Port        int      `json:"port,omitempty"` // advisory only, never verified
}

// Kind reports which launch strategy applies to the spec.
func (s ServiceSpec) Kind() Strategy {
	if s.Unit != "" {
		return StrategyUnit
	}
	return StrategyProcess
}

// Display returns the human-readable name used in console notices.
func (s ServiceSpec) Display() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.Name
}

// LaunchResult records the outcome of one launch issuance. Issued means the
// start action was handed to the OS or service manager; it says nothing about
// whether the service came up healthy.
type LaunchResult struct {
	Name   string `json:"name"`
	Issued bool   `json:"issued"`
	PID    int    `json:"pid,omitempty"`
	Err    error  `json:"-"`
}

// LaunchReport is the ordered record of a single launcher run.
type LaunchReport struct {
	ID        string         `json:"id"`
	StartedAt time.Time      `json:"startedAt"`
	Results   []LaunchResult `json:"results"`
}

// AllIssued reports whether every launch action was issued successfully.
func (r LaunchReport) AllIssued() bool {
	for _, res := range r.Results {
		if !res.Issued {
			return false
		}
	}
	return true
}

// Failed returns the results whose issuance failed, in launch order.
func (r LaunchReport) Failed() []LaunchResult {
	var failed []LaunchResult
	for _, res := range r.Results {
		if !res.Issued {
			failed = append(failed, res)
		}
	}
	return failed
}

// Service represents the observed runtime state of a configured service.
type Service struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Status      string `json:"status"` // running, stopped, failed, unknown
	Enabled     bool   `json:"enabled"`
	PID         int    `json:"pid,omitempty"`
	Port        int    `json:"port,omitempty"`
	Unit        string `json:"unit,omitempty"`
}

// Status constants
const (
	StatusRunning = "running"
	StatusStopped = "stopped"
	StatusFailed  = "failed"
	StatusUnknown = "unknown"
)
