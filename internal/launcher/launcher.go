// Package launcher issues fire-and-forget start actions for an ordered list
// of services. It never waits for a service to become ready and never
// supervises what it started: command services are spawned as detached
// processes, unit services are handed to the host service manager.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"weatherstack/internal/logger"
	"weatherstack/internal/models"
	"weatherstack/internal/platform"
	"weatherstack/internal/store"
	"weatherstack/internal/ui"
)

// ProcessStarter launches a command as a detached background process and
// returns its PID. Implementations must not wait for the process.
type ProcessStarter interface {
	StartDetached(spec models.ServiceSpec) (int, error)
}

// History records issued launch actions. Satisfied by *store.Store.
type History interface {
	RecordLaunch(ctx context.Context, l store.Launch) error
}

// Launcher runs the bootstrap sequence.
type Launcher struct {
	console *ui.Console
	procs   ProcessStarter
	units   platform.Manager
	history History
	strict  bool
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithProcessStarter replaces the default detached starter.
func WithProcessStarter(p ProcessStarter) Option {
	return func(l *Launcher) { l.procs = p }
}

// WithHistory records every issuance to h.
func WithHistory(h History) Option {
	return func(l *Launcher) { l.history = h }
}

// WithStrict makes the first failed issuance abort the run. The default
// keeps the best-effort behavior of issuing every remaining service.
func WithStrict(strict bool) Option {
	return func(l *Launcher) { l.strict = strict }
}

// New creates a launcher. units may be nil when the stack has no unit
// services; launching a unit service without a manager fails that one
// issuance only.
func New(console *ui.Console, units platform.Manager, opts ...Option) *Launcher {
	l := &Launcher{
		console: console,
		procs:   DetachedStarter{},
		units:   units,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// RunAll issues one launch action per spec, in order. Failures do not stop
// the sequence unless strict mode is on. The closing "All services started!"
// line is printed regardless of per-step outcomes; callers that need the
// truth inspect the returned report.
func (l *Launcher) RunAll(ctx context.Context, specs []models.ServiceSpec) models.LaunchReport {
	report := models.LaunchReport{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}

	for _, spec := range specs {
		res := l.launch(spec)
		report.Results = append(report.Results, res)
		l.record(ctx, report.ID, spec, res)

		if l.strict && !res.Issued {
			l.console.Errorf("Aborting: %s failed to start", spec.Name)
			return report
		}
	}

	l.console.Plainf("All services started!")
	return report
}

// Start issues a single launch action outside a full bootstrap run, for
// callers like the control API that start one service at a time.
func (l *Launcher) Start(ctx context.Context, spec models.ServiceSpec) models.LaunchResult {
	res := l.launch(spec)
	l.record(ctx, "", spec, res)
	return res
}

// launch issues a single start action and emits the progress notices for it.
func (l *Launcher) launch(spec models.ServiceSpec) models.LaunchResult {
	switch spec.Kind() {
	case models.StrategyUnit:
		l.console.Infof("Starting %s service...", spec.Name)
		if err := l.startUnit(spec.Unit); err != nil {
			l.console.Errorf("%s service failed: %v", spec.Name, err)
			return models.LaunchResult{Name: spec.Name, Err: err}
		}
		l.console.Successf("%s service started and enabled at boot", spec.Name)
		return models.LaunchResult{Name: spec.Name, Issued: true}

	default:
		l.console.Infof("Starting %s...", spec.Display())
		pid, err := l.procs.StartDetached(spec)
		if err != nil {
			l.console.Errorf("%s failed to start: %v", spec.Display(), err)
			return models.LaunchResult{Name: spec.Name, Err: err}
		}
		if spec.Port > 0 {
			l.console.Successf("%s started on port %d", spec.Display(), spec.Port)
		} else {
			l.console.Successf("%s started (PID %d)", spec.Display(), pid)
		}
		return models.LaunchResult{Name: spec.Name, Issued: true, PID: pid}
	}
}

// startUnit issues the manager's start and enable verbs. Both verbs are
// always issued; their errors are joined so a start failure does not hide
// an enable failure.
func (l *Launcher) startUnit(unit string) error {
	if l.units == nil {
		return fmt.Errorf("no service manager available")
	}
	return errors.Join(l.units.Start(unit), l.units.Enable(unit))
}

func (l *Launcher) record(ctx context.Context, reportID string, spec models.ServiceSpec, res models.LaunchResult) {
	if l.history == nil {
		return
	}
	rec := store.Launch{
		ReportID: reportID,
		Name:     spec.Name,
		Strategy: spec.Kind(),
		PID:      res.PID,
		Issued:   res.Issued,
	}
	if res.Err != nil {
		rec.Error = res.Err.Error()
	}
	if err := l.history.RecordLaunch(ctx, rec); err != nil {
		logger.Warn("failed to record launch", "service", spec.Name, "error", err)
	}
}
