package launcher

import (
	"context"
	"fmt"

	"weatherstack/internal/models"
	"weatherstack/internal/store"
)

// fakeStarter records every StartDetached call and can be told to fail for
// particular service names.
type fakeStarter struct {
	started []models.ServiceSpec
	failFor map[string]bool
	nextPID int
}

func (f *fakeStarter) StartDetached(spec models.ServiceSpec) (int, error) {
	f.started = append(f.started, spec)
	if f.failFor[spec.Name] {
		return 0, fmt.Errorf("exec: %q: executable file not found", spec.Command[0])
	}
	f.nextPID++
	return 1000 + f.nextPID, nil
}

// fakeManager records the verbs issued against the service manager.
type fakeManager struct {
	verbs     []string // "start weather.service", "enable weather.service", ...
	startErr  error
	enableErr error
	active    bool
	enabled   bool
}

func (f *fakeManager) Name() string { return "fake" }

func (f *fakeManager) Start(unit string) error {
	f.verbs = append(f.verbs, "start "+unit)
	return f.startErr
}

func (f *fakeManager) Stop(unit string) error {
	f.verbs = append(f.verbs, "stop "+unit)
	return nil
}

func (f *fakeManager) Enable(unit string) error {
	f.verbs = append(f.verbs, "enable "+unit)
	return f.enableErr
}

func (f *fakeManager) Disable(unit string) error {
	f.verbs = append(f.verbs, "disable "+unit)
	return nil
}

func (f *fakeManager) IsActive(unit string) bool  { return f.active }
func (f *fakeManager) IsEnabled(unit string) bool { return f.enabled }

func (f *fakeManager) StreamLogs(ctx context.Context, unit string) (<-chan string, error) {
	ch := make(chan string)
	close(ch)
	return ch, nil
}

// fakeHistory captures recorded launches.
type fakeHistory struct {
	launches []store.Launch
}

func (f *fakeHistory) RecordLaunch(ctx context.Context, l store.Launch) error {
	f.launches = append(f.launches, l)
	return nil
}
