package api

import (
	"context"
	"fmt"

	"weatherstack/internal/models"
	"weatherstack/internal/store"
)

// fakeStarter records Start calls and can be told to fail.
type fakeStarter struct {
	calls []models.ServiceSpec
	fail  bool
}

func (f *fakeStarter) Start(ctx context.Context, spec models.ServiceSpec) models.LaunchResult {
	f.calls = append(f.calls, spec)
	if f.fail {
		return models.LaunchResult{Name: spec.Name, Err: fmt.Errorf("executable not found")}
	}
	return models.LaunchResult{Name: spec.Name, Issued: true, PID: 4321}
}

// fakeManager records the verbs issued against the service manager.
type fakeManager struct {
	name    string
	verbs   []string
	active  bool
	enabled bool
	stopErr error
}

func (f *fakeManager) Name() string {
	if f.name == "" {
		return "fake"
	}
	return f.name
}

func (f *fakeManager) Start(unit string) error {
	f.verbs = append(f.verbs, "start "+unit)
	return nil
}

func (f *fakeManager) Stop(unit string) error {
	f.verbs = append(f.verbs, "stop "+unit)
	return f.stopErr
}

func (f *fakeManager) Enable(unit string) error {
	f.verbs = append(f.verbs, "enable "+unit)
	return nil
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

// fakeHistory serves canned launch records.
type fakeHistory struct {
	launches []store.Launch
	queries  []string
	limits   []int
}

func (f *fakeHistory) LaunchesByName(ctx context.Context, name string, limit int) ([]store.Launch, error) {
	f.queries = append(f.queries, name)
	f.limits = append(f.limits, limit)
	var out []store.Launch
	for _, l := range f.launches {
		if l.Name == name && len(out) < limit {
			out = append(out, l)
		}
	}
	return out, nil
}
