package launcher

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"weatherstack/internal/models"
	"weatherstack/internal/ui"
)

func processSpec(name string) models.ServiceSpec {
	return models.ServiceSpec{
		Name:    name,
		Command: []string{"/bin/" + name},
	}
}

// assertOrderedSubstrings checks that each wanted substring appears in the
// transcript after the previous one.
func assertOrderedSubstrings(t *testing.T, transcript string, wants []string) {
	t.Helper()
	rest := transcript
	for _, want := range wants {
		idx := strings.Index(rest, want)
		if idx < 0 {
			t.Fatalf("transcript missing %q in order.\nremaining: %q\nfull: %q", want, rest, transcript)
		}
		rest = rest[idx+len(want):]
	}
}

func TestRunAll_IssuesEachSpecOnceInOrder(t *testing.T) {
	starter := &fakeStarter{}
	var out bytes.Buffer
	l := New(ui.New(&out), nil, WithProcessStarter(starter))

	specs := []models.ServiceSpec{processSpec("a"), processSpec("b"), processSpec("c")}
	report := l.RunAll(context.Background(), specs)

	if len(starter.started) != 3 {
		t.Fatalf("expected 3 launch actions, got %d", len(starter.started))
	}
	for i, spec := range specs {
		if starter.started[i].Name != spec.Name {
			t.Fatalf("expected launch %d to be %q, got %q", i, spec.Name, starter.started[i].Name)
		}
		if report.Results[i].Name != spec.Name {
			t.Fatalf("expected result %d to be %q, got %q", i, spec.Name, report.Results[i].Name)
		}
	}
	if !report.AllIssued() {
		t.Fatal("expected all issuances to succeed")
	}
}

func TestRunAll_ContinuesAfterFailure(t *testing.T) {
	starter := &fakeStarter{failFor: map[string]bool{"broken": true}}
	var out bytes.Buffer
	l := New(ui.New(&out), nil, WithProcessStarter(starter))

	specs := []models.ServiceSpec{processSpec("ok1"), processSpec("broken"), processSpec("ok2")}
	report := l.RunAll(context.Background(), specs)

	if len(starter.started) != 3 {
		t.Fatalf("expected all 3 launch attempts, got %d", len(starter.started))
	}
	if report.AllIssued() {
		t.Fatal("expected report to record the failure")
	}
	failed := report.Failed()
	if len(failed) != 1 || failed[0].Name != "broken" {
		t.Fatalf("expected one failure for broken, got %+v", failed)
	}
	// The closing line still prints despite the failure.
	if !strings.Contains(out.String(), "All services started!") {
		t.Fatalf("expected unconditional closing line, got %q", out.String())
	}
}

func TestRunAll_StrictAbortsAtFirstFailure(t *testing.T) {
	starter := &fakeStarter{failFor: map[string]bool{"broken": true}}
	var out bytes.Buffer
	l := New(ui.New(&out), nil, WithProcessStarter(starter), WithStrict(true))

	specs := []models.ServiceSpec{processSpec("ok1"), processSpec("broken"), processSpec("ok2")}
	report := l.RunAll(context.Background(), specs)

	if len(starter.started) != 2 {
		t.Fatalf("expected abort after second spec, got %d attempts", len(starter.started))
	}
	if len(report.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(report.Results))
	}
	if strings.Contains(out.String(), "All services started!") {
		t.Fatal("strict abort must not print the closing line")
	}
}

func TestRunAll_UnitStrategyIssuesStartThenEnable(t *testing.T) {
	starter := &fakeStarter{}
	units := &fakeManager{}
	var out bytes.Buffer
	l := New(ui.New(&out), units, WithProcessStarter(starter))

	specs := []models.ServiceSpec{{Name: "pipeline", Unit: "weather-pipeline.service"}}
	report := l.RunAll(context.Background(), specs)

	want := []string{"start weather-pipeline.service", "enable weather-pipeline.service"}
	if len(units.verbs) != len(want) {
		t.Fatalf("expected verbs %v, got %v", want, units.verbs)
	}
	for i := range want {
		if units.verbs[i] != want[i] {
			t.Fatalf("expected verb %d to be %q, got %q", i, want[i], units.verbs[i])
		}
	}
	if len(starter.started) != 0 {
		t.Fatalf("unit spec must not spawn a raw process, got %d spawns", len(starter.started))
	}
	if !report.AllIssued() {
		t.Fatal("expected unit issuance to succeed")
	}
}

func TestRunAll_UnitStartFailureStillIssuesEnable(t *testing.T) {
	units := &fakeManager{startErr: context.DeadlineExceeded}
	var out bytes.Buffer
	l := New(ui.New(&out), units)

	report := l.RunAll(context.Background(), []models.ServiceSpec{{Name: "pipeline", Unit: "weather.service"}})

	if len(units.verbs) != 2 {
		t.Fatalf("expected both verbs issued, got %v", units.verbs)
	}
	if report.AllIssued() {
		t.Fatal("expected unit failure in report")
	}
}

func TestRunAll_UnitEnableFailureReported(t *testing.T) {
	units := &fakeManager{enableErr: context.Canceled}
	var out bytes.Buffer
	l := New(ui.New(&out), units)

	report := l.RunAll(context.Background(), []models.ServiceSpec{{Name: "pipeline", Unit: "weather.service"}})

	if report.AllIssued() {
		t.Fatal("expected enable failure in report")
	}
	if len(units.verbs) != 2 {
		t.Fatalf("expected start and enable issued, got %v", units.verbs)
	}
}

func TestRunAll_UnitWithoutManagerFails(t *testing.T) {
	var out bytes.Buffer
	l := New(ui.New(&out), nil)

	report := l.RunAll(context.Background(), []models.ServiceSpec{{Name: "pipeline", Unit: "weather.service"}})

	if report.AllIssued() {
		t.Fatal("expected failure without a service manager")
	}
}

func TestRunAll_Transcript(t *testing.T) {
	starter := &fakeStarter{}
	units := &fakeManager{}
	var out bytes.Buffer
	l := New(ui.New(&out), units, WithProcessStarter(starter))

	specs := []models.ServiceSpec{
		{Name: "notebook", DisplayName: "Jupyter", Command: []string{"jupyter", "notebook", "--port=8888"}, Port: 8888},
		{Name: "dashboard", DisplayName: "Streamlit", Command: []string{"streamlit", "run", "app.py"}, Port: 8501},
		{Name: "pipeline", Unit: "weather-pipeline.service"},
	}
	l.RunAll(context.Background(), specs)

	assertOrderedSubstrings(t, out.String(), []string{
		"Starting",
		"Jupyter started on port 8888",
		"Starting",
		"Streamlit started on port 8501",
		"Starting pipeline service...",
		"All services started!",
	})
}

func TestRunAll_RecordsHistory(t *testing.T) {
	starter := &fakeStarter{failFor: map[string]bool{"broken": true}}
	history := &fakeHistory{}
	var out bytes.Buffer
	l := New(ui.New(&out), nil, WithProcessStarter(starter), WithHistory(history))

	specs := []models.ServiceSpec{processSpec("ok"), processSpec("broken")}
	report := l.RunAll(context.Background(), specs)

	if len(history.launches) != 2 {
		t.Fatalf("expected 2 history records, got %d", len(history.launches))
	}
	for _, rec := range history.launches {
		if rec.ReportID != report.ID {
			t.Fatalf("expected report id %q, got %q", report.ID, rec.ReportID)
		}
		if rec.Strategy != models.StrategyProcess {
			t.Fatalf("expected process strategy, got %q", rec.Strategy)
		}
	}
	if history.launches[0].Error != "" || !history.launches[0].Issued {
		t.Fatalf("expected clean record for ok, got %+v", history.launches[0])
	}
	if history.launches[1].Error == "" || history.launches[1].Issued {
		t.Fatalf("expected failure record for broken, got %+v", history.launches[1])
	}
}
