package network

import (
	"math"
	"sync"
	"testing"

	"github.com/neobones/melimep/internal/document"
	"github.com/neobones/melimep/internal/mep"
)

func buildDocument(t *testing.T) (*document.Document, []document.Object) {
	t.Helper()
	doc := document.New()

	pipe1 := mep.NewWaterPipe("cold riser", nil)
	pipe1.DiameterMM = 22
	pipe1.LengthMM = 6000
	pipe1.FlowRateLPM = 24

	pipe2 := mep.NewWaterPipe("basin branch", nil)
	pipe2.DiameterMM = 15
	pipe2.LengthMM = 1500
	pipe2.FlowRateLPM = 6

	wc := mep.NewSanitaryFixture("wc")
	if err := wc.SetProperty("FixtureType", "Toilet Pan"); err != nil {
		t.Fatalf("SetProperty: %v", err)
	}
	if err := wc.OnChanged("FixtureType"); err != nil {
		t.Fatalf("OnChanged: %v", err)
	}
	basin := mep.NewSanitaryFixture("basin") // sink defaults, 1.5 units

	valve := mep.NewValve("stop cock")

	objs := []document.Object{pipe1, pipe2, wc, basin, valve}
	for _, obj := range objs {
		if err := doc.AddObject(obj); err != nil {
			t.Fatalf("AddObject: %v", err)
		}
	}
	return doc, objs
}

func TestNewClassifiesSelection(t *testing.T) {
	_, objs := buildDocument(t)
	n, err := New("ground floor", objs)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(n.Pipes) != 2 || len(n.Fixtures) != 2 || len(n.Valves) != 1 {
		t.Errorf("classification = %d/%d/%d pipes/fixtures/valves, expected 2/2/1",
			len(n.Pipes), len(n.Fixtures), len(n.Valves))
	}
}

func TestNewRejectsEmptySelection(t *testing.T) {
	if _, err := New("empty", nil); err == nil {
		t.Error("expected error for empty selection")
	}
}

func TestRunHydraulics(t *testing.T) {
	doc, objs := buildDocument(t)
	n, err := New("ground floor", objs)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	summary, err := n.RunHydraulics(doc)
	if err != nil {
		t.Fatalf("RunHydraulics: %v", err)
	}

	if summary.PipesCalculated != 2 {
		t.Errorf("PipesCalculated = %d, expected 2", summary.PipesCalculated)
	}
	if summary.TotalFlowLPM != 30 {
		t.Errorf("TotalFlowLPM = %v, expected 30", summary.TotalFlowLPM)
	}
	if summary.TotalPressureLossBar <= 0 {
		t.Errorf("TotalPressureLossBar = %v, expected > 0", summary.TotalPressureLossBar)
	}
	if math.Abs(summary.TotalFixtureUnits-5.5) > 1e-9 {
		t.Errorf("TotalFixtureUnits = %v, expected 5.5 (toilet 4.0 + sink 1.5)", summary.TotalFixtureUnits)
	}
	if summary.ProbableDemandLPM <= 0 {
		t.Errorf("ProbableDemandLPM = %v, expected > 0", summary.ProbableDemandLPM)
	}
}

func TestRunHydraulicsPropagatesDomainError(t *testing.T) {
	doc := document.New()
	pipe := mep.NewWaterPipe("bad pipe", nil)
	pipe.DiameterMM = 15
	pipe.LengthMM = 1000
	pipe.FlowRateLPM = 10
	pipe.RoughnessCoeff = -1 // drives the friction-factor log out of domain
	if err := doc.AddObject(pipe); err != nil {
		t.Fatalf("AddObject: %v", err)
	}

	n, err := New("bad", []document.Object{pipe})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := n.RunHydraulics(doc); err == nil {
		t.Error("expected domain error to propagate")
	}
}

func TestAttachDetach(t *testing.T) {
	doc, objs := buildDocument(t)
	n, err := New("net", objs[:1])
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	valve := objs[4]
	if err := n.Attach(valve); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if len(n.Valves) != 1 {
		t.Fatalf("Valves = %d, expected 1", len(n.Valves))
	}
	if !n.Detach(valve.ID()) {
		t.Error("Detach should report removal")
	}
	if n.Detach(valve.ID()) {
		t.Error("second Detach should report absence")
	}
	_ = doc
}

// Hydraulic runs and property edits may arrive simultaneously from separate
// requests; both must serialize through the document lock. Meaningful under
// the race detector.
func TestRunHydraulicsConcurrentWithEdits(t *testing.T) {
	doc := document.New()
	pipe := mep.NewWaterPipe("riser", nil)
	pipe.DiameterMM = 15
	pipe.LengthMM = 1000
	pipe.FlowRateLPM = 10
	if err := doc.AddObject(pipe); err != nil {
		t.Fatalf("AddObject: %v", err)
	}

	n, err := New("loop", []document.Object{pipe})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			if err := doc.SetProperty(pipe.ID(), "FlowRate", float64(5+i%20)); err != nil {
				t.Errorf("SetProperty: %v", err)
				return
			}
		}
	}()

	for i := 0; i < 100; i++ {
		summary, err := n.RunHydraulics(doc)
		if err != nil {
			t.Fatalf("RunHydraulics: %v", err)
		}
		if summary.TotalFlowLPM < 5 || summary.TotalFlowLPM > 24 {
			t.Fatalf("TotalFlowLPM = %v, outside the edited range", summary.TotalFlowLPM)
		}
	}
	wg.Wait()
}
