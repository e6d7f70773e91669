package document

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/neobones/melimep/internal/mep"
)

func TestDocumentAddAndEdit(t *testing.T) {
	doc := New()
	pipe := mep.NewWaterPipe("branch-1", nil)
	if err := doc.AddObject(pipe); err != nil {
		t.Fatalf("AddObject: %v", err)
	}
	if err := doc.AddObject(pipe); err == nil {
		t.Error("expected duplicate-ID error")
	}

	for prop, value := range map[string]any{
		"Diameter": 15.0,
		"Length":   1000.0,
		"FlowRate": 10.0,
	} {
		if err := doc.SetProperty(pipe.ID(), prop, value); err != nil {
			t.Fatalf("SetProperty(%s): %v", prop, err)
		}
	}

	// The edit dispatched the recompute hook synchronously.
	if pipe.VelocityMS <= 0 {
		t.Errorf("VelocityMS = %v, expected recompute to have fired", pipe.VelocityMS)
	}
}

func TestDocumentTransactionAbort(t *testing.T) {
	doc := New()
	pipe := mep.NewWaterPipe("main", nil)
	pipe.DiameterMM = 22
	pipe.LengthMM = 4000
	pipe.FlowRateLPM = 25
	if err := pipe.Recompute(); err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	if err := doc.AddObject(pipe); err != nil {
		t.Fatalf("AddObject: %v", err)
	}
	lossBefore := pipe.PressureLossBar

	if err := doc.OpenTransaction("resize pipe"); err != nil {
		t.Fatalf("OpenTransaction: %v", err)
	}
	if err := doc.SetProperty(pipe.ID(), "Diameter", 12.0); err != nil {
		t.Fatalf("SetProperty: %v", err)
	}
	if pipe.PressureLossBar == lossBefore {
		t.Fatal("edit inside transaction should have recomputed")
	}

	added := mep.NewValve("txn valve")
	if err := doc.AddObject(added); err != nil {
		t.Fatalf("AddObject: %v", err)
	}

	if err := doc.AbortTransaction(); err != nil {
		t.Fatalf("AbortTransaction: %v", err)
	}

	if pipe.DiameterMM != 22 {
		t.Errorf("DiameterMM = %v, expected abort to restore 22", pipe.DiameterMM)
	}
	if pipe.PressureLossBar != lossBefore {
		t.Errorf("PressureLossBar = %v, expected abort to restore %v", pipe.PressureLossBar, lossBefore)
	}
	if _, ok := doc.Object(added.ID()); ok {
		t.Error("object added during aborted transaction should be removed")
	}
}

func TestDocumentTransactionCommit(t *testing.T) {
	doc := New()
	valve := mep.NewValve("stop-1")
	if err := doc.AddObject(valve); err != nil {
		t.Fatalf("AddObject: %v", err)
	}

	if err := doc.OpenTransaction("edit valve"); err != nil {
		t.Fatalf("OpenTransaction: %v", err)
	}
	if err := doc.OpenTransaction("nested"); err == nil {
		t.Error("expected error opening second transaction")
	}
	if err := doc.SetProperty(valve.ID(), "FlowCoefficient", 2.5); err != nil {
		t.Fatalf("SetProperty: %v", err)
	}
	if err := doc.CommitTransaction(); err != nil {
		t.Fatalf("CommitTransaction: %v", err)
	}
	if valve.FlowCoefficientKv != 2.5 {
		t.Errorf("FlowCoefficientKv = %v, expected committed edit to persist", valve.FlowCoefficientKv)
	}
}

func TestDocumentSnapshotRoundTrip(t *testing.T) {
	doc := New()
	pipe := mep.NewWaterPipe("riser", nil)
	pipe.DiameterMM = 28
	pipe.LengthMM = 9000
	pipe.FlowRateLPM = 40
	if err := pipe.Recompute(); err != nil {
		t.Fatalf("Recompute: %v", err)
	}
	fixture := mep.NewSanitaryFixture("basin-2")
	valve := mep.NewValve("isolator")
	for _, obj := range []Object{pipe, fixture, valve} {
		if err := doc.AddObject(obj); err != nil {
			t.Fatalf("AddObject: %v", err)
		}
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		t.Fatalf("Save: %v", err)
	}

	restored, err := Load(&buf, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if restored.Len() != 3 {
		t.Fatalf("Len = %d, expected 3", restored.Len())
	}

	obj, ok := restored.Object(pipe.ID())
	if !ok {
		t.Fatal("pipe missing after round trip")
	}
	got, ok := obj.(*mep.WaterPipe)
	if !ok {
		t.Fatalf("restored object has type %T", obj)
	}
	if got.PressureLossBar != pipe.PressureLossBar || got.Material != pipe.Material {
		t.Errorf("restored pipe differs: %+v vs %+v", got, pipe)
	}

	// Restored pipes stay editable with recompute intact.
	if err := restored.SetProperty(pipe.ID(), "FlowRate", 80.0); err != nil {
		t.Fatalf("SetProperty after load: %v", err)
	}
	if got.VelocityMS <= pipe.VelocityMS {
		t.Errorf("doubled flow should raise velocity: %v <= %v", got.VelocityMS, pipe.VelocityMS)
	}
}

// Property edits, locked views and snapshot encodes on the same pipe must
// serialize through the document lock. Meaningful under the race detector.
func TestDocumentConcurrentEditsAndViews(t *testing.T) {
	doc := New()
	pipe := mep.NewWaterPipe("riser", nil)
	pipe.DiameterMM = 15
	pipe.LengthMM = 1000
	if err := doc.AddObject(pipe); err != nil {
		t.Fatalf("AddObject: %v", err)
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

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			err := doc.View(pipe.ID(), func(obj Object) error {
				p := obj.(*mep.WaterPipe)
				if err := p.Recompute(); err != nil {
					return err
				}
				if p.VelocityMS < 0 || p.PressureLossBar < 0 {
					t.Errorf("negative hydraulic values: v=%v loss=%v", p.VelocityMS, p.PressureLossBar)
				}
				return nil
			})
			if err != nil {
				t.Errorf("View: %v", err)
				return
			}
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			if err := doc.Save(io.Discard); err != nil {
				t.Errorf("Save: %v", err)
				return
			}
		}
	}()

	wg.Wait()
}
