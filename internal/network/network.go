// Package network groups MEP objects into named systems and runs network-
// wide hydraulic calculations: per-pipe recomputes plus flow, loss and
// fixture-unit totals with a probable-demand estimate.
package network

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/neobones/melimep/internal/document"
	"github.com/neobones/melimep/internal/mep"
	"github.com/neobones/melimep/pkg/demand"
)

// Network is a named grouping of pipes, fixtures and valves in a document.
type Network struct {
	ID       uuid.UUID   `json:"id"`
	Name     string      `json:"name"`
	Pipes    []uuid.UUID `json:"pipes"`
	Fixtures []uuid.UUID `json:"fixtures"`
	Valves   []uuid.UUID `json:"valves"`
}

// New builds a network from a selection of document objects, partitioning
// them by kind. Objects that are not MEP entities are skipped. At least one
// usable object is required.
func New(name string, objs []document.Object) (*Network, error) {
	n := &Network{ID: uuid.New(), Name: name}
	for _, obj := range objs {
		switch obj.(type) {
		case *mep.WaterPipe:
			n.Pipes = append(n.Pipes, obj.ID())
		case *mep.SanitaryFixture:
			n.Fixtures = append(n.Fixtures, obj.ID())
		case *mep.Valve:
			n.Valves = append(n.Valves, obj.ID())
		}
	}
	if len(n.Pipes) == 0 && len(n.Fixtures) == 0 && len(n.Valves) == 0 {
		return nil, fmt.Errorf("network: no valid MEP objects selected")
	}
	return n, nil
}

// Summary aggregates the results of a network-wide hydraulic calculation.
type Summary struct {
	PipesCalculated      int     `json:"pipes_calculated"`
	TotalFlowLPM         float64 `json:"total_flow_lpm"`
	TotalPressureLossBar float64 `json:"total_pressure_loss_bar"`
	TotalFixtureUnits    float64 `json:"total_fixture_units"`
	ProbableDemandLPM    float64 `json:"probable_demand_lpm"`
}

// RunHydraulics forces a recompute on every member pipe and aggregates the
// totals. Each pipe is recomputed and read under the document lock, so runs
// serialize against concurrent property edits. Pipes whose recompute fails
// abort the run; no partial totals are reported.
func (n *Network) RunHydraulics(doc *document.Document) (*Summary, error) {
	s := &Summary{}

	for _, id := range n.Pipes {
		err := doc.View(id, func(obj document.Object) error {
			pipe, ok := obj.(*mep.WaterPipe)
			if !ok {
				return fmt.Errorf("network: object %s is not a water pipe", id)
			}
			if err := pipe.Recompute(); err != nil {
				return fmt.Errorf("network: calculating %s: %w", pipe.Label(), err)
			}
			s.PipesCalculated++
			s.TotalFlowLPM += pipe.FlowRateLPM
			s.TotalPressureLossBar += pipe.PressureLossBar
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	for _, id := range n.Fixtures {
		err := doc.View(id, func(obj document.Object) error {
			fixture, ok := obj.(*mep.SanitaryFixture)
			if !ok {
				return fmt.Errorf("network: object %s is not a sanitary fixture", id)
			}
			s.TotalFixtureUnits += fixture.FixtureUnits
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	s.ProbableDemandLPM = demand.ProbableFlowLPM(s.TotalFixtureUnits)
	return s, nil
}

// Attach adds an object to the network by kind.
func (n *Network) Attach(obj document.Object) error {
	switch obj.(type) {
	case *mep.WaterPipe:
		n.Pipes = append(n.Pipes, obj.ID())
	case *mep.SanitaryFixture:
		n.Fixtures = append(n.Fixtures, obj.ID())
	case *mep.Valve:
		n.Valves = append(n.Valves, obj.ID())
	default:
		return fmt.Errorf("network: cannot attach object type %s", obj.TypeName())
	}
	return nil
}

// Detach removes an object id from whichever member list holds it.
func (n *Network) Detach(id uuid.UUID) bool {
	for _, list := range []*[]uuid.UUID{&n.Pipes, &n.Fixtures, &n.Valves} {
		for i, member := range *list {
			if member == id {
				*list = append((*list)[:i], (*list)[i+1:]...)
				return true
			}
		}
	}
	return false
}
