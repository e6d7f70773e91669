// Package report renders hydraulic calculation results as PDF or XLSX
// documents for handoff to installers and building-control review.
package report

import (
	"github.com/neobones/melimep/internal/mep"
	"github.com/neobones/melimep/internal/network"
)

// Input collects everything a calculation report presents.
type Input struct {
	ProjectName string
	NetworkName string
	Pipes       []*mep.WaterPipe
	Summary     *network.Summary
}

var columns = []string{
	"Pipe", "System", "Material", "Diameter (mm)", "Length (mm)",
	"Flow (L/min)", "Velocity (m/s)", "Pressure Loss (bar)",
}

func pipeRow(p *mep.WaterPipe) []any {
	return []any{
		p.Label(), string(p.SystemType), string(p.Material),
		p.DiameterMM, p.LengthMM, p.FlowRateLPM, p.VelocityMS, p.PressureLossBar,
	}
}
