package mep

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/neobones/melimep/pkg/hydraulics"
)

const pipeSchemaVersion = 1

// WaterPipe is a pipe segment with hydraulic state. Velocity and
// PressureLossBar are derived values, refreshed whenever a property they
// depend on changes.
type WaterPipe struct {
	Meta `msgpack:",inline"`

	DiameterMM            float64 `json:"diameter_mm" msgpack:"diameter_mm"`
	LengthMM              float64 `json:"length_mm" msgpack:"length_mm"`
	FlowRateLPM           float64 `json:"flow_rate_lpm" msgpack:"flow_rate_lpm"`
	PressureBar           float64 `json:"pressure_bar" msgpack:"pressure_bar"`
	PressureLossBar       float64 `json:"pressure_loss_bar" msgpack:"pressure_loss_bar"`
	VelocityMS            float64 `json:"velocity_ms" msgpack:"velocity_ms"`
	InsulationThicknessMM float64 `json:"insulation_thickness_mm" msgpack:"insulation_thickness_mm"`

	SystemType     SystemType   `json:"system_type" msgpack:"system_type"`
	Material       PipeMaterial `json:"material" msgpack:"material"`
	RoughnessCoeff float64      `json:"roughness_coeff" msgpack:"roughness_coeff"`

	ConnectedFixtures []uuid.UUID `json:"connected_fixtures" msgpack:"connected_fixtures"`
	ConnectedValves   []uuid.UUID `json:"connected_valves" msgpack:"connected_valves"`

	catalog *Catalog
}

// NewWaterPipe constructs a pipe with schema defaults applied. A nil catalog
// selects built-in fluid properties and roughness values.
func NewWaterPipe(name string, catalog *Catalog) *WaterPipe {
	p := &WaterPipe{Meta: newMeta(name), catalog: catalog}
	p.applySchema()
	return p
}

// Bind attaches the project catalog after a pipe is restored from a
// snapshot or database row, and re-applies schema defaults for entities
// saved by older versions.
func (p *WaterPipe) Bind(catalog *Catalog) {
	p.catalog = catalog
	p.applySchema()
}

func (p *WaterPipe) applySchema() {
	if p.SchemaVersion >= pipeSchemaVersion {
		return
	}
	p.PressureBar = 2.5
	p.SystemType = SystemColdWater
	p.Material = MaterialCopper
	p.RoughnessCoeff = p.catalog.RoughnessFor(MaterialCopper)
	p.SchemaVersion = pipeSchemaVersion
}

// TypeName identifies the object kind within a document.
func (p *WaterPipe) TypeName() string { return "WaterPipe" }

// HasProperty reports whether the named property exists on a pipe.
func (p *WaterPipe) HasProperty(name string) bool {
	_, ok := p.GetProperty(name)
	return ok
}

// GetProperty returns the named property value.
func (p *WaterPipe) GetProperty(name string) (any, bool) {
	switch name {
	case "Name":
		return p.Name, true
	case "Diameter":
		return p.DiameterMM, true
	case "Length":
		return p.LengthMM, true
	case "FlowRate":
		return p.FlowRateLPM, true
	case "Pressure":
		return p.PressureBar, true
	case "PressureLoss":
		return p.PressureLossBar, true
	case "Velocity":
		return p.VelocityMS, true
	case "InsulationThickness":
		return p.InsulationThicknessMM, true
	case "SystemType":
		return string(p.SystemType), true
	case "PipeMaterial":
		return string(p.Material), true
	case "RoughnessCoeff":
		return p.RoughnessCoeff, true
	}
	return nil, false
}

// SetProperty assigns the named property. PressureLoss and Velocity are
// derived and cannot be set directly.
func (p *WaterPipe) SetProperty(name string, value any) error {
	switch name {
	case "Name":
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("mep: Name expects a string, got %T", value)
		}
		p.Name = s
	case "Diameter":
		return setFloat(&p.DiameterMM, name, value)
	case "Length":
		return setFloat(&p.LengthMM, name, value)
	case "FlowRate":
		return setFloat(&p.FlowRateLPM, name, value)
	case "Pressure":
		return setFloat(&p.PressureBar, name, value)
	case "InsulationThickness":
		return setFloat(&p.InsulationThicknessMM, name, value)
	case "RoughnessCoeff":
		return setFloat(&p.RoughnessCoeff, name, value)
	case "SystemType":
		s, ok := value.(string)
		if !ok || !SystemType(s).Valid() {
			return fmt.Errorf("mep: invalid system type %v", value)
		}
		p.SystemType = SystemType(s)
	case "PipeMaterial":
		s, ok := value.(string)
		if !ok || !PipeMaterial(s).Valid() {
			return fmt.Errorf("mep: invalid pipe material %v", value)
		}
		p.Material = PipeMaterial(s)
	case "PressureLoss", "Velocity":
		return fmt.Errorf("mep: %s is read-only", name)
	default:
		return fmt.Errorf("mep: water pipe has no property %q", name)
	}
	return nil
}

// OnChanged reacts to a property edit. A material change refreshes the
// roughness coefficient; any hydraulic input change recomputes velocity and
// pressure loss. Safe to call repeatedly for the same edit.
func (p *WaterPipe) OnChanged(prop string) error {
	if prop == "PipeMaterial" {
		p.RoughnessCoeff = p.catalog.RoughnessFor(p.Material)
	}

	switch prop {
	case "FlowRate", "Diameter", "Length", "PipeMaterial", "RoughnessCoeff":
		return p.Recompute()
	}
	return nil
}

// Recompute runs the hydraulic calculation from current property values.
// When flow or diameter is zero the previously stored Velocity and
// PressureLoss are intentionally left in place.
func (p *WaterPipe) Recompute() error {
	res, err := hydraulics.Compute(hydraulics.Params{
		FlowRateLPM:            p.FlowRateLPM,
		DiameterMM:             p.DiameterMM,
		LengthMM:               p.LengthMM,
		Roughness:              p.RoughnessCoeff,
		RoughnessIsMillimeters: p.catalog.roughnessMillimeters(),
		KinematicViscosity:     p.catalog.viscosity(),
		Density:                p.catalog.density(),
	})
	if err != nil {
		if errors.Is(err, hydraulics.ErrNoFlow) {
			return nil
		}
		return err
	}

	p.VelocityMS = res.VelocityMS
	p.PressureLossBar = res.PressureLossBar
	return nil
}
