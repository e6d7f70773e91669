// Package hydraulics provides pressure-loss and velocity calculations for
// water supply pipework using the Darcy-Weisbach equation with an explicit
// Colebrook-White friction-factor approximation.
package hydraulics

import (
	"errors"
	"fmt"
	"math"
)

// Properties of water at 20°C, used when Params does not override them.
const (
	DefaultKinematicViscosity = 1.004e-6 // m²/s
	DefaultDensity            = 1000.0   // kg/m³
)

// ErrNoFlow is returned when flow rate or diameter is zero. No result is
// produced; callers keep whatever velocity/pressure-loss values they
// previously stored.
var ErrNoFlow = errors.New("hydraulics: zero flow rate or diameter, nothing to compute")

// ErrInvalidInput is returned for negative flow, diameter or length.
var ErrInvalidInput = errors.New("hydraulics: negative flow, diameter or length")

// DomainError reports inputs that drive the friction-factor logarithm out of
// its domain (typically an absurd or negative roughness coefficient).
type DomainError struct {
	LogArgument float64
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("hydraulics: friction factor undefined, log argument %g is not positive", e.LogArgument)
}

// Params describes a single pipe segment. Flow is in liters/minute, diameter
// and length in millimeters. Roughness is the absolute roughness coefficient
// of the pipe material.
//
// By convention the stored roughness constants (see RoughnessForMaterial) are
// millimeter-scale values, but the friction-factor formula historically
// consumed them unscaled against a diameter in meters. That behavior is kept
// as the default; set RoughnessIsMillimeters to convert the coefficient to
// meters before use.
type Params struct {
	FlowRateLPM float64
	DiameterMM  float64
	LengthMM    float64
	Roughness   float64

	RoughnessIsMillimeters bool

	// Optional fluid overrides. Zero values select the water-at-20°C
	// defaults above.
	KinematicViscosity float64 // m²/s
	Density            float64 // kg/m³
}

// Result holds the two computed hydraulic quantities.
type Result struct {
	VelocityMS      float64 `json:"velocity_ms"`
	PressureLossBar float64 `json:"pressure_loss_bar"`
}

// Compute evaluates velocity and Darcy-Weisbach pressure loss for a pipe
// segment. It is a pure function: no state is read or written beyond the
// arguments, and it may be called any number of times per property edit.
func Compute(p Params) (Result, error) {
	if p.FlowRateLPM < 0 || p.DiameterMM < 0 || p.LengthMM < 0 {
		return Result{}, ErrInvalidInput
	}
	if p.FlowRateLPM == 0 || p.DiameterMM == 0 {
		return Result{}, ErrNoFlow
	}

	nu := p.KinematicViscosity
	if nu == 0 {
		nu = DefaultKinematicViscosity
	}
	rho := p.Density
	if rho == 0 {
		rho = DefaultDensity
	}

	// L/min → m³/s, mm → m
	flow := p.FlowRateLPM / 60000.0
	diameter := p.DiameterMM / 1000.0
	length := p.LengthMM / 1000.0

	roughness := p.Roughness
	if p.RoughnessIsMillimeters {
		roughness /= 1000.0
	}

	area := math.Pi * (diameter / 2) * (diameter / 2)
	velocity := 0.0
	if area > 0 {
		velocity = flow / area
	}

	result := Result{VelocityMS: velocity}

	reynolds := velocity * diameter / nu
	if reynolds <= 0 {
		return result, nil
	}

	// Explicit Colebrook-White approximation (Swamee-Jain form).
	logArg := roughness/(3.7*diameter) + 5.74/math.Pow(reynolds, 0.9)
	if logArg <= 0 {
		return Result{}, &DomainError{LogArgument: logArg}
	}
	logTerm := math.Log10(logArg)
	if logTerm == 0 {
		return Result{}, &DomainError{LogArgument: logArg}
	}
	frictionFactor := 0.25 / (logTerm * logTerm)

	lossPa := frictionFactor * (length / diameter) * (rho * velocity * velocity) / 2
	result.PressureLossBar = lossPa / 100000.0

	return result, nil
}
