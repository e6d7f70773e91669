// Package mep models the domain objects of a building water-supply design:
// water pipes, sanitary fixtures and valves, with their classification
// enumerations and per-type default property sets.
package mep

// SystemType classifies which building water system a pipe belongs to.
type SystemType string

const (
	SystemColdWater  SystemType = "Cold Water Supply"
	SystemHotWater   SystemType = "Hot Water Supply"
	SystemWasteWater SystemType = "Waste Water"
	SystemRainWater  SystemType = "Rain Water"
	SystemGas        SystemType = "Gas"
)

// AllSystemTypes lists the allowed SystemType values.
var AllSystemTypes = []SystemType{
	SystemColdWater, SystemHotWater, SystemWasteWater, SystemRainWater, SystemGas,
}

// Valid reports whether s is a recognized system type.
func (s SystemType) Valid() bool {
	for _, v := range AllSystemTypes {
		if s == v {
			return true
		}
	}
	return false
}

// PipeMaterial identifies the pipe material, which selects the default
// roughness coefficient.
type PipeMaterial string

const (
	MaterialCopper   PipeMaterial = "Copper"
	MaterialPVC      PipeMaterial = "PVC"
	MaterialPEX      PipeMaterial = "PEX"
	MaterialSteel    PipeMaterial = "Steel"
	MaterialCastIron PipeMaterial = "Cast Iron"
	MaterialHDPE     PipeMaterial = "HDPE"
)

// AllPipeMaterials lists the allowed PipeMaterial values.
var AllPipeMaterials = []PipeMaterial{
	MaterialCopper, MaterialPVC, MaterialPEX, MaterialSteel, MaterialCastIron, MaterialHDPE,
}

// Valid reports whether m is a recognized pipe material.
func (m PipeMaterial) Valid() bool {
	for _, v := range AllPipeMaterials {
		if m == v {
			return true
		}
	}
	return false
}

// FixtureType classifies sanitary fixtures.
type FixtureType string

const (
	FixtureSink          FixtureType = "Sink"
	FixtureWashHandBasin FixtureType = "Wash Hand Basin"
	FixtureToiletPan     FixtureType = "Toilet Pan"
	FixtureUrinal        FixtureType = "Urinal"
	FixtureBath          FixtureType = "Bath"
	FixtureShower        FixtureType = "Shower"
	FixtureBidet         FixtureType = "Bidet"
)

// AllFixtureTypes lists the allowed FixtureType values.
var AllFixtureTypes = []FixtureType{
	FixtureSink, FixtureWashHandBasin, FixtureToiletPan, FixtureUrinal,
	FixtureBath, FixtureShower, FixtureBidet,
}

// Valid reports whether f is a recognized fixture type.
func (f FixtureType) Valid() bool {
	for _, v := range AllFixtureTypes {
		if f == v {
			return true
		}
	}
	return false
}

// ValveType classifies valves, faucets and taps.
type ValveType string

const (
	ValveFaucet         ValveType = "Faucet"
	ValveStopCock       ValveType = "Stop Cock"
	ValveCheck          ValveType = "Check Valve"
	ValvePressureRelief ValveType = "Pressure Relief"
	ValveMixing         ValveType = "Mixing Valve"
	ValveGasTap         ValveType = "Gas Tap"
	ValveIsolating      ValveType = "Isolating"
)

// AllValveTypes lists the allowed ValveType values.
var AllValveTypes = []ValveType{
	ValveFaucet, ValveStopCock, ValveCheck, ValvePressureRelief,
	ValveMixing, ValveGasTap, ValveIsolating,
}

// Valid reports whether v is a recognized valve type.
func (v ValveType) Valid() bool {
	for _, t := range AllValveTypes {
		if v == t {
			return true
		}
	}
	return false
}

// ControlSignal identifies how a motorized valve is driven.
type ControlSignal string

const (
	ControlManual  ControlSignal = "Manual"
	Control24VDC   ControlSignal = "24V DC"
	Control230VAC  ControlSignal = "230V AC"
	Control0To10V  ControlSignal = "0-10V"
	Control4To20MA ControlSignal = "4-20mA"
)

// AllControlSignals lists the allowed ControlSignal values.
var AllControlSignals = []ControlSignal{
	ControlManual, Control24VDC, Control230VAC, Control0To10V, Control4To20MA,
}

// Valid reports whether c is a recognized control signal.
func (c ControlSignal) Valid() bool {
	for _, v := range AllControlSignals {
		if c == v {
			return true
		}
	}
	return false
}
