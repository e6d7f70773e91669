package mep

import (
	"sync"

	"github.com/neobones/melimep/pkg/hydraulics"
)

// Catalog holds the project-level physical configuration consumed by entity
// recomputes: fluid properties and material roughness overrides. It is
// injected into entity constructors rather than read from process-wide
// state, so tests and multi-project setups can carry their own values.
//
// Fields may be assigned freely while the catalog is being built; once it
// has been handed to entities, updates must go through Replace, which
// synchronizes against concurrent recomputes.
type Catalog struct {
	mu sync.RWMutex

	DensityKgM3            float64
	KinematicViscosity     float64
	RoughnessIsMillimeters bool

	// MaterialRoughness overrides the built-in roughness catalog per
	// material. Materials not present fall through to the defaults.
	MaterialRoughness map[PipeMaterial]float64
}

// DefaultCatalog returns a catalog with water-at-20°C fluid properties and
// no material overrides.
func DefaultCatalog() *Catalog {
	return &Catalog{}
}

// Replace publishes the values of fresh into the catalog. Entities keep
// their pointer to c, so a configuration reload takes effect on the next
// recompute without rebinding anything.
func (c *Catalog) Replace(fresh *Catalog) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.DensityKgM3 = fresh.DensityKgM3
	c.KinematicViscosity = fresh.KinematicViscosity
	c.RoughnessIsMillimeters = fresh.RoughnessIsMillimeters
	c.MaterialRoughness = fresh.MaterialRoughness
}

// RoughnessFor resolves the roughness coefficient for a material, checking
// project overrides before the built-in table.
func (c *Catalog) RoughnessFor(material PipeMaterial) float64 {
	if c != nil {
		c.mu.RLock()
		r, ok := c.MaterialRoughness[material]
		c.mu.RUnlock()
		if ok {
			return r
		}
	}
	return hydraulics.RoughnessForMaterial(string(material))
}

func (c *Catalog) density() float64 {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.DensityKgM3
}

func (c *Catalog) viscosity() float64 {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.KinematicViscosity
}

func (c *Catalog) roughnessMillimeters() bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.RoughnessIsMillimeters
}
