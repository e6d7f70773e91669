package hydraulics

// Absolute roughness coefficients per pipe material. Values follow the
// conventional millimeter-scale constants used in plumbing references.
var materialRoughness = map[string]float64{
	"Copper":    0.0015,
	"PVC":       0.0001,
	"PEX":       0.0001,
	"Steel":     0.045,
	"Cast Iron": 0.25,
	"HDPE":      0.0001,
}

// DefaultRoughness is used for materials not present in the catalog.
const DefaultRoughness = 0.0015

// RoughnessForMaterial returns the roughness coefficient for a pipe material
// name, falling back to DefaultRoughness for unrecognized materials.
func RoughnessForMaterial(material string) float64 {
	if r, ok := materialRoughness[material]; ok {
		return r
	}
	return DefaultRoughness
}

// Materials returns the names of all cataloged pipe materials.
func Materials() []string {
	names := make([]string, 0, len(materialRoughness))
	for name := range materialRoughness {
		names = append(names, name)
	}
	return names
}
