package mep

// RGB is a normalized color triple used by rendering front ends to color
// pipes by system type.
type RGB struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
}

var systemColors = map[SystemType]RGB{
	SystemColdWater:  {0.0, 0.0, 1.0},
	SystemHotWater:   {1.0, 0.0, 0.0},
	SystemWasteWater: {0.5, 0.3, 0.1},
	SystemRainWater:  {0.0, 1.0, 1.0},
	SystemGas:        {1.0, 1.0, 0.0},
}

// SystemColor returns the display color for a water system type. Unknown
// types render gray.
func SystemColor(s SystemType) RGB {
	if c, ok := systemColors[s]; ok {
		return c
	}
	return RGB{0.7, 0.7, 0.7}
}
