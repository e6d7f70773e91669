package hydraulics

// ValveDrop returns the pressure drop in bar across a valve with flow
// coefficient Kv (m³/h at 1 bar drop) for the given flow in liters/minute.
// Returns zero for non-positive Kv or flow.
func ValveDrop(flowRateLPM, kv float64) float64 {
	if kv <= 0 || flowRateLPM <= 0 {
		return 0
	}
	flowM3H := flowRateLPM * 60.0 / 1000.0
	ratio := flowM3H / kv
	return ratio * ratio
}
