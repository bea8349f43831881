package fuel

// Strategy is the outcome of the refuel computation.
type Strategy struct {
	// Available is false if there is no consumption estimate or the session end is unknown
	Available         bool    `json:"available"`
	ProjectedAtFinish float64 `json:"projectedAtFinish"`
	PendingAdd        float64 `json:"pendingAdd"`
}

// ComputeStrategy computes the fuel left at the finish and the amount to add at the next stop.
// All volumes are liters.
func ComputeStrategy(
	avgPerLap float64,
	remainingLaps int,
	remainingFuel float64,
	capacity float64,
	cfg Config,
) Strategy {
	if avgPerLap <= 0 || remainingLaps < 0 {
		return Strategy{}
	}
	needed := float64(remainingLaps) * avgPerLap
	ret := Strategy{
		Available:         true,
		ProjectedAtFinish: max(0, remainingFuel-needed),
	}
	if ret.ProjectedAtFinish > 0 {
		return ret
	}
	add := needed - remainingFuel
	if cfg.AdditionalFuelMargin > 0 {
		add += avgPerLap * cfg.AdditionalFuelMargin
	}
	add = max(0, add)
	if capacity > 0 {
		add = min(add, capacity)
	}
	ret.PendingAdd = add
	return ret
}
