package fuel

// LapDetector reports changes of the current lap.
type LapDetector struct {
	lap  int
	seen bool
}

// CurrentLap is 0 while the session has not started yet.
func CurrentLap(s *Sample) int {
	if s.PreStart {
		return 0
	}
	return max(0, s.CurrentLap)
}

// Observe returns the current lap and whether it differs from the previous one.
// The first observation after a reset only sets the baseline.
func (d *LapDetector) Observe(s *Sample) (lap int, changed bool) {
	lap = CurrentLap(s)
	changed = d.seen && lap != d.lap
	d.lap = lap
	d.seen = true
	return lap, changed
}

func (d *LapDetector) Reset() {
	d.lap = 0
	d.seen = false
}
