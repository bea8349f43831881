package fuel

import (
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

// Tracker keeps the per lap fuel consumption of the most recent valid laps.
type Tracker struct {
	remainingAtLapStart float64
	lastLapUsed         float64
	isCurrentLapValid   bool
	history             []float64
	// primed is false until the fuel level at a lap start was observed
	primed bool
}

func NewTracker() *Tracker {
	return &Tracker{isCurrentLapValid: true}
}

// Reset clears the history. The next lap transition only primes the tracker.
func (t *Tracker) Reset() {
	t.remainingAtLapStart = 0
	t.lastLapUsed = 0
	t.isCurrentLapValid = true
	t.history = t.history[:0]
	t.primed = false
}

// LapCompleted accounts the lap which just ended with remaining fuel left in the tank.
// The returned value is the fuel used during that lap. recorded is true if the
// value was appended to the history.
func (t *Tracker) LapCompleted(remaining float64, valid bool, numLapsToAverage int) (
	used float64, recorded bool,
) {
	if !t.primed {
		t.remainingAtLapStart = remaining
		t.primed = true
		return 0, false
	}
	used = max(0, t.remainingAtLapStart-remaining)
	t.remainingAtLapStart = remaining
	t.lastLapUsed = used
	t.isCurrentLapValid = valid
	if !valid {
		return used, false
	}
	t.history = append(t.history, used)
	if over := len(t.history) - max(1, numLapsToAverage); over > 0 {
		t.history = slices.Delete(t.history, 0, over)
	}
	return used, true
}

// Average returns the mean consumption per lap. 0 means no estimate is available.
func (t *Tracker) Average() float64 {
	if len(t.history) == 0 {
		return 0
	}
	return lo.Sum(t.history) / float64(len(t.history))
}

func (t *Tracker) LastLapUsed() float64         { return t.lastLapUsed }
func (t *Tracker) RemainingAtLapStart() float64 { return t.remainingAtLapStart }
func (t *Tracker) LastLapValid() bool           { return t.isCurrentLapValid }
func (t *Tracker) Primed() bool                 { return t.primed }

// History returns a copy of the recorded laps, oldest first.
func (t *Tracker) History() []float64 {
	return slices.Clone(t.history)
}

// LapValid decides if the lap completed at the moment of s counts for the average.
// Only the flags of s are inspected, flags shown earlier during the lap are not known here.
func LapValid(s *Sample, cfg Config) bool {
	if cfg.AllLapsCount {
		return true
	}
	if s.SessionFlags.Has(InvalidatingFlags) {
		return false
	}
	return !s.OnPitRoad
}
