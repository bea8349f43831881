package fuel

import "math"

// Horizon describes what is left of the current session.
type Horizon struct {
	TimeLimited bool `json:"timeLimited"`
	// RemainingLaps is Unknown if it cannot be derived
	RemainingLaps int `json:"remainingLaps"`
	// EstimatedLaps of a time limited session, half a lap added so the integer
	// part equals RemainingLaps
	EstimatedLaps float64 `json:"estimatedLaps"`
	// RemainingTime in seconds, Unknown if the session is not time limited
	RemainingTime float64 `json:"remainingTime"`
}

func IsTimeLimited(s *Sample) bool {
	return s.TotalLaps == UnlimitedLaps && s.SessionTimeRemaining < MaxTimeLimitedSession
}

// EstimateHorizon computes the remaining laps and time of the session.
func EstimateHorizon(s *Sample) Horizon {
	if IsTimeLimited(s) {
		ret := Horizon{
			TimeLimited:   true,
			RemainingLaps: Unknown,
			EstimatedLaps: Unknown,
			RemainingTime: s.SessionTimeRemaining,
		}
		if s.EstimatedLapTime > 0 && s.SessionTimeRemaining >= 0 {
			ret.EstimatedLaps = s.SessionTimeRemaining/s.EstimatedLapTime + 0.5
			ret.RemainingLaps = int(math.Floor(ret.EstimatedLaps))
		}
		return ret
	}
	ret := Horizon{RemainingLaps: s.RemainingLapsEx, RemainingTime: Unknown}
	if s.RemainingLapsEx == UnlimitedLaps {
		ret.RemainingLaps = Unknown
	}
	ret.EstimatedLaps = float64(ret.RemainingLaps)
	return ret
}
