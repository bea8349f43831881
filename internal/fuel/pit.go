package fuel

import (
	"fmt"
	"math"
)

type (
	PitState      int
	PitTransition int
)

const (
	PitOnTrack PitState = iota
	PitOnPitRoad
)

const (
	PitNoChange PitTransition = iota
	PitEntered
	PitLeft
)

// RefuelCommand is sent to the pit service. Amount is in liters.
type RefuelCommand struct {
	Amount float64 `json:"amount"`
}

// PitHandler issues at most one refuel command per pit stop.
type PitHandler struct {
	state     PitState
	requested bool
}

func NewPitHandler() *PitHandler {
	ret := &PitHandler{}
	ret.Reset()
	return ret
}

// Reset assumes the car sits in the pit box. No fuel is requested until the
// car has been out on track.
func (h *PitHandler) Reset() {
	h.state = PitOnPitRoad
	h.requested = true
}

func (h *PitHandler) State() PitState { return h.state }
func (h *PitHandler) Requested() bool { return h.requested }

// Detect reports the transition between the known state and onPitRoad.
// The state itself is changed by Enter and Leave.
func (h *PitHandler) Detect(onPitRoad bool) PitTransition {
	switch {
	case onPitRoad && h.state == PitOnTrack:
		return PitEntered
	case !onPitRoad && h.state == PitOnPitRoad:
		return PitLeft
	default:
		return PitNoChange
	}
}

// Enter is called when the car enters pit road.
func (h *PitHandler) Enter(pending float64, sessionType SessionType, cfg Config) *RefuelCommand {
	h.state = PitOnPitRoad
	if !cfg.AutoRefuel || pending <= 0 || sessionType == SessionQualify || h.requested {
		return nil
	}
	h.requested = true
	return &RefuelCommand{Amount: math.Round(pending)}
}

// Leave is called when the car leaves pit road.
func (h *PitHandler) Leave() {
	h.state = PitOnTrack
	h.requested = false
}

func (s PitState) String() string {
	if s == PitOnPitRoad {
		return "OnPitRoad"
	}
	return "OnTrack"
}

func (s PitState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *PitState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "OnTrack":
		*s = PitOnTrack
	case "OnPitRoad":
		*s = PitOnPitRoad
	default:
		return fmt.Errorf("unknown pit state %q", text)
	}
	return nil
}
