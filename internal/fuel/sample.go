package fuel

import (
	"fmt"

	"golang.org/x/exp/slices"
)

type (
	SessionType int
	SessionFlag uint32
	Units       int
)

const (
	SessionUnknown SessionType = iota
	SessionPractice
	SessionQualify
	SessionRace
)

const (
	UnitsImperial Units = iota // iRacing DisplayUnits 0
	UnitsMetric                // iRacing DisplayUnits 1
)

// values of the iRacing SessionFlags bitfield
const (
	FlagCheckered     SessionFlag = 0x00000001
	FlagWhite         SessionFlag = 0x00000002
	FlagGreen         SessionFlag = 0x00000004
	FlagYellow        SessionFlag = 0x00000008
	FlagRed           SessionFlag = 0x00000010
	FlagBlue          SessionFlag = 0x00000020
	FlagDebris        SessionFlag = 0x00000040
	FlagCrossed       SessionFlag = 0x00000080
	FlagYellowWaving  SessionFlag = 0x00000100
	FlagOneLapToGreen SessionFlag = 0x00000200
	FlagGreenHeld     SessionFlag = 0x00000400
	FlagTenToGo       SessionFlag = 0x00000800
	FlagFiveToGo      SessionFlag = 0x00001000
	FlagRandomWaving  SessionFlag = 0x00002000
	FlagCaution       SessionFlag = 0x00004000
	FlagCautionWaving SessionFlag = 0x00008000
	FlagBlack         SessionFlag = 0x00010000
	FlagDisqualify    SessionFlag = 0x00020000
	FlagServicible    SessionFlag = 0x00040000
	FlagFurled        SessionFlag = 0x00080000
	FlagRepair        SessionFlag = 0x00100000
)

// InvalidatingFlags marks a lap as unusable for the consumption average
// if any of them is present when the lap is completed.
const InvalidatingFlags = FlagYellow | FlagYellowWaving | FlagRed | FlagCheckered |
	FlagCrossed | FlagOneLapToGreen | FlagCaution | FlagCautionWaving |
	FlagDisqualify | FlagRepair

const (
	// UnlimitedLaps is reported by the simulator for SessionLapsTotal and
	// SessionLapsRemainEx when the session has no lap limit.
	UnlimitedLaps = 32767
	// Unknown is returned for remaining laps and remaining time when no value
	// can be derived.
	Unknown = -1
	// MaxTimeLimitedSession is the upper bound (seconds) for a session time to be
	// considered a real time limit. Sessions without a limit report huge values.
	MaxTimeLimitedSession = 48.0 * 3600.0
)

// Sample is a telemetry snapshot taken once per tick.
//
//nolint:lll // readability
type Sample struct {
	SessionNum           int         `yaml:"sessionNum"`
	SessionType          SessionType `yaml:"sessionType"`
	SessionFlags         SessionFlag `yaml:"sessionFlags"`
	PreStart             bool        `yaml:"preStart"`             // session state before racing (grid, parade...)
	RemainingFuel        float64     `yaml:"remainingFuel"`        // liters
	FuelPercent          float64     `yaml:"fuelPercent"`          // 0.0-1.0
	FuelMaxCapacity      float64     `yaml:"fuelMaxCapacity"`      // liters, <= 0 if unknown
	CurrentLap           int         `yaml:"currentLap"`           // lap the car is on
	OnPitRoad            bool        `yaml:"onPitRoad"`            // player car is on pit road
	TotalLaps            int         `yaml:"totalLaps"`            // UnlimitedLaps if not lap limited
	RemainingLapsEx      int         `yaml:"remainingLapsEx"`      // UnlimitedLaps if not lap limited
	SessionTimeRemaining float64     `yaml:"sessionTimeRemaining"` // seconds, negative if unknown
	EstimatedLapTime     float64     `yaml:"estimatedLapTime"`     // seconds
	DisplayUnits         Units       `yaml:"displayUnits"`
	PitsOpen             bool        `yaml:"pitsOpen"`
	IncidentCount        int         `yaml:"incidentCount"`
	TrackTemp            float64     `yaml:"trackTemp"`
	Throttle             float64     `yaml:"throttle"`         // 0.0-1.0
	Brake                float64     `yaml:"brake"`            // 0.0-1.0
	Clutch               float64     `yaml:"clutch"`           // 0.0-1.0, 1 is fully pressed
	SessionTimeOfDay     float64     `yaml:"sessionTimeOfDay"` // seconds since midnight, sim time
}

func (f SessionFlag) Has(other SessionFlag) bool {
	return f&other != 0
}

// ParseSessionType converts the simulator session type names
func ParseSessionType(s string) SessionType {
	switch {
	case slices.Contains([]string{"Practice", "Open Practice", "Warmup"}, s):
		return SessionPractice
	case slices.Contains([]string{"Qualify", "Open Qualify", "Lone Qualify"}, s):
		return SessionQualify
	case s == "Race":
		return SessionRace
	default:
		return SessionUnknown
	}
}

func (s SessionType) String() string {
	switch s {
	case SessionPractice:
		return "Practice"
	case SessionQualify:
		return "Qualify"
	case SessionRace:
		return "Race"
	default:
		return "Unknown"
	}
}

func (s SessionType) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

func (s *SessionType) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	*s = ParseSessionType(name)
	return nil
}

func (s SessionType) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *SessionType) UnmarshalText(text []byte) error {
	*s = ParseSessionType(string(text))
	return nil
}

func (u Units) String() string {
	if u == UnitsImperial {
		return "imperial"
	}
	return "metric"
}

func (u Units) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText accepts the names and the simulator values 0 and 1
func (u *Units) UnmarshalText(text []byte) error {
	switch string(text) {
	case "imperial", "0":
		*u = UnitsImperial
	case "metric", "1":
		*u = UnitsMetric
	default:
		return fmt.Errorf("unknown units %q", text)
	}
	return nil
}
