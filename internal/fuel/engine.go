package fuel

// LowFuelPercent is the fuel level (0.0-1.0) below which the low fuel warning is shown.
const LowFuelPercent = 0.1

// DisplayValues is everything a presentation layer needs for one tick.
// Volumes are liters, use ToDisplayVolume for output.
//
//nolint:lll // readability
type DisplayValues struct {
	SessionNum    int         `json:"sessionNum"`
	SessionType   SessionType `json:"sessionType"`
	Units         Units       `json:"units"`
	CurrentLap    int         `json:"currentLap"`
	RemainingFuel float64     `json:"remainingFuel"`
	FuelPercent   float64     `json:"fuelPercent"`
	LowFuel       bool        `json:"lowFuel"`
	// EstimatedLaps on the current fuel, Unknown without consumption estimate
	EstimatedLaps float64   `json:"estimatedLaps"`
	AvgPerLap     float64   `json:"avgPerLap"`
	LastLapUsed   float64   `json:"lastLapUsed"`
	LastLapValid  bool      `json:"lastLapValid"`
	History       []float64 `json:"history"`
	Horizon       Horizon   `json:"horizon"`
	Strategy      Strategy  `json:"strategy"`
	PitState      PitState  `json:"pitState"`
	FuelRequested bool      `json:"fuelRequested"`
	PitsOpen      bool      `json:"pitsOpen"`
	Incidents     int       `json:"incidents"`
	TrackTemp     float64   `json:"trackTemp"`
	Throttle      float64   `json:"throttle"`
	Brake         float64   `json:"brake"`
	Clutch        float64   `json:"clutch"`
	TimeOfDay     float64   `json:"timeOfDay"` // seconds since midnight, sim time
}

// Engine combines lap detection, consumption tracking, strategy and pit handling.
// It performs no I/O and is not safe for concurrent use.
type Engine struct {
	laps     LapDetector
	tracker  *Tracker
	pit      *PitHandler
	horizon  Horizon
	strategy Strategy
	last     Sample
	lapCount int // completed laps since the last session change
}

func NewEngine() *Engine {
	return &Engine{
		tracker: NewTracker(),
		pit:     NewPitHandler(),
		horizon: Horizon{RemainingLaps: Unknown, EstimatedLaps: Unknown, RemainingTime: Unknown},
	}
}

// OnTelemetryTick processes one sample. A refuel command is returned when
// the car entered pit road and fuel is needed.
func (e *Engine) OnTelemetryTick(s *Sample, cfg Config) (DisplayValues, *RefuelCommand) {
	e.last = *s
	if _, changed := e.laps.Observe(s); changed {
		e.OnLapChanged(s, cfg)
	}
	e.updateStrategy(s, cfg)

	var cmd *RefuelCommand
	switch e.pit.Detect(s.OnPitRoad) {
	case PitEntered:
		cmd = e.OnPitRoadEntered(cfg)
	case PitLeft:
		e.OnPitRoadLeft()
	case PitNoChange:
	}
	return e.displayValues(s), cmd
}

// OnLapChanged accounts the fuel of the lap which just ended.
func (e *Engine) OnLapChanged(s *Sample, cfg Config) {
	if _, recorded := e.tracker.LapCompleted(
		s.RemainingFuel, LapValid(s, cfg), cfg.NumLapsToAverage); recorded {
		e.lapCount++
	}
}

// OnPitRoadEntered returns the refuel command for this stop, if any.
func (e *Engine) OnPitRoadEntered(cfg Config) *RefuelCommand {
	return e.pit.Enter(e.strategy.PendingAdd, e.last.SessionType, cfg)
}

func (e *Engine) OnPitRoadLeft() {
	e.pit.Leave()
}

// OnSessionChanged resets all fuel state.
func (e *Engine) OnSessionChanged() {
	e.laps.Reset()
	e.tracker.Reset()
	e.pit.Reset()
	e.strategy = Strategy{}
	e.horizon = Horizon{RemainingLaps: Unknown, EstimatedLaps: Unknown, RemainingTime: Unknown}
	e.lapCount = 0
}

func (e *Engine) Tracker() *Tracker       { return e.tracker }
func (e *Engine) PitHandler() *PitHandler { return e.pit }
func (e *Engine) Strategy() Strategy      { return e.strategy }
func (e *Engine) Horizon() Horizon        { return e.horizon }

// RecordedLaps returns the number of laps which went into the history since the last reset.
func (e *Engine) RecordedLaps() int { return e.lapCount }

func (e *Engine) updateStrategy(s *Sample, cfg Config) {
	e.horizon = EstimateHorizon(s)
	e.strategy = ComputeStrategy(
		e.tracker.Average(),
		e.horizon.RemainingLaps,
		s.RemainingFuel,
		s.FuelMaxCapacity,
		cfg)
}

func (e *Engine) displayValues(s *Sample) DisplayValues {
	avg := e.tracker.Average()
	estLaps := float64(Unknown)
	if avg > 0 {
		estLaps = s.RemainingFuel / avg
	}
	return DisplayValues{
		SessionNum:    s.SessionNum,
		SessionType:   s.SessionType,
		Units:         s.DisplayUnits,
		CurrentLap:    CurrentLap(s),
		RemainingFuel: s.RemainingFuel,
		FuelPercent:   s.FuelPercent,
		LowFuel:       s.FuelPercent < LowFuelPercent,
		EstimatedLaps: estLaps,
		AvgPerLap:     avg,
		LastLapUsed:   e.tracker.LastLapUsed(),
		LastLapValid:  e.tracker.LastLapValid(),
		History:       e.tracker.History(),
		Horizon:       e.horizon,
		Strategy:      e.strategy,
		PitState:      e.pit.State(),
		FuelRequested: e.pit.Requested(),
		PitsOpen:      s.PitsOpen,
		Incidents:     s.IncidentCount,
		TrackTemp:     s.TrackTemp,
		Throttle:      s.Throttle,
		Brake:         s.Brake,
		Clutch:        s.Clutch,
		TimeOfDay:     s.SessionTimeOfDay,
	}
}
