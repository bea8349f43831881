//nolint:funlen // test sequences
package fuel

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
)

func raceSample(lap int, fuel float64) Sample {
	return Sample{
		SessionType:          SessionRace,
		SessionFlags:         FlagGreen,
		RemainingFuel:        fuel,
		FuelPercent:          fuel / 60,
		FuelMaxCapacity:      60,
		CurrentLap:           lap,
		TotalLaps:            20,
		RemainingLapsEx:      20 - lap,
		SessionTimeRemaining: 604800,
		EstimatedLapTime:     90,
		DisplayUnits:         UnitsMetric,
	}
}

func TestEngineLapAccounting(t *testing.T) {
	cfg := DefaultConfig()
	e := NewEngine()
	var dv DisplayValues
	// laps 1..7 at 3 liters per lap, lap 1 starts at 40 liters
	for lap := 1; lap <= 7; lap++ {
		s := raceSample(lap, 40-float64(lap-1)*3)
		dv, _ = e.OnTelemetryTick(&s, cfg)
	}
	// lap 1 was observed first, lap 2 primed, laps 2..6 completed
	assert.Equal(t, 5, e.RecordedLaps())
	assert.Len(t, dv.History, 5)
	assert.InDelta(t, 3.0, dv.AvgPerLap, 1e-9)
	assert.InDelta(t, 3.0, dv.LastLapUsed, 1e-9)
	assert.Equal(t, 7, dv.CurrentLap)
	assert.Equal(t, 13, dv.Horizon.RemainingLaps)
	assert.True(t, dv.Strategy.Available)
	// 22 liters left, 39 needed
	assert.InDelta(t, 17.0, dv.Strategy.PendingAdd, 1e-9)
	assert.InDelta(t, 22.0/3.0, dv.EstimatedLaps, 1e-9)
}

func TestEngineHistoryKeepsLastLaps(t *testing.T) {
	cfg := DefaultConfig()
	e := NewEngine()
	used := []float64{3.0, 3.2, 2.9, 3.1, 3.0, 3.3}
	fuel := 50.0
	s := raceSample(1, fuel)
	e.OnTelemetryTick(&s, cfg)
	s = raceSample(2, fuel)
	e.OnTelemetryTick(&s, cfg)
	for i, u := range used {
		fuel -= u
		s = raceSample(3+i, fuel)
		e.OnTelemetryTick(&s, cfg)
	}
	want := []float64{3.2, 2.9, 3.1, 3.0, 3.3}
	if diff := cmp.Diff(want, e.Tracker().History(), cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("history mismatch (-want +got):\n%s", diff)
	}
	assert.InDelta(t, 3.1, e.Tracker().Average(), 1e-9)
}

func TestEngineYellowLapNotRecorded(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AllLapsCount = false
	e := NewEngine()
	s := raceSample(1, 50)
	e.OnTelemetryTick(&s, cfg)
	s = raceSample(2, 50)
	e.OnTelemetryTick(&s, cfg)
	s = raceSample(3, 47)
	s.SessionFlags = FlagYellow
	dv, _ := e.OnTelemetryTick(&s, cfg)
	assert.InDelta(t, 3.0, dv.LastLapUsed, 1e-9)
	assert.False(t, dv.LastLapValid)
	assert.Empty(t, dv.History)
	assert.False(t, dv.Strategy.Available)
}

func TestEnginePitRequestOncePerStop(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AutoRefuel = true
	e := NewEngine()
	commands := []*RefuelCommand{}
	tick := func(s Sample) {
		if _, cmd := e.OnTelemetryTick(&s, cfg); cmd != nil {
			commands = append(commands, cmd)
		}
	}
	// start in pit box, leave pit road
	s := raceSample(1, 20)
	s.OnPitRoad = true
	tick(s)
	tick(raceSample(1, 20))
	for lap := 2; lap <= 4; lap++ {
		tick(raceSample(lap, 20-float64(lap-2)*4))
	}
	// 2 laps recorded at 4 liters, 12 liters left, 16 laps to go
	assert.Empty(t, commands)
	for i := 0; i < 5; i++ {
		s = raceSample(4, 12)
		s.OnPitRoad = true
		tick(s)
	}
	assert.Equal(t, []*RefuelCommand{{Amount: 52}}, commands)
	// a full tank is still 4 liters short, the next stop requests again
	tick(raceSample(4, 60))
	assert.False(t, e.PitHandler().Requested())
	s = raceSample(4, 60)
	s.OnPitRoad = true
	tick(s)
	tick(s)
	assert.Equal(t, []*RefuelCommand{{Amount: 52}, {Amount: 4}}, commands)
}

func TestEngineOnPitRoadEnteredTwice(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AutoRefuel = true
	e := NewEngine()
	s := raceSample(1, 20)
	e.OnTelemetryTick(&s, cfg)
	for lap := 2; lap <= 4; lap++ {
		s = raceSample(lap, 20-float64(lap-2)*4)
		e.OnTelemetryTick(&s, cfg)
	}
	assert.NotNil(t, e.OnPitRoadEntered(cfg))
	assert.Nil(t, e.OnPitRoadEntered(cfg))
	e.OnPitRoadLeft()
	assert.NotNil(t, e.OnPitRoadEntered(cfg))
}

func TestEngineNoRequestInQualify(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AutoRefuel = true
	e := NewEngine()
	var cmd *RefuelCommand
	for lap := 1; lap <= 4; lap++ {
		s := raceSample(lap, 20-float64(lap)*4)
		s.SessionType = SessionQualify
		e.OnTelemetryTick(&s, cfg)
	}
	s := raceSample(4, 4)
	s.SessionType = SessionQualify
	s.OnPitRoad = true
	_, cmd = e.OnTelemetryTick(&s, cfg)
	assert.Nil(t, cmd)
	assert.Positive(t, e.Strategy().PendingAdd)
}

func TestEngineSessionChanged(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AutoRefuel = true
	e := NewEngine()
	for lap := 1; lap <= 4; lap++ {
		s := raceSample(lap, 40-float64(lap)*3)
		e.OnTelemetryTick(&s, cfg)
	}
	assert.NotEmpty(t, e.Tracker().History())

	e.OnSessionChanged()
	assert.Empty(t, e.Tracker().History())
	assert.False(t, e.Strategy().Available)
	assert.Equal(t, PitOnPitRoad, e.PitHandler().State())
	assert.True(t, e.PitHandler().Requested())
	assert.Equal(t, 0, e.RecordedLaps())

	// still on pit road after the reset: no request
	s := raceSample(1, 5)
	s.OnPitRoad = true
	_, cmd := e.OnTelemetryTick(&s, cfg)
	assert.Nil(t, cmd)
	// the lap in progress is partial, the first transition only primes
	s = raceSample(2, 5)
	dv, _ := e.OnTelemetryTick(&s, cfg)
	assert.Empty(t, dv.History)
	assert.Equal(t, PitOnTrack, dv.PitState)
}

func TestEnginePreStartKeepsLapZero(t *testing.T) {
	cfg := DefaultConfig()
	e := NewEngine()
	s := raceSample(3, 50)
	s.PreStart = true
	dv, _ := e.OnTelemetryTick(&s, cfg)
	assert.Equal(t, 0, dv.CurrentLap)
	s = raceSample(-1, 50)
	dv, _ = e.OnTelemetryTick(&s, cfg)
	assert.Equal(t, 0, dv.CurrentLap)
	assert.False(t, e.Tracker().Primed())
}

func TestEngineLowFuel(t *testing.T) {
	e := NewEngine()
	s := raceSample(1, 5)
	dv, _ := e.OnTelemetryTick(&s, DefaultConfig())
	assert.True(t, dv.LowFuel)
	assert.Equal(t, float64(Unknown), dv.EstimatedLaps)
}

func TestEngineForwardsInputsAndTimeOfDay(t *testing.T) {
	e := NewEngine()
	s := raceSample(3, 30)
	s.Throttle = 0.9
	s.Brake = 0.2
	s.Clutch = 1
	s.SessionTimeOfDay = 48600
	dv, _ := e.OnTelemetryTick(&s, DefaultConfig())
	assert.Equal(t, 0.9, dv.Throttle)
	assert.Equal(t, 0.2, dv.Brake)
	assert.Equal(t, 1.0, dv.Clutch)
	assert.Equal(t, 48600.0, dv.TimeOfDay)
}
