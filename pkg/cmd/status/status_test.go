package status

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/go-racehud/internal/fuel"
)

func TestRenderStatus(t *testing.T) {
	buf := bytes.Buffer{}
	renderStatus(&buf, "Spa", "RACE", &fuel.Sample{
		SessionType:          fuel.SessionRace,
		CurrentLap:           5,
		RemainingFuel:        42,
		FuelPercent:          0.7,
		FuelMaxCapacity:      60,
		TotalLaps:            fuel.UnlimitedLaps,
		RemainingLapsEx:      fuel.UnlimitedLaps,
		SessionTimeRemaining: 930,
		EstimatedLapTime:     95,
		DisplayUnits:         fuel.UnitsMetric,
		Throttle:             1,
		SessionTimeOfDay:     50400,
	})
	out := buf.String()
	assert.Contains(t, out, "Spa")
	assert.Contains(t, out, "RACE (Race)")
	assert.Contains(t, out, "42.0 lt (70%)")
	assert.Contains(t, out, "15:30")
	assert.Contains(t, out, "14:00")
	assert.Contains(t, out, "T 100% B 0% C 0%")
}
