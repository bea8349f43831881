package msglog

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/go-racehud/internal/fuel"
)

func TestMsgLogger_Log(t *testing.T) {
	sample := fuel.Sample{
		SessionNum:           2,
		SessionType:          fuel.SessionRace,
		SessionFlags:         fuel.FlagGreen | fuel.FlagWhite,
		RemainingFuel:        42.5,
		FuelPercent:          0.7,
		FuelMaxCapacity:      60,
		CurrentLap:           12,
		OnPitRoad:            true,
		TotalLaps:            fuel.UnlimitedLaps,
		RemainingLapsEx:      fuel.UnlimitedLaps,
		SessionTimeRemaining: 930,
		EstimatedLapTime:     95.2,
		DisplayUnits:         fuel.UnitsMetric,
		PitsOpen:             true,
		IncidentCount:        4,
		TrackTemp:            31.5,
		Throttle:             0.8,
		Brake:                0.1,
		Clutch:               0,
		SessionTimeOfDay:     50400.5,
	}
	buf := bytes.NewBuffer(make([]byte, 0, 100))
	writeLogger := NewMsgLogger(WithWriter(buf))
	assert.NoError(t, writeLogger.LogSessionReset())
	assert.NoError(t, writeLogger.LogSample(&sample))
	assert.NoError(t, writeLogger.LogRefuel(fuel.RefuelCommand{Amount: 13}))
	assert.Equal(t, 3, writeLogger.Count())

	readLogger := NewMsgLogger(WithReader(bytes.NewBuffer(buf.Bytes())))
	data := make([]*Record, 0)
	for {
		rec, err := readLogger.ReadNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		data = append(data, rec)
	}
	want := []*Record{
		{Type: MsgSessionReset},
		{Type: MsgSample, Sample: &sample},
		{Type: MsgRefuel, Refuel: &fuel.RefuelCommand{Amount: 13}},
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Errorf("ReadNext() mismatch (-want +got):\n%s", diff)
	}
}

func TestMsgLoggerNoWriter(t *testing.T) {
	m := NewMsgLogger()
	assert.NoError(t, m.LogSessionReset())
	assert.Equal(t, 0, m.Count())
	_, err := m.ReadNext()
	assert.ErrorIs(t, err, ErrNoReader)
}

func TestMsgLoggerUnknownType(t *testing.T) {
	m := NewMsgLogger(WithReader(bytes.NewReader([]byte{99, 0, 0})))
	_, err := m.ReadNext()
	assert.ErrorIs(t, err, ErrUnknownMsgType)
}
