package msglog

import "github.com/mpapenbr/go-racehud/internal/fuel"

// fixed size wire representations, written with encoding/binary

type refuelRecord struct {
	Amount float64
}

type sampleRecord struct {
	SessionNum           int32
	SessionType          int8
	SessionFlags         uint32
	PreStart             bool
	RemainingFuel        float64
	FuelPercent          float64
	FuelMaxCapacity      float64
	CurrentLap           int32
	OnPitRoad            bool
	TotalLaps            int32
	RemainingLapsEx      int32
	SessionTimeRemaining float64
	EstimatedLapTime     float64
	DisplayUnits         int8
	PitsOpen             bool
	IncidentCount        int32
	TrackTemp            float64
	Throttle             float64
	Brake                float64
	Clutch               float64
	SessionTimeOfDay     float64
}

func toSampleRecord(s *fuel.Sample) *sampleRecord {
	return &sampleRecord{
		SessionNum:           int32(s.SessionNum),
		SessionType:          int8(s.SessionType),
		SessionFlags:         uint32(s.SessionFlags),
		PreStart:             s.PreStart,
		RemainingFuel:        s.RemainingFuel,
		FuelPercent:          s.FuelPercent,
		FuelMaxCapacity:      s.FuelMaxCapacity,
		CurrentLap:           int32(s.CurrentLap),
		OnPitRoad:            s.OnPitRoad,
		TotalLaps:            int32(s.TotalLaps),
		RemainingLapsEx:      int32(s.RemainingLapsEx),
		SessionTimeRemaining: s.SessionTimeRemaining,
		EstimatedLapTime:     s.EstimatedLapTime,
		DisplayUnits:         int8(s.DisplayUnits),
		PitsOpen:             s.PitsOpen,
		IncidentCount:        int32(s.IncidentCount),
		TrackTemp:            s.TrackTemp,
		Throttle:             s.Throttle,
		Brake:                s.Brake,
		Clutch:               s.Clutch,
		SessionTimeOfDay:     s.SessionTimeOfDay,
	}
}

func (r *sampleRecord) toSample() *fuel.Sample {
	return &fuel.Sample{
		SessionNum:           int(r.SessionNum),
		SessionType:          fuel.SessionType(r.SessionType),
		SessionFlags:         fuel.SessionFlag(r.SessionFlags),
		PreStart:             r.PreStart,
		RemainingFuel:        r.RemainingFuel,
		FuelPercent:          r.FuelPercent,
		FuelMaxCapacity:      r.FuelMaxCapacity,
		CurrentLap:           int(r.CurrentLap),
		OnPitRoad:            r.OnPitRoad,
		TotalLaps:            int(r.TotalLaps),
		RemainingLapsEx:      int(r.RemainingLapsEx),
		SessionTimeRemaining: r.SessionTimeRemaining,
		EstimatedLapTime:     r.EstimatedLapTime,
		DisplayUnits:         fuel.Units(r.DisplayUnits),
		PitsOpen:             r.PitsOpen,
		IncidentCount:        int(r.IncidentCount),
		TrackTemp:            r.TrackTemp,
		Throttle:             r.Throttle,
		Brake:                r.Brake,
		Clutch:               r.Clutch,
		SessionTimeOfDay:     r.SessionTimeOfDay,
	}
}
