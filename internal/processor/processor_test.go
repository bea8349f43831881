//nolint:funlen // test sequences
package processor

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/go-racehud/internal/fuel"
	"github.com/mpapenbr/go-racehud/log"
	"github.com/mpapenbr/go-racehud/pkg/broadcast"
)

type staticConfig struct {
	cfg     fuel.Config
	changed bool
	loads   int
}

func (s *staticConfig) Load() fuel.Config {
	s.loads++
	return s.cfg
}

func (s *staticConfig) Changed() bool {
	ret := s.changed
	s.changed = false
	return ret
}

type fakeDispatcher struct {
	cmds []fuel.RefuelCommand
	err  error
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, cmd fuel.RefuelCommand) error {
	f.cmds = append(f.cmds, cmd)
	return f.err
}

func (f *fakeDispatcher) Close() error { return nil }

type fakeRecorder struct {
	samples, refuels, resets int
	err                      error
}

func (f *fakeRecorder) LogSample(s *fuel.Sample) error {
	f.samples++
	return f.err
}

func (f *fakeRecorder) LogRefuel(c fuel.RefuelCommand) error {
	f.refuels++
	return f.err
}

func (f *fakeRecorder) LogSessionReset() error {
	f.resets++
	return f.err
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func testContext() context.Context {
	return log.AddToContext(context.Background(), log.New(&bytes.Buffer{}, log.DebugLevel))
}

func sample(sessionNum, lap int, fuelLevel float64, onPitRoad bool) *fuel.Sample {
	return &fuel.Sample{
		SessionNum:           sessionNum,
		SessionType:          fuel.SessionRace,
		SessionFlags:         fuel.FlagGreen,
		RemainingFuel:        fuelLevel,
		FuelPercent:          fuelLevel / 60,
		FuelMaxCapacity:      60,
		CurrentLap:           lap,
		OnPitRoad:            onPitRoad,
		TotalLaps:            20,
		RemainingLapsEx:      20 - lap,
		SessionTimeRemaining: 604800,
		EstimatedLapTime:     90,
	}
}

func TestProcessorDispatchesRefuel(t *testing.T) {
	cfg := fuel.DefaultConfig()
	cfg.AutoRefuel = true
	disp := &fakeDispatcher{}
	rec := &fakeRecorder{}
	p := NewProcessor(testContext(), &staticConfig{cfg: cfg},
		WithDispatcher(disp),
		WithRecorder(rec))

	p.Process(sample(1, 1, 20, false))
	for lap := 2; lap <= 4; lap++ {
		p.Process(sample(1, lap, 20-float64(lap-2)*4, false))
	}
	for i := 0; i < 3; i++ {
		p.Process(sample(1, 4, 12, true))
	}
	assert.Equal(t, []fuel.RefuelCommand{{Amount: 52}}, disp.cmds)
	assert.Equal(t, 1, p.Stats().Commands)
	assert.Equal(t, 7, rec.samples)
	assert.Equal(t, 1, rec.refuels)
}

func TestProcessorDispatchErrorIsCounted(t *testing.T) {
	cfg := fuel.DefaultConfig()
	cfg.AutoRefuel = true
	disp := &fakeDispatcher{err: errors.New("bridge down")}
	p := NewProcessor(testContext(), &staticConfig{cfg: cfg}, WithDispatcher(disp))
	p.Process(sample(1, 1, 20, false))
	for lap := 2; lap <= 4; lap++ {
		p.Process(sample(1, lap, 20-float64(lap-2)*4, false))
	}
	p.Process(sample(1, 4, 12, true))
	assert.Len(t, disp.cmds, 1)
	assert.Equal(t, 1, p.Stats().FailedDispatches)
}

func TestProcessorSessionChange(t *testing.T) {
	rec := &fakeRecorder{}
	p := NewProcessor(testContext(), &staticConfig{cfg: fuel.DefaultConfig()}, WithRecorder(rec))
	for lap := 1; lap <= 4; lap++ {
		p.Process(sample(1, lap, 40-float64(lap)*3, false))
	}
	assert.NotEmpty(t, p.Last().History)
	assert.Equal(t, 0, p.Stats().SessionResets)

	p.Process(sample(2, 1, 60, true))
	assert.Equal(t, 1, p.Stats().SessionResets)
	assert.Equal(t, 1, rec.resets)
	assert.Empty(t, p.Last().History)
	assert.True(t, p.Last().FuelRequested)

	// same session number, other type
	s := sample(2, 1, 60, true)
	s.SessionType = fuel.SessionQualify
	p.Process(s)
	assert.Equal(t, 2, p.Stats().SessionResets)
}

func TestProcessorConfigReload(t *testing.T) {
	src := &staticConfig{cfg: fuel.DefaultConfig()}
	p := NewProcessor(testContext(), src)
	assert.Equal(t, 1, src.loads)

	p.Process(sample(1, 1, 40, false))
	assert.Equal(t, 1, src.loads)

	src.cfg.NumLapsToAverage = 2
	src.changed = true
	p.Process(sample(1, 1, 40, false))
	assert.Equal(t, 2, src.loads)
	assert.Equal(t, 2, p.Config().NumLapsToAverage)
	assert.Equal(t, 1, p.Stats().ConfigReloads)
}

func TestProcessorPublishThrottle(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	out := broadcast.NewBroadcaster[fuel.DisplayValues]()
	p := NewProcessor(testContext(), &staticConfig{cfg: fuel.DefaultConfig()},
		WithOutput(out),
		WithPublishInterval(time.Second),
		WithClock(clock.Now))

	p.Process(sample(1, 1, 40, false)) // first tick always publishes
	assert.Equal(t, 1, p.Stats().Published)
	for i := 0; i < 5; i++ {
		clock.Advance(100 * time.Millisecond)
		p.Process(sample(1, 1, 40, false))
	}
	assert.Equal(t, 1, p.Stats().Published)

	clock.Advance(500 * time.Millisecond)
	p.Process(sample(1, 1, 39, false))
	assert.Equal(t, 2, p.Stats().Published)

	// lap change publishes immediately
	clock.Advance(10 * time.Millisecond)
	p.Process(sample(1, 2, 38, false))
	assert.Equal(t, 3, p.Stats().Published)

	last, ok := out.Last()
	assert.True(t, ok)
	assert.Equal(t, 2, last.CurrentLap)
}

func TestProcessorLapCallback(t *testing.T) {
	laps := []int{}
	p := NewProcessor(testContext(), &staticConfig{cfg: fuel.DefaultConfig()},
		WithLapCallback(func(dv *fuel.DisplayValues) { laps = append(laps, dv.CurrentLap) }))
	for _, lap := range []int{3, 3, 4, 4, 5} {
		p.Process(sample(1, lap, 40, false))
	}
	assert.Equal(t, []int{4, 5}, laps)
}

func TestProcessorRecordingDisabledOnError(t *testing.T) {
	rec := &fakeRecorder{err: errors.New("disk full")}
	p := NewProcessor(testContext(), &staticConfig{cfg: fuel.DefaultConfig()}, WithRecorder(rec))
	p.Process(sample(1, 1, 40, false))
	p.Process(sample(1, 1, 40, false))
	assert.Equal(t, 1, rec.samples)
}

func TestProcessorPublishesAfterReset(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	laps := []int{}
	p := NewProcessor(testContext(), &staticConfig{cfg: fuel.DefaultConfig()},
		WithPublishInterval(time.Minute),
		WithClock(clock.Now),
		WithLapCallback(func(dv *fuel.DisplayValues) { laps = append(laps, dv.CurrentLap) }))

	p.Process(sample(1, 3, 40, false))
	p.Process(sample(1, 3, 40, false))
	assert.Equal(t, 1, p.Stats().Published)

	// a recorded reset keeps session number and lap
	p.SessionReset()
	p.Process(sample(1, 3, 40, false))
	assert.Equal(t, 2, p.Stats().Published)
	assert.Equal(t, []int{3}, laps)

	p.Process(sample(1, 3, 40, false))
	assert.Equal(t, 2, p.Stats().Published)
}
