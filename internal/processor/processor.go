package processor

import (
	"context"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/mpapenbr/go-racehud/internal/fuel"
	"github.com/mpapenbr/go-racehud/log"
	"github.com/mpapenbr/go-racehud/pkg/broadcast"
	"github.com/mpapenbr/go-racehud/pkg/pitcmd"
)

type (
	// ConfigSource provides the fuel settings. Changed reports a pending reload.
	ConfigSource interface {
		Load() fuel.Config
		Changed() bool
	}
	// Recorder writes processed data to a message log
	Recorder interface {
		LogSample(s *fuel.Sample) error
		LogRefuel(c fuel.RefuelCommand) error
		LogSessionReset() error
	}
	LapCallback func(dv *fuel.DisplayValues)
)

type Options struct {
	PublishInterval time.Duration
	Dispatcher      pitcmd.Dispatcher
	Recorder        Recorder
	Output          *broadcast.Broadcaster[fuel.DisplayValues]
	LapCallback     LapCallback
	Clock           func() time.Time
}

func defaultOptions() *Options {
	return &Options{
		PublishInterval: 1 * time.Second,
		Clock:           time.Now,
	}
}

// functional options pattern for Options
type OptionsFunc func(*Options)

func WithPublishInterval(d time.Duration) OptionsFunc {
	return func(o *Options) {
		o.PublishInterval = d
	}
}

func WithDispatcher(d pitcmd.Dispatcher) OptionsFunc {
	return func(o *Options) {
		o.Dispatcher = d
	}
}

func WithRecorder(r Recorder) OptionsFunc {
	return func(o *Options) {
		o.Recorder = r
	}
}

func WithOutput(b *broadcast.Broadcaster[fuel.DisplayValues]) OptionsFunc {
	return func(o *Options) {
		o.Output = b
	}
}

// WithLapCallback registers a function called after each lap change
func WithLapCallback(cb LapCallback) OptionsFunc {
	return func(o *Options) {
		o.LapCallback = cb
	}
}

func WithClock(c func() time.Time) OptionsFunc {
	return func(o *Options) {
		o.Clock = c
	}
}

// Stats are counters collected while processing
type Stats struct {
	Ticks            int
	Published        int
	Commands         int
	FailedDispatches int
	SessionResets    int
	ConfigReloads    int
}

// Processor drives the fuel engine once per telemetry tick.
type Processor struct {
	ctx             context.Context
	options         *Options
	engine          *fuel.Engine
	cfgSource       ConfigSource
	cfg             fuel.Config
	sessionProc     *SessionProc
	lastPublish     time.Time
	lastLap         int
	last            fuel.DisplayValues
	stats           Stats
	l               *log.Logger
	recordingFailed bool
}

func NewProcessor(
	ctx context.Context,
	cfgSource ConfigSource,
	options ...OptionsFunc,
) *Processor {
	opts := defaultOptions()
	for _, o := range options {
		o(opts)
	}
	ret := &Processor{
		ctx:         ctx,
		options:     opts,
		engine:      fuel.NewEngine(),
		cfgSource:   cfgSource,
		cfg:         cfgSource.Load(),
		sessionProc: NewSessionProc(),
		l:           log.GetFromContext(ctx).Named("proc"),
	}
	ret.l.Info("Fuel config",
		log.Bool("allLapsCount", ret.cfg.AllLapsCount),
		log.Int("numLapsToAverage", ret.cfg.NumLapsToAverage),
		log.Float64("additionalFuel", ret.cfg.AdditionalFuelMargin),
		log.Bool("autoRefuel", ret.cfg.AutoRefuel))
	return ret
}

// Process handles one telemetry sample
func (p *Processor) Process(s *fuel.Sample) {
	p.stats.Ticks++
	sessionChanged := p.sessionProc.Process(s)
	if sessionChanged {
		p.SessionReset()
	}
	p.reloadConfig()
	p.record(func(r Recorder) error { return r.LogSample(s) })

	dv, cmd := p.engine.OnTelemetryTick(s, p.cfg)
	if cmd != nil {
		p.dispatch(*cmd)
	}
	lapChanged := p.stats.Ticks > 1 && dv.CurrentLap != p.lastLap
	p.lastLap = dv.CurrentLap
	p.last = dv
	if lapChanged && p.options.LapCallback != nil {
		p.options.LapCallback(&dv)
	}

	now := p.options.Clock()
	if sessionChanged || lapChanged || cmd != nil ||
		!now.Before(p.lastPublish.Add(p.options.PublishInterval)) {
		p.publish(&dv, now)
	}
}

// SessionReset resets all fuel state. It is called on session changes
// and for recorded session resets during replays.
func (p *Processor) SessionReset() {
	p.l.Info("Session changed, resetting fuel data",
		log.Int("sessionNum", p.sessionProc.SessionNum()),
		log.String("sessionType", p.sessionProc.SessionType().String()))
	p.engine.OnSessionChanged()
	// the next tick counts as a lap change even if the lap number is the same
	p.lastLap = fuel.Unknown
	p.stats.SessionResets++
	p.record(func(r Recorder) error { return r.LogSessionReset() })
}

func (p *Processor) Config() fuel.Config      { return p.cfg }
func (p *Processor) Last() fuel.DisplayValues { return p.last }
func (p *Processor) Stats() Stats             { return p.stats }
func (p *Processor) Engine() *fuel.Engine     { return p.engine }

func (p *Processor) reloadConfig() {
	if !p.cfgSource.Changed() {
		return
	}
	cfg := p.cfgSource.Load()
	if diff := cmp.Diff(p.cfg, cfg); diff != "" {
		p.l.Info("Fuel config changed", log.String("diff", diff))
	}
	p.cfg = cfg
	p.stats.ConfigReloads++
}

func (p *Processor) dispatch(cmd fuel.RefuelCommand) {
	p.stats.Commands++
	p.l.Info("Requesting fuel", log.Float64("amount", cmd.Amount))
	p.record(func(r Recorder) error { return r.LogRefuel(cmd) })
	if p.options.Dispatcher == nil {
		return
	}
	if err := p.options.Dispatcher.Dispatch(p.ctx, cmd); err != nil {
		p.stats.FailedDispatches++
		p.l.Error("Could not dispatch refuel command",
			log.Float64("amount", cmd.Amount),
			log.ErrorField(err))
	}
}

func (p *Processor) publish(dv *fuel.DisplayValues, now time.Time) {
	p.lastPublish = now
	p.stats.Published++
	if p.options.Output != nil {
		p.options.Output.Broadcast(*dv)
	}
}

// record writes to the recorder. After the first error recording is disabled.
func (p *Processor) record(fn func(r Recorder) error) {
	if p.options.Recorder == nil || p.recordingFailed {
		return
	}
	if err := fn(p.options.Recorder); err != nil {
		p.recordingFailed = true
		p.l.Error("Could not write message log, recording disabled", log.ErrorField(err))
	}
}
