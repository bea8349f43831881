//nolint:funlen // keep things together
package hud

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/mpapenbr/goirsdk/irsdk"

	"github.com/mpapenbr/go-racehud/internal/processor"
	"github.com/mpapenbr/go-racehud/internal/telemetry"
	"github.com/mpapenbr/go-racehud/log"
)

var (
	ErrSimNotAvailable = errors.New("could not connect to iRacing simulation")
	ErrSimStopped      = errors.New("iRacing simulation stopped")
)

type (
	Config struct {
		ctx                    context.Context
		cancel                 context.CancelFunc
		waitForServicesTimeout time.Duration
		waitForDataTimeout     time.Duration
		watchdogInterval       time.Duration
		ensureLiveData         bool
	}
	ConfigFunc func(cfg *Config)
)

// HUD is the main component to control the connection to iRacing Telemetry API
type HUD struct {
	api           *irsdk.Irsdk
	provider      *telemetry.Provider
	proc          *processor.Processor
	simIsRunning  bool
	config        *Config
	log           *log.Logger
	simStatusChan chan bool
	httpClient    *http.Client
}

func defaultConfig() *Config {
	return &Config{
		ctx:                    context.Background(),
		cancel:                 func() {},
		waitForServicesTimeout: 60 * time.Second,
		waitForDataTimeout:     1 * time.Second,
		watchdogInterval:       2 * time.Second,
		ensureLiveData:         true,
	}
}

func WithContext(ctx context.Context, cancelFunc context.CancelFunc) ConfigFunc {
	return func(cfg *Config) { cfg.ctx = ctx; cfg.cancel = cancelFunc }
}

func WithWaitForServicesTimeout(t time.Duration) ConfigFunc {
	return func(cfg *Config) { cfg.waitForServicesTimeout = t }
}

func WithWaitForDataTimeout(t time.Duration) ConfigFunc {
	return func(cfg *Config) { cfg.waitForDataTimeout = t }
}

func WithWatchdogInterval(t time.Duration) ConfigFunc {
	return func(cfg *Config) { cfg.watchdogInterval = t }
}

func WithEnsureLiveData(b bool) ConfigFunc {
	return func(cfg *Config) { cfg.ensureLiveData = b }
}

// NewHUD waits for the simulation and connects to it.
func NewHUD(proc *processor.Processor, cfg ...ConfigFunc) (*HUD, error) {
	c := defaultConfig()
	for _, fn := range cfg {
		fn(c)
	}
	ret := &HUD{
		proc:          proc,
		config:        c,
		log:           log.GetFromContext(c.ctx).Named("hud"),
		simStatusChan: make(chan bool, 1),
		httpClient:    &http.Client{Timeout: 10 * time.Second},
	}
	if !ret.init() {
		return nil, ErrSimNotAvailable
	}
	return ret, nil
}

func (h *HUD) Close() {
	h.log.Debug("Closing HUD")
	if h.api != nil {
		h.api.Close()
	}
}

func (h *HUD) TrackName() string {
	return h.provider.TrackName()
}

func (h *HUD) init() bool {
	initSim := make(chan bool, 1)
	ctx, cancel := context.WithTimeout(h.config.ctx, h.config.waitForServicesTimeout)
	defer cancel()
	h.log.Debug("Waiting for iRacing simulation to be ready")
	go h.initConnectionToSim(ctx, initSim)
	res := <-initSim
	if res {
		h.log.Debug("Connected to iRacing simulation")
		if h.config.watchdogInterval > 0 {
			h.log.Debug("Setting up watchdog",
				log.Duration("interval", h.config.watchdogInterval))
			go h.setupWatchdog(h.config.ctx, h.config.watchdogInterval)
		}
		h.simIsRunning = true
	} else {
		h.log.Error("Could not connect to iRacing simulation")
	}
	return res
}

func (h *HUD) setupWatchdog(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.log.Debug("setupWatchdog received ctx.Done")
			return
		case <-ticker.C:
			simAvail, err := irsdk.IsSimRunning(ctx, h.httpClient)
			if err != nil {
				h.log.Debug("Error checking if sim is running", log.ErrorField(err))
				continue
			}
			if !simAvail {
				h.log.Debug("Sim status", log.Bool("simRunning", simAvail))
				select {
				case h.simStatusChan <- simAvail:
				default:
				}
				return
			}
		}
	}
}

//nolint:gocognit // by design
func (h *HUD) initConnectionToSim(ctx context.Context, result chan<- bool) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			result <- false
			return
		case <-ticker.C:
			simAvail, err := irsdk.IsSimRunning(ctx, h.httpClient)
			if err != nil {
				h.log.Debug("Error checking if sim is running", log.ErrorField(err))
				break
			}
			if !simAvail {
				continue
			}
			h.log.Debug("Sim is running")
			api := irsdk.NewIrsdk()
			api.WaitForValidData()
			provider := telemetry.NewProvider(api, telemetry.WithLogger(h.log.Named("telemetry")))
			if !h.hasValidAPIData(api, provider) {
				api.Close()
				h.log.Debug("iRacing telemetry data not yet ready. Need retry")
				continue
			}
			if h.config.ensureLiveData {
				//nolint:errcheck // by design
				api.ReplaySearch(irsdk.ReplaySearchModeEnd)
			}
			api.GetData()
			h.api = api
			h.provider = provider
			result <- true
			return
		}
	}
}

func (h *HUD) hasValidAPIData(api *irsdk.Irsdk, provider *telemetry.Provider) bool {
	api.GetData()
	return len(api.GetValueKeys()) > 0 && provider.HasSessionInfo()
}

// Run processes telemetry until the context is done or the simulation stops.
func (h *HUD) Run() error {
	procDurations := []time.Duration{}
	getDataDurations := []time.Duration{}
	for {
		select {
		case <-h.config.ctx.Done():
			h.log.Debug("mainLoop received ctx.Done")
			return nil
		case simStatus := <-h.simStatusChan:
			if !simStatus {
				h.log.Warn("Sim is not running. Stopping")
				h.simIsRunning = false
				h.config.cancel()
				return ErrSimStopped
			}
		default:
			startGetData := time.Now()
			ok := h.api.GetDataWithDataReadyTimeout(h.config.waitForDataTimeout)
			getDataDurations = append(getDataDurations, time.Since(startGetData))
			if len(getDataDurations) == statsWindow {
				h.logDurations("getData", getDataDurations)
				getDataDurations = []time.Duration{}
			}
			if !ok {
				h.log.Warn("no new data available")
				continue
			}
			startProc := time.Now()
			s, err := h.provider.Sample()
			if err != nil {
				h.log.Warn("could not read telemetry sample", log.ErrorField(err))
				continue
			}
			h.proc.Process(s)
			procDurations = append(procDurations, time.Since(startProc))
			if len(procDurations) == statsWindow {
				h.logDurations("processedData", procDurations)
				procDurations = []time.Duration{}
			}
		}
	}
}
