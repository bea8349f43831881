package telemetry

import (
	"fmt"

	"github.com/mpapenbr/goirsdk/irsdk"
	goyaml "gopkg.in/yaml.v3"

	"github.com/mpapenbr/go-racehud/internal/fuel"
	"github.com/mpapenbr/go-racehud/log"
)

// VarReader is the part of the irsdk api used to build samples
type VarReader interface {
	GetIntValue(key string) (int32, error)
	GetValue(key string) (any, error)
	GetYamlString() string
}

type (
	// sessionYaml holds the session info entries we need.
	// Only the fields listed here are decoded.
	sessionYaml struct {
		WeekendInfo struct {
			TrackDisplayName string `yaml:"TrackDisplayName"`
			TrackSurfaceTemp string `yaml:"TrackSurfaceTemp"`
		} `yaml:"WeekendInfo"`
		SessionInfo struct {
			Sessions []struct {
				SessionNum  int    `yaml:"SessionNum"`
				SessionType string `yaml:"SessionType"`
				SessionName string `yaml:"SessionName"`
			} `yaml:"Sessions"`
		} `yaml:"SessionInfo"`
		DriverInfo struct {
			DriverCarIdx        int     `yaml:"DriverCarIdx"`
			DriverCarFuelMaxLtr float64 `yaml:"DriverCarFuelMaxLtr"`
			DriverCarMaxFuelPct float64 `yaml:"DriverCarMaxFuelPct"`
			DriverCarEstLapTime float64 `yaml:"DriverCarEstLapTime"`
		} `yaml:"DriverInfo"`
	}

	// Provider builds fuel samples from the iRacing telemetry
	Provider struct {
		r        VarReader
		rawYaml  string
		yaml     sessionYaml
		yamlErrs int
		l        *log.Logger
	}
	ProviderOption func(*Provider)
)

func WithLogger(l *log.Logger) ProviderOption {
	return func(p *Provider) {
		p.l = l
	}
}

func NewProvider(r VarReader, opts ...ProviderOption) *Provider {
	ret := &Provider{r: r, l: log.Default().Named("telemetry")}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Sample reads the current telemetry values of the player car.
func (p *Provider) Sample() (*fuel.Sample, error) {
	if err := p.refreshYaml(); err != nil {
		return nil, err
	}
	sessionNum := int(justValue(p.r.GetIntValue("SessionNum")).(int32))
	state := justValue(p.r.GetIntValue("SessionState")).(int32)
	ret := &fuel.Sample{
		SessionNum:           sessionNum,
		SessionType:          fuel.ParseSessionType(p.SessionType(sessionNum)),
		SessionFlags:         fuel.SessionFlag(uint32(justValue(p.r.GetIntValue("SessionFlags")).(int32))),
		PreStart:             state < int32(irsdk.StateRacing),
		RemainingFuel:        max(0, p.floatValue("FuelLevel")),
		FuelPercent:          gate(p.floatValue("FuelLevelPct")),
		FuelMaxCapacity:      p.fuelMaxCapacity(),
		CurrentLap:           int(justValue(p.r.GetIntValue("Lap")).(int32)),
		OnPitRoad:            p.boolValue("OnPitRoad"),
		TotalLaps:            int(justValue(p.r.GetIntValue("SessionLapsTotal")).(int32)),
		RemainingLapsEx:      int(justValue(p.r.GetIntValue("SessionLapsRemainEx")).(int32)),
		SessionTimeRemaining: p.floatValue("SessionTimeRemain"),
		EstimatedLapTime:     p.estimatedLapTime(),
		DisplayUnits:         fuel.Units(justValue(p.r.GetIntValue("DisplayUnits")).(int32)),
		PitsOpen:             p.boolValue("PitsOpen"),
		IncidentCount:        int(justValue(p.r.GetIntValue("PlayerCarMyIncidentCount")).(int32)),
		TrackTemp:            p.trackTemp(),
		Throttle:             gate(p.floatValue("Throttle")),
		Brake:                gate(p.floatValue("Brake")),
		Clutch:               p.clutch(),
		SessionTimeOfDay:     p.floatValue("SessionTimeOfDay"),
	}
	return ret, nil
}

// SessionType returns the raw session type name of session num
func (p *Provider) SessionType(num int) string {
	for _, s := range p.yaml.SessionInfo.Sessions {
		if s.SessionNum == num {
			return s.SessionType
		}
	}
	return ""
}

// SessionName returns the session name of session num, "n.a." if unknown
func (p *Provider) SessionName(num int) string {
	for _, s := range p.yaml.SessionInfo.Sessions {
		if s.SessionNum == num {
			return s.SessionName
		}
	}
	return "n.a."
}

func (p *Provider) TrackName() string {
	return p.yaml.WeekendInfo.TrackDisplayName
}

// HasSessionInfo is true if the session yaml contains sessions and a fuel tank size
func (p *Provider) HasSessionInfo() bool {
	if err := p.refreshYaml(); err != nil {
		return false
	}
	return len(p.yaml.SessionInfo.Sessions) > 0 && p.yaml.DriverInfo.DriverCarFuelMaxLtr > 0
}

func (p *Provider) refreshYaml() error {
	raw := p.r.GetYamlString()
	if raw == p.rawYaml {
		return nil
	}
	var y sessionYaml
	if err := goyaml.Unmarshal([]byte(raw), &y); err != nil {
		p.yamlErrs++
		p.l.Error("Error unmarshalling irsdk yaml",
			log.ErrorField(err), log.Int("errors", p.yamlErrs))
		return fmt.Errorf("session yaml: %w", err)
	}
	p.rawYaml = raw
	p.yaml = y
	return nil
}

// fuel the car may carry, restricted by the series max fuel percentage
func (p *Provider) fuelMaxCapacity() float64 {
	d := p.yaml.DriverInfo
	if d.DriverCarMaxFuelPct > 0 {
		return d.DriverCarFuelMaxLtr * d.DriverCarMaxFuelPct
	}
	return d.DriverCarFuelMaxLtr
}

// best lap of the player, last lap as fallback, iRacing estimate otherwise
func (p *Provider) estimatedLapTime() float64 {
	for _, key := range []string{"LapBestLapTime", "LapLastLapTime"} {
		if v := p.floatValue(key); v > 0 {
			return v
		}
	}
	return p.yaml.DriverInfo.DriverCarEstLapTime
}

func (p *Provider) trackTemp() float64 {
	if v := p.floatValue("TrackTempCrew"); v != 0 {
		return v
	}
	v, _ := GetMetricUnit(p.yaml.WeekendInfo.TrackSurfaceTemp)
	return v
}

// the simulator reports 1 for a released clutch
func (p *Provider) clutch() float64 {
	if _, err := p.r.GetValue("Clutch"); err != nil {
		return 0
	}
	return 1 - gate(p.floatValue("Clutch"))
}

func (p *Provider) floatValue(key string) float64 {
	switch v := justValue(p.r.GetValue(key)).(type) {
	case float32:
		return float64(v)
	case float64:
		return v
	case int32:
		return float64(v)
	default:
		return 0
	}
}

func (p *Provider) boolValue(key string) bool {
	if v, ok := justValue(p.r.GetValue(key)).(bool); ok {
		return v
	}
	return false
}
