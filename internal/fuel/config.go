package fuel

const (
	DefaultAllLapsCount         = true
	DefaultNumLapsToAverage     = 5
	DefaultAdditionalFuelMargin = 0.0
	DefaultAutoRefuel           = false
)

// Config holds the fuel related settings. It is passed into every engine call.
type Config struct {
	// AllLapsCount accepts every completed lap for the average when true.
	AllLapsCount bool `yaml:"allLapsCount"`
	// NumLapsToAverage is the size of the lap history. Must be > 0.
	NumLapsToAverage int `yaml:"numLapsToAverage"`
	// AdditionalFuelMargin is the number of laps worth of fuel added on top
	// of the computed amount.
	AdditionalFuelMargin float64 `yaml:"additionalFuelMargin"`
	AutoRefuel           bool    `yaml:"autoRefuel"`
}

func DefaultConfig() Config {
	return Config{
		AllLapsCount:         DefaultAllLapsCount,
		NumLapsToAverage:     DefaultNumLapsToAverage,
		AdditionalFuelMargin: DefaultAdditionalFuelMargin,
		AutoRefuel:           DefaultAutoRefuel,
	}
}
