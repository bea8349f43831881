package config

import (
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/mpapenbr/go-racehud/internal/fuel"
)

const (
	KeyAllLapsCount   = "fuel_all_laps_count"
	KeyNumLapsAverage = "fuel_estimate_avg_green_laps"
	KeyAdditionalFuel = "fuel_additional_fuel"
	KeyAutoRefuel     = "fuel_auto_refuel"
)

// FuelSource reads the fuel settings from viper. A change of the config file
// is signaled via Changed.
type FuelSource struct {
	v       *viper.Viper
	changed atomic.Bool
}

func NewFuelSource(v *viper.Viper) *FuelSource {
	v.SetDefault(KeyAllLapsCount, fuel.DefaultAllLapsCount)
	v.SetDefault(KeyNumLapsAverage, fuel.DefaultNumLapsToAverage)
	v.SetDefault(KeyAdditionalFuel, fuel.DefaultAdditionalFuelMargin)
	v.SetDefault(KeyAutoRefuel, fuel.DefaultAutoRefuel)
	return &FuelSource{v: v}
}

// Load returns the current fuel settings. Out of range values are replaced.
func (s *FuelSource) Load() fuel.Config {
	ret := fuel.Config{
		AllLapsCount:         s.v.GetBool(KeyAllLapsCount),
		NumLapsToAverage:     s.v.GetInt(KeyNumLapsAverage),
		AdditionalFuelMargin: s.v.GetFloat64(KeyAdditionalFuel),
		AutoRefuel:           s.v.GetBool(KeyAutoRefuel),
	}
	if ret.NumLapsToAverage < 1 {
		ret.NumLapsToAverage = fuel.DefaultNumLapsToAverage
	}
	if ret.AdditionalFuelMargin < 0 {
		ret.AdditionalFuelMargin = 0
	}
	return ret
}

// Watch starts watching the config file. onEvent may be nil.
func (s *FuelSource) Watch(onEvent func(e fsnotify.Event)) {
	s.v.OnConfigChange(func(e fsnotify.Event) {
		s.changed.Store(true)
		if onEvent != nil {
			onEvent(e)
		}
	})
	s.v.WatchConfig()
}

// MarkChanged forces a reload on the next Changed call.
func (s *FuelSource) MarkChanged() {
	s.changed.Store(true)
}

// Changed reports if the config changed since the last call.
func (s *FuelSource) Changed() bool {
	return s.changed.CompareAndSwap(true, false)
}
