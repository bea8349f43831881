// Package present formats display values for text output.
package present

import (
	"fmt"
	"math"

	"github.com/mpapenbr/go-racehud/internal/fuel"
)

const Placeholder = "--"

func UnitLabel(u fuel.Units) string {
	if u == fuel.UnitsImperial {
		return "gl"
	}
	return "lt"
}

// Volume formats liters in the given display units
func Volume(liters float64, u fuel.Units) string {
	return fmt.Sprintf("%3.1f %s", fuel.ToDisplayVolume(liters, u), UnitLabel(u))
}

// RemainingLaps shows "--" when the value is unknown, an approximation for
// time limited sessions and the exact number otherwise.
func RemainingLaps(h fuel.Horizon, st fuel.SessionType) string {
	if st == fuel.SessionUnknown || h.RemainingLaps < 0 {
		return Placeholder
	}
	if h.TimeLimited {
		return fmt.Sprintf("~%.1f", h.EstimatedLaps)
	}
	return fmt.Sprintf("%d", h.RemainingLaps)
}

// SessionTime formats seconds as [h:]mm:ss, "n/a" if unknown
func SessionTime(seconds float64) string {
	if seconds < 0 {
		return "n/a"
	}
	total := int(math.Floor(seconds))
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// TimeOfDay formats seconds since midnight as hh:mm, "n/a" if unknown
func TimeOfDay(seconds float64) string {
	if seconds < 0 {
		return "n/a"
	}
	total := int(math.Floor(seconds)) % (24 * 3600)
	return fmt.Sprintf("%02d:%02d", total/3600, (total%3600)/60)
}

// Pedal shows a pedal input (0.0-1.0) in percent
func Pedal(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

// Consumption shows the average and the last lap usage as "avg [last]"
func Consumption(dv *fuel.DisplayValues) string {
	if dv.AvgPerLap <= 0 {
		if dv.LastLapUsed > 0 {
			return fmt.Sprintf("%s [%3.2f]", Placeholder, fuel.ToDisplayVolume(dv.LastLapUsed, dv.Units))
		}
		return Placeholder
	}
	return fmt.Sprintf("%3.2f [%3.2f]",
		fuel.ToDisplayVolume(dv.AvgPerLap, dv.Units),
		fuel.ToDisplayVolume(dv.LastLapUsed, dv.Units))
}

// EstimatedLaps of the current fuel load
func EstimatedLaps(dv *fuel.DisplayValues) string {
	if dv.EstimatedLaps < 0 {
		return Placeholder
	}
	return fmt.Sprintf("%.1f", dv.EstimatedLaps)
}

// Refuel shows the amount to add at the next stop
func Refuel(dv *fuel.DisplayValues) string {
	if !dv.Strategy.Available {
		return Placeholder
	}
	return Volume(dv.Strategy.PendingAdd, dv.Units)
}

// AtFinish shows the fuel left at the finish
func AtFinish(dv *fuel.DisplayValues) string {
	if !dv.Strategy.Available {
		return Placeholder
	}
	return Volume(dv.Strategy.ProjectedAtFinish, dv.Units)
}

// FuelLevel shows the remaining fuel, with a marker when running low
func FuelLevel(dv *fuel.DisplayValues) string {
	ret := Volume(dv.RemainingFuel, dv.Units)
	if dv.LowFuel {
		ret += " !"
	}
	return ret
}

// Line is a single line summary used for log output
func Line(dv *fuel.DisplayValues) string {
	return fmt.Sprintf("lap %d fuel %s (%.0f%%) laps %s avg %s left %s add %s time %s",
		dv.CurrentLap,
		FuelLevel(dv),
		dv.FuelPercent*100,
		EstimatedLaps(dv),
		Consumption(dv),
		RemainingLaps(dv.Horizon, dv.SessionType),
		Refuel(dv),
		SessionTime(dv.Horizon.RemainingTime))
}
