package telemetry

import (
	"errors"
	"regexp"
	"strconv"
)

var ErrUnknownValueWithUnit = errors.New("unknown value with unit format")

var valueWithUnit = regexp.MustCompile(`^\s*(?P<value>[0-9.-]+)\s*(?P<unit>.*)$`)

func justValue(v any, _ error) any {
	return v
}

func gate(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// GetMetricUnit extracts the value of strings like "31.52 C" or "3.70 km"
func GetMetricUnit(s string) (float64, error) {
	if !valueWithUnit.MatchString(s) {
		return 0, ErrUnknownValueWithUnit
	}
	matches := valueWithUnit.FindStringSubmatch(s)
	return strconv.ParseFloat(matches[valueWithUnit.SubexpIndex("value")], 64)
}
