package util

import (
	"strings"

	"golang.org/x/mod/semver"
)

const (
	// minimum version of the pit bridge that accepts refuel commands
	RequiredServerVersion string = "v0.3.0"
)

func CheckServerVersion(toCheck string) bool {
	if !strings.HasPrefix(toCheck, "v") {
		toCheck = "v" + toCheck
	}
	if !semver.IsValid(toCheck) {
		return false
	}
	res := semver.Compare(toCheck, RequiredServerVersion)
	return res >= 0
}
