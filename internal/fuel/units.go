package fuel

// LitersToGallons is the factor applied to liters for imperial display units.
const LitersToGallons = 0.264172

// ToDisplayVolume converts a volume in liters into the given display units.
// Stored and compared quantities always stay in liters.
func ToDisplayVolume(liters float64, units Units) float64 {
	if units == UnitsImperial {
		return liters * LitersToGallons
	}
	return liters
}
