// Package units provides shared constants and conversion for length units
package units

// Unit constants
const (
	Meters = "meters"
	Feet   = "feet"
)

// MetersPerFoot is the international foot expressed in meters. Section
// stationing converts with this exact factor, matching the source survey
// data conventions.
const MetersPerFoot = 0.3048

// ValidUnits contains all valid unit values
var ValidUnits = []string{Meters, Feet}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "meters, feet"
}

// Factor returns the multiplier that converts a length in from units into to
// units. Identical or unknown units yield 1 so callers can validate the unit
// names separately without guarding every arithmetic site.
func Factor(from, to string) float64 {
	if from == to {
		return 1
	}
	switch {
	case from == Meters && to == Feet:
		return 1 / MetersPerFoot
	case from == Feet && to == Meters:
		return MetersPerFoot
	}
	return 1
}

// Convert converts a length from one unit to another.
func Convert(length float64, from, to string) float64 {
	return length * Factor(from, to)
}
