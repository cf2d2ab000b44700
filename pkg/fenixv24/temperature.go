package fenixv24

import "math"

// The API reports temperatures in tenths of degrees Fahrenheit,
// e.g. temperature_air=689 means 68.9F = 20.5C.

// ToCelsius converts a raw vendor temperature to degrees Celsius,
// rounded to one decimal place.
func ToCelsius(raw int) float64 {
	c := (float64(raw)/10 - 32) * 5 / 9
	return math.Round(c*10) / 10
}

// ToVendorUnits converts degrees Celsius to the nearest raw vendor value.
// Round-tripping through ToCelsius can be off by one unit because both
// directions round at tenth-of-a-degree granularity.
func ToVendorUnits(celsius float64) int {
	return int(math.Round((celsius*9/5 + 32) * 10))
}
