package aspen

import (
	"fmt"
	"strings"
)

// Temperature units understood by the offline backend.
const (
	UnitKelvin     = "K"
	UnitCelsius    = "C"
	UnitFahrenheit = "F"
)

// Pressure units understood by the offline backend.
const (
	UnitMmHg = "mmHg"
	UnitBar  = "bar"
	UnitKPa  = "kPa"
	UnitPa   = "Pa"
	UnitAtm  = "atm"
	UnitPsia = "psia"
)

const mmHgPerBar = 750.06

var mmHgPer = map[string]float64{
	"mmhg": 1,
	"bar":  mmHgPerBar,
	"kpa":  mmHgPerBar / 100,
	"pa":   mmHgPerBar / 1e5,
	"atm":  760,
	"psia": 51.7149,
}

// ToCelsius converts a temperature in unit to °C.
func ToCelsius(t float64, unit string) (float64, error) {
	switch strings.ToUpper(strings.TrimPrefix(unit, "°")) {
	case "K", "":
		return t - 273.15, nil
	case "C":
		return t, nil
	case "F":
		return (t - 32) * 5 / 9, nil
	}
	return 0, fmt.Errorf("unknown temperature unit %q", unit)
}

// FromCelsius converts °C to unit.
func FromCelsius(c float64, unit string) (float64, error) {
	switch strings.ToUpper(strings.TrimPrefix(unit, "°")) {
	case "K", "":
		return c + 273.15, nil
	case "C":
		return c, nil
	case "F":
		return c*9/5 + 32, nil
	}
	return 0, fmt.Errorf("unknown temperature unit %q", unit)
}

// PressureFromMmHg converts mmHg to unit.
func PressureFromMmHg(p float64, unit string) (float64, error) {
	f, ok := mmHgPer[strings.ToLower(unit)]
	if !ok {
		return 0, fmt.Errorf("unknown pressure unit %q", unit)
	}
	return p / f, nil
}

// PressureToMmHg converts a pressure in unit to mmHg.
func PressureToMmHg(p float64, unit string) (float64, error) {
	f, ok := mmHgPer[strings.ToLower(unit)]
	if !ok {
		return 0, fmt.Errorf("unknown pressure unit %q", unit)
	}
	return p * f, nil
}

// ValidTemperatureUnit reports whether unit is a known temperature unit.
func ValidTemperatureUnit(unit string) bool {
	_, err := ToCelsius(0, unit)
	return err == nil
}

// ValidPressureUnit reports whether unit is a known pressure unit.
func ValidPressureUnit(unit string) bool {
	_, ok := mmHgPer[strings.ToLower(unit)]
	return ok
}
