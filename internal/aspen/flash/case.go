// Package flash sets up a flash calculation in the simulator and harvests
// temperature sweeps from it.
package flash

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"apexvle/internal/aspen"

	"gopkg.in/yaml.v3"
)

// Component is one species in the feed.
type Component struct {
	CAS          string  `yaml:"cas"`
	Name         string  `yaml:"name"`
	MoleFraction float64 `yaml:"mole_fraction"`
}

// Range is an inclusive, evenly spaced temperature sweep.
type Range struct {
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
	Points int     `yaml:"points"`
	Unit   string  `yaml:"unit"`
}

// Case describes a flash simulation and the sweep to run on it.
type Case struct {
	Name         string      `yaml:"name"`
	Components   []Component `yaml:"components"`
	PropertySet  string      `yaml:"property_set"`
	Method       string      `yaml:"method"`
	Block        string      `yaml:"block"`
	BlockType    string      `yaml:"block_type"`
	Feed         string      `yaml:"feed"`
	FeedFlow     float64     `yaml:"feed_flow"`
	Pressure     float64     `yaml:"pressure"`
	PressureUnit string      `yaml:"pressure_unit,omitempty"`
	Temperature  Range       `yaml:"temperature"`
}

// DefaultTernaryCase is the acetic acid / propionic acid / water flash swept
// over 300-400 K.
func DefaultTernaryCase() Case {
	return Case{
		Name: "wils-hoc-ternary",
		Components: []Component{
			{CAS: "64-19-7", Name: "ACETIC", MoleFraction: 0.3},
			{CAS: "79-09-4", Name: "PROPIONIC", MoleFraction: 0.3},
			{CAS: "7732-18-5", Name: "WATER", MoleFraction: 0.4},
		},
		PropertySet: "MYPROPSET",
		Method:      aspen.MethodWilsonHOC,
		Block:       "FLASH1",
		BlockType:   aspen.BlockFlash2,
		Feed:        "FEED",
		FeedFlow:    100,
		Pressure:    1,
		Temperature: Range{Min: 300, Max: 400, Points: 10, Unit: aspen.UnitKelvin},
	}
}

// DefaultBinaryBubbleCase is 60 mol% acetic acid in water from 80 to 140 °C,
// reported in mmHg.
func DefaultBinaryBubbleCase() Case {
	c := DefaultTernaryCase()
	c.Name = "wils-hoc-acetic-water"
	c.Components = []Component{
		{CAS: "64-19-7", Name: "ACETIC", MoleFraction: 0.6},
		{CAS: "7732-18-5", Name: "WATER", MoleFraction: 0.4},
	}
	c.PressureUnit = aspen.UnitMmHg
	c.Pressure = 760
	c.Temperature = Range{Min: 80, Max: 140, Points: 31, Unit: aspen.UnitCelsius}
	return c
}

// LoadCase reads a YAML case file. Fields the file omits keep the values of
// DefaultTernaryCase; a components list replaces the default one entirely.
func LoadCase(path string) (Case, error) {
	c := DefaultTernaryCase()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("failed to read case file: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("failed to parse case file: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("invalid case %s: %w", path, err)
	}
	return c, nil
}

// Save writes the case as YAML.
func (c Case) Save(path string) error {
	data, err := yaml.Marshal(&c)
	if err != nil {
		return fmt.Errorf("failed to marshal case: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the case is complete enough to set up.
func (c Case) Validate() error {
	if len(c.Components) == 0 {
		return errors.New("at least one component is required")
	}
	seen := make(map[string]bool)
	var sum float64
	for i, comp := range c.Components {
		name := strings.ToUpper(strings.TrimSpace(comp.Name))
		if name == "" {
			return fmt.Errorf("component %d has no name", i)
		}
		if seen[name] {
			return fmt.Errorf("duplicate component %s", comp.Name)
		}
		seen[name] = true
		if comp.MoleFraction < 0 || math.IsNaN(comp.MoleFraction) {
			return fmt.Errorf("component %s: invalid mole fraction %g", comp.Name, comp.MoleFraction)
		}
		sum += comp.MoleFraction
	}
	if sum <= 0 {
		return errors.New("mole fractions sum to zero")
	}
	if c.PropertySet == "" || c.Method == "" {
		return errors.New("property_set and method are required")
	}
	if c.Block == "" || c.Feed == "" {
		return errors.New("block and feed are required")
	}
	if c.PressureUnit != "" && !aspen.ValidPressureUnit(c.PressureUnit) {
		return fmt.Errorf("unknown pressure unit %q", c.PressureUnit)
	}
	r := c.Temperature
	if r.Points < 1 {
		return fmt.Errorf("temperature.points must be >= 1, got %d", r.Points)
	}
	if r.Max < r.Min {
		return fmt.Errorf("temperature.max %g is below min %g", r.Max, r.Min)
	}
	if r.Unit != "" && !aspen.ValidTemperatureUnit(r.Unit) {
		return fmt.Errorf("unknown temperature unit %q", r.Unit)
	}
	return nil
}

// ComponentNames returns the out-names in feed order.
func (c Case) ComponentNames() []string {
	out := make([]string, len(c.Components))
	for i, comp := range c.Components {
		out[i] = comp.Name
	}
	return out
}
