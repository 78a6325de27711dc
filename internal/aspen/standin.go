package aspen

import (
	"fmt"
	"math"
	"strings"
)

// Antoine holds log10(P/mmHg) = A - B/(C + T/°C) constants.
type Antoine struct {
	A, B, C float64
}

// Psat returns the pure-component vapor pressure in mmHg at tC °C.
func (a Antoine) Psat(tC float64) float64 {
	return math.Pow(10, a.A-a.B/(tC+a.C))
}

// PureStandIn is the placeholder pure-component data used by the offline
// backend: Antoine vapor pressure plus constant liquid activity and vapor
// fugacity coefficients.
type PureStandIn struct {
	CAS     string
	Name    string
	Antoine Antoine
	Gamma   float64
	Phi     float64
}

var standIns = []PureStandIn{
	{CAS: "64-19-7", Name: "ACETIC", Antoine: Antoine{7.38782, 1533.313, 222.309}, Gamma: 1.2, Phi: 0.95},
	{CAS: "7732-18-5", Name: "WATER", Antoine: Antoine{8.07131, 1730.63, 233.426}, Gamma: 1.1, Phi: 0.98},
	{CAS: "79-09-4", Name: "PROPIONIC", Antoine: Antoine{7.71423, 1733.42, 217.724}, Gamma: 1.0, Phi: 1.0},
	{CAS: "67-56-1", Name: "METHANOL", Antoine: Antoine{8.08097, 1582.271, 239.726}, Gamma: 1.0, Phi: 1.0},
}

// LookupStandIn finds placeholder data by CAS number, falling back to the
// component out-name.
func LookupStandIn(cas, name string) (PureStandIn, bool) {
	cas = strings.TrimSpace(cas)
	for _, s := range standIns {
		if cas != "" && s.CAS == cas {
			return s, true
		}
	}
	for _, s := range standIns {
		if strings.EqualFold(s.Name, strings.TrimSpace(name)) {
			return s, true
		}
	}
	return PureStandIn{}, false
}

// BubblePoint evaluates the modified-Raoult bubble pressure at tC °C for
// liquid composition x. The first pass uses activity coefficients only; the
// second divides each partial pressure by its fugacity coefficient. It
// returns the pressure in mmHg and the normalised vapor composition.
// With ideal set, every coefficient is taken as 1.
func BubblePoint(tC float64, x []float64, comps []PureStandIn, ideal bool) (float64, []float64, error) {
	if len(x) == 0 || len(x) != len(comps) {
		return 0, nil, fmt.Errorf("bubble point: %d fractions for %d components", len(x), len(comps))
	}
	partial := make([]float64, len(x))
	var p float64
	for i, c := range comps {
		gamma := c.Gamma
		if ideal || gamma == 0 {
			gamma = 1
		}
		partial[i] = x[i] * gamma * c.Antoine.Psat(tC)
		p += partial[i]
	}
	if p <= 0 || math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, nil, fmt.Errorf("bubble point: degenerate pressure %g at %g °C", p, tC)
	}

	var pc float64
	corrected := make([]float64, len(x))
	for i, c := range comps {
		phi := c.Phi
		if ideal || phi == 0 {
			phi = 1
		}
		corrected[i] = partial[i] / phi
		pc += corrected[i]
	}
	y := make([]float64, len(x))
	var ySum float64
	for i := range corrected {
		y[i] = corrected[i] / pc
		ySum += y[i]
	}
	for i := range y {
		y[i] /= ySum
	}
	return pc, y, nil
}
