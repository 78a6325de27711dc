// Package composition converts between mass-fraction and mole-fraction
// representations of a mixture.
package composition

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrEmpty               = errors.New("composition: empty vector")
	ErrLengthMismatch      = errors.New("composition: fractions and molecular weights differ in length")
	ErrZeroMolecularWeight = errors.New("composition: molecular weight must be positive")
	ErrDegenerate          = errors.New("composition: fractions cannot be normalized")
)

func validate(fracs, mws []float64) error {
	if len(fracs) != len(mws) {
		return fmt.Errorf("%w: %d fractions, %d molecular weights", ErrLengthMismatch, len(fracs), len(mws))
	}
	if len(fracs) == 0 {
		return ErrEmpty
	}
	var total float64
	for i, mw := range mws {
		if !(mw > 0) || math.IsInf(mw, 0) {
			return fmt.Errorf("%w: component %d has %v", ErrZeroMolecularWeight, i, mw)
		}
		total += mw
	}
	if total == 0 {
		return ErrZeroMolecularWeight
	}
	return nil
}

// MoleFromMass converts mass fractions to mole fractions: n_i = w_i / M_i, normalized.
func MoleFromMass(mass, mws []float64) ([]float64, error) {
	if err := validate(mass, mws); err != nil {
		return nil, err
	}
	out := make([]float64, len(mass))
	for i := range mass {
		out[i] = mass[i] / mws[i]
	}
	return Normalize(out)
}

// MassFromMole converts mole fractions to mass fractions: m_i = x_i * M_i, normalized.
func MassFromMole(mole, mws []float64) ([]float64, error) {
	if err := validate(mole, mws); err != nil {
		return nil, err
	}
	out := make([]float64, len(mole))
	for i := range mole {
		out[i] = mole[i] * mws[i]
	}
	return Normalize(out)
}

// Normalize scales v in place so it sums to one and returns it.
func Normalize(v []float64) ([]float64, error) {
	if len(v) == 0 {
		return nil, ErrEmpty
	}
	var sum float64
	for _, x := range v {
		sum += x
	}
	if sum == 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return nil, fmt.Errorf("%w: sum is %v", ErrDegenerate, sum)
	}
	for i := range v {
		v[i] /= sum
	}
	return v, nil
}

// ParseVector parses a comma separated list such as "0.7, 0.3".
func ParseVector(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmpty
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("composition: bad number %q: %w", p, err)
		}
		out = append(out, f)
	}
	return out, nil
}

// FormatVector renders fractions with a fixed precision, comma separated.
func FormatVector(v []float64, prec int) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'f', prec, 64)
	}
	return strings.Join(parts, ", ")
}
