package composition

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var waterAir = []float64{18.01528, 28.96}

func TestMoleFromMass(t *testing.T) {
	got, err := MoleFromMass([]float64{0.23724519090467566, 0.7627548090953243}, waterAir)
	require.NoError(t, err)

	want := []float64{1.0 / 3.0, 2.0 / 3.0}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("MoleFromMass mismatch (-want +got):\n%s", diff)
	}
}

func TestMassFromMole(t *testing.T) {
	got, err := MassFromMole([]float64{0.4456031768306043, 0.5543968231693956}, waterAir)
	require.NoError(t, err)

	want := []float64{1.0 / 3.0, 2.0 / 3.0}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-6)); diff != "" {
		t.Errorf("MassFromMole mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTrip(t *testing.T) {
	// acetic acid / water, 70/30 by mass
	mws := []float64{60.052, 18.015}
	mole, err := MoleFromMass([]float64{0.7, 0.3}, mws)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, mole[0]+mole[1], 1e-12)
	assert.Less(t, mole[0], 0.5, "acetic acid is the heavier component")

	mass, err := MassFromMole(mole, mws)
	require.NoError(t, err)
	assert.InDelta(t, 0.7, mass[0], 1e-12)
	assert.InDelta(t, 0.3, mass[1], 1e-12)
}

func TestUnnormalizedInput(t *testing.T) {
	got, err := MoleFromMass([]float64{7, 3}, []float64{60.052, 18.015})
	require.NoError(t, err)
	want, err := MoleFromMass([]float64{0.7, 0.3}, []float64{60.052, 18.015})
	require.NoError(t, err)
	assert.InDeltaSlice(t, want, got, 1e-12)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name  string
		fracs []float64
		mws   []float64
		want  error
	}{
		{"length mismatch", []float64{0.5, 0.5}, []float64{18}, ErrLengthMismatch},
		{"empty", nil, nil, ErrEmpty},
		{"zero weights", []float64{0.5, 0.5}, []float64{0, 0}, ErrZeroMolecularWeight},
		{"negative weight", []float64{0.5, 0.5}, []float64{18, -2}, ErrZeroMolecularWeight},
		{"all zero fractions", []float64{0, 0}, []float64{18, 29}, ErrDegenerate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MoleFromMass(tt.fracs, tt.mws)
			assert.True(t, errors.Is(err, tt.want), "MoleFromMass: got %v", err)
			_, err = MassFromMole(tt.fracs, tt.mws)
			assert.True(t, errors.Is(err, tt.want), "MassFromMole: got %v", err)
		})
	}
}

func TestParseVector(t *testing.T) {
	got, err := ParseVector(" 0.7, 0.3 ")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.7, 0.3}, got)

	_, err = ParseVector("")
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = ParseVector("0.7,abc")
	assert.Error(t, err)
}

func TestFormatVector(t *testing.T) {
	assert.Equal(t, "0.3333, 0.6667", FormatVector([]float64{1.0 / 3, 2.0 / 3}, 4))
}
