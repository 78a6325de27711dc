package flash

import (
	"context"
	"errors"
	"testing"

	"apexvle/internal/aspen"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeValues(t *testing.T) {
	approx := cmpopts.EquateApprox(0, 1e-12)
	r := Range{Min: 300, Max: 400, Points: 5, Unit: aspen.UnitKelvin}
	if diff := cmp.Diff([]float64{300, 325, 350, 375, 400}, r.Values(), approx); diff != "" {
		t.Errorf("Values mismatch (-want +got):\n%s", diff)
	}
	got := DefaultBinaryBubbleCase().Temperature.Values()
	require.Len(t, got, 31)
	assert.InDelta(t, 80.0, got[0], 1e-12)
	assert.InDelta(t, 140.0, got[30], 1e-12)
	assert.InDelta(t, 100.0, got[10], 1e-12)
}

func TestSetupWritesTree(t *testing.T) {
	app := aspen.NewOffline()
	require.NoError(t, Setup(app, DefaultTernaryCase()))

	comps, err := app.Components()
	require.NoError(t, err)
	assert.Equal(t, []string{"ACETIC", "PROPIONIC", "WATER"}, comps)

	for path, want := range map[string]string{
		aspen.PathComponentsInput + `\CASN\1`:                           "79-09-4",
		aspen.PathPropertiesInput + `\GOPSETNAME`:                       "MYPROPSET",
		`\Data\Properties\Property Methods\MYPROPSET\Input\CPROP\1`:     "GAMMA",
		`\Data\Properties\Property Methods\MYPROPSET\Input\MODELNAME\1`: "WILS-HOC",
		`\Data\Blocks\FLASH1\Input\Block Type`:                          "FLASH2",
		`\Data\Blocks\FLASH1\Input\Connections\Inlets\0`:                "FEED",
	} {
		n, err := app.Node(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, aspen.String(n), path)
	}

	n, err := app.Node(`\Data\Streams\FEED\Input\Composition\Mole Fractions\WATER`)
	require.NoError(t, err)
	x, err := aspen.Float(n)
	require.NoError(t, err)
	assert.Equal(t, 0.4, x)

	n, err = app.Node(`\Data\Streams\FEED\Input\Temperature`)
	require.NoError(t, err)
	assert.Equal(t, aspen.UnitKelvin, n.Unit())
}

func TestSweepTernary(t *testing.T) {
	app := aspen.NewOffline()
	c := DefaultTernaryCase()
	curve, err := SetupAndSweep(context.Background(), app, c)
	require.NoError(t, err)

	assert.NotEmpty(t, curve.RunID)
	require.Len(t, curve.Points, 10)
	assert.Equal(t, aspen.UnitBar, curve.PressureUnit)
	for i, p := range curve.Points {
		require.NoError(t, p.Err)
		require.Len(t, p.Vapor, 3)
		assert.InDelta(t, 1.0, p.Vapor[0]+p.Vapor[1]+p.Vapor[2], 1e-9)
		if i > 0 {
			assert.Greater(t, p.Pressure, curve.Points[i-1].Pressure, "pressure rises with temperature")
		}
	}

	s := curve.Summary()
	assert.Equal(t, 10, s.Total)
	assert.Equal(t, 10, s.Succeeded)
	assert.Equal(t, 300.0, s.TMin)
	assert.Equal(t, 400.0, s.TMax)

	assert.Equal(t, []string{"temperature_k", "pressure_bar", "vapor_fraction_acetic", "vapor_fraction_propionic", "vapor_fraction_water"}, curve.Header())
	assert.Len(t, curve.Records(), 10)
}

func TestBubbleCurve(t *testing.T) {
	curve, err := BubbleCurve(context.Background(), aspen.NewOffline())
	require.NoError(t, err)
	require.Len(t, curve.Points, 31)
	assert.Equal(t, aspen.UnitMmHg, curve.PressureUnit)

	at100 := curve.Points[10]
	assert.InDelta(t, 100.0, at100.Temperature, 1e-12)
	assert.InDelta(t, 664.97, at100.Pressure, 0.05)
	assert.InDelta(t, 0.4868, at100.Vapor[0], 1e-4)

	s := curve.Summary()
	assert.Equal(t, 31, s.Succeeded)
	assert.Less(t, s.Y1Min, s.Y1Max)
	assert.Equal(t, "temperature_c", curve.Header()[0])
	assert.Equal(t, "pressure_mmhg", curve.Header()[1])
}

func TestSetupReplacesEarlierCase(t *testing.T) {
	ctx := context.Background()
	fresh, err := BubbleCurve(ctx, aspen.NewOffline())
	require.NoError(t, err)

	app := aspen.NewOffline()
	require.NoError(t, Setup(app, DefaultTernaryCase()))
	reused, err := BubbleCurve(ctx, app)
	require.NoError(t, err)

	comps, err := app.Components()
	require.NoError(t, err)
	assert.Equal(t, []string{"ACETIC", "WATER"}, comps)
	assert.Equal(t, []string{"ACETIC", "WATER"}, reused.Components)

	fractions, err := app.Node(`\Data\Streams\FEED\Input\Composition\Mole Fractions`)
	require.NoError(t, err)
	var names []string
	for _, c := range fractions.Children() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"ACETIC", "WATER"}, names)

	approx := cmpopts.EquateApprox(0, 1e-9)
	if diff := cmp.Diff(fresh.Records(), reused.Records()); diff != "" {
		t.Errorf("reused app curve mismatch (-fresh +reused):\n%s", diff)
	}
	at100 := reused.Points[10]
	assert.InDelta(t, 664.97, at100.Pressure, 0.05)
	if diff := cmp.Diff(fresh.Points[10].Vapor, at100.Vapor, approx); diff != "" {
		t.Errorf("vapor mismatch at 100 C (-fresh +reused):\n%s", diff)
	}
}

// flakyApp fails Run on selected calls.
type flakyApp struct {
	aspen.App
	calls  int
	failOn map[int]bool
}

func (f *flakyApp) Run(ctx context.Context) error {
	f.calls++
	if f.failOn[f.calls] {
		return errors.New("solver did not converge")
	}
	return f.App.Run(ctx)
}

func TestSweepRecordsFailedPoints(t *testing.T) {
	c := DefaultTernaryCase()
	c.Temperature.Points = 4
	app := &flakyApp{App: aspen.NewOffline(), failOn: map[int]bool{2: true}}
	require.NoError(t, Setup(app, c))

	curve, err := Sweep(context.Background(), app, c)
	require.NoError(t, err)
	require.Len(t, curve.Points, 4)
	assert.False(t, curve.Points[1].OK())
	assert.ErrorContains(t, curve.Points[1].Err, "converge")

	s := curve.Summary()
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 3, s.Succeeded)
	assert.Len(t, curve.Records(), 3)
}

func TestSweepStopsOnCancel(t *testing.T) {
	c := DefaultTernaryCase()
	app := aspen.NewOffline()
	require.NoError(t, Setup(app, c))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	curve, err := Sweep(ctx, app, c)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, curve.Points)
}
