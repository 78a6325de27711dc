package flash

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"testing"

	"apexvle/internal/aspen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurveSeriesSkipsFailedPoints(t *testing.T) {
	curve := &Curve{
		Components: []string{"ACETIC", "WATER"},
		Points: []Point{
			{Temperature: 80, Pressure: 300, Vapor: []float64{0.45, 0.55}},
			{Temperature: 90, Err: errors.New("solver did not converge")},
			{Temperature: 100, Pressure: 665, Vapor: []float64{0.49, 0.51}},
		},
	}
	temps, press, vapor := curve.series()
	assert.Equal(t, []float64{80, 100}, temps)
	assert.Equal(t, []float64{300, 665}, press)
	assert.Equal(t, [][]float64{{0.45, 0.49}, {0.55, 0.51}}, vapor)
}

func TestPlotNeedsConvergedPoints(t *testing.T) {
	curve := &Curve{Points: []Point{{Temperature: 80, Err: errors.New("failed")}}}
	err := Plot(curve, filepath.Join(t.TempDir(), "empty.png"))
	assert.ErrorIs(t, err, ErrNothingToPlot)
}

func TestPlotWritesFigure(t *testing.T) {
	if err := exec.Command("python", "-c", "import matplotlib").Run(); err != nil {
		t.Skip("python with matplotlib not available")
	}
	curve, err := BubbleCurve(context.Background(), aspen.NewOffline())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "vapor_pressure.png")
	require.NoError(t, Plot(curve, path))
	assert.FileExists(t, path)
}
