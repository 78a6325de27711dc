package flash

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"apexvle/internal/logging"

	"github.com/cpmech/gosl/plt"
)

// ErrNothingToPlot is returned for a curve without a single converged point.
var ErrNothingToPlot = errors.New("flash: curve has no converged points")

// plt keeps one global figure.
var plotMu sync.Mutex

var plotColors = []string{"b", "r", "g", "m", "c", "k"}

// series splits the converged points of a curve into plot columns: the
// temperatures, the pressures and one vapor fraction column per component.
func (c *Curve) series() (temps, press []float64, vapor [][]float64) {
	vapor = make([][]float64, len(c.Components))
	for _, p := range c.Points {
		if !p.OK() {
			continue
		}
		temps = append(temps, p.Temperature)
		press = append(press, p.Pressure)
		for i := range vapor {
			y := 0.0
			if i < len(p.Vapor) {
				y = p.Vapor[i]
			}
			vapor[i] = append(vapor[i], y)
		}
	}
	return temps, press, vapor
}

// Plot draws the curve as a two-panel PNG: bubble pressure against
// temperature on top, vapor composition against temperature below. The
// figure is rendered by matplotlib, so python must be on PATH.
func Plot(curve *Curve, path string) (err error) {
	temps, press, vapor := curve.series()
	if len(temps) == 0 {
		return ErrNothingToPlot
	}
	dir, key := filepath.Dir(path), strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	plotMu.Lock()
	defer plotMu.Unlock()

	// plt reports failures by panicking.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("plot %s: %v", path, r)
		}
	}()

	tLabel := "T [" + curve.TemperatureUnit + "]"
	plt.Reset(true, nil)

	plt.Subplot(2, 1, 1)
	plt.Plot(temps, press, &plt.A{C: "b", M: "o", Ls: "-", L: curve.Method, NoClip: true})
	plt.Gll(tLabel, "P ["+curve.PressureUnit+"]", nil)

	plt.Subplot(2, 1, 2)
	for i, y := range vapor {
		plt.Plot(temps, y, &plt.A{C: plotColors[i%len(plotColors)], M: "o", Ls: "-", L: "y " + curve.Components[i], NoClip: true})
	}
	plt.Gll(tLabel, "vapor mole fraction", nil)

	plt.Save(dir, key)
	logging.Sim("Plotted %s: %d points -> %s", curve.Case, len(temps), filepath.Join(dir, key+".png"))
	return nil
}
