package flash

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"apexvle/internal/aspen"
	"apexvle/internal/logging"

	"github.com/cpmech/gosl/utl"
	"github.com/google/uuid"
)

// Values returns the sweep grid, Points evenly spaced values from Min to Max
// inclusive.
func (r Range) Values() []float64 {
	return utl.LinSpace(r.Min, r.Max, r.Points)
}

// Point is one temperature of a sweep.
type Point struct {
	Temperature float64
	Pressure    float64
	// Vapor holds vapor mole fractions in component order, nil if the
	// simulator did not report them.
	Vapor []float64
	Err   error
}

// OK reports whether the point produced a pressure.
func (p Point) OK() bool { return p.Err == nil }

// Curve is the result of a sweep.
type Curve struct {
	RunID           string
	Case            string
	Method          string
	Components      []string
	TemperatureUnit string
	PressureUnit    string
	Points          []Point
	Started         time.Time
	Elapsed         time.Duration
}

// Sweep sets the feed temperature to each point of c.Temperature, reruns the
// simulation and reads the flash block's output pressure. A failed point is
// recorded and the sweep moves on; only context cancellation stops it early.
func Sweep(ctx context.Context, app aspen.App, c Case) (*Curve, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	curve := &Curve{
		RunID:           uuid.New().String(),
		Case:            c.Name,
		Method:          c.Method,
		Components:      c.ComponentNames(),
		TemperatureUnit: c.Temperature.Unit,
		Started:         time.Now(),
	}
	log := logging.WithRunID(logging.CategorySweep, curve.RunID).WithField("case", c.Name)
	tPath := aspen.JoinPath(aspen.PathStreams, c.Feed, `Input\Temperature`)
	out := aspen.JoinPath(aspen.PathResultBlocks, c.Block, "Output")

	temps := c.Temperature.Values()
	log.Info("Sweeping %d points %g..%g %s", len(temps), c.Temperature.Min, c.Temperature.Max, c.Temperature.Unit)

	for _, t := range temps {
		if err := ctx.Err(); err != nil {
			curve.Elapsed = time.Since(curve.Started)
			return curve, err
		}
		p := runPoint(ctx, app, tPath, out, t, curve)
		if p.Err != nil {
			if errors.Is(p.Err, context.Canceled) || errors.Is(p.Err, context.DeadlineExceeded) {
				curve.Elapsed = time.Since(curve.Started)
				return curve, p.Err
			}
			log.Warn("T=%g failed: %v", t, p.Err)
		} else {
			log.Debug("T=%g P=%g %s", t, p.Pressure, curve.PressureUnit)
		}
		curve.Points = append(curve.Points, p)
	}
	curve.Elapsed = time.Since(curve.Started)
	s := curve.Summary()
	log.Info("Sweep finished: %d/%d points in %v", s.Succeeded, s.Total, curve.Elapsed)
	return curve, nil
}

// slowRun is how long a single simulator run may take before the sweep log
// flags it.
const slowRun = 30 * time.Second

func runPoint(ctx context.Context, app aspen.App, tPath, out string, t float64, curve *Curve) Point {
	p := Point{Temperature: t}
	if err := aspen.Set(app, tPath, t); err != nil {
		p.Err = err
		return p
	}
	if err := app.Reinitialize(); err != nil {
		p.Err = fmt.Errorf("reinitialize: %w", err)
		return p
	}
	timer := logging.StartTimer(logging.CategorySweep, fmt.Sprintf("run at T=%g", t))
	err := app.Run(ctx)
	timer.StopWithThreshold(slowRun)
	if err != nil {
		p.Err = fmt.Errorf("run: %w", err)
		return p
	}
	pn, err := app.Node(out + `\Pressure`)
	if err != nil {
		p.Err = err
		return p
	}
	p.Pressure, err = aspen.Float(pn)
	if err != nil {
		p.Err = err
		return p
	}
	if curve.PressureUnit == "" {
		curve.PressureUnit = pn.Unit()
	}

	vapor := make([]float64, len(curve.Components))
	for i, name := range curve.Components {
		n, err := app.Node(aspen.JoinPath(out, "Vapor Mole Fractions", name))
		if err != nil {
			return p
		}
		if vapor[i], err = aspen.Float(n); err != nil {
			return p
		}
	}
	p.Vapor = vapor
	return p
}

// Summary aggregates the successful points of a curve.
type Summary struct {
	Total     int
	Succeeded int
	TMin      float64
	TMax      float64
	PMin      float64
	PMax      float64
	// Y1Min and Y1Max bound the first component's vapor fraction.
	Y1Min float64
	Y1Max float64
}

// Summary computes ranges over successful points. Ranges are zero when no
// point succeeded.
func (c *Curve) Summary() Summary {
	s := Summary{Total: len(c.Points)}
	first, firstY := true, true
	for _, p := range c.Points {
		if !p.OK() {
			continue
		}
		s.Succeeded++
		if first {
			s.TMin, s.TMax, s.PMin, s.PMax = p.Temperature, p.Temperature, p.Pressure, p.Pressure
			first = false
		}
		s.TMin = math.Min(s.TMin, p.Temperature)
		s.TMax = math.Max(s.TMax, p.Temperature)
		s.PMin = math.Min(s.PMin, p.Pressure)
		s.PMax = math.Max(s.PMax, p.Pressure)
		if len(p.Vapor) > 0 {
			if firstY {
				s.Y1Min, s.Y1Max = p.Vapor[0], p.Vapor[0]
				firstY = false
			}
			s.Y1Min = math.Min(s.Y1Min, p.Vapor[0])
			s.Y1Max = math.Max(s.Y1Max, p.Vapor[0])
		}
	}
	return s
}

func unitSuffix(u string) string {
	u = strings.ToLower(strings.TrimPrefix(u, "°"))
	if u == "" {
		return ""
	}
	return "_" + strings.ReplaceAll(u, "/", "_per_")
}

// Header returns the CSV column names for the curve.
func (c *Curve) Header() []string {
	h := []string{"temperature" + unitSuffix(c.TemperatureUnit), "pressure" + unitSuffix(c.PressureUnit)}
	for _, name := range c.Components {
		h = append(h, "vapor_fraction_"+strings.ToLower(name))
	}
	return h
}

// Records returns one CSV record per successful point, in Header order.
func (c *Curve) Records() [][]string {
	var out [][]string
	for _, p := range c.Points {
		if !p.OK() {
			continue
		}
		rec := []string{
			strconv.FormatFloat(p.Temperature, 'g', -1, 64),
			strconv.FormatFloat(p.Pressure, 'g', -1, 64),
		}
		for i := range c.Components {
			if i < len(p.Vapor) {
				rec = append(rec, strconv.FormatFloat(p.Vapor[i], 'g', -1, 64))
			} else {
				rec = append(rec, "")
			}
		}
		out = append(out, rec)
	}
	return out
}
