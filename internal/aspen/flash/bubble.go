package flash

import (
	"context"

	"apexvle/internal/aspen"
)

// SetupAndSweep writes c into app and sweeps it.
func SetupAndSweep(ctx context.Context, app aspen.App, c Case) (*Curve, error) {
	if err := Setup(app, c); err != nil {
		return nil, err
	}
	return Sweep(ctx, app, c)
}

// BubbleCurve sweeps the 60/40 acetic acid/water liquid from 80 to 140 °C
// and reports bubble pressures in mmHg.
func BubbleCurve(ctx context.Context, app aspen.App) (*Curve, error) {
	return SetupAndSweep(ctx, app, DefaultBinaryBubbleCase())
}
