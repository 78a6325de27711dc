package aspen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAntoineWaterBoilsAt760(t *testing.T) {
	water, ok := LookupStandIn("7732-18-5", "")
	require.True(t, ok)
	assert.InDelta(t, 760.0, water.Antoine.Psat(100), 1.0)
}

func TestLookupStandInFallsBackToName(t *testing.T) {
	s, ok := LookupStandIn("", "acetic")
	require.True(t, ok)
	assert.Equal(t, "64-19-7", s.CAS)

	_, ok = LookupStandIn("0-00-0", "UNOBTAINIUM")
	assert.False(t, ok)
}

func TestBubblePoint(t *testing.T) {
	acetic, _ := LookupStandIn("64-19-7", "")
	water, _ := LookupStandIn("7732-18-5", "")
	comps := []PureStandIn{acetic, water}

	p, y, err := BubblePoint(100, []float64{0.6, 0.4}, comps, false)
	require.NoError(t, err)
	assert.InDelta(t, 664.97, p, 0.05)
	require.Len(t, y, 2)
	assert.InDelta(t, 0.4868, y[0], 1e-4)
	assert.InDelta(t, 1.0, y[0]+y[1], 1e-12)

	ideal, _, err := BubblePoint(100, []float64{0.6, 0.4}, comps, true)
	require.NoError(t, err)
	assert.InDelta(t, 560.30, ideal, 0.05)

	_, _, err = BubblePoint(100, []float64{1}, comps, false)
	assert.Error(t, err)
	_, _, err = BubblePoint(100, []float64{0, 0}, comps, false)
	assert.Error(t, err)
}
