package apex

import (
	"context"
	"testing"

	"apexvle/internal/apex/apextest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMixtureVLESets(t *testing.T) {
	s := openFixture(t)
	ctx := context.Background()

	sets, err := s.MixtureVLESets(ctx, apextest.AceticAcid, apextest.Water, VLETPxy)
	require.NoError(t, err)
	require.Len(t, sets, 2, "pair matches in either order")
	assert.Contains(t, sets[0].Ref, "DECHEMA")

	points, err := s.MixtureVLEPoints(ctx, sets[0].SetID)
	require.NoError(t, err)
	require.Len(t, points, 3)
	assert.InDelta(t, 373.9, points[0].T, 1e-9)
	assert.InDelta(t, 0.68, points[2].Y1, 1e-9)

	txy, err := s.MixtureVLESets(ctx, apextest.Water, apextest.AceticAcid, VLETxy)
	require.NoError(t, err)
	assert.Len(t, txy, 1)
}

func TestParseVLEDataType(t *testing.T) {
	dt, err := ParseVLEDataType("tpxy")
	require.NoError(t, err)
	assert.Equal(t, VLETPxy, dt)

	_, err = ParseVLEDataType("hxy")
	assert.Error(t, err)
}
