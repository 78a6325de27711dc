package apex

import (
	"context"
	"testing"

	"apexvle/internal/apex/apextest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChemIDFromCAS(t *testing.T) {
	s := openFixture(t)
	ctx := context.Background()

	id, err := s.ChemIDFromCAS(ctx, "64-19-7")
	require.NoError(t, err)
	assert.Equal(t, apextest.AceticAcid, id)

	_, err = s.ChemIDFromCAS(ctx, "0-00-0")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChemIDsFromCASPreservesOrder(t *testing.T) {
	s := openFixture(t)
	ids, err := s.ChemIDsFromCAS(context.Background(), []string{"7732-18-5", "79-09-4", "64-19-7"})
	require.NoError(t, err)
	assert.Equal(t, []int64{apextest.Water, apextest.PropionicAcid, apextest.AceticAcid}, ids)

	_, err = s.ChemIDsFromCAS(context.Background(), []string{"7732-18-5", "bogus"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChemInfoByID(t *testing.T) {
	s := openFixture(t)
	ci, err := s.ChemInfoByID(context.Background(), apextest.Water)
	require.NoError(t, err)
	assert.Equal(t, ChemInfo{ChemID: apextest.Water, CASN: "7732-18-5", Name: "WATER", Formula: "H2O"}, ci)

	_, err = s.ChemInfoByID(context.Background(), 99999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPropertyID(t *testing.T) {
	s := openFixture(t)
	ctx := context.Background()

	id, err := s.PropertyID(ctx, PropMW)
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	_, err = s.PropertyID(ctx, "NOPE")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.PropertyID(ctx, "DUP")
	assert.ErrorIs(t, err, ErrAmbiguous)
}

func TestConstantValuesFollowInputOrder(t *testing.T) {
	s := openFixture(t)
	ctx := context.Background()

	// stored water-first; asked acetic-first
	vals, err := s.ConstantValues(ctx, []int64{apextest.AceticAcid, apextest.Water}, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{60.05196, 18.01528}, vals)

	_, err = s.ConstantValues(ctx, []int64{apextest.AceticAcid, apextest.Methanol}, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	vals, err = s.ConstantValues(ctx, nil, 1)
	require.NoError(t, err)
	assert.Empty(t, vals)
}

func TestConstantValuesDuplicate(t *testing.T) {
	path := apextest.NewDB(t)
	apextest.Exec(t, path, `INSERT INTO ConstValueData VALUES (1921, 1, 18.0)`)
	s, err := Open(context.Background(), Options{DSN: path})
	require.NoError(t, err)
	defer s.Close()

	_, err = s.ConstantValues(context.Background(), []int64{apextest.Water}, 1)
	assert.ErrorIs(t, err, ErrAmbiguous)
}

func TestMolecularWeights(t *testing.T) {
	s := openFixture(t)
	mws, err := s.MolecularWeights(context.Background(), []int64{apextest.AceticAcid, apextest.Water})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{60.05196, 18.01528}, mws, 1e-9)
}
