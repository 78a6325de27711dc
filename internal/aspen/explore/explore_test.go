package explore

import (
	"fmt"
	"testing"

	"apexvle/internal/aspen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T, names ...string) aspen.App {
	t.Helper()
	app := aspen.NewOffline()
	for i, n := range names {
		require.NoError(t, aspen.Set(app, fmt.Sprintf(`%s\OUTNAME\%d`, aspen.PathComponentsInput, i), n))
	}
	return app
}

func TestFlatten(t *testing.T) {
	app := newApp(t, "ACETIC", "WATER")
	root, err := app.Node(`\Data\Components`)
	require.NoError(t, err)

	rows := Flatten(root, "Data.Components")
	assert.Equal(t, []string{
		"Data.Components.Specifications - comp status 0",
		"Data.Components.Specifications.Input - comp status 0",
		"Data.Components.Specifications.Input.CASN - comp status 0",
		"Data.Components.Specifications.Input.OUTNAME - comp status 0",
		"Data.Components.Specifications.Input.OUTNAME.0 - comp status 1",
		"Data.Components.Specifications.Input.OUTNAME.1 - comp status 1",
	}, rows)
}

func TestAddComponent(t *testing.T) {
	app := newApp(t, "ACETIC", "WATER")

	idx, added, err := AddComponent(app, "methanol")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, 2, idx)

	idx, added, err = AddComponent(app, "Water")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, 1, idx)

	comps, err := app.Components()
	require.NoError(t, err)
	assert.Equal(t, []string{"ACETIC", "WATER", "methanol"}, comps)

	_, _, err = AddComponent(app, "  ")
	assert.Error(t, err)
}

func TestAddComponentToEmptyList(t *testing.T) {
	app := newApp(t)
	idx, added, err := AddComponent(app, "METHANOL")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, 0, idx)
}

func TestExplore(t *testing.T) {
	app := newApp(t, "A", "B", "C", "D", "E", "F", "G")
	reports := Explore(app, []string{
		aspen.PathComponentsInput + `\OUTNAME`,
		`\Data\Properties`,
		`\Data\Missing`,
	})
	require.Len(t, reports, 3)

	assert.Equal(t, "OUTNAME", reports[0].Name)
	assert.True(t, reports[0].HasChildren)
	assert.Equal(t, []string{"0", "1", "2", "3", "4"}, reports[0].Children)
	assert.Equal(t, 2, reports[0].More)

	assert.NoError(t, reports[1].Err)
	assert.Contains(t, reports[1].Children, "Parameters")

	assert.ErrorIs(t, reports[2].Err, aspen.ErrNodeNotFound)

	assert.Len(t, Explore(app, nil), len(DefaultPaths))
}

func TestParameters(t *testing.T) {
	sets, err := Parameters(aspen.NewOffline())
	require.NoError(t, err)

	var wilson, plxant bool
	for _, s := range sets {
		if s.Kind == "binary" && s.Wilson {
			wilson = true
		}
		if s.Kind == "pure" && s.Name == "PLXANT-1" {
			plxant = true
			assert.Positive(t, s.Size)
		}
	}
	assert.True(t, wilson)
	assert.True(t, plxant)
}
