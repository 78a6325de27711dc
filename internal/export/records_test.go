package export

import (
	"path/filepath"
	"testing"

	"apexvle/internal/apex"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "banks.csv")
	banks := []apex.Databank{
		{ID: 10, Name: "ASPEN VLE-IG", Description: "WILSON, ideal gas"},
		{ID: 11, Name: "ASPEN VLE-HOC", Description: ""},
	}
	require.NoError(t, Records(path, DatabankHeader, DatabankRecords(banks)))

	recs := readCSV(t, path)
	assert.Equal(t, [][]string{
		{"DatabankID", "Name", "Description"},
		{"10", "ASPEN VLE-IG", "WILSON, ideal gas"},
		{"11", "ASPEN VLE-HOC", ""},
	}, recs)
}

func TestRecordsFieldCount(t *testing.T) {
	err := Records(filepath.Join(t.TempDir(), "x.csv"), []string{"a", "b"}, [][]string{{"1"}})
	assert.Error(t, err)
}

func TestCoeffSetRecords(t *testing.T) {
	sets := []apex.CoeffSet{{
		CoeffSetInfo: apex.CoeffSetInfo{SetID: 100, DatabankID: 11, ChemID1: 1252, ChemID2: 1921, Model: "WILSON"},
		Params: []apex.CoeffParam{
			{Name: "AIJ", Index: 0, Value: -1.9763},
			{Name: "BIJ", Index: 0, Value: 609.8886},
		},
	}, {
		CoeffSetInfo: apex.CoeffSetInfo{SetID: 200, DatabankID: 99, ChemID1: 1, ChemID2: 2, Model: "NRTL"},
	}}
	recs := CoeffSetRecords(sets, []apex.Databank{{ID: 11, Name: "ASPEN VLE-HOC"}})
	assert.Equal(t, [][]string{
		{"100", "ASPEN VLE-HOC", "WILSON", "1252", "1921", "AIJ", "0", "-1.9763"},
		{"100", "ASPEN VLE-HOC", "WILSON", "1252", "1921", "BIJ", "0", "609.8886"},
	}, recs)
}
