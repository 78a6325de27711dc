package export

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterHeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, []string{"ChemID", "CASN"}, false, nil)

	require.NoError(t, w.WriteRow(map[string]interface{}{"ChemID": int64(1921), "CASN": "7732-18-5"}))
	require.NoError(t, w.WriteRow(map[string]interface{}{"ChemID": int64(1252), "CASN": "64-19-7"}))
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Flush())

	assert.Equal(t, "ChemID,CASN\n1921,7732-18-5\n1252,64-19-7\n", buf.String())
	assert.Equal(t, 2, w.Written())
}

func TestWriterAppendSkipsHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, []string{"a"}, true, nil)
	require.NoError(t, w.WriteRow(map[string]interface{}{"a": "x"}))
	require.NoError(t, w.Flush())
	assert.Equal(t, "x\n", buf.String())
}

func TestWriterSkipsBadRows(t *testing.T) {
	var buf bytes.Buffer
	var skippedIdx []int
	w := NewWriter(&buf, []string{"Name"}, false, func(index int, row map[string]interface{}, err error) {
		skippedIdx = append(skippedIdx, index)
		assert.ErrorIs(t, err, ErrInvalidText)
	})

	require.NoError(t, w.WriteRow(map[string]interface{}{"Name": "WATER"}))
	require.NoError(t, w.WriteRow(map[string]interface{}{"Name": string([]byte{0xff, 0xfe})}))
	require.NoError(t, w.WriteRow(map[string]interface{}{"Name": "ACETIC ACID"}))
	require.NoError(t, w.Flush())

	assert.Equal(t, []int{1}, skippedIdx)
	assert.Equal(t, 2, w.Written())
	assert.Equal(t, 1, w.Skipped())
	assert.Equal(t, "Name\nWATER\nACETIC ACID\n", buf.String())
}

func TestFormatValue(t *testing.T) {
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		in   interface{}
		want string
	}{
		{nil, ""},
		{"abc", "abc"},
		{[]byte("raw"), "raw"},
		{int64(42), "42"},
		{7, "7"},
		{18.01528, "18.01528"},
		{true, "true"},
		{ts, "2024-03-01T12:00:00Z"},
	}
	for _, tt := range tests {
		got, err := FormatValue(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := FormatValue(math.NaN())
	assert.ErrorIs(t, err, ErrUnsupportedValue)
	_, err = FormatValue(struct{}{})
	assert.ErrorIs(t, err, ErrUnsupportedValue)
}
