package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("\ufeffdevice_id,sample_time,T1\nvalve-1,2024-03-04 09:00:00\nvalve-2,2024-03-04 10:00:00,330\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"device_id", "sample_time", "T1"}, tbl.Header)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, []string{"valve-1", "2024-03-04 09:00:00", ""}, tbl.Rows[0])

	idx, ok := tbl.Column("device_id")
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
	_, ok = tbl.Column("Device_ID")
	assert.False(t, ok)
}

func TestReadCSV_DuplicateHeaderKeepsFirst(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader("T1,T1\n1,2\n"))
	require.NoError(t, err)

	idx, ok := tbl.Column("T1")
	require.True(t, ok)
	assert.Equal(t, 0, idx)
}

func TestReadCSV_Errors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""))
	require.EqualError(t, err, "no columns to parse from file")

	_, err = ReadCSV(strings.NewReader("a,b\n1,2,3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")

	_, err = ReadCSV(strings.NewReader("a,b\n\"unterminated,2\n"))
	require.Error(t, err)
}
