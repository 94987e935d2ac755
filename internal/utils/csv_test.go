package utils

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"realTimeDash/internal/domain"
)

func TestWriteObservationsCSV(t *testing.T) {
	ts := time.Date(2024, 6, 1, 8, 30, 0, 500, time.UTC)
	observations := []domain.Observation{
		{ID: 1, Time: ts, Value: 12.34},
		{ID: 2, Time: ts.Add(time.Second), Value: 0},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteObservationsCSV(&buf, observations))

	want := "id,time,value\n" +
		"1,2024-06-01T08:30:00.0000005Z,12.34\n" +
		"2,2024-06-01T08:30:01.0000005Z,0\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteObservationsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.csv")
	require.NoError(t, WriteObservationsToFile(nil, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "id,time,value\n", string(data))
}
