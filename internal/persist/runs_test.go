package persist

import (
	"io/fs"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSummarize(t *testing.T) {
	run := NewRun("bench", "paths/orbit.yaml")
	require.NotEqual(t, uuid.Nil, run.ID)
	assert.Equal(t, Summary{}, run.Summarize())

	for i := 1; i <= 20; i++ {
		run.Add(time.Duration(i)*time.Millisecond, 3)
	}
	run.Finish()
	assert.False(t, run.FinishedAt.Before(run.StartedAt))

	s := run.Summarize()
	assert.Equal(t, 20, s.Frames)
	assert.Equal(t, 10500*time.Microsecond, s.Mean)
	assert.Equal(t, 10*time.Millisecond, s.P50)
	assert.Equal(t, 19*time.Millisecond, s.P95)
	assert.Equal(t, 20*time.Millisecond, s.Max)

	assert.Equal(t, 19, run.Frames[19].Frame)
	assert.Equal(t, 3, run.Frames[0].Objects)
}

func TestRunIDsAreUnique(t *testing.T) {
	a := NewRun("x", "p")
	b := NewRun("x", "p")
	assert.NotEqual(t, a.ID, b.ID)
}

func TestPercentileIndex(t *testing.T) {
	assert.Equal(t, 0, percentileIndex(1, 95))
	assert.Equal(t, 0, percentileIndex(3, 1))
	assert.Equal(t, 2, percentileIndex(3, 100))
	assert.Equal(t, 94, percentileIndex(100, 95))
}

func TestMigrationsAreEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrations, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	for _, e := range entries {
		body, err := fs.ReadFile(migrations, "migrations/"+e.Name())
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", e.Name())
		assert.Contains(t, string(body), "-- +goose Down", e.Name())
	}
}
