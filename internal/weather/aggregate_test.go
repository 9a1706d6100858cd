package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func obsWith(condition string, temp, humidity, wind float64) Observation {
	return Observation{
		Location:    "Delhi",
		Condition:   condition,
		Temperature: temp,
		Humidity:    humidity,
		WindSpeed:   wind,
	}
}

func TestSummarizeEmptyWindow(t *testing.T) {
	_, err := Summarize("Delhi", time.Now(), nil)
	assert.ErrorIs(t, err, ErrNoDataForWindow)
}

func TestSummarizeStatistics(t *testing.T) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	observations := []Observation{
		obsWith("Clear", 30, 40, 2),
		obsWith("Clear", 36, 50, 4),
		obsWith("Rain", 33, 60, 6),
	}

	s, err := Summarize("Delhi", day, observations)
	require.NoError(t, err)

	assert.Equal(t, "Delhi", s.Location)
	assert.Equal(t, day, s.Date)
	assert.InDelta(t, 33.0, s.AvgTemp, 1e-9)
	assert.InDelta(t, 36.0, s.MaxTemp, 1e-9)
	assert.InDelta(t, 30.0, s.MinTemp, 1e-9)
	assert.InDelta(t, 50.0, s.AvgHumidity, 1e-9)
	assert.InDelta(t, 4.0, s.AvgWindSpeed, 1e-9)
	assert.Equal(t, "Clear", s.DominantCondition)

	assert.LessOrEqual(t, s.MinTemp, s.AvgTemp)
	assert.LessOrEqual(t, s.AvgTemp, s.MaxTemp)
}

func TestSummarizeSingleObservation(t *testing.T) {
	s, err := Summarize("Delhi", time.Now(), []Observation{obsWith("Haze", 28, 70, 1)})
	require.NoError(t, err)

	assert.InDelta(t, 28.0, s.AvgTemp, 1e-9)
	assert.InDelta(t, 28.0, s.MinTemp, 1e-9)
	assert.InDelta(t, 28.0, s.MaxTemp, 1e-9)
	assert.Equal(t, "Haze", s.DominantCondition)
}

func TestSummarizeDominantConditionTieBreak(t *testing.T) {
	// With equal frequencies the condition first seen latest wins.
	observations := []Observation{
		obsWith("Clear", 30, 40, 2),
		obsWith("Rain", 31, 40, 2),
		obsWith("Clear", 32, 40, 2),
		obsWith("Rain", 33, 40, 2),
	}

	s, err := Summarize("Delhi", time.Now(), observations)
	require.NoError(t, err)
	assert.Equal(t, "Rain", s.DominantCondition)
}

func TestSummarizeDominantConditionMajority(t *testing.T) {
	observations := []Observation{
		obsWith("Rain", 30, 40, 2),
		obsWith("Clear", 31, 40, 2),
		obsWith("Rain", 32, 40, 2),
	}

	s, err := Summarize("Delhi", time.Now(), observations)
	require.NoError(t, err)
	assert.Equal(t, "Rain", s.DominantCondition)
}
