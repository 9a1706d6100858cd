package weather

import (
	"sort"
	"time"
)

// Summarize computes the daily rollup over the observations for one location
// and calendar day. It returns ErrNoDataForWindow when the set is empty so
// callers never see a mean over nothing.
func Summarize(location string, date time.Time, observations []Observation) (DailySummary, error) {
	if len(observations) == 0 {
		return DailySummary{}, ErrNoDataForWindow
	}

	var (
		sumTemp     float64
		sumHumidity float64
		sumWind     float64
	)

	minTemp := observations[0].Temperature
	maxTemp := observations[0].Temperature

	// Track condition frequencies while preserving first-encounter order, so
	// the tie-break below is deterministic.
	counts := make(map[string]int)
	var order []string

	for _, obs := range observations {
		sumTemp += obs.Temperature
		sumHumidity += obs.Humidity
		sumWind += obs.WindSpeed

		if obs.Temperature < minTemp {
			minTemp = obs.Temperature
		}
		if obs.Temperature > maxTemp {
			maxTemp = obs.Temperature
		}

		if _, seen := counts[obs.Condition]; !seen {
			order = append(order, obs.Condition)
		}
		counts[obs.Condition]++
	}

	// Stable sort ascending by frequency and take the last entry: among tied
	// maxima the condition encountered latest wins.
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] < counts[order[j]]
	})
	dominant := order[len(order)-1]

	n := float64(len(observations))

	return DailySummary{
		Location:          location,
		Date:              time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		AvgTemp:           sumTemp / n,
		MaxTemp:           maxTemp,
		MinTemp:           minTemp,
		DominantCondition: dominant,
		AvgHumidity:       sumHumidity / n,
		AvgWindSpeed:      sumWind / n,
	}, nil
}
