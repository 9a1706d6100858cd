package weather

import (
	"time"
)

// Observation is one normalized weather reading for one monitored location.
// Temperatures are stored in Celsius; conversion from the provider's Kelvin
// happens exactly once, at ingestion. Observations are immutable once written.
type Observation struct {
	Location    string    `json:"location"`
	Condition   string    `json:"condition"`
	Temperature float64   `json:"temperature"`
	FeelsLike   float64   `json:"feels_like"`
	Humidity    float64   `json:"humidity"`
	WindSpeed   float64   `json:"wind_speed"`
	ObservedAt  int64     `json:"observed_at"` // unix seconds, provider clock
	RecordedAt  time.Time `json:"recorded_at"` // derived from ObservedAt, UTC
}

// DailySummary is the derived per-day rollup for a location. It is computed
// on demand from stored observations and never persisted.
type DailySummary struct {
	Location          string    `json:"location"`
	Date              time.Time `json:"date"`
	AvgTemp           float64   `json:"avg_temp"`
	MaxTemp           float64   `json:"max_temp"`
	MinTemp           float64   `json:"min_temp"`
	DominantCondition string    `json:"dominant_condition"`
	AvgHumidity       float64   `json:"avg_humidity"`
	AvgWindSpeed      float64   `json:"avg_wind_speed"`
}

// AlertEvent describes a fired temperature alert, handed to the Notifier.
type AlertEvent struct {
	Location    string  `json:"location"`
	Temperature float64 `json:"temperature"`
	Threshold   float64 `json:"threshold"`
	Consecutive int     `json:"consecutive"`
}
