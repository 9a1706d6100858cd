package weather

import (
	"context"
	"encoding/json"
	"time"
)

// CurrentConditions is a provider's raw current-weather reading before any
// normalization. Temperatures are in the provider's native Kelvin.
type CurrentConditions struct {
	Condition  string
	TempK      float64
	FeelsLikeK float64
	Humidity   float64
	WindSpeed  float64
	ObservedAt int64 // unix seconds
}

// Provider abstracts the upstream weather data source.
//
// Implementations classify their failures: transport-level errors wrap
// ErrUpstreamUnavailable and payload-shape violations wrap ErrMalformedUpstream,
// so callers can rely on errors.Is.
type Provider interface {
	Current(ctx context.Context, location string) (CurrentConditions, error)
	Forecast(ctx context.Context, location string) (json.RawMessage, error)
}

// Store is the contract the durable observation store must satisfy.
// Observations are append-only; Latest and Range never observe partial writes.
type Store interface {
	SaveObservation(ctx context.Context, obs Observation) error
	Latest(ctx context.Context, location string) (Observation, error)
	Range(ctx context.Context, location string, from, to time.Time) ([]Observation, error)
}

// Cache is a key-value store with expiring entries, consulted cache-aside.
// Get reports whether the key was present; a miss is not an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Notifier delivers alert events. Send failures are reported to the caller,
// which logs and discards them; a lost alert is never retried.
type Notifier interface {
	Send(ctx context.Context, ev AlertEvent) error
}
