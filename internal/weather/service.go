package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// Cache key prefixes and expiries. Existing deployments rely on these exact
// keys, so keep them stable.
const (
	currentKeyPrefix  = "weather:"
	forecastKeyPrefix = "forecast:"

	DefaultCurrentTTL  = 300 * time.Second
	DefaultForecastTTL = 1800 * time.Second
)

// ServiceConfig carries the monitored location set and cache expiries.
type ServiceConfig struct {
	Locations   []string
	CurrentTTL  time.Duration
	ForecastTTL time.Duration
}

// Service resolves current observations cache-aside, persists them, and
// serves the latest-reading / daily-summary / forecast request surface.
type Service struct {
	provider    Provider
	store       Store
	cache       Cache
	monitored   map[string]struct{}
	currentTTL  time.Duration
	forecastTTL time.Duration
}

// NewService creates a Service over the given collaborators.
func NewService(provider Provider, store Store, cache Cache, cfg ServiceConfig) *Service {
	s := &Service{
		provider:    provider,
		store:       store,
		cache:       cache,
		monitored:   make(map[string]struct{}, len(cfg.Locations)),
		currentTTL:  cfg.CurrentTTL,
		forecastTTL: cfg.ForecastTTL,
	}
	for _, loc := range cfg.Locations {
		s.monitored[loc] = struct{}{}
	}
	if s.currentTTL <= 0 {
		s.currentTTL = DefaultCurrentTTL
	}
	if s.forecastTTL <= 0 {
		s.forecastTTL = DefaultForecastTTL
	}
	return s
}

// FetchCurrent resolves the current observation for a monitored location,
// consulting the cache before the provider. A cache hit is returned as-is
// with no provider call; a miss fetches from the provider, converts units,
// refreshes the cache and returns the new observation.
func (s *Service) FetchCurrent(ctx context.Context, location string) (Observation, error) {
	if !s.isMonitored(location) {
		return Observation{}, fmt.Errorf("%w: %q", ErrInvalidLocation, location)
	}

	key := currentKeyPrefix + location
	if raw, ok := s.cacheGet(ctx, key); ok {
		var obs Observation
		if err := json.Unmarshal(raw, &obs); err == nil {
			return obs, nil
		}
		logrus.Warnf("weather: discarding undecodable cache entry %s", key)
	}

	cur, err := s.provider.Current(ctx, location)
	if err != nil {
		return Observation{}, err
	}

	obs := Observation{
		Location:    location,
		Condition:   cur.Condition,
		Temperature: KelvinToCelsius(cur.TempK),
		FeelsLike:   KelvinToCelsius(cur.FeelsLikeK),
		Humidity:    cur.Humidity,
		WindSpeed:   cur.WindSpeed,
		ObservedAt:  cur.ObservedAt,
		RecordedAt:  time.Unix(cur.ObservedAt, 0).UTC(),
	}

	s.cacheSet(ctx, key, obs, s.currentTTL)
	return obs, nil
}

// FetchForecast resolves the multi-day forecast payload cache-aside. The
// payload is passed through from the provider without unit conversion.
func (s *Service) FetchForecast(ctx context.Context, location string) (json.RawMessage, error) {
	if !s.isMonitored(location) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLocation, location)
	}

	key := forecastKeyPrefix + location
	if raw, ok := s.cacheGet(ctx, key); ok {
		return json.RawMessage(raw), nil
	}

	payload, err := s.provider.Forecast(ctx, location)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, payload, s.forecastTTL); err != nil {
		logrus.Warnf("weather: cache write failed for %s: %v", key, err)
	}
	return payload, nil
}

// Persist writes an observation to the durable store.
func (s *Service) Persist(ctx context.Context, obs Observation) error {
	if err := s.store.SaveObservation(ctx, obs); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// GetLatest returns the most recent stored observation for a location.
func (s *Service) GetLatest(ctx context.Context, location string) (Observation, error) {
	if !s.isMonitored(location) {
		return Observation{}, fmt.Errorf("%w: %q", ErrInvalidLocation, location)
	}
	return s.store.Latest(ctx, location)
}

// GetSummary computes the daily summary for a location over the given
// calendar day, both bounds inclusive.
func (s *Service) GetSummary(ctx context.Context, location string, date time.Time) (DailySummary, error) {
	if !s.isMonitored(location) {
		return DailySummary{}, fmt.Errorf("%w: %q", ErrInvalidLocation, location)
	}

	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Millisecond)

	observations, err := s.store.Range(ctx, location, start, end)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return DailySummary{}, ErrNoDataForWindow
		}
		return DailySummary{}, err
	}
	return Summarize(location, start, observations)
}

func (s *Service) isMonitored(location string) bool {
	_, ok := s.monitored[location]
	return ok
}

// cacheGet is a lookup that treats cache errors as misses; the cache is an
// optimization, never authoritative.
func (s *Service) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	raw, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logrus.Warnf("weather: cache lookup failed for %s: %v", key, err)
		return nil, false
	}
	return raw, ok
}

func (s *Service) cacheSet(ctx context.Context, key string, v any, ttl time.Duration) {
	b, err := json.Marshal(v)
	if err != nil {
		logrus.Warnf("weather: cache marshal failed for %s: %v", key, err)
		return
	}
	if err := s.cache.Set(ctx, key, b, ttl); err != nil {
		logrus.Warnf("weather: cache write failed for %s: %v", key, err)
	}
}
