package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	current      CurrentConditions
	currentErr   error
	forecast     json.RawMessage
	forecastErr  error
	currentCalls int
}

func (p *fakeProvider) Current(_ context.Context, _ string) (CurrentConditions, error) {
	p.currentCalls++
	if p.currentErr != nil {
		return CurrentConditions{}, p.currentErr
	}
	return p.current, nil
}

func (p *fakeProvider) Forecast(_ context.Context, _ string) (json.RawMessage, error) {
	if p.forecastErr != nil {
		return nil, p.forecastErr
	}
	return p.forecast, nil
}

type fakeCache struct {
	entries map[string][]byte
	ttls    map[string]time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries: make(map[string][]byte),
		ttls:    make(map[string]time.Duration),
	}
}

func (c *fakeCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *fakeCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.entries[key] = value
	c.ttls[key] = ttl
	return nil
}

type fakeStore struct {
	data    map[string][]Observation
	saveErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]Observation)}
}

func (s *fakeStore) SaveObservation(_ context.Context, obs Observation) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.data[obs.Location] = append(s.data[obs.Location], obs)
	return nil
}

func (s *fakeStore) Latest(_ context.Context, location string) (Observation, error) {
	history := s.data[location]
	if len(history) == 0 {
		return Observation{}, ErrNotFound
	}
	return history[len(history)-1], nil
}

func (s *fakeStore) Range(_ context.Context, location string, from, to time.Time) ([]Observation, error) {
	var result []Observation
	for _, obs := range s.data[location] {
		if !obs.RecordedAt.Before(from) && !obs.RecordedAt.After(to) {
			result = append(result, obs)
		}
	}
	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

func newTestService(p Provider, st Store, c Cache) *Service {
	return NewService(p, st, c, ServiceConfig{Locations: []string{"Delhi", "Mumbai"}})
}

func TestFetchCurrentRejectsUnmonitoredLocation(t *testing.T) {
	svc := newTestService(&fakeProvider{}, newFakeStore(), newFakeCache())

	_, err := svc.FetchCurrent(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrInvalidLocation)

	_, err = svc.GetLatest(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrInvalidLocation)

	_, err = svc.GetSummary(context.Background(), "Atlantis", time.Now())
	assert.ErrorIs(t, err, ErrInvalidLocation)

	_, err = svc.FetchForecast(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, ErrInvalidLocation)
}

func TestFetchCurrentConvertsUnitsAtIngestion(t *testing.T) {
	provider := &fakeProvider{current: CurrentConditions{
		Condition:  "Clear",
		TempK:      309.15,
		FeelsLikeK: 312.15,
		Humidity:   40,
		WindSpeed:  3,
		ObservedAt: 1717243200,
	}}
	svc := newTestService(provider, newFakeStore(), newFakeCache())

	obs, err := svc.FetchCurrent(context.Background(), "Delhi")
	require.NoError(t, err)

	assert.InDelta(t, 36.0, obs.Temperature, 1e-9)
	assert.InDelta(t, 39.0, obs.FeelsLike, 1e-9)
	assert.Equal(t, "Clear", obs.Condition)
	assert.Equal(t, int64(1717243200), obs.ObservedAt)
	assert.Equal(t, time.Unix(1717243200, 0).UTC(), obs.RecordedAt)
}

func TestFetchCurrentCacheRoundTrip(t *testing.T) {
	provider := &fakeProvider{current: CurrentConditions{
		Condition:  "Clear",
		TempK:      300.15,
		ObservedAt: 1717243200,
	}}
	cache := newFakeCache()
	svc := newTestService(provider, newFakeStore(), cache)

	first, err := svc.FetchCurrent(context.Background(), "Delhi")
	require.NoError(t, err)
	assert.Equal(t, 1, provider.currentCalls)

	// One cache write per miss, under the stable key with the current TTL.
	assert.Contains(t, cache.entries, "weather:Delhi")
	assert.Equal(t, DefaultCurrentTTL, cache.ttls["weather:Delhi"])

	second, err := svc.FetchCurrent(context.Background(), "Delhi")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, provider.currentCalls, "cache hit must not call the provider")
	assert.Len(t, cache.entries, 1, "cache hit must not write back")
}

func TestFetchCurrentPropagatesProviderErrors(t *testing.T) {
	provider := &fakeProvider{
		currentErr: fmt.Errorf("%w: connect timeout", ErrUpstreamUnavailable),
	}
	svc := newTestService(provider, newFakeStore(), newFakeCache())

	_, err := svc.FetchCurrent(context.Background(), "Delhi")
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)

	provider.currentErr = fmt.Errorf("%w: missing weather/main/wind fields", ErrMalformedUpstream)
	_, err = svc.FetchCurrent(context.Background(), "Delhi")
	assert.ErrorIs(t, err, ErrMalformedUpstream)
}

func TestFetchForecastCacheAside(t *testing.T) {
	payload := json.RawMessage(`{"list":[{"dt":1717243200}]}`)
	provider := &fakeProvider{forecast: payload}
	cache := newFakeCache()
	svc := newTestService(provider, newFakeStore(), cache)

	got, err := svc.FetchForecast(context.Background(), "Mumbai")
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	assert.Contains(t, cache.entries, "forecast:Mumbai")
	assert.Equal(t, DefaultForecastTTL, cache.ttls["forecast:Mumbai"])

	// Second call is served from the cache even if the provider now fails.
	provider.forecastErr = fmt.Errorf("%w: down", ErrUpstreamUnavailable)
	got, err = svc.FetchForecast(context.Background(), "Mumbai")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestPersistWrapsStoreFailure(t *testing.T) {
	st := newFakeStore()
	st.saveErr = fmt.Errorf("disk full")
	svc := newTestService(&fakeProvider{}, st, newFakeCache())

	err := svc.Persist(context.Background(), Observation{Location: "Delhi"})
	assert.ErrorIs(t, err, ErrPersistence)
}

func TestGetSummaryWindowBounds(t *testing.T) {
	st := newFakeStore()
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	at := func(ts time.Time, temp float64) Observation {
		return Observation{Location: "Delhi", Condition: "Clear", Temperature: temp, RecordedAt: ts}
	}
	require.NoError(t, st.SaveObservation(context.Background(), at(day, 30)))                                        // inclusive start
	require.NoError(t, st.SaveObservation(context.Background(), at(day.Add(24*time.Hour-time.Millisecond), 36)))     // inclusive end
	require.NoError(t, st.SaveObservation(context.Background(), at(day.Add(24*time.Hour), 50)))                      // next day
	require.NoError(t, st.SaveObservation(context.Background(), at(day.Add(-time.Millisecond), 50)))                 // previous day

	svc := newTestService(&fakeProvider{}, st, newFakeCache())

	s, err := svc.GetSummary(context.Background(), "Delhi", day)
	require.NoError(t, err)
	assert.InDelta(t, 33.0, s.AvgTemp, 1e-9)
	assert.InDelta(t, 36.0, s.MaxTemp, 1e-9)
	assert.InDelta(t, 30.0, s.MinTemp, 1e-9)
}

func TestGetSummaryNoData(t *testing.T) {
	svc := newTestService(&fakeProvider{}, newFakeStore(), newFakeCache())

	_, err := svc.GetSummary(context.Background(), "Delhi", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrNoDataForWindow)
}
