package store

import (
	"context"
	"sync"
	"time"

	"github.com/2002-SACHIN/Real-Time-Weather-Monitoring-System/internal/weather"
)

// MemoryStore is a concurrency-safe in-memory observation store with optional
// count/age retention. It backs deployments without a database and tests.
type MemoryStore struct {
	mu sync.RWMutex

	// key: location, value: observations in insertion order
	data map[string][]weather.Observation

	maxHistory int           // max observations per location (0 = unlimited)
	maxAge     time.Duration // max observation age (0 = unlimited)
}

// NewMemoryStore creates a MemoryStore with optional retention limits.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string][]weather.Observation),
		maxHistory: maxHistory,
		maxAge:     maxAge,
	}
}

// SaveObservation appends an observation and enforces retention.
func (s *MemoryStore) SaveObservation(_ context.Context, obs weather.Observation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.data[obs.Location], obs)

	if s.maxHistory > 0 && len(history) > s.maxHistory {
		history = history[len(history)-s.maxHistory:]
	}

	if s.maxAge > 0 {
		cutoff := time.Now().Add(-s.maxAge)
		i := 0
		for ; i < len(history); i++ {
			if !history[i].RecordedAt.Before(cutoff) {
				break
			}
		}
		if i > 0 {
			history = history[i:]
		}
	}

	s.data[obs.Location] = history
	return nil
}

// Latest returns the most recent observation for a location.
func (s *MemoryStore) Latest(_ context.Context, location string) (weather.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.data[location]
	if len(history) == 0 {
		return weather.Observation{}, weather.ErrNotFound
	}
	return history[len(history)-1], nil
}

// Range returns all observations for a location recorded between from and to,
// both bounds inclusive, in insertion order.
func (s *MemoryStore) Range(_ context.Context, location string, from, to time.Time) ([]weather.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.data[location]
	if len(history) == 0 {
		return nil, weather.ErrNotFound
	}

	var result []weather.Observation
	for _, obs := range history {
		if !obs.RecordedAt.Before(from) && !obs.RecordedAt.After(to) {
			result = append(result, obs)
		}
	}
	if len(result) == 0 {
		return nil, weather.ErrNotFound
	}
	return result, nil
}
