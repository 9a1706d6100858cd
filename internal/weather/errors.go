package weather

import "errors"

var (
	// ErrInvalidLocation is returned for locations outside the monitored set.
	ErrInvalidLocation = errors.New("location is not monitored")

	// ErrInvalidInput is returned for malformed request parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstreamUnavailable is returned when the provider cannot be reached
	// (network failure, timeout, circuit open, non-2xx status).
	ErrUpstreamUnavailable = errors.New("weather provider unavailable")

	// ErrMalformedUpstream is returned when the provider responds but the
	// payload is missing required fields.
	ErrMalformedUpstream = errors.New("malformed provider payload")

	// ErrPersistence is returned when a durable store write fails.
	ErrPersistence = errors.New("failed to persist observation")

	// ErrNoDataForWindow is returned when a summary window contains no
	// observations; a mean over an empty set is undefined.
	ErrNoDataForWindow = errors.New("no observations in requested window")

	// ErrNotFound is returned when no observation has been stored yet for a
	// location.
	ErrNotFound = errors.New("no weather data for location")
)
