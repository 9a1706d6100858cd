package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// retryConfig controls transport-level retries with exponential backoff.
type retryConfig struct {
	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
}

var defaultRetry = retryConfig{
	maxRetries:      3,
	initialInterval: 500 * time.Millisecond,
	maxInterval:     5 * time.Second,
}

var (
	errRateLimited = errors.New("rate limited")
	errServerError = errors.New("server error")
	errBadStatus   = errors.New("unexpected status code")
	errCircuitOpen = errors.New("circuit breaker open")
)

// doResilient executes an HTTP GET through the circuit breaker, retrying
// transient failures with exponential backoff. The request is rebuilt per
// attempt so each carries a fresh context binding.
func doResilient(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	cfg retryConfig,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	var attempt int
	var lastErr error

	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := buildRequest()
		if err != nil {
			return nil, err
		}
		req = req.WithContext(ctx)

		result, err := cb.Execute(func() (interface{}, error) {
			resp, execErr := client.Do(req)
			if execErr != nil {
				return nil, execErr
			}

			switch {
			case resp.StatusCode == http.StatusTooManyRequests:
				resp.Body.Close()
				return nil, errRateLimited
			case resp.StatusCode >= 500:
				resp.Body.Close()
				return nil, errServerError
			case resp.StatusCode < 200 || resp.StatusCode >= 300:
				resp.Body.Close()
				return nil, fmt.Errorf("%w: %d", errBadStatus, resp.StatusCode)
			}
			return resp, nil
		})

		if err == nil {
			return result.(*http.Response), nil
		}

		// An open circuit means the provider has been failing; do not burn
		// retries against it.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}

		lastErr = err
		if attempt >= cfg.maxRetries {
			return nil, lastErr
		}

		delay := cfg.initialInterval << attempt
		if cfg.maxInterval > 0 && delay > cfg.maxInterval {
			delay = cfg.maxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		attempt++
	}
}
