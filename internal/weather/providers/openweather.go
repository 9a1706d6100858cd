package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/2002-SACHIN/Real-Time-Weather-Monitoring-System/internal/weather"
)

// OpenWeatherProvider fetches current conditions and forecasts from
// OpenWeatherMap. Responses are returned in the API's native Kelvin; unit
// conversion belongs to the ingestion layer.
type OpenWeatherProvider struct {
	apiKey      string
	currentURL  string
	forecastURL string
	client      *http.Client
	retry       retryConfig
	circuit     *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenWeatherProvider{
		apiKey:      apiKey,
		currentURL:  "https://api.openweathermap.org/data/2.5/weather",
		forecastURL: "https://api.openweathermap.org/data/2.5/forecast",
		client:      client,
		retry:       defaultRetry,
		circuit:     cb,
	}
}

// Current fetches the current conditions for a city. Transport failures wrap
// weather.ErrUpstreamUnavailable; a payload missing the weather, main or wind
// blocks wraps weather.ErrMalformedUpstream.
func (p *OpenWeatherProvider) Current(ctx context.Context, location string) (weather.CurrentConditions, error) {
	resp, err := doResilient(ctx, p.client, p.circuit, p.retry, func() (*http.Request, error) {
		return p.buildRequest(p.currentURL, location)
	})
	if err != nil {
		return weather.CurrentConditions{}, fmt.Errorf("%w: %v", weather.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	var payload struct {
		Dt   int64 `json:"dt"`
		Main *struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  float64 `json:"humidity"`
		} `json:"main"`
		Wind *struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Weather []struct {
			Main string `json:"main"`
		} `json:"weather"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.CurrentConditions{}, fmt.Errorf("%w: %v", weather.ErrMalformedUpstream, err)
	}
	if payload.Main == nil || payload.Wind == nil || len(payload.Weather) == 0 {
		return weather.CurrentConditions{}, fmt.Errorf("%w: missing weather/main/wind fields", weather.ErrMalformedUpstream)
	}

	observedAt := payload.Dt
	if observedAt == 0 {
		observedAt = time.Now().Unix()
	}

	return weather.CurrentConditions{
		Condition:  payload.Weather[0].Main,
		TempK:      payload.Main.Temp,
		FeelsLikeK: payload.Main.FeelsLike,
		Humidity:   payload.Main.Humidity,
		WindSpeed:  payload.Wind.Speed,
		ObservedAt: observedAt,
	}, nil
}

// Forecast fetches the multi-day forecast payload for a city and passes it
// through untouched.
func (p *OpenWeatherProvider) Forecast(ctx context.Context, location string) (json.RawMessage, error) {
	resp, err := doResilient(ctx, p.client, p.circuit, p.retry, func() (*http.Request, error) {
		return p.buildRequest(p.forecastURL, location)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", weather.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", weather.ErrUpstreamUnavailable, err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: forecast body is not valid JSON", weather.ErrMalformedUpstream)
	}
	return json.RawMessage(body), nil
}

func (p *OpenWeatherProvider) buildRequest(baseURL, location string) (*http.Request, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("openweather api key is not configured")
	}

	values := url.Values{}
	values.Set("q", location)
	values.Set("appid", p.apiKey)

	return http.NewRequest(http.MethodGet, fmt.Sprintf("%s?%s", baseURL, values.Encode()), nil)
}
