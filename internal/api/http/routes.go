package httpapi

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/2002-SACHIN/Real-Time-Weather-Monitoring-System/internal/weather"
)

var validate = validator.New()

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		city, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		obs, err := service.GetLatest(c.Context(), city)
		if err != nil {
			return mapServiceError(err, "no weather data for requested location")
		}
		return c.JSON(obs)
	})

	v1.Get("/weather/summary", func(c *fiber.Ctx) error {
		city, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		date, err := parseDateQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		summary, err := service.GetSummary(c.Context(), city, date)
		if err != nil {
			return mapServiceError(err, "no observations for requested day")
		}
		return c.JSON(summary)
	})

	v1.Get("/weather/forecast", func(c *fiber.Ctx) error {
		city, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		payload, err := service.FetchForecast(c.Context(), city)
		if err != nil {
			return mapServiceError(err, "no forecast for requested location")
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(payload)
	})
}

// cityQuery holds the query parameter identifying a location.
type cityQuery struct {
	City string `validate:"required"`
}

func parseCityQuery(c *fiber.Ctx) (string, error) {
	q := cityQuery{City: c.Query("city")}
	if err := validate.Struct(q); err != nil {
		return "", err
	}
	return q.City, nil
}

func parseDateQuery(c *fiber.Ctx) (time.Time, error) {
	s := c.Query("date")
	if !datePattern.MatchString(s) {
		return time.Time{}, fmt.Errorf("%w: date must be formatted YYYY-MM-DD", weather.ErrInvalidInput)
	}
	date, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date is not a valid calendar day", weather.ErrInvalidInput)
	}
	return date, nil
}

// mapServiceError translates the domain error taxonomy to HTTP statuses:
// caller-input problems map to 4xx, upstream/internal problems to 5xx.
func mapServiceError(err error, notFoundMsg string) error {
	switch {
	case errors.Is(err, weather.ErrInvalidLocation), errors.Is(err, weather.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, weather.ErrNotFound), errors.Is(err, weather.ErrNoDataForWindow):
		return fiber.NewError(fiber.StatusNotFound, notFoundMsg)
	case errors.Is(err, weather.ErrUpstreamUnavailable), errors.Is(err, weather.ErrMalformedUpstream):
		return fiber.NewError(fiber.StatusBadGateway, "weather provider unavailable")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
	}
}
