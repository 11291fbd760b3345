package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/assistant-backend/internal/api/dto"
	"github.com/spec-kit/assistant-backend/internal/service"
)

// WeatherHandler proxies forecast lookups.
type WeatherHandler struct {
	weather *service.WeatherService
}

// NewWeatherHandler constructs handler.
func NewWeatherHandler(weather *service.WeatherService) *WeatherHandler {
	return &WeatherHandler{weather: weather}
}

// Current handles GET /weather?lat=..&lon=..
func (h *WeatherHandler) Current(c *fiber.Ctx) error {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		return fiber.NewError(http.StatusBadRequest, "lat and lon required")
	}

	report, err := h.weather.Lookup(c.UserContext(), lat, lon)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.WeatherResponse{
		Latitude:    report.Latitude,
		Longitude:   report.Longitude,
		Temperature: report.Temperature,
		WindSpeed:   report.WindSpeed,
		Condition:   report.Condition,
	}})
}
