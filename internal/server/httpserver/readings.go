package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/envmon/internal/common"
	"github.com/dmitrijs2005/envmon/internal/server/models"
	"github.com/dmitrijs2005/envmon/internal/server/services"
	"github.com/gofiber/fiber/v2"
)

// sensorValue accepts a JSON number or a numeric string. null and "" leave
// it unset.
type sensorValue struct {
	value *float64
}

func (v *sensorValue) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	var f float64
	switch x := raw.(type) {
	case nil:
		v.value = nil
		return nil
	case float64:
		f = x
	case string:
		x = strings.TrimSpace(x)
		if x == "" {
			v.value = nil
			return nil
		}
		parsed, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return err
		}
		f = parsed
	default:
		return fmt.Errorf("unexpected sensor value %T", raw)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return errors.New("sensor value must be finite")
	}
	v.value = &f
	return nil
}

type uploadRequest struct {
	Temperature sensorValue `json:"temperature"`
	Humidity    sensorValue `json:"humidity"`
}

type readingResponse struct {
	Message    string          `json:"message"`
	SensorData *models.Reading `json:"sensorData"`
}

type readingsResponse struct {
	Message  string            `json:"message"`
	Readings []*models.Reading `json:"readings"`
}

type archiveResponse struct {
	Message string                  `json:"message"`
	Archive *services.ArchiveResult `json:"archive"`
}

func (s *HTTPServer) uploadReading(c *fiber.Ctx) error {

	var req uploadRequest
	if err := c.BodyParser(&req); err != nil {
		return message(c, fiber.StatusBadRequest, msgInvalidBody)
	}

	reading, err := s.readings.Upload(c.UserContext(), req.Temperature.value, req.Humidity.value)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			return message(c, fiber.StatusBadRequest, msgAllFieldsRequired)
		}
		s.logger.Error(c.UserContext(), "reading upload failed", "error", err)
		return message(c, fiber.StatusInternalServerError, msgInternal)
	}

	return c.Status(fiber.StatusCreated).JSON(readingResponse{Message: msgSuccess, SensorData: reading})
}

func (s *HTTPServer) fetchReadings(c *fiber.Ctx) error {

	items, err := s.readings.Fetch(c.UserContext())
	if err != nil {
		s.logger.Error(c.UserContext(), "reading fetch failed", "error", err)
		return message(c, fiber.StatusInternalServerError, msgInternal)
	}
	if items == nil {
		items = []*models.Reading{}
	}

	return c.Status(fiber.StatusOK).JSON(readingsResponse{Message: msgSuccess, Readings: items})
}

func (s *HTTPServer) archiveReadings(c *fiber.Ctx) error {

	res, err := s.readings.Archive(c.UserContext())
	if err != nil {
		s.logger.Error(c.UserContext(), "reading archive failed", "error", err)
		return message(c, fiber.StatusInternalServerError, msgInternal)
	}

	s.logger.Info(c.UserContext(), "Archived readings", "key", res.Key, "user_id", sessionClaims(c).Subject)

	return c.Status(fiber.StatusCreated).JSON(archiveResponse{Message: msgSuccess, Archive: res})
}
