package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/assistant-backend/internal/api/dto"
	"github.com/spec-kit/assistant-backend/internal/service"
)

// SettingsHandler exposes the assistant settings document.
type SettingsHandler struct {
	settings *service.SettingsService
}

// NewSettingsHandler constructs handler.
func NewSettingsHandler(settings *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// Get handles GET /settings.
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.settings.Load()})
}

// Save handles PUT /settings. Every changed field lands in the audit log
// attributed to the calling actor.
func (h *SettingsHandler) Save(c *fiber.Ctx) error {
	var req dto.SettingsSaveRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Settings == nil {
		return fiber.NewError(http.StatusBadRequest, "settings required")
	}

	changed, err := h.settings.Save(req.Settings, callerActor(c), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"changed_fields": changed}})
}
