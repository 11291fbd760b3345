package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/assistant-backend/internal/api/dto"
	"github.com/spec-kit/assistant-backend/internal/service"
)

// PairingHeader carries the device pairing token on command submissions.
const PairingHeader = "X-Pairing-Token"

// CommandsHandler exposes command submission and device pairing.
type CommandsHandler struct {
	commands *service.CommandService
}

// NewCommandsHandler constructs handler.
func NewCommandsHandler(commands *service.CommandService) *CommandsHandler {
	return &CommandsHandler{commands: commands}
}

// Submit handles POST /commands.
func (h *CommandsHandler) Submit(c *fiber.Ctx) error {
	var req dto.CommandCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Text == "" {
		return fiber.NewError(http.StatusBadRequest, "text required")
	}

	command, note, err := h.commands.Submit(c.UserContext(), req.Text, c.Get(PairingHeader))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.CommandResponse{
		ID:        command.ID,
		Text:      command.Text,
		Note:      note,
		CreatedAt: command.CreatedAt,
	}})
}

// List handles GET /commands.
func (h *CommandsHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "100"))
	offset, _ := strconv.Atoi(c.Query("offset", "0"))

	commands, err := h.commands.List(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	out := make([]dto.CommandResponse, 0, len(commands))
	for _, cmd := range commands {
		out = append(out, dto.CommandResponse{ID: cmd.ID, Text: cmd.Text, CreatedAt: cmd.CreatedAt})
	}
	return c.JSON(fiber.Map{"data": out})
}

// CreatePairing handles POST /pairings.
func (h *CommandsHandler) CreatePairing(c *fiber.Ctx) error {
	var req dto.PairingCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.DeviceName == "" {
		return fiber.NewError(http.StatusBadRequest, "device_name required")
	}

	pairing, err := h.commands.CreatePairing(c.UserContext(), req.DeviceName)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.PairingResponse{
		Token:      pairing.Token,
		DeviceName: pairing.DeviceName,
		CreatedAt:  pairing.CreatedAt,
	}})
}
