package handlers

import (
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/assistant-backend/internal/api/dto"
	"github.com/spec-kit/assistant-backend/internal/service"
)

// VoiceHandler forwards speech requests to the configured engine.
type VoiceHandler struct {
	voice *service.VoiceService
}

// NewVoiceHandler constructs handler.
func NewVoiceHandler(voice *service.VoiceService) *VoiceHandler {
	return &VoiceHandler{voice: voice}
}

// Transcribe handles POST /voice/transcribe with a WAV upload.
func (h *VoiceHandler) Transcribe(c *fiber.Ctx) error {
	header, err := c.FormFile("audio")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "audio file required")
	}

	src, err := header.Open()
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "unreadable upload")
	}
	defer src.Close()

	wav, err := io.ReadAll(src)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "unreadable upload")
	}

	text, err := h.voice.Transcribe(c.UserContext(), wav)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.TranscriptionResponse{Text: text}})
}

// Synthesize handles POST /voice/tts and streams WAV audio back.
func (h *VoiceHandler) Synthesize(c *fiber.Ctx) error {
	text := c.FormValue("text")
	if text == "" {
		return fiber.NewError(http.StatusBadRequest, "text required")
	}

	audio, err := h.voice.Synthesize(c.UserContext(), text)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "audio/wav")
	return c.Send(audio)
}
