package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/assistant-backend/internal/api/dto"
	"github.com/spec-kit/assistant-backend/internal/auth"
	"github.com/spec-kit/assistant-backend/internal/config"
	"github.com/spec-kit/assistant-backend/internal/service"
	apperrors "github.com/spec-kit/assistant-backend/pkg/util/errorutil"
)

// AdminSessionsHandler exposes the login exchange and session revocation
// endpoints.
type AdminSessionsHandler struct {
	sessions *service.SessionService
	master   *auth.MasterSecretChecker
	cfg      config.AdminConfig
}

// NewAdminSessionsHandler constructs handler.
func NewAdminSessionsHandler(sessions *service.SessionService, master *auth.MasterSecretChecker, cfg config.AdminConfig) *AdminSessionsHandler {
	return &AdminSessionsHandler{sessions: sessions, master: master, cfg: cfg}
}

// Login handles POST /admin/sessions. It is the sole entry point that
// issues credentials: a pre-shared master secret is exchanged for a
// short-lived session.
func (h *AdminSessionsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if !h.master.Configured() {
		return apperrors.NewConfigurationError("master secret not configured")
	}
	if !h.master.Check(req.MasterSecret) {
		return apperrors.NewUnauthenticated("invalid master secret")
	}

	actor := req.Actor
	if actor == "" {
		actor = "admin"
	}
	ttl := h.cfg.SessionTTL()
	if req.TTLSeconds > 0 {
		ttl = time.Duration(req.TTLSeconds) * time.Second
	}

	issued, err := h.sessions.Issue(c.UserContext(), actor, ttl)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookie,
		Value:    issued.Session.ID,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		MaxAge:   int(ttl / time.Second),
	})

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.SessionResponse{
			SessionID:   issued.Session.ID,
			SignedToken: issued.SignedToken,
			Actor:       issued.Session.Actor,
			ExpiresAt:   issued.Session.ExpiresAt,
		},
	})
}

// List handles GET /admin/sessions.
func (h *AdminSessionsHandler) List(c *fiber.Ctx) error {
	sessions, err := h.sessions.ListActive(c.UserContext())
	if err != nil {
		return err
	}

	out := make([]dto.SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, dto.SessionInfo{
			SessionID: s.ID,
			Actor:     s.Actor,
			IssuedAt:  s.IssuedAt,
			ExpiresAt: s.ExpiresAt,
		})
	}
	return c.JSON(fiber.Map{"data": out})
}

// Revoke handles DELETE /admin/sessions. The credential to revoke comes
// from the request body, falling back to the caller's own credential.
func (h *AdminSessionsHandler) Revoke(c *fiber.Ctx) error {
	var req dto.RevokeRequest
	_ = c.BodyParser(&req)

	credential := req.Credential
	if credential == "" {
		credential = c.Get(auth.SessionHeader)
	}
	if credential == "" {
		credential = c.Cookies(auth.SessionCookie)
	}
	if credential == "" {
		return fiber.NewError(http.StatusBadRequest, "credential required")
	}

	principal, _ := auth.PrincipalFromContext(c)
	requestedBy := "admin"
	if principal != nil {
		requestedBy = principal.Actor
	}

	found, err := h.sessions.Revoke(c.UserContext(), credential, requestedBy, req.Reason)
	if err != nil {
		return err
	}
	if !found {
		return apperrors.NewNotFound("session", nil)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"revoked": true}})
}

// RevokeAllForActor handles DELETE /admin/sessions/:actor.
func (h *AdminSessionsHandler) RevokeAllForActor(c *fiber.Ctx) error {
	actor := c.Params("actor")
	if actor == "" {
		return fiber.NewError(http.StatusBadRequest, "actor required")
	}

	principal, _ := auth.PrincipalFromContext(c)
	requestedBy := "admin"
	if principal != nil {
		requestedBy = principal.Actor
	}

	count, err := h.sessions.RevokeAllForActor(c.UserContext(), actor, requestedBy, "revoke all")
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"revoked": count}})
}
