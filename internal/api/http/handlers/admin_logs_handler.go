package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/assistant-backend/internal/api/dto"
	"github.com/spec-kit/assistant-backend/internal/audit"
	"github.com/spec-kit/assistant-backend/internal/observability"
	"github.com/spec-kit/assistant-backend/internal/service"
)

// AdminLogsHandler exposes the audit trail and control-plane metrics.
type AdminLogsHandler struct {
	auditLog *audit.Log
	sessions *service.SessionService
	metrics  *observability.Metrics
}

// NewAdminLogsHandler constructs handler.
func NewAdminLogsHandler(auditLog *audit.Log, sessions *service.SessionService, metrics *observability.Metrics) *AdminLogsHandler {
	return &AdminLogsHandler{auditLog: auditLog, sessions: sessions, metrics: metrics}
}

// Logs handles GET /admin/logs with actor/field/since/until filters and
// limit/offset pagination, newest first.
func (h *AdminLogsHandler) Logs(c *fiber.Ctx) error {
	filter := audit.Filter{
		Actor:  c.Query("actor"),
		Field:  c.Query("field"),
		Since:  int64(c.QueryInt("since", 0)),
		Until:  int64(c.QueryInt("until", 0)),
		Limit:  c.QueryInt("limit", 100),
		Offset: c.QueryInt("offset", 0),
	}

	entries, err := h.auditLog.Query(filter)
	if err != nil {
		return err
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	return c.JSON(fiber.Map{"data": entries})
}

// Metrics handles GET /admin/metrics.
func (h *AdminLogsHandler) Metrics(c *fiber.Ctx) error {
	active, revoked, err := h.sessions.Counts(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.MetricsResponse{
		ActiveSessions: active,
		RevokedTokens:  revoked,
		AuditDropped:   h.metrics.AuditDropped(),
	}})
}
