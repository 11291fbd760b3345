package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/assistant-backend/internal/api/http/handlers"
	"github.com/spec-kit/assistant-backend/internal/auth"
	"github.com/spec-kit/assistant-backend/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Sessions *handlers.AdminSessionsHandler
	Roles    *handlers.AdminRolesHandler
	Logs     *handlers.AdminLogsHandler
	Projects *handlers.ProjectsHandler
	Commands *handlers.CommandsHandler
	Settings *handlers.SettingsHandler
	Weather  *handlers.WeatherHandler
	Voice    *handlers.VoiceHandler
	Gate     *auth.Gate
}

// RegisterRoutes wires HTTP routes. Admin mutations demand the admin
// role; reads admit viewers. Login itself is guarded by the master
// secret inside the handler, not the gate.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	viewer := cfg.Gate.RequireRole(domain.RoleViewer)
	admin := cfg.Gate.RequireRole(domain.RoleAdmin)

	adminGroup := app.Group("/admin")
	adminGroup.Post("/sessions", cfg.Sessions.Login)
	adminGroup.Get("/sessions", viewer, cfg.Sessions.List)
	adminGroup.Delete("/sessions", admin, cfg.Sessions.Revoke)
	adminGroup.Delete("/sessions/:actor", admin, cfg.Sessions.RevokeAllForActor)

	adminGroup.Post("/users", admin, cfg.Roles.Assign)
	adminGroup.Get("/users", viewer, cfg.Roles.List)
	adminGroup.Delete("/users/:actor", admin, cfg.Roles.Remove)

	adminGroup.Get("/logs", viewer, cfg.Logs.Logs)
	adminGroup.Get("/metrics", viewer, cfg.Logs.Metrics)

	adminGroup.Get("/settings", viewer, cfg.Settings.Get)
	adminGroup.Put("/settings", admin, cfg.Settings.Save)

	projects := app.Group("/projects")
	projects.Post("", admin, cfg.Projects.Create)
	projects.Get("", viewer, cfg.Projects.List)
	projects.Get("/:id", viewer, cfg.Projects.Get)
	projects.Post("/:id/files", admin, cfg.Projects.UploadFile)
	projects.Get("/:id/files", viewer, cfg.Projects.ListFiles)
	projects.Post("/:id/snapshot", admin, cfg.Projects.CreateSnapshot)
	projects.Get("/:id/snapshots", viewer, cfg.Projects.ListSnapshots)
	app.Post("/snapshots/:id/restore", admin, cfg.Projects.RestoreSnapshot)

	app.Post("/commands", viewer, cfg.Commands.Submit)
	app.Get("/commands", viewer, cfg.Commands.List)
	app.Post("/pairings", admin, cfg.Commands.CreatePairing)

	app.Get("/weather", viewer, cfg.Weather.Current)
	app.Post("/voice/transcribe", viewer, cfg.Voice.Transcribe)
	app.Post("/voice/tts", viewer, cfg.Voice.Synthesize)
}
