package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-directory/internal/api/http/handlers"
	"github.com/spec-kit/staff-directory/internal/auth"
)

// RouteConfig bundles dependencies for the staff API routes.
type RouteConfig struct {
	Health *handlers.HealthHandler
	Staff  *handlers.StaffHandler
}

// RegisterRoutes wires the staff API under /api/admin.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	registerHealth(app, cfg.Health)

	admin := app.Group("/api/admin", auth.Identity(), auth.RequireAdministrator())
	admin.Get("/venues", cfg.Staff.ListVenues)
	admin.Get("/staff", cfg.Staff.ListStaff)
	admin.Post("/staff", cfg.Staff.CreateStaff)
	admin.Get("/staff/:code", cfg.Staff.GetStaff)
	admin.Put("/staff/:code", cfg.Staff.UpdateStaff)
	admin.Delete("/staff/:code", cfg.Staff.DeleteStaff)
}

// PanelRouteConfig bundles dependencies for the admin panel routes.
type PanelRouteConfig struct {
	Health *handlers.HealthHandler
	Panel  *handlers.PanelHandler
	// IssueSessions registers POST /admin/sessions.
	IssueSessions bool
}

// RegisterPanelRoutes wires the admin panel server.
func RegisterPanelRoutes(app *fiber.App, cfg PanelRouteConfig) {
	registerHealth(app, cfg.Health)

	if cfg.IssueSessions {
		app.Post("/admin/sessions", cfg.Panel.CreateSession)
	}
	app.Delete("/admin/sessions", cfg.Panel.RequireSession, cfg.Panel.DeleteSession)

	panel := app.Group("/admin/panel", cfg.Panel.RequireSession)
	panel.Post("/mount", cfg.Panel.Mount)
	panel.Get("/", cfg.Panel.State)
	panel.Delete("/", cfg.Panel.Unmount)
	panel.Put("/filters", cfg.Panel.SetFilters)
	panel.Get("/export.xlsx", cfg.Panel.Export)
	panel.Post("/staff", cfg.Panel.CreateStaff)
	panel.Get("/staff/:code", cfg.Panel.ViewStaff)
	panel.Get("/staff/:code/edit", cfg.Panel.EditStaff)
	panel.Put("/staff/:code", cfg.Panel.UpdateStaff)
	panel.Delete("/staff/:code", cfg.Panel.DeleteStaff)
}

func registerHealth(app *fiber.App, health *handlers.HealthHandler) {
	if health == nil {
		return
	}
	app.Get("/health/live", health.Live)
	app.Get("/health/ready", health.Ready)
	app.Get("/metrics", health.Metrics)
}
