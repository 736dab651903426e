package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/publicvoice/internal/api/http/handlers"
	"github.com/spec-kit/publicvoice/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Complaints     *handlers.ComplaintsHandler
	Admin          *handlers.AdminHandler
	SuperAdmin     *handlers.SuperAdminHandler
	AuthMiddleware *auth.AuthMiddleware
	UploadDir      string
	UploadPath     string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	if cfg.UploadDir != "" && cfg.UploadPath != "" {
		app.Static(cfg.UploadPath, cfg.UploadDir)
	}

	api := app.Group("/api")
	authenticated := cfg.AuthMiddleware.Handle

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", authenticated, cfg.Auth.Me)

	// Registered ahead of the authenticated group so the public lookup never hits its middleware.
	api.Get("/complaints/track/:trackingId", cfg.Complaints.Track)

	complaints := api.Group("/complaints", authenticated)
	complaints.Post("/", auth.RequireCitizen(), cfg.Complaints.Submit)
	complaints.Get("/", auth.RequireCitizen(), cfg.Complaints.ListMine)
	complaints.Get("/:id", cfg.Complaints.Get)
	complaints.Post("/:id/comments", cfg.Complaints.AddComment)

	admin := api.Group("/admin", authenticated, auth.RequireStaff())
	admin.Get("/dashboard/stats", cfg.Admin.DashboardStats)
	admin.Get("/complaints", cfg.Admin.ListComplaints)
	admin.Get("/department/complaints", cfg.Admin.DepartmentComplaints)
	admin.Put("/complaints/:id", cfg.Admin.UpdateComplaint)
	admin.Put("/complaints/:id/assign", cfg.Admin.Assign)
	admin.Get("/complaints/:id/comments", cfg.Admin.ListComments)
	admin.Post("/complaints/:id/comments", cfg.Complaints.AddComment)

	super := api.Group("/superadmin", authenticated, auth.RequireSuperAdmin())
	super.Post("/departments", cfg.SuperAdmin.CreateDepartment)
	super.Get("/departments", cfg.SuperAdmin.ListDepartments)
	super.Post("/admins", cfg.SuperAdmin.CreateAdmin)
	super.Get("/admins", cfg.SuperAdmin.ListAdmins)
	super.Patch("/admins/:id/status", cfg.SuperAdmin.SetAdminStatus)
	super.Get("/stats", cfg.SuperAdmin.Stats)
}
