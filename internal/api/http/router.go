package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/api/http/handlers"
	"github.com/adninrahman19-debug/SeuramoeTechV3-sub002/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	Warranties     *handlers.WarrantiesHandler
	Complaints     *handlers.ComplaintsHandler
	Reviews        *handlers.ReviewsHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes. Every store-scoped group sits behind
// authentication plus a role gate; platform admins pass every gate.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1", cfg.AuthMiddleware.Handle)

	tickets := api.Group("/tickets", auth.RequireRole(auth.RoleOwner, auth.RoleTechnician))
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.UpdateTicket)
	tickets.Post("/:id/escalate", cfg.Tickets.EscalateTicket)
	tickets.Post("/:id/technician", cfg.Tickets.ReassignTechnician)

	warranties := api.Group("/warranties", auth.RequireRole(auth.RoleOwner, auth.RoleTechnician))
	warranties.Post("", cfg.Warranties.RegisterWarranty)
	warranties.Get("", cfg.Warranties.ListRegistrations)
	warranties.Get("/coverage", cfg.Warranties.CheckCoverage)
	warranties.Post("/:id/revoke", cfg.Warranties.RevokeRegistration)

	claims := api.Group("/claims", auth.RequireRole(auth.RoleOwner, auth.RoleTechnician))
	claims.Post("", cfg.Warranties.FileClaim)
	claims.Get("", cfg.Warranties.ListClaims)
	claims.Post("/:id/decision", auth.RequireRole(auth.RoleOwner), cfg.Warranties.DecideClaim)

	complaints := api.Group("/complaints", auth.RequireRole(auth.RoleOwner))
	complaints.Post("", cfg.Complaints.CreateComplaint)
	complaints.Get("", cfg.Complaints.ListComplaints)
	complaints.Get("/:id", cfg.Complaints.GetComplaint)
	complaints.Post("/:id/progress", cfg.Complaints.StartProgress)
	complaints.Post("/:id/resolve", cfg.Complaints.ResolveComplaint)
	complaints.Post("/:id/escalate", cfg.Complaints.EscalateComplaint)

	reviews := api.Group("/reviews")
	reviews.Post("", auth.RequireRole(auth.RoleCustomer, auth.RoleOwner), cfg.Reviews.CreateReview)
	reviews.Get("", auth.RequireRole(auth.RoleOwner, auth.RoleTechnician, auth.RoleCustomer), cfg.Reviews.ListReviews)
	reviews.Get("/stats", auth.RequireRole(auth.RoleOwner, auth.RoleTechnician, auth.RoleCustomer), cfg.Reviews.SatisfactionStats)
	reviews.Post("/:id/visibility", auth.RequireRole(auth.RoleOwner), cfg.Reviews.ToggleVisibility)
	reviews.Post("/:id/reply", auth.RequireRole(auth.RoleOwner), cfg.Reviews.Reply)
}
