package routers

import (
	"mockprep/interview/internal/handlers"
	"mockprep/interview/internal/middleware"
	"mockprep/interview/internal/models"

	"github.com/go-chi/chi/v5"
)

// ProfileRoutes registers role, resume and candidate endpoints. Creating a
// role profile is reserved for admins.
func ProfileRoutes(router *chi.Mux, profileHandler *handlers.ProfileHandler, jwtSecret string) {
	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret))

		r.Get("/api/v1/roles", profileHandler.ListRolesHandler)
		r.With(
			middleware.RequireRole(middleware.RoleAdmin),
			middleware.ValidateRequest[*models.CreateRoleRequest](),
		).Post("/api/v1/roles", profileHandler.CreateRoleHandler)

		r.With(middleware.ValidateRequest[*models.ResumeRequest]()).Post("/api/v1/resumes", profileHandler.CreateResumeHandler)
		r.Get("/api/v1/resumes/latest", profileHandler.LatestResumeHandler)

		r.Get("/api/v1/candidates/me", profileHandler.GetCandidateHandler)
		r.With(middleware.ValidateRequest[*models.CandidateRequest]()).Put("/api/v1/candidates/me", profileHandler.PutCandidateHandler)
	})
}

func AdminRoutes(router *chi.Mux, adminHandler *handlers.AdminHandler, jwtSecret string) {
	router.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(middleware.Authenticate(jwtSecret), middleware.RequireRole(middleware.RoleAdmin))
		r.Get("/stats", adminHandler.StatsHandler)
	})
}
