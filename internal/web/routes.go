package web

import (
	"github.com/go-chi/chi/v5"

	"github.com/facegate/facegate/internal/store"
	"github.com/facegate/facegate/internal/web/handlers"
	"github.com/facegate/facegate/internal/web/middleware"
)

func (s *Server) setupRoutes(deps Deps) {
	keys := store.NewKeyMaker(s.config.Attendance.KeyPrefix)

	presignHandler := handlers.NewPresignHandler(deps.Presigner, keys, s.config.Attendance.PresignTTL)
	attendanceHandler := handlers.NewAttendanceHandler(deps.Marker)
	analyticsHandler := handlers.NewAnalyticsHandler(deps.Analytics)

	s.router.Use(middleware.CORS())

	// Health check (no auth required)
	s.router.Get("/health", handlers.HealthCheck)

	// Every attendance call is authenticated server-side.
	s.router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth([]byte(s.config.Auth.JWTSecret)))

		r.Get("/getUploadUrl", presignHandler.Issue)
		r.Post("/mark-attendance", attendanceHandler.Mark)
		r.Get("/analytics/{period}", analyticsHandler.Get)
	})
}
