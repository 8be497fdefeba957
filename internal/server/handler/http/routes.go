package http

import (
	"net/http"

	"github.com/atinyakov/BillboardWatch/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the
// BillboardWatch API. It applies request logging globally, JSON
// content-type enforcement on the JSON routes, and bearer-token
// authentication on everything except the public auth endpoints.
//
// Routes:
//
//	POST   /api/auth/login            → authHandler.Login
//	POST   /api/auth/signup           → authHandler.Signup
//	POST   /api/auth/register         → authHandler.Signup (alias)
//	POST   /api/auth/verify-otp       → authHandler.VerifyOTP
//	POST   /api/auth/resend-otp       → authHandler.ResendOTP
//	POST   /api/auth/forgot-password  → authHandler.ForgotPassword
//	POST   /api/auth/reset-password   → authHandler.ResetPassword
//	POST   /api/auth/logout           → authHandler.Logout (protected)
//	GET    /api/auth/me               → authHandler.Me (protected)
//	PATCH  /api/auth/profile          → authHandler.UpdateProfile (protected)
//	POST   /api/auth/change-password  → authHandler.ChangePassword (protected)
//	DELETE /api/auth/account          → authHandler.DeleteAccount (protected)
//	POST   /api/reports               → reportHandler.Submit (protected)
//	GET    /api/reports               → reportHandler.List (protected)
//	GET    /api/reports/user          → reportHandler.Mine (protected)
//	GET    /api/reports/{id}          → reportHandler.Get (protected)
//	GET    /api/notifications         → reportHandler.Notifications (protected)
//	POST   /api/notifications/{id}/read → reportHandler.MarkNotificationRead (protected)
//	GET    /api/gamification/stats    → statsHandler.Stats (protected)
//	GET    /api/gamification/leaderboard → statsHandler.Leaderboard (protected)
//	GET    /api/map/violations        → statsHandler.Violations (protected)
//	GET    /api/map/heatmap           → statsHandler.Heatmap (protected)
//	GET    /api/map/nearby            → statsHandler.Nearby (protected)
//	POST   /api/upload/image          → uploadHandler.UploadImage (protected, multipart)
//	GET    /uploads/*                 → static file server for uploads
func NewRouter(
	authHandler *AuthHandler,
	reportHandler *ReportHandler,
	statsHandler *StatsHandler,
	uploadHandler *UploadHandler,
	verifier middleware.TokenVerifier,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// Only allow requests with Content-Type: application/json
			r.Use(chiMiddleware.AllowContentType("application/json"))

			// Public endpoints
			r.Post("/login", authHandler.Login)
			r.Post("/signup", authHandler.Signup)
			r.Post("/register", authHandler.Signup)
			r.Post("/verify-otp", authHandler.VerifyOTP)
			r.Post("/resend-otp", authHandler.ResendOTP)
			r.Post("/forgot-password", authHandler.ForgotPassword)
			r.Post("/reset-password", authHandler.ResetPassword)

			// Protected group: requires a valid bearer token
			r.Group(func(r chi.Router) {
				r.Use(middleware.BearerAuth(verifier))
				r.Post("/logout", authHandler.Logout)
				r.Get("/me", authHandler.Me)
				r.Patch("/profile", authHandler.UpdateProfile)
				r.Post("/change-password", authHandler.ChangePassword)
				r.Delete("/account", authHandler.DeleteAccount)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(verifier))

			r.Route("/reports", func(r chi.Router) {
				r.Post("/", reportHandler.Submit)
				r.Get("/", reportHandler.List)
				r.Get("/user", reportHandler.Mine)
				r.Get("/{id}", reportHandler.Get)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", reportHandler.Notifications)
				r.Post("/{id}/read", reportHandler.MarkNotificationRead)
			})

			r.Route("/gamification", func(r chi.Router) {
				r.Get("/stats", statsHandler.Stats)
				r.Get("/leaderboard", statsHandler.Leaderboard)
			})

			r.Route("/map", func(r chi.Router) {
				r.Get("/violations", statsHandler.Violations)
				r.Get("/heatmap", statsHandler.Heatmap)
				r.Get("/nearby", statsHandler.Nearby)
			})

			// Multipart, so no JSON content-type enforcement here.
			r.Post("/upload/image", uploadHandler.UploadImage)
		})
	})

	// Serve uploaded report photos.
	fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadHandler.Dir)))
	r.Get("/uploads/*", fs.ServeHTTP)

	return r
}
