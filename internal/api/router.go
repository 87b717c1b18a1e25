package api

import (
	"net/http"

	"github.com/Rrens/doggy-date/internal/api/handler"
	customMiddleware "github.com/Rrens/doggy-date/internal/api/middleware"
	"github.com/Rrens/doggy-date/internal/config"
	"github.com/Rrens/doggy-date/internal/notify"
	"github.com/Rrens/doggy-date/internal/screen"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Dependencies are the long-lived objects the router serves
type Dependencies struct {
	Screen  *screen.Screen
	Alerts  *notify.Recorder
	Emails  screen.EmailChecker
	Limiter customMiddleware.Limiter
	Redis   handler.Pinger
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)

	origins := cfg.Server.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	screenHandler := handler.NewScreenHandler(deps.Screen, deps.Alerts)
	sessionHandler := handler.NewSessionHandler(deps.Screen.Session, origins)
	emailHandler := handler.NewEmailHandler(deps.Emails)

	rateLimit := customMiddleware.NewRateLimitMiddleware(deps.Limiter)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(deps.Redis))

		// long-lived, so outside the request timeout
		r.Get("/session/events", sessionHandler.Events)

		r.Group(func(r chi.Router) {
			if cfg.Server.MiddlewareTimeout > 0 {
				r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))
			}

			r.Get("/session/user", sessionHandler.CurrentUser)
			r.Get("/emails/exists", emailHandler.Exists)

			r.Route("/screen", func(r chi.Router) {
				r.Get("/", screenHandler.Get)
				r.Delete("/alert", screenHandler.DismissAlert)

				r.Route("/login", func(r chi.Router) {
					r.Put("/email", screenHandler.SetLoginEmail)
					r.Post("/blur", screenHandler.BlurLogin)
					r.With(rateLimit.Limit).Post("/submit", screenHandler.SubmitLogin)
					r.Post("/show-registration", screenHandler.ShowRegistration)
				})

				r.Route("/registration", func(r chi.Router) {
					r.Put("/fields/{field}", screenHandler.SetRegistrationField)
					r.Post("/fields/{field}/blur", screenHandler.BlurRegistrationField)
					r.With(rateLimit.Limit).Post("/submit", screenHandler.SubmitRegistration)
					r.Post("/show-login", screenHandler.ShowLogin)
				})
			})
		})
	})

	return r
}
