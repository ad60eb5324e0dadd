package http

import (
	"net/http"

	"github.com/employee-api/internal/application/auth"
	"github.com/employee-api/internal/application/employee"
	"github.com/employee-api/internal/application/notification"
	"github.com/employee-api/internal/config"
	"github.com/employee-api/internal/domain"
	"github.com/employee-api/internal/transport/http/handler"
	appmiddleware "github.com/employee-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10. Applied to the public auth endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	notifSvc := notification.NewService(notification.ServiceDeps{
		Mailer:     deps.Mailer,
		SMSSender:  deps.SMSSender,
		Attempts:   cfg.EmailRetryAttempts,
		Backoff:    cfg.EmailRetryBackoff,
		SMSEnabled: cfg.OTPSMSEnabled,
	})
	authSvc := auth.NewService(auth.ServiceDeps{
		EmployeeRepo: deps.EmployeeRepo,
		OTPRepo:      deps.OTPRepo,
		Notifier:     notifSvc,
		Tokens:       deps.JWTProvider,
		OTPLength:    cfg.OTPLength,
		OTPTTL:       cfg.OTPTTL,
	})
	empDeps := employee.ServiceDeps{EmployeeRepo: deps.EmployeeRepo}
	if deps.S3Store != nil {
		empDeps.PictureStore = deps.S3Store
	}
	empSvc := employee.NewService(empDeps)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	empH := handler.NewEmployeeHandler(empSvc)

	r.Get("/health-check", healthH.Ping)

	r.Route("/api", func(r chi.Router) {
		// ── Public auth routes ───────────────────────────────────────────────
		r.Route("/auth", func(r chi.Router) {
			r.With(sensitiveRL.Limit).Post("/register", authH.Register)
			r.With(sensitiveRL.Limit).Post("/verify-registration", authH.VerifyRegistration)
			r.With(sensitiveRL.Limit).Post("/login", authH.Login)
			r.With(sensitiveRL.Limit).Post("/resend-otp", authH.ResendOTP)
			r.With(sensitiveRL.Limit).Post("/verify-otp", authH.VerifyOTP)
			r.With(sensitiveRL.Limit).Post("/reset-password", authH.ResetPassword)
			r.Post("/refresh-token", authH.RefreshToken)

			r.Group(func(r chi.Router) {
				r.Use(authMw)
				r.Post("/my-profile", authH.MyProfile)
			})
		})

		// ── Authenticated employee CRUD ──────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Post("/employees", empH.Create)
			r.Get("/employees", empH.List)
			r.Get("/employees/{id}", empH.Get)
			r.Put("/employees/{id}", empH.Update)
			r.Post("/employees/{id}/profile-picture", empH.UploadProfilePicture)

			// Admin-only
			r.With(appmiddleware.RequireRole(domain.RoleAdmin)).Delete("/employees/{id}", empH.Delete)
		})
	})

	return r
}
