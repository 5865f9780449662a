package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/restaurant-api-nosql/internal/application/auth"
	"github.com/restaurant-api-nosql/internal/application/category"
	"github.com/restaurant-api-nosql/internal/application/dish"
	"github.com/restaurant-api-nosql/internal/application/role"
	"github.com/restaurant-api-nosql/internal/application/user"
	"github.com/restaurant-api-nosql/internal/config"
	s3infra "github.com/restaurant-api-nosql/internal/infrastructure/s3"
	"github.com/restaurant-api-nosql/internal/transport/http/handler"
	appmiddleware "github.com/restaurant-api-nosql/internal/transport/http/middleware"
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

	// 5 requests/second, burst of 10, applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	authSvc := auth.NewService(auth.ServiceDeps{
		OtpRepo:       deps.OtpRepo,
		UserRepo:      deps.UserRepo,
		RoleRepo:      deps.RoleRepo,
		Mailer:        deps.Mailer,
		SMSSender:     deps.SMSSender,
		JWTProvider:   deps.JWTProvider,
		OTPWindow:     cfg.OTPWindow,
		OpsAlertPhone: cfg.OpsAlertPhone,
	})
	userSvc := user.NewService(user.ServiceDeps{
		UserRepo:      deps.UserRepo,
		RoleRepo:      deps.RoleRepo,
		SMSSender:     deps.SMSSender,
		OpsAlertPhone: cfg.OpsAlertPhone,
	})
	roleSvc := role.NewService(deps.RoleRepo)
	categorySvc := category.NewService(deps.CategoryRepo)
	dishSvc := dish.NewService(dish.ServiceDeps{
		DishRepo:     deps.DishRepo,
		CategoryRepo: deps.CategoryRepo,
		ImageStore:   deps.S3Store,
		ContentType:  s3infra.DetectContentType,
	})

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc)
	userH := handler.NewUserHandler(userSvc)
	roleH := handler.NewRoleHandler(roleSvc)
	categoryH := handler.NewCategoryHandler(categorySvc)
	dishH := handler.NewDishHandler(dishSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/auth/register-admin", authH.RegisterAdmin)
		r.With(sensitiveRL.Limit).Post("/auth/login", authH.Login)
		r.With(sensitiveRL.Limit).Post("/auth/password-reset/{action}", authH.PasswordReset)
		r.With(sensitiveRL.Limit).Post("/auth/verify-otp", authH.VerifyOTP)
		r.With(sensitiveRL.Limit).Post("/auth/customer-account/{action}", authH.CustomerAccount)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Post("/auth/change-password", authH.ChangePassword)
			r.Get("/users/me", userH.GetProfile)
			r.Put("/users/me", userH.UpdateProfile)
			r.Get("/roles", roleH.List)
			r.Get("/categories", categoryH.List)
			r.Get("/categories/{id}", categoryH.Get)
			r.Get("/categories/{id}/dishes", dishH.ListByCategory)
			r.Get("/dishes", dishH.List)
			r.Get("/dishes/{id}", dishH.Get)

			// Staff and super admin
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireStaff)

				r.Post("/categories", categoryH.Create)
				r.Put("/categories/{id}", categoryH.Update)
				r.Delete("/categories/{id}", categoryH.Delete)
				r.Post("/dishes", dishH.Create)
				r.Put("/dishes/{id}", dishH.Update)
				r.Delete("/dishes/{id}", dishH.Delete)
				r.Post("/dishes/{id}/images", dishH.UploadImage)
			})

			// Super admin only
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireSuperAdmin)

				r.Get("/users", userH.List)
				r.Post("/users/staff", userH.AddStaff)
				r.Put("/users/{id}/toggle-active", userH.ToggleActive)
			})
		})
	})

	return r
}
