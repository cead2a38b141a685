package http

import (
	"fmt"
	"net/http"

	"github.com/barangay-cms/internal/application/credential"
	"github.com/barangay-cms/internal/application/guard"
	"github.com/barangay-cms/internal/application/login"
	"github.com/barangay-cms/internal/application/notification"
	"github.com/barangay-cms/internal/application/otp"
	"github.com/barangay-cms/internal/application/registration"
	"github.com/barangay-cms/internal/application/session"
	"github.com/barangay-cms/internal/config"
	"github.com/barangay-cms/internal/domain"
	"github.com/barangay-cms/internal/transport/http/handler"
	appmiddleware "github.com/barangay-cms/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) (http.Handler, error) {
	routeGuard, err := guard.New(cfg.GuardAdminRoutes, cfg.GuardUserRoutes)
	if err != nil {
		return nil, fmt.Errorf("route guard: %w", err)
	}

	otpSvc := otp.NewService(otp.ServiceDeps{Repo: deps.Challenges, TTL: cfg.OTPTTL})
	credSvc := credential.NewService(credential.ServiceDeps{Repo: deps.Identities})
	sender := notification.NewService(notification.ServiceDeps{
		Mailer:    deps.Mailer,
		SMSSender: deps.SMSSender,
		Timeout:   cfg.NotifyTimeout,
		OTPTTL:    cfg.OTPTTL,
	})
	sessionSvc := session.NewService(session.ServiceDeps{
		Repo:   deps.Sessions,
		Tokens: deps.Tokens,
		TTL:    cfg.SessionTTL,
	})
	registrationSvc := registration.NewService(registration.ServiceDeps{
		OTP:           otpSvc,
		Credentials:   credSvc,
		Sender:        sender,
		ActivationKey: cfg.AdminActivationKey,
	})
	loginSvc := login.NewService(login.ServiceDeps{
		OTP:         otpSvc,
		Credentials: credSvc,
		Sender:      sender,
		Sessions:    sessionSvc,
	})

	healthH := handler.NewHealthHandler(deps.HealthChecks)
	registrationH := handler.NewRegistrationHandler(registrationSvc)
	loginH := handler.NewLoginHandler(loginSvc, handler.CookieConfig{
		Name:   cfg.SessionCookieName,
		Secure: cfg.SessionCookieSecure,
	})
	sessionH := handler.NewSessionHandler(loginSvc, cfg.SessionCookieName)
	barangayH := handler.NewBarangayHandler(credSvc)

	// 5 requests/second, burst of 10, on the public auth endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	r := chi.NewRouter()
	if len(cfg.TrustedProxies) > 0 {
		r.Use(appmiddleware.TrustProxies(cfg.TrustedProxies))
	}
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.CleanPath)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(appmiddleware.Session(sessionSvc, cfg.SessionCookieName))
	r.Use(appmiddleware.RouteGuard(routeGuard))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health-check/{action}", healthH.Ping)
		r.Get("/barangays/registered", barangayH.Registered)
		r.Get("/session", sessionH.GetCurrent)

		r.Group(func(r chi.Router) {
			r.Use(sensitiveRL.Limit)

			r.Post("/users/registration/code", registrationH.RequestUserCode)
			r.Post("/users/registration/resend", registrationH.ResendUserCode)
			r.Post("/users/registration/verify", registrationH.VerifyUser)
			r.Post("/admins/registration/code", registrationH.RequestAdminCode)
			r.Post("/admins/registration/verify", registrationH.VerifyAdmin)

			r.Post("/users/login", loginH.UserLogin)
			r.Post("/users/login/verify", loginH.UserVerify)
			r.Post("/admins/login", loginH.AdminLogin)
			r.Post("/admins/login/access-key", loginH.AdminAccessKey)
		})

		r.With(appmiddleware.RequireRole(domain.RoleUser, domain.RoleAdmin)).
			Post("/sessions/logout", sessionH.Logout)
	})

	r.Handle("/*", handler.Pages(cfg.StaticDir))

	return r, nil
}
