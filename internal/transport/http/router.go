package http

import (
	"context"
	"net/http"

	"github.com/Ernie1234/e-commerce-microrepo/internal/application/auth"
	"github.com/Ernie1234/e-commerce-microrepo/internal/application/notification"
	"github.com/Ernie1234/e-commerce-microrepo/internal/application/otp"
	"github.com/Ernie1234/e-commerce-microrepo/internal/application/session"
	"github.com/Ernie1234/e-commerce-microrepo/internal/config"
	"github.com/Ernie1234/e-commerce-microrepo/internal/domain"
	"github.com/Ernie1234/e-commerce-microrepo/internal/infrastructure/smtp"
	"github.com/Ernie1234/e-commerce-microrepo/internal/infrastructure/sns"
	"github.com/Ernie1234/e-commerce-microrepo/internal/transport/http/handler"
	appmiddleware "github.com/Ernie1234/e-commerce-microrepo/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    UserRepository
	OTPStore    OTPStore
	Mailer      smtp.Mailer
	SMSSender   sns.SMSSender // optional
	JWTProvider TokenProvider
	// GenerateOTP overrides the random code source; nil uses crypto/rand.
	GenerateOTP func() (string, error)
}

// NewRouter builds and returns the application router. ctx bounds the
// background work owned by the router.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 5 requests/second, burst of 10, per client IP.
	sensitiveRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(5), 10)

	otpSvc := otp.NewService(otp.ServiceDeps{
		Store:    deps.OTPStore,
		Notifier: notification.NewService(deps.Mailer, deps.SMSSender),
		Generate: deps.GenerateOTP,
	})
	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo:      deps.UserRepo,
		OTP:           otpSvc,
		Grants:        deps.OTPStore,
		BcryptCost:    cfg.BcryptCost,
		ResetGrantTTL: cfg.PasswordResetGrant,
	})
	sessionSvc := session.NewService(session.ServiceDeps{
		UserRepo: deps.UserRepo,
		Tokens:   deps.JWTProvider,
	})

	opts := handler.Options{SecureCookies: cfg.IsProduction(), Debug: cfg.IsDevelopment()}
	healthH := handler.NewHealthHandler()
	regH := handler.NewRegistrationHandler(authSvc, opts)
	pwH := handler.NewPasswordRecoveryHandler(authSvc, opts)
	sessionH := handler.NewSessionHandler(sessionSvc, opts)
	authMw := appmiddleware.Auth(deps.JWTProvider, sessionSvc)

	r.Get("/", healthH.Welcome)

	r.Route("/api/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)

		r.Group(func(r chi.Router) {
			r.Use(sensitiveRL.Limit)

			r.Post("/user-registration", regH.RegisterUser)
			r.Post("/seller-registration", regH.RegisterSeller)
			r.Post("/resend-otp", regH.ResendOTP)
			r.Post("/login-user", sessionH.Login)
			r.Post("/user-forgot-password", pwH.Forgot)
		})
		r.Post("/verify-user", regH.VerifyUser)
		r.Post("/verify-seller", regH.VerifySeller)
		r.Post("/user-verify-forgot-password", pwH.VerifyOTP)
		r.Post("/user-reset-password", pwH.Reset)
		r.Post("/refresh-token-user", sessionH.Refresh)
		r.Post("/logout-user", sessionH.Logout)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)
			r.Use(appmiddleware.RequireRole(domain.RoleUser))

			r.Get("/logged-in-user", sessionH.Current)
		})
	})

	return r
}
