package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/betterhealth/bh-platform/internal/admin"
	"github.com/betterhealth/bh-platform/internal/applications"
	"github.com/betterhealth/bh-platform/internal/auth"
	"github.com/betterhealth/bh-platform/internal/booking"
	httpmiddleware "github.com/betterhealth/bh-platform/internal/http/middleware"
	"github.com/betterhealth/bh-platform/internal/media"
	"github.com/betterhealth/bh-platform/internal/meetings"
	"github.com/betterhealth/bh-platform/internal/payments"
	"github.com/betterhealth/bh-platform/internal/pricing"
	"github.com/betterhealth/bh-platform/internal/providers"
	"github.com/betterhealth/bh-platform/internal/questionnaire"
	"github.com/betterhealth/bh-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger               *logging.Logger
	AuthHandler          *auth.Handler
	PricingHandler       *pricing.Handler
	QuestionnaireHandler *questionnaire.Handler
	ProvidersHandler     *providers.Handler
	BookingHandler       *booking.Handler
	PaymentsHandler      *payments.Handler
	MeetingsHandler      *meetings.Handler
	ApplicationsHandler  *applications.Handler
	MediaHandler         *media.Handler
	AdminDashboard       *admin.DashboardHandler

	JWTSecret          string
	AdminJWTSecret     string
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Requests per second allowed on the OTP endpoints, per IP.
	OTPRateLimit float64
}

// New creates a new Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(api chi.Router) {
		// OTP endpoints sit behind a per-IP limiter: they trigger SMS spend.
		api.Group(func(otp chi.Router) {
			if cfg.OTPRateLimit > 0 {
				otp.Use(httpmiddleware.RateLimit(cfg.OTPRateLimit, 3))
			}
			otp.Post("/auth/otp/send", cfg.AuthHandler.SendOTP)
			otp.Post("/auth/otp/verify", cfg.AuthHandler.VerifyOTP)
		})
		api.With(httpmiddleware.UserJWT(cfg.JWTSecret)).Get("/auth/me", cfg.AuthHandler.Me)

		api.Get("/pricing/plans", cfg.PricingHandler.ListPlans)
		api.With(httpmiddleware.OptionalUserJWT(cfg.JWTSecret)).
			Post("/pricing/coupons/validate", cfg.PricingHandler.ValidateCoupon)

		api.Get("/questionnaire", cfg.QuestionnaireHandler.ListQuestions)

		api.Route("/providers", func(p chi.Router) {
			p.Get("/", cfg.ProvidersHandler.ListProviders)
			p.Get("/{providerID}", cfg.ProvidersHandler.GetProvider)
			p.Get("/{providerID}/slots", cfg.ProvidersHandler.ListSlots)
		})

		api.Route("/bookings", func(b chi.Router) {
			b.With(httpmiddleware.UserJWT(cfg.JWTSecret)).Get("/", cfg.BookingHandler.ListMyBookings)
			b.Route("/sessions", func(s chi.Router) {
				s.Post("/", cfg.BookingHandler.StartSession)
				s.Route("/{sessionID}", func(sess chi.Router) {
					sess.Get("/", cfg.BookingHandler.GetSession)
					sess.Post("/back", cfg.BookingHandler.Back)
					sess.Put("/plan", cfg.BookingHandler.SelectPlan)
					sess.Put("/provider", cfg.BookingHandler.SelectProvider)
					sess.Put("/contact", cfg.BookingHandler.SubmitContact)
					sess.Get("/summary", cfg.BookingHandler.GetSummary)
				})
			})
		})

		api.Route("/payments", func(p chi.Router) {
			p.Post("/orders", cfg.PaymentsHandler.CreateOrder)
			p.Post("/verify", cfg.PaymentsHandler.VerifyPayment)
		})

		api.Route("/meetings", func(m chi.Router) {
			m.Use(httpmiddleware.UserJWT(cfg.JWTSecret))
			m.Get("/", cfg.MeetingsHandler.ListMine)
			m.Post("/", cfg.MeetingsHandler.Schedule)
			m.Get("/participants", cfg.MeetingsHandler.LookupParticipant)
			m.Delete("/{meetingID}", cfg.MeetingsHandler.Cancel)
		})

		api.Post("/applications", cfg.ApplicationsHandler.Submit)

		if cfg.MediaHandler != nil {
			api.Post("/media/uploads", cfg.MediaHandler.Upload)
		}
	})

	r.Route("/admin", func(adm chi.Router) {
		adm.Use(httpmiddleware.AdminJWT(cfg.AdminJWTSecret))
		if cfg.AdminDashboard != nil {
			adm.Get("/dashboard", cfg.AdminDashboard.GetOverview)
		}
		adm.Route("/applications", func(a chi.Router) {
			a.Get("/", cfg.ApplicationsHandler.ListPending)
			a.Get("/{applicationID}", cfg.ApplicationsHandler.Get)
			a.Post("/{applicationID}/verify", cfg.ApplicationsHandler.Verify)
			a.Post("/{applicationID}/reject", cfg.ApplicationsHandler.Reject)
		})
	})

	return r
}
