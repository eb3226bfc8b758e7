// Package api provides the HTTP API for the export documentation
// tracker.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/exportdesk/exportdesk/internal/api/handler"
	"github.com/exportdesk/exportdesk/internal/api/middleware"
	"github.com/exportdesk/exportdesk/internal/backup"
	"github.com/exportdesk/exportdesk/internal/mail"
	"github.com/exportdesk/exportdesk/internal/notiz"
	"github.com/exportdesk/exportdesk/internal/protokoll"
	"github.com/exportdesk/exportdesk/internal/storage"
	"github.com/exportdesk/exportdesk/internal/vorgang"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	VorgangService   *vorgang.Service
	NotizService     *notiz.Service
	ProtokollService *protokoll.Service

	// MailSender and MailFetcher are nil when SMTP is not configured;
	// the send endpoint then answers 503.
	MailSender      *mail.Sender
	MailFetcher     *mail.Fetcher
	ProviderMetrics *middleware.ProviderMetrics

	// Dumper is nil when pg_dump backups are disabled.
	Dumper *backup.Dumper

	// PingDB backs the readiness probe.
	PingDB func(ctx context.Context) error

	// AllowedOrigins are the front-end origins for CORS. Empty allows
	// any origin, for local development.
	AllowedOrigins []string

	// LocalUploadDir serves stored files under /uploads when the local
	// storage mode is active. Empty disables static serving.
	LocalUploadDir string
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "exportdesk-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequireTLS)
	r.Use(middleware.ContentTypeJSON)
	r.Use(corsMiddleware(cfg.AllowedOrigins).Handler)

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.PingDB)
	vorgangHandler := handler.NewVorgangHandler(cfg.VorgangService)
	notizHandler := handler.NewNotizHandler(cfg.NotizService)
	protokollHandler := handler.NewProtokollHandler(cfg.ProtokollService)
	emailHandler := handler.NewEmailHandler(cfg.MailSender, cfg.MailFetcher, cfg.VorgangService, cfg.ProviderMetrics)

	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min
	uploadRateLimit := middleware.RateLimitByIP(middleware.UploadRateLimit)       // 30 req/min
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 10 req/min

	r.Route("/api", func(r chi.Router) {
		// Ops endpoints (no rate limit, probed by infrastructure)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Export cases
		r.Route("/vorgaenge", func(r chi.Router) {
			r.With(standardRateLimit).Get("/", vorgangHandler.ListVorgaenge)
			r.With(uploadRateLimit).Post("/", vorgangHandler.CreateVorgang)

			r.Route("/{vorgangId}", func(r chi.Router) {
				r.Use(standardRateLimit)
				r.Get("/", vorgangHandler.GetVorgang)
				r.Patch("/", vorgangHandler.UpdateVorgang)
				r.Delete("/", vorgangHandler.DeleteVorgang)
				r.Post("/status", vorgangHandler.SetStatus)
				r.With(uploadRateLimit).Post("/uploads", vorgangHandler.UploadDocument)

				// Drafts are mailto-based and need no SMTP relay.
				r.Get("/email-draft", emailHandler.EmailDraft)
			})
		})

		// Notes
		r.Route("/notizen", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Use(middleware.RequireJSON)
			r.Get("/", notizHandler.ListNotizen)
			r.Post("/", notizHandler.CreateNotiz)
			r.Put("/{notizId}", notizHandler.UpdateNotiz)
			r.Delete("/{notizId}", notizHandler.DeleteNotiz)
		})

		// Changelog
		r.Route("/protokoll", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Use(middleware.RequireJSON)
			r.Get("/", protokollHandler.ListEintraege)
			r.Post("/", protokollHandler.CreateEintrag)
			r.Put("/{eintragId}", protokollHandler.UpdateEintrag)
			r.Delete("/{eintragId}", protokollHandler.DeleteEintrag)
		})

		// Mail relay
		r.With(expensiveRateLimit).Post("/email/send", emailHandler.SendEmail)

		// Database backup
		if cfg.Dumper != nil {
			backupHandler := handler.NewBackupHandler(cfg.Dumper, cfg.Logger)
			r.With(expensiveRateLimit).Get("/backup", backupHandler.Backup)
		}
	})

	// Static file serving for locally stored uploads. The content type
	// is set explicitly because ContentTypeJSON has already defaulted
	// it by the time the file server runs.
	if cfg.LocalUploadDir != "" {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.LocalUploadDir)))
		r.With(standardRateLimit).Get("/uploads/*", func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("Content-Type", storage.ContentTypeFor(req.URL.Path))
			fs.ServeHTTP(w, req)
		})
	}

	return r
}

// corsMiddleware builds the CORS policy for the SPA front-end.
func corsMiddleware(origins []string) *cors.Cors {
	if len(origins) == 0 {
		return cors.New(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		})
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: true,
	})
}
