// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/ailearnpro/go-study-backend/internal/config"
	"github.com/ailearnpro/go-study-backend/internal/domain"
	"github.com/ailearnpro/go-study-backend/internal/extract"
	"github.com/ailearnpro/go-study-backend/internal/http/handlers"
	"github.com/ailearnpro/go-study-backend/internal/http/middleware"
	"github.com/ailearnpro/go-study-backend/internal/repo"
	"github.com/ailearnpro/go-study-backend/internal/services"
	"github.com/ailearnpro/go-study-backend/internal/studykit"
)

// accountRepoShim adapts the repository free functions to the
// services.AccountRepo interface expected by the AuthService. This keeps
// services decoupled from the concrete repo package while reusing existing
// functions.
type accountRepoShim struct{}

func (accountRepoShim) CreateAccount(ctx context.Context, db *gorm.DB, name, email, passwordHash string) (*domain.Account, error) {
	return repo.CreateAccount(ctx, db, name, email, passwordHash)
}

func (accountRepoShim) GetAccountByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.Account, error) {
	return repo.GetAccountByEmail(ctx, db, email)
}

func (accountRepoShim) GetAccountByID(ctx context.Context, db *gorm.DB, id string) (*domain.Account, error) {
	return repo.GetAccountByID(ctx, db, id)
}

func (accountRepoShim) UpdateAccountProfile(ctx context.Context, db *gorm.DB, id string, updates map[string]any) (*domain.Account, error) {
	return repo.UpdateAccountProfile(ctx, db, id, updates)
}

func (accountRepoShim) UpdateAccountPassword(ctx context.Context, db *gorm.DB, id, passwordHash string) error {
	return repo.UpdateAccountPassword(ctx, db, id, passwordHash)
}

// historyRepoShim adapts the history repository free functions to
// services.HistoryRepo.
type historyRepoShim struct{}

func (historyRepoShim) CreateHistory(ctx context.Context, db *gorm.DB, userID, topic, subject string, kit domain.StudyKit) (*domain.History, error) {
	return repo.CreateHistory(ctx, db, userID, topic, subject, kit)
}

func (historyRepoShim) ListHistory(ctx context.Context, db *gorm.DB, userID string, limit int) ([]domain.History, error) {
	return repo.ListHistory(ctx, db, userID, limit)
}

func (historyRepoShim) DeleteHistory(ctx context.Context, db *gorm.DB, id string) error {
	return repo.DeleteHistory(ctx, db, id)
}

// deadlineProducer caps each generation run with a timeout. Generation can
// legitimately take minutes across retries, but never unbounded.
type deadlineProducer struct {
	inner   services.StudyKitProducer
	timeout time.Duration
}

func (p deadlineProducer) Produce(ctx context.Context, text string) (domain.StudyKit, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	return p.inner.Produce(ctx, text)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), rate limiting,
// CORS and security headers, health and metrics endpoints, and then mounts
// the public API under the configured base path.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter (uploads can be large; bounded by config)
//  6. Gzip response compression (study kits are repetitive JSON)
//  7. Metrics
//  8. Bearer auth (soft; attaches identity when a valid token is present)
//  9. Rate limiter (per user/IP)
//  10. CORS and Security headers
func RegisterRoutes(r *gin.Engine, db *gorm.DB, gen services.StudyKitProducer, mailer services.Mailer, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			"X-API-Key",
		},
	}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit
	r.Use(limitBody(cfg.Upload.MaxBytes))

	// 6) Compress responses
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Soft bearer auth: identity when present, anonymous otherwise
	tokens := &services.TokenIssuer{
		Secret: []byte(cfg.Auth.JWTSecret),
		TTL:    cfg.Auth.TokenTTL,
	}
	r.Use(middleware.BearerAuth(tokens))

	// 9) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Swagger UI (dev convenience, off by default in production)
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Profile images are stored on disk and served statically.
	r.Static("/uploads", cfg.Upload.Dir)

	// Dependency injection: services ← repo/db/clients
	historySvc := services.NewHistoryService(db, historyRepoShim{})

	var recognizer extract.Recognizer
	if tess := (&extract.TesseractRecognizer{Lang: cfg.OCRLang}); tess.Available() {
		recognizer = tess
	}
	extractor := &extract.Extractor{Recognizer: recognizer}

	studySvc := &services.StudyService{
		Extractor: extractor,
		Producer:  deadlineProducer{inner: gen, timeout: cfg.Gemini.Timeout},
		History:   historySvc,
	}

	authSvc := &services.AuthService{
		DB:         db,
		Repo:       accountRepoShim{},
		Tokens:     tokens,
		Mailer:     mailer,
		BcryptCost: cfg.Auth.BcryptCost,
	}

	uploadH := handlers.NewUploadHandlers(studySvc, cfg.Upload.Dir)
	authH := handlers.NewAuthHandlers(authSvc, cfg.Upload.Dir)
	historyH := handlers.NewHistoryHandlers(historySvc)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Study kit generation
		api.POST("/upload", uploadH.Upload)

		// Accounts
		api.POST("/auth/register", authH.Register)
		api.POST("/auth/login", authH.Login)
		api.PUT("/auth/profile", authH.UpdateProfile)
		api.PUT("/auth/password", authH.ChangePassword)

		// History
		api.POST("/history/save", historyH.Save)
		api.GET("/history/:userId", historyH.List)
		api.DELETE("/history/:id", historyH.Delete)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}

// ensure the production generator satisfies the producer contract
var _ services.StudyKitProducer = (*studykit.Generator)(nil)
