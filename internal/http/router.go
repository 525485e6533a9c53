// Package httpapi wires the HTTP transport (Gin) to the word service and
// notifier, middleware, and route handlers. It centralizes cross-cutting
// concerns such as tracing, correlation IDs, logging, panic recovery,
// metrics, CORS, and rate limiting.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Rate limiter (per client IP)
//  8. CORS
//  9. Gzip
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/asukai/go-word-backend/internal/config"
	"github.com/asukai/go-word-backend/internal/domain"
	"github.com/asukai/go-word-backend/internal/http/handlers"
	"github.com/asukai/go-word-backend/internal/http/middleware"
	"github.com/asukai/go-word-backend/internal/repo"
	"github.com/asukai/go-word-backend/internal/services"
)

// WordRepoShim adapts the repository free functions to the services.WordRepo
// interface expected by the WordService. This keeps the service decoupled
// from the concrete repo package while reusing the existing functions.
type WordRepoShim struct{}

// CreateWord proxies repo.CreateWord.
func (WordRepoShim) CreateWord(ctx context.Context, db *gorm.DB, g domain.GeneratedWord) (*domain.WordEntry, error) {
	return repo.CreateWord(ctx, db, g)
}

// ListWords proxies repo.ListWords.
func (WordRepoShim) ListWords(ctx context.Context, db *gorm.DB, limit int) ([]domain.WordEntry, error) {
	return repo.ListWords(ctx, db, limit)
}

// RecentWords proxies repo.RecentWords.
func (WordRepoShim) RecentWords(ctx context.Context, db *gorm.DB, count int) ([]string, error) {
	return repo.RecentWords(ctx, db, count)
}

// RandomWord proxies repo.RandomWord.
func (WordRepoShim) RandomWord(ctx context.Context, db *gorm.DB) (*domain.WordEntry, error) {
	return repo.RandomWord(ctx, db)
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. The notifier is injected so tests can run the surface against a
// fake chat platform.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, notifier handlers.Notifier, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured access logging
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (64 KiB; the only JSON body is a challenge token)
	r.Use(limitBody(64 << 10))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Token-bucket rate limiter per client IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByIP())
	r.Use(rl.Handler())

	// 8) CORS posture: GET/POST only, allow-all unless an allowlist is set
	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"X-Request-ID", "Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	// 9) Compress responses
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Dependency injection: handlers ← service ← repo/db
	wordSvc := services.NewWordService(db, WordRepoShim{})
	h := handlers.New(wordSvc, notifier)

	r.GET("/", h.Root)
	r.GET("/word-list", h.ListWords)
	r.POST("/word-list/random", h.RandomWord)
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints using http.MaxBytesReader. Requests exceeding the cap will cause
// downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
