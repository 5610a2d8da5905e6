package http

import (
	"os"
	"strconv"
	"time"

	"tutorpay/internal/http/handlers"
	"tutorpay/internal/http/middleware"
	"tutorpay/internal/metrics"
	"tutorpay/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"
)

// RegisterRoutes wires the HTTP surface. The financial endpoints sit
// behind JWT + admin gating; webhooks and health are open.
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, db *pgxpool.Pool, rdb *redis.Client, hub *ws.Hub, version string) {
	healthHandler := handlers.NewHealthHandler(db, rdb, version)

	// read limits from env, with safe defaults
	apiRateLimit := 60
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			apiRateLimit = n
		}
	}
	apiRateWindow := time.Minute
	if v := os.Getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			apiRateWindow = time.Duration(n) * time.Second
		}
	}

	authRateLimit := 5
	if v := os.Getenv("AUTH_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			authRateLimit = n
		}
	}
	authRateWindow := time.Minute
	if v := os.Getenv("AUTH_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			authRateWindow = time.Duration(n) * time.Second
		}
	}

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Provider callbacks (no auth; providers retry on non-2xx)
	webhooks := r.Group("/webhooks")
	webhooks.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))
	{
		webhooks.POST("/paystack", h.PaystackWebhook)
		webhooks.POST("/stripe", h.StripeWebhook)
	}

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))

	v1.POST("/auth/login", middleware.RedisRateLimit(authRateLimit, authRateWindow), h.Login)

	// Transactions
	txns := v1.Group("/transactions")
	txns.Use(middleware.JWT())
	{
		txns.POST("", h.InitTransaction)
		txns.POST("/external", h.AddExternalTransaction)
		txns.GET("/search", middleware.AdminOnly(), h.SearchTransactions)
		txns.GET("/:id", h.GetTransaction)
		txns.GET("/:id/media", middleware.AdminOnly(), h.GetTransactionMedia)
		txns.POST("/verify/:reference", middleware.AdminOnly(), h.VerifyTransaction)
		txns.POST("/fulfil/:reference", middleware.AdminOnly(), h.FulfilTransaction)
	}

	// Earnings
	v1.GET("/earnings", middleware.JWT(), h.GetEarnings)

	// Admin live feed of transaction lifecycle events
	r.GET("/ws/feed", middleware.JWT(), middleware.AdminOnly(), ws.Serve(hub))
}
