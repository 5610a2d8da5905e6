package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tutorpay/internal/config"
	"tutorpay/internal/db"
	"tutorpay/internal/domain"
	httpServer "tutorpay/internal/http"
	"tutorpay/internal/http/handlers"
	"tutorpay/internal/http/middleware"
	"tutorpay/internal/logger"
	"tutorpay/internal/notify"
	"tutorpay/internal/provider"
	"tutorpay/internal/queue"
	"tutorpay/internal/repository"
	"tutorpay/internal/search"
	"tutorpay/internal/service"
	"tutorpay/internal/sideeffect"
	"tutorpay/internal/worker"
	"tutorpay/internal/ws"

	"github.com/gin-gonic/gin"
)

var version = "dev"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	service.InitJWT(cfg.JWTSecret)

	dbPool := db.Connect(cfg.DatabaseURL)
	defer dbPool.Close()

	rdb := db.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	trxRepo := repository.NewTransactionRepository(dbPool)
	walletRepo := repository.NewWalletRepository(dbPool)
	userRepo := repository.NewUserRepository(dbPool)
	mediaRepo := repository.NewMediaRepository(dbPool)
	earningsRepo := repository.NewEarningsRepository(dbPool)

	var index search.Index
	var notifyQueue notify.Queue
	if rdb != nil {
		index = search.NewRedisIndex(rdb)
		notifyQueue = notify.NewRedisQueue(rdb)
	}

	pool := worker.NewPool(cfg.SideEffectWorkers)
	hub := ws.NewHub()
	effects := sideeffect.NewPropagator(pool, index, notifyQueue, userRepo, hub, cfg.SideEffectTimeout)

	registry := provider.NewRegistry()
	refs := service.NewReferenceGenerator(trxRepo, cfg.ReferenceMaxAttempts)
	trxService := service.NewTransactionService(trxRepo, walletRepo, mediaRepo,
		refs, registry, effects, index, cfg.VerifyTimeout)

	if key := os.Getenv("PAYSTACK_SECRET_KEY"); key != "" {
		paystack := provider.NewPaystackVerifier(provider.NewPaystackClient(key))
		registry.Register(domain.ChannelPaystack, paystack)
		trxService.RegisterCheckout(domain.ChannelPaystack, paystack)
	}
	if key := os.Getenv("STRIPE_SECRET_KEY"); key != "" {
		registry.Register(domain.ChannelStripe,
			provider.NewStripeVerifier(provider.NewStripeClient(key)))
	}

	earningsService := service.NewEarningsService(earningsRepo)
	authService := service.NewAuthService(userRepo)

	verifyQueue := queue.NewVerifyQueue(rdb)
	h := handlers.NewHandler(trxService, earningsService, authService, verifyQueue)

	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	var dispatcher *queue.Dispatcher
	if rdb != nil {
		dispatcher = queue.NewDispatcher(verifyQueue, trxService)
		go dispatcher.Run(dispatchCtx)
	}

	middleware.InitRedisRateLimiter(rdb)

	r := gin.Default()

	// CORS for production (frontend on different domain)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	httpServer.RegisterRoutes(r, h, dbPool, rdb, hub, version)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	stopDispatch()
	if dispatcher != nil {
		dispatcher.Stop()
	}
	pool.Stop()

	logger.Info("server exited")
}
