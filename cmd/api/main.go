package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/unnastore/unna-api/config"
	"github.com/unnastore/unna-api/controllers"
	"github.com/unnastore/unna-api/database"
	"github.com/unnastore/unna-api/gateway/mercadopago"
	"github.com/unnastore/unna-api/metrics"
	"github.com/unnastore/unna-api/middlewares"
	"github.com/unnastore/unna-api/repositories"
	"github.com/unnastore/unna-api/routes"
	"github.com/unnastore/unna-api/services"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	log := newLogger(cfg)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	userRepo := repositories.NewUserRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	productRepo := repositories.NewProductRepository(db)
	storeRepo := repositories.NewStoreRepository(db)
	cartRepo := repositories.NewCartRepository(db)
	orderRepo := repositories.NewOrderRepository(db)

	mpClient := mercadopago.NewClient(cfg.MPBaseURL, cfg.MPAccessToken, cfg.MPWebhookSecret, cfg.AppURL, cfg.MPTimeout)

	authService := services.NewAuthService(userRepo, cfg.JWTAccessSecret, cfg.JWTRefreshSecret)
	categoryService := services.NewCategoryService(categoryRepo)
	productService := services.NewProductService(productRepo, categoryRepo)
	storeService := services.NewStoreService(storeRepo)
	cartService := services.NewCartService(cartRepo, productRepo)
	orderService := services.NewOrderService(orderRepo, productRepo, cartRepo, storeRepo, userRepo, mpClient, log)
	webhookService := services.NewWebhookService(orderRepo, productRepo, mpClient, log)

	ctrl := routes.Controllers{
		Auth:     controllers.NewAuthController(authService),
		Category: controllers.NewCategoryController(categoryService),
		Product:  controllers.NewProductController(productService, cfg.S3Bucket, log),
		Store:    controllers.NewStoreController(storeService),
		Cart:     controllers.NewCartController(cartService),
		Order:    controllers.NewOrderController(orderService),
		Webhook:  controllers.NewWebhookController(webhookService, mpClient, log),
		Health:   controllers.NewHealthController(db),
	}

	server := newServer(cfg, ctrl, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.AppEnv).Msg("starting API server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.IsProduction() {
		return zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger().
		Level(zerolog.DebugLevel)
}

func newServer(cfg *config.Config, ctrl routes.Controllers, log zerolog.Logger) *http.Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middlewares.RequestLogger(log))

	serverMetrics := metrics.NewServerMetrics()
	engine.Use(serverMetrics.Middleware())
	engine.GET("/metrics", metrics.Handler())

	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Rate limiting is optional: without REDIS_ADDR the API runs unthrottled.
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		engine.Use(middlewares.RateLimit(rdb, cfg.RateLimitCapacity, cfg.RateLimitWindow, log))
	}

	routes.Register(engine, ctrl, cfg.JWTAccessSecret)

	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
