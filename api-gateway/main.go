package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"

	"github.com/comerciolibre/backend/api-gateway/config"
	"github.com/comerciolibre/backend/api-gateway/middleware"
	"github.com/comerciolibre/backend/api-gateway/routes"
	"github.com/comerciolibre/backend/pkg/logger"
	"github.com/comerciolibre/backend/pkg/tracing"
)

func main() {
	serviceName := getEnv("OTEL_SERVICE_NAME", "api-gateway")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	redisClient := connectRedis(cfg)
	cbManager := middleware.NewCircuitBreakerManager()

	app := fiber.New(fiber.Config{
		AppName:           "API Gateway",
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       30 * time.Second,
		EnablePrintRoutes: isDevelopment,
		ErrorHandler:      errorHandler,
	})

	setupMiddleware(app, cfg, redisClient, cbManager)
	routes.SetupRoutes(app, cfg, redisClient)

	// Breaker positions per backend, for dashboards
	app.Get("/health/breakers", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"timestamp": time.Now().UTC(),
			"breakers":  cbManager.GetAllStats(),
		})
	})

	go func() {
		addr := ":" + cfg.Port
		for name, svc := range cfg.Services {
			logger.Logger.Info().Str("backend", name).Strs("instances", svc.Instances).Msg("Backend registered")
		}
		logger.Logger.Info().Str("addr", addr).Msg("API Gateway listening")

		if err := app.Listen(addr); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Gateway stopped listening")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down API Gateway")
	if err := app.Shutdown(); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Forced shutdown")
	}
}

// connectRedis returns a pinged client, or nil when redis is unreachable.
// Without redis the gateway still proxies; caching and rate limiting are
// skipped.
func connectRedis(cfg *config.GatewayConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Logger.Warn().Err(err).Str("redis_addr", cfg.RedisAddr).
			Msg("Redis unreachable, caching and rate limiting disabled")
		return nil
	}
	logger.Logger.Info().Str("redis_addr", cfg.RedisAddr).Msg("Connected to Redis")
	return client
}

// Order matters: request id before tracing, tracing before logging so every
// log line carries trace ids, cache before the breaker so hits are served
// even while a backend is down, breaker before the limiter to fail fast.
func setupMiddleware(app *fiber.App, cfg *config.GatewayConfig, redisClient *redis.Client, cbManager *middleware.CircuitBreakerManager) {
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())
	app.Use(middleware.StructuredLoggingMiddleware())

	if redisClient != nil {
		app.Use(middleware.CacheMiddleware(redisClient, middleware.DefaultCacheConfig()))
		app.Use(middleware.CacheInvalidationMiddleware(redisClient))
	}

	app.Use(middleware.CircuitBreakerMiddleware(cbManager))

	if redisClient != nil {
		app.Use(middleware.GlobalRateLimiter(redisClient))
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-Id, X-User-Id, traceparent, tracestate",
		AllowCredentials: true,
		ExposeHeaders:    "X-Request-Id, X-Trace-Id, X-User-Id, X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset",
		MaxAge:           86400,
	}))

	app.Use(compress.New(compress.Config{Level: compress.LevelBestSpeed}))
}

// errorHandler is the last stop for errors fiber itself surfaces, shaped
// like the services' Spanish error payloads.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"codigo":    "INTERNAL",
		"mensaje":   err.Error(),
		"status":    code,
		"path":      c.Path(),
		"method":    c.Method(),
		"requestId": c.Get("X-Request-Id"),
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
