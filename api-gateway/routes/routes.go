package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/comerciolibre/backend/api-gateway/config"
	"github.com/comerciolibre/backend/api-gateway/health"
	"github.com/comerciolibre/backend/api-gateway/middleware"
	"github.com/comerciolibre/backend/api-gateway/proxy"
)

// RouteDefinition defines a route mapping
type RouteDefinition struct {
	Prefix       string
	ServiceName  string
	Description  string
	RequireAuth  bool
	RequireAdmin bool
}

// Routes holds all route definitions. Authorization is enforced again
// in each service; the gateway only rejects obviously unauthenticated
// traffic on the prefixes that never serve anonymous requests.
var Routes = []RouteDefinition{
	// Public routes (login, register)
	{
		Prefix:      "/api/auth",
		ServiceName: "auth",
		Description: "Authentication endpoints (login, registro)",
	},
	{
		Prefix:      "/api/usuarios",
		ServiceName: "auth",
		Description: "User management (admin only)",
		RequireAuth: true,
	},

	// Catalog service routes (reads are public, writes checked downstream)
	{
		Prefix:      "/api/productos",
		ServiceName: "catalog",
		Description: "Product catalog",
	},
	{
		Prefix:      "/api/categorias",
		ServiceName: "catalog",
		Description: "Product categories",
	},
	{
		Prefix:      "/api/empresas",
		ServiceName: "catalog",
		Description: "Companies",
	},

	// Inventory service routes
	{
		Prefix:      "/api/inventarios",
		ServiceName: "inventory",
		Description: "Stock management (mixed: some need admin)",
	},
	{
		Prefix:      "/api/movimientos",
		ServiceName: "inventory",
		Description: "Stock movement history",
	},

	// Sales service routes
	{
		Prefix:      "/api/ventas",
		ServiceName: "sales",
		Description: "Sales (place, confirm, cancel)",
	},
	{
		Prefix:      "/api/clientes",
		ServiceName: "sales",
		Description: "Customer management",
	},
}

// SetupRoutes configures all routes in the gateway. A nil redis client
// disables the per-user limiter on authenticated prefixes.
func SetupRoutes(app *fiber.App, cfg *config.GatewayConfig, redisClient *redis.Client) {
	reverseProxy := proxy.NewReverseProxy(cfg)
	healthChecker := health.NewHealthChecker(cfg)

	// Gateway quick health check (no downstream checks)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(healthChecker.QuickCheck())
	})

	// Liveness probe
	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "alive",
		})
	})

	// Readiness probe (checks downstream services)
	app.Get("/health/ready", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()

		healthStatus := healthChecker.CheckAllServices(ctx)

		statusCode := fiber.StatusOK
		if healthStatus.Status == health.StatusUnhealthy {
			statusCode = fiber.StatusServiceUnavailable
		}

		return c.Status(statusCode).JSON(healthStatus)
	})

	// Detailed service health checks
	app.Get("/health/services", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
		defer cancel()

		healthStatus := healthChecker.CheckAllServices(ctx)
		return c.JSON(healthStatus)
	})

	// API routes overview
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "API Gateway",
			"version": "1.0.0",
			"routes":  Routes,
		})
	})

	for _, route := range Routes {
		registerServiceRoutes(app, route, reverseProxy, redisClient)
	}
}

// registerServiceRoutes registers all HTTP methods for a service prefix
func registerServiceRoutes(app *fiber.App, route RouteDefinition, proxyHandler *proxy.ReverseProxy, redisClient *redis.Client) {
	handler := func(c *fiber.Ctx) error {
		return proxyHandler.ProxyRequest(c, route.ServiceName)
	}

	var middlewares []fiber.Handler

	if route.RequireAdmin {
		middlewares = append(middlewares, middleware.AuthMiddleware(), middleware.AdminMiddleware())
	} else if route.RequireAuth {
		middlewares = append(middlewares, middleware.AuthMiddleware())
	} else {
		// Forward identity headers when a token is present
		middlewares = append(middlewares, middleware.OptionalAuthMiddleware())
	}

	// Authenticated prefixes get the stricter per-user window on top of
	// the global limiter.
	if (route.RequireAuth || route.RequireAdmin) && redisClient != nil {
		middlewares = append(middlewares, middleware.UserRateLimiter(redisClient))
	}

	group := app.Group(route.Prefix, middlewares...)
	group.All("/*", handler)

	// Also handle the exact prefix path (without /*)
	app.All(route.Prefix, append(middlewares, handler)...)
}
