package routes

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tair/catalog-admin/api-gateway/config"
	"github.com/tair/catalog-admin/api-gateway/health"
	"github.com/tair/catalog-admin/api-gateway/middleware"
	"github.com/tair/catalog-admin/api-gateway/proxy"
)

// RouteDefinition defines a route mapping
type RouteDefinition struct {
	Prefix       string
	ServiceName  string
	Description  string
	OptionalAuth bool // Forwards identity headers when a token is present
	RequireAuth  bool // Requires authentication
	RequireAdmin bool // Requires admin role
}

// Routes holds all route definitions
var Routes = []RouteDefinition{
	// Public routes (no auth required)
	{
		Prefix:      "/auth",
		ServiceName: "catalog",
		Description: "Authentication endpoints (login, register)",
	},
	{
		Prefix:      "/swagger",
		ServiceName: "catalog",
		Description: "API documentation",
	},

	// Catalog routes (reads are public, the service gates writes by permission)
	{
		Prefix:       "/api/products",
		ServiceName:  "catalog",
		Description:  "Product management",
		OptionalAuth: true,
	},
	{
		Prefix:       "/api/catalogs",
		ServiceName:  "catalog",
		Description:  "Catalog taxonomy",
		OptionalAuth: true,
	},
	{
		Prefix:       "/api/categories",
		ServiceName:  "catalog",
		Description:  "Category taxonomy",
		OptionalAuth: true,
	},
	{
		Prefix:       "/api/sub-categories",
		ServiceName:  "catalog",
		Description:  "Sub-category taxonomy",
		OptionalAuth: true,
	},
	{
		Prefix:       "/api/brands",
		ServiceName:  "catalog",
		Description:  "Brand taxonomy",
		OptionalAuth: true,
	},
	{
		Prefix:       "/api/vehicle-types",
		ServiceName:  "catalog",
		Description:  "Vehicle type taxonomy",
		OptionalAuth: true,
	},
	{
		Prefix:       "/api/websites",
		ServiceName:  "catalog",
		Description:  "Website taxonomy",
		OptionalAuth: true,
	},
	{
		Prefix:       "/api/vendors",
		ServiceName:  "catalog",
		Description:  "Vendor taxonomy",
		OptionalAuth: true,
	},

	// Purchase routes (always authenticated)
	{
		Prefix:      "/api/purchases",
		ServiceName: "catalog",
		Description: "Purchase management",
		RequireAuth: true,
	},

	// User routes
	{
		Prefix:      "/users",
		ServiceName: "catalog",
		Description: "User profile",
		RequireAuth: true,
	},
	{
		Prefix:       "/admin",
		ServiceName:  "catalog",
		Description:  "User and permission administration",
		RequireAuth:  true,
		RequireAdmin: true,
	},
}

// SetupRoutes configures all routes in the gateway
func SetupRoutes(app *fiber.App, cfg *config.GatewayConfig) {
	// Create reverse proxy
	reverseProxy := proxy.NewReverseProxy(cfg)

	// Create health checker
	healthChecker := health.NewHealthChecker(cfg)

	// Gateway quick health check (no downstream checks)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(healthChecker.QuickCheck())
	})

	// Liveness probe (for Kubernetes)
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
		if healthStatus.Status == "unhealthy" {
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

	// Register all service routes
	for _, route := range Routes {
		registerServiceRoutes(app, route, reverseProxy)
	}
}

// registerServiceRoutes registers all HTTP methods for a service prefix
func registerServiceRoutes(app *fiber.App, route RouteDefinition, proxyHandler *proxy.ReverseProxy) {
	// Create handler function
	handler := func(c *fiber.Ctx) error {
		return proxyHandler.ProxyRequest(c, route.ServiceName)
	}

	// Apply middleware based on route requirements
	var middlewares []fiber.Handler

	switch {
	case route.RequireAdmin:
		// Admin routes need both auth and admin check
		middlewares = append(middlewares, middleware.AuthMiddleware(), middleware.AdminMiddleware())
	case route.RequireAuth:
		middlewares = append(middlewares, middleware.AuthMiddleware())
	case route.OptionalAuth:
		middlewares = append(middlewares, middleware.OptionalAuthMiddleware())
	}
	// Public routes have no middleware

	// Create a route group for this service
	group := app.Group(route.Prefix, middlewares...)

	// Handle all HTTP methods with wildcard path
	group.All("/*", handler)

	// Also handle the exact prefix path (without /*)
	if len(middlewares) > 0 {
		app.All(route.Prefix, append(middlewares, handler)...)
	} else {
		app.All(route.Prefix, handler)
	}
}
