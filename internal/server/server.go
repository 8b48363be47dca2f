package server

import (
	"context"
	"log"

	"miniapp-gateway/internal/bootstrap"
	"miniapp-gateway/internal/config"
	"miniapp-gateway/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: serverutils.ErrorHandler,
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Get("/healthz", func(ctx *fiber.Ctx) error {
		return ctx.JSON(serverutils.SuccessResponse("ok", fiber.Map{
			"devices": container.Registry.Len(),
		}))
	})

	registerRoutes(app, cfg, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

// Run serves until ctx is cancelled, then shuts the listener down.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Gateway is running on http://localhost:%s (%s)", s.cfg.App.Port, s.cfg.App.Environment)
		errCh <- s.app.Listen(":" + s.cfg.App.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Println("Shutting down gateway...")
		return s.app.Shutdown()
	}
}

func registerRoutes(app *fiber.App, cfg *config.Config, c *bootstrap.Container) {
	api := app.Group("/api", serverutils.DeviceMiddleware(cfg.App.Environment.IsProdLike()))
	auth := serverutils.AuthCookieMiddleware(cfg.App.JWTSecret)

	c.SessionController.RegisterRoutes(api)
	c.ShareController.RegisterRoutes(api)
	c.TaskController.RegisterRoutes(api, auth)
	c.SocialController.RegisterRoutes(api, auth)

	c.BridgeHandler.RegisterRoutes(api)
}
