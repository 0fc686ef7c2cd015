package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"chainflow/core/loader"
	"chainflow/core/logger"
	"chainflow/core/middleware/auth"
	"chainflow/core/middleware/rayid"
	"chainflow/feature/executions"
	"chainflow/feature/iris"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "chainflow/docs/swagger"
)

// @title chainflow API
// @version 1.0
// @description Runs chained workflows against an object store and reports their executions.
// @host localhost:8080
// @BasePath /

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Starts the HTTP server exposing the workflows and their execution history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		logg := rt.logger
		defer logg.Sync()

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		mgr := loader.NewManager(logg)
		mgr.Register(iris.NewFeatureFromService(rt.iris))
		mgr.Register(executions.NewFeature(rt.history, logg))

		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Request logging with the ray id attached
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Bound workflow runs started over HTTP
		if timeout := rt.cfg.Server.RunTimeout(); timeout > 0 {
			app.Use(func(c *fiber.Ctx) error {
				ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
				defer cancel()
				c.SetUserContext(ctx)
				return c.Next()
			})
		}

		// Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 4. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
			errCh <- app.Listen(rt.cfg.Server.Address())
		}()

		// Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return err
		case <-c:
		}
		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
