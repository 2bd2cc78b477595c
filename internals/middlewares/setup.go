package middlewares

import (
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	"lms_backend/internals/configs"
	"lms_backend/internals/middlewares/logger"
)

// SetupMiddlewares memasang middleware global. Urutan: recover paling luar.
func SetupMiddlewares(app *fiber.App, cfg configs.Config) {
	app.Use(RecoveryMiddleware(true))
	app.Use(RequestID(5 * time.Second))
	app.Use(logger.LoggerMiddleware(os.Stdout))
	app.Use(CorsMiddleware(cfg.Server.CorsOrigins))
	app.Use(GlobalRateLimiter())
}
