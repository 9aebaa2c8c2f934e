package bootstrap

import (
	"creativeminds-backend/internal/config"
	"creativeminds-backend/internal/infrastructure/logger"
	"creativeminds-backend/internal/interfaces/router"

	"github.com/gofiber/fiber/v2"
)

// New creates the Fiber app for serverless deployments. The api handler
// imports this package because it cannot import internal/ directly.
func New() (*fiber.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Setup(cfg.Env, cfg.LogLevel)
	app, _, _, err := router.CreateApp(cfg)
	return app, err
}
