package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"

	"github.com/steadystreamtv/storefront/internal/pkg/cache"
	"github.com/steadystreamtv/storefront/internal/pkg/config"
	"github.com/steadystreamtv/storefront/internal/pkg/database"
	"github.com/steadystreamtv/storefront/internal/pkg/env"
	"github.com/steadystreamtv/storefront/internal/pkg/router"
)

func main() {
	app, cfg := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", cfg.App.Host, cfg.App.Port))
	log.Fatal(err)
}

func NewApplication() (*fiber.App, *config.Config) {
	env.SetupEnvFile()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("starting storefront: %s", cfg.Redacted())

	database.SetupDatabase(cfg.Database)
	cache.SetupCache(cfg.Cache)

	engine := html.New("./views", ".html")
	app := fiber.New(fiber.Config{
		Views: engine,
	})
	app.Use(recover.New(), logger.New())
	app.Get("/metrics", monitor.New())

	// ROUTER
	router.InstallRouter(app, cfg)

	return app, cfg
}
