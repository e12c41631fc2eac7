package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/steadystreamtv/storefront/internal/pkg/config"
)

func InstallRouter(app *fiber.App, cfg *config.Config) {
	setup(app, NewHttpRouter(cfg))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}

type Router interface {
	InstallRouter(app *fiber.App)
}
