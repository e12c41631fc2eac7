package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/steadystreamtv/storefront/app/controllers"
	"github.com/steadystreamtv/storefront/internal/pkg/config"
	"github.com/steadystreamtv/storefront/internal/pkg/constants"
	"github.com/steadystreamtv/storefront/internal/pkg/database"
	"github.com/steadystreamtv/storefront/internal/pkg/fulfillment"
	"github.com/steadystreamtv/storefront/internal/pkg/megaott"
	"github.com/steadystreamtv/storefront/internal/pkg/middleware"
	"github.com/steadystreamtv/storefront/internal/pkg/notify"
	"github.com/steadystreamtv/storefront/internal/pkg/payments"
)

type HttpRouter struct {
	cfg *config.Config
}

func NewHttpRouter(cfg *config.Config) *HttpRouter {
	return &HttpRouter{cfg: cfg}
}

// InstallRouter wires the storefront: pages, checkout creation and the two
// payment-provider webhook endpoints.
func (h *HttpRouter) InstallRouter(app *fiber.App) {
	stripeClient := payments.NewStripeClient(h.cfg.Stripe, h.cfg.App.PublicURL)
	svc := fulfillment.NewServiceFromDB(
		database.GetDB(),
		megaott.NewClient(h.cfg.MegaOTT),
		notify.NewNotifier(h.cfg.Notify),
	)

	checkoutController := controllers.NewCheckoutController(stripeClient, svc)
	webhookController := controllers.NewWebhookController(h.cfg, stripeClient, svc)

	app.Get(constants.HomeRoute, controllers.HandleHome)
	app.Get(constants.SuccessRoute, controllers.HandleSuccess)
	app.Get(constants.CancelRoute, controllers.HandleCancel)

	app.Post(constants.CheckoutRoute, middleware.CheckoutRateLimiter(h.cfg.Cache), checkoutController.HandleCreateCheckout)

	app.Post(constants.StripeWebhookRoute, webhookController.HandleStripeWebhook)
	app.Post(constants.NOWPaymentsWebhookRoute, webhookController.HandleNOWPaymentsWebhook)
}
