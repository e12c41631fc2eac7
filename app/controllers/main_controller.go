package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/steadystreamtv/storefront/app/models"
)

// HandleHome renders the pricing page with the plan catalog.
func HandleHome(c *fiber.Ctx) error {
	return c.Render("index", fiber.Map{
		"Title": "SteadyStream TV",
		"Plans": models.AllPlans(),
	})
}

// HandleSuccess renders the post-checkout landing page. Credentials arrive
// by email once the webhook fulfills the order, so this page only confirms
// the payment went through.
func HandleSuccess(c *fiber.Ctx) error {
	return c.Render("success", fiber.Map{
		"Title":     "Payment received",
		"SessionID": c.Query("session_id"),
	})
}

// HandleCancel renders the aborted-checkout page.
func HandleCancel(c *fiber.Ctx) error {
	return c.Render("cancel", fiber.Map{
		"Title": "Checkout canceled",
	})
}
