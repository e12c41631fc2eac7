package controllers

import (
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/steadystreamtv/storefront/app/models"
	"github.com/steadystreamtv/storefront/internal/pkg/fulfillment"
	"github.com/steadystreamtv/storefront/internal/pkg/payments"
)

// CheckoutController opens hosted Stripe checkout sessions and records the
// pending order they belong to.
type CheckoutController struct {
	stripe   *payments.StripeClient
	svc      *fulfillment.Service
	validate *validator.Validate
}

func NewCheckoutController(stripe *payments.StripeClient, svc *fulfillment.Service) *CheckoutController {
	return &CheckoutController{
		stripe:   stripe,
		svc:      svc,
		validate: validator.New(),
	}
}

type checkoutRequest struct {
	Email  string `json:"email" form:"email" validate:"required,email"`
	PlanID string `json:"plan_id" form:"plan_id"`
}

// HandleCreateCheckout validates the buyer email, creates the Stripe
// session for the selected plan and hands back the hosted checkout URL.
// Form posts get a redirect, fetch-style clients get JSON.
func (cc *CheckoutController) HandleCreateCheckout(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_request"})
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := cc.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "email_required"})
	}

	plan := models.PlanByID(req.PlanID)

	sess, err := cc.stripe.CreateCheckoutSession(req.Email, plan)
	if err != nil {
		log.Printf("[CHECKOUT] session create failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "checkout_failed"})
	}

	order := &models.Order{
		Reference:         uuid.NewString(),
		Provider:          models.ProviderStripe,
		CheckoutSessionID: sess.ID,
		PaymentIntentID:   payments.SessionPaymentIntentID(sess),
		Email:             req.Email,
		PlanID:            plan.ID,
		AmountCents:       plan.AmountCents,
		Currency:          plan.Currency,
		Status:            models.OrderStatusPending,
	}
	if err := cc.svc.CreateOrder(c.Context(), order); err != nil {
		// The hosted session exists either way; the webhook tolerates a
		// missing order, so losing the row here must not block the buyer.
		log.Printf("[CHECKOUT] order persist failed for session=%s: %v", sess.ID, err)
	}

	if strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON) {
		return c.JSON(fiber.Map{"url": sess.URL, "session_id": sess.ID})
	}
	return c.Redirect(sess.URL, fiber.StatusSeeOther)
}
