package controllers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/steadystreamtv/storefront/app/models"
	"github.com/steadystreamtv/storefront/internal/pkg/cache"
	"github.com/steadystreamtv/storefront/internal/pkg/config"
	"github.com/steadystreamtv/storefront/internal/pkg/fulfillment"
	"github.com/steadystreamtv/storefront/internal/pkg/payments"
)

const webhookTimeout = 60 * time.Second

// WebhookController receives payment-provider callbacks and drives the
// fulfillment workflow. Signature verification always runs on the raw body
// before anything is parsed or persisted.
type WebhookController struct {
	cfg    *config.Config
	stripe *payments.StripeClient
	svc    *fulfillment.Service
}

func NewWebhookController(cfg *config.Config, stripe *payments.StripeClient, svc *fulfillment.Service) *WebhookController {
	return &WebhookController{cfg: cfg, stripe: stripe, svc: svc}
}

// HandleStripeWebhook processes Stripe deliveries. Only
// checkout.session.completed triggers provisioning; every other event type
// is acknowledged and ignored so Stripe stops redelivering.
func (wc *WebhookController) HandleStripeWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)

	event, err := wc.stripe.VerifyWebhook(rawBody, c.Get("Stripe-Signature"))
	if err != nil {
		log.Printf("[STRIPE-WEBHOOK] signature verification failed: %v", err)
		return c.Status(fiber.StatusBadRequest).SendString("invalid signature")
	}

	ctx, cancel := context.WithTimeout(context.Background(), webhookTimeout)
	defer cancel()

	eventType := string(event.Type)
	created, stored, err := wc.recordEvent(ctx, fulfillment.WebhookEventInput{
		Provider:        models.ProviderStripe,
		ProviderEventID: event.ID,
		EventType:       eventType,
		PayloadJSON:     string(rawBody),
		SignatureValid:  true,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook_persist_failed"})
	}
	if !created {
		return c.JSON(fiber.Map{"ok": true, "duplicate": true})
	}

	if payments.ClassifyStripeEvent(eventType) != payments.EventPaid {
		_ = wc.svc.MarkWebhookProcessed(ctx, stored.ID, nil)
		return c.JSON(fiber.Map{"ok": true, "ignored": true})
	}

	sess, err := payments.CheckoutSessionFromEvent(event)
	if err != nil {
		_ = wc.svc.MarkWebhookProcessed(ctx, stored.ID, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid_payload"})
	}

	email := payments.SessionEmail(sess)
	if email == "" {
		err := errors.New("no email on checkout session")
		_ = wc.svc.MarkWebhookProcessed(ctx, stored.ID, err)
		return c.Status(fiber.StatusBadRequest).SendString("no email")
	}

	_, procErr := wc.svc.ProcessPaidEvent(ctx, fulfillment.PaidEvent{
		Provider:          models.ProviderStripe,
		EventID:           event.ID,
		PaymentIntentID:   payments.SessionPaymentIntentID(sess),
		CheckoutSessionID: sess.ID,
		Email:             email,
		PlanID:            sess.Metadata["plan_id"],
		AmountCents:       sess.AmountTotal,
		Note:              "Stripe Payment: " + sess.ID,
	})
	_ = wc.svc.MarkWebhookProcessed(ctx, stored.ID, procErr)
	if procErr != nil {
		log.Printf("[STRIPE-WEBHOOK] fulfillment failed for event=%s: %v", event.ID, procErr)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "fulfillment_failed"})
	}

	return c.JSON(fiber.Map{"received": true})
}

// HandleNOWPaymentsWebhook processes NOWPayments IPN callbacks:
// HMAC-SHA512 over the raw body, paid-status classification, plan and
// email extraction from the order description.
func (wc *WebhookController) HandleNOWPaymentsWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)

	if !payments.VerifyNOWPaymentsSignature(rawBody, c.Get("x-nowpayments-sig"), wc.cfg.NOW.IPNSecret) {
		log.Printf("[NOWPAYMENTS-WEBHOOK] signature verification failed")
		return c.Status(fiber.StatusUnauthorized).SendString("invalid signature")
	}

	ipn, err := payments.ParseIPN(rawBody)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("invalid payload")
	}

	status := ipn.NormalizedStatus()
	if payments.ClassifyPaymentStatus(status) != payments.EventPaid {
		return c.SendString("ignored")
	}

	planID, email, ok := payments.ParseOrderDescription(ipn.OrderDescription)
	if !ok {
		planID = models.DefaultPlanID
		email = ipn.FallbackEmail()
	}
	if email == "" {
		return c.Status(fiber.StatusBadRequest).SendString("no email")
	}

	txID := ipn.EventID()
	if txID == "" {
		txID = uuid.NewString()
	}

	ctx, cancel := context.WithTimeout(context.Background(), webhookTimeout)
	defer cancel()

	created, stored, err := wc.recordEvent(ctx, fulfillment.WebhookEventInput{
		Provider:        models.ProviderNOWPayments,
		ProviderEventID: txID,
		EventType:       "ipn:" + status,
		PayloadJSON:     string(rawBody),
		SignatureValid:  true,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("webhook persist failed")
	}
	if !created {
		return c.SendString("ok")
	}

	_, procErr := wc.svc.ProcessPaidEvent(ctx, fulfillment.PaidEvent{
		Provider: models.ProviderNOWPayments,
		EventID:  txID,
		Email:    email,
		PlanID:   planID,
		Note:     "NOWPayments: " + txID,
	})
	_ = wc.svc.MarkWebhookProcessed(ctx, stored.ID, procErr)
	if procErr != nil {
		log.Printf("[NOWPAYMENTS-WEBHOOK] fulfillment failed for tx=%s: %v", txID, procErr)
		return c.Status(fiber.StatusInternalServerError).SendString("provision failed")
	}

	return c.SendString("ok")
}

// recordEvent persists the delivery idempotently, with a cheap Redis
// short-circuit in front of the database unique index when the cache is
// available.
func (wc *WebhookController) recordEvent(ctx context.Context, in fulfillment.WebhookEventInput) (bool, *models.WebhookEvent, error) {
	key := ""
	if cache.GetClient() != nil && strings.TrimSpace(in.ProviderEventID) != "" {
		key = fmt.Sprintf("webhook:%s:%s", in.Provider, in.ProviderEventID)
		if set, err := cache.SetNX(key, 1, 24*time.Hour); err == nil && !set {
			log.Printf("[WEBHOOK] duplicate delivery short-circuited: %s", key)
			return false, nil, nil
		}
	}
	created, stored, err := wc.svc.RecordWebhookEvent(ctx, in)
	if err != nil && key != "" {
		// The marker must not outlive a failed insert, or the provider's
		// retry would be short-circuited as a duplicate of an event that
		// was never recorded.
		if delErr := cache.Delete(key); delErr != nil {
			log.Printf("[WEBHOOK] could not release dedupe marker %s: %v", key, delErr)
		}
	}
	return created, stored, err
}
