package payments

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/steadystreamtv/storefront/app/models"
	"github.com/steadystreamtv/storefront/internal/pkg/config"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeClient creates hosted checkout sessions and verifies webhook
// deliveries.
type StripeClient struct {
	secretKey     string
	webhookSecret string
	publicURL     string
}

// NewStripeClient configures the global stripe-go key and returns a client
// bound to the storefront's public URL for redirect targets.
func NewStripeClient(cfg config.StripeConfig, publicURL string) *StripeClient {
	stripe.Key = cfg.SecretKey
	return &StripeClient{
		secretKey:     cfg.SecretKey,
		webhookSecret: cfg.WebhookSecret,
		publicURL:     strings.TrimRight(publicURL, "/"),
	}
}

// CreateCheckoutSession opens a hosted payment-mode checkout for one plan
// and returns the redirect URL plus the session id.
func (s *StripeClient) CreateCheckoutSession(email string, plan models.Plan) (*stripe.CheckoutSession, error) {
	if strings.TrimSpace(email) == "" {
		return nil, errors.New("email is required")
	}

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail: stripe.String(email),
		SuccessURL:    stripe.String(s.publicURL + "/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(s.publicURL + "/cancel"),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(plan.Currency),
					UnitAmount: stripe.Int64(plan.AmountCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("SteadyStream TV " + plan.Name),
					},
				},
			},
		},
	}
	params.AddMetadata("plan_id", plan.ID)
	params.AddMetadata("email", email)

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout session create failed: %w", err)
	}
	return sess, nil
}

// VerifyWebhook authenticates a raw Stripe delivery against the
// stripe-signature header and returns the decoded event. The raw body must
// be passed untouched; signature verification is the authentication
// mechanism for the webhook endpoint.
func (s *StripeClient) VerifyWebhook(payload []byte, signatureHeader string) (stripe.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return stripe.Event{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return event, nil
}

// CheckoutSessionFromEvent unmarshals the checkout session object embedded
// in a verified event.
func CheckoutSessionFromEvent(event stripe.Event) (*stripe.CheckoutSession, error) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("checkout session decode failed: %w", err)
	}
	if strings.TrimSpace(sess.ID) == "" {
		return nil, errors.New("event payload missing checkout session id")
	}
	return &sess, nil
}

// SessionEmail picks the buyer email from a checkout session: customer
// details first, then the checkout metadata fallback.
func SessionEmail(sess *stripe.CheckoutSession) string {
	if sess.CustomerDetails != nil && strings.TrimSpace(sess.CustomerDetails.Email) != "" {
		return strings.TrimSpace(sess.CustomerDetails.Email)
	}
	if v := strings.TrimSpace(sess.Metadata["email"]); v != "" {
		return v
	}
	return strings.TrimSpace(sess.CustomerEmail)
}

// SessionPaymentIntentID returns the payment intent reference, tolerating
// both expanded and id-only encodings.
func SessionPaymentIntentID(sess *stripe.CheckoutSession) string {
	if sess.PaymentIntent != nil {
		return sess.PaymentIntent.ID
	}
	return ""
}
