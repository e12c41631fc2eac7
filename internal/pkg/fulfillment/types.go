package fulfillment

// WebhookEventInput is the normalized input for webhook event persistence.
type WebhookEventInput struct {
	Provider        string
	ProviderEventID string
	EventType       string
	PayloadJSON     string
	SignatureValid  bool
}

// PaidEvent is the provider-agnostic shape of a settled payment, produced
// by the webhook controllers after verification and classification.
type PaidEvent struct {
	Provider          string
	EventID           string
	PaymentIntentID   string
	CheckoutSessionID string
	Email             string
	PlanID            string
	AmountCents       int64
	Note              string
}
