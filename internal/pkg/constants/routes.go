package constants

// Static route constants
const (
	HomeRoute     = "/"
	CheckoutRoute = "/checkout"
	SuccessRoute  = "/success"
	CancelRoute   = "/cancel"

	StripeWebhookRoute      = "/webhooks/stripe"
	NOWPaymentsWebhookRoute = "/webhooks/nowpayments"
)
