package payments

import "strings"

// EventKind is the closed set of webhook classifications. Everything the
// workflow does not act on collapses into EventIgnored, which is still
// acknowledged with a 200 so providers stop redelivering.
type EventKind int

const (
	EventIgnored EventKind = iota
	EventPaid
)

func (k EventKind) String() string {
	if k == EventPaid {
		return "paid"
	}
	return "ignored"
}

// paidStatuses are the terminal payment states NOWPayments reports once
// funds have settled.
var paidStatuses = map[string]struct{}{
	"finished":  {},
	"confirmed": {},
	"completed": {},
	"paid":      {},
}

// ClassifyPaymentStatus maps a normalized payment-status field to an event
// kind.
func ClassifyPaymentStatus(status string) EventKind {
	if _, ok := paidStatuses[strings.ToLower(strings.TrimSpace(status))]; ok {
		return EventPaid
	}
	return EventIgnored
}

// ClassifyStripeEvent maps a Stripe event name to an event kind. Only a
// completed checkout session triggers fulfillment.
func ClassifyStripeEvent(eventType string) EventKind {
	switch strings.ToLower(strings.TrimSpace(eventType)) {
	case "checkout.session.completed":
		return EventPaid
	default:
		return EventIgnored
	}
}
