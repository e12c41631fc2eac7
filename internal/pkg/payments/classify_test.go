package payments

import "testing"

func TestClassifyPaymentStatus(t *testing.T) {
	tests := []struct {
		in   string
		want EventKind
	}{
		{in: "finished", want: EventPaid},
		{in: "confirmed", want: EventPaid},
		{in: "completed", want: EventPaid},
		{in: "paid", want: EventPaid},
		{in: "FINISHED", want: EventPaid},
		{in: " paid ", want: EventPaid},
		{in: "waiting", want: EventIgnored},
		{in: "partially_paid", want: EventIgnored},
		{in: "failed", want: EventIgnored},
		{in: "refunded", want: EventIgnored},
		{in: "", want: EventIgnored},
	}

	for _, tt := range tests {
		if got := ClassifyPaymentStatus(tt.in); got != tt.want {
			t.Fatalf("ClassifyPaymentStatus(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestClassifyStripeEvent(t *testing.T) {
	tests := []struct {
		in   string
		want EventKind
	}{
		{in: "checkout.session.completed", want: EventPaid},
		{in: "payment_intent.succeeded", want: EventIgnored},
		{in: "charge.refunded", want: EventIgnored},
		{in: "invoice.paid", want: EventIgnored},
		{in: "", want: EventIgnored},
	}

	for _, tt := range tests {
		if got := ClassifyStripeEvent(tt.in); got != tt.want {
			t.Fatalf("ClassifyStripeEvent(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
