package payments

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
)

func eventWithObject(t *testing.T, object string) stripe.Event {
	t.Helper()
	return stripe.Event{
		Type: "checkout.session.completed",
		Data: &stripe.EventData{Raw: json.RawMessage(object)},
	}
}

func TestCheckoutSessionFromEvent(t *testing.T) {
	event := eventWithObject(t, `{
		"id": "cs_123",
		"object": "checkout.session",
		"payment_intent": "pi_123",
		"customer_details": {"email": "buyer@example.com"}
	}`)

	sess, err := CheckoutSessionFromEvent(event)
	require.NoError(t, err)
	assert.Equal(t, "cs_123", sess.ID)
	assert.Equal(t, "pi_123", SessionPaymentIntentID(sess))
	assert.Equal(t, "buyer@example.com", SessionEmail(sess))
}

func TestCheckoutSessionFromEvent_MissingID(t *testing.T) {
	_, err := CheckoutSessionFromEvent(eventWithObject(t, `{"object": "checkout.session"}`))
	assert.Error(t, err)
}

func TestSessionEmail_MetadataFallback(t *testing.T) {
	sess := &stripe.CheckoutSession{
		Metadata: map[string]string{"email": "meta@example.com"},
	}
	assert.Equal(t, "meta@example.com", SessionEmail(sess))

	sess = &stripe.CheckoutSession{CustomerEmail: "plain@example.com"}
	assert.Equal(t, "plain@example.com", SessionEmail(sess))

	assert.Equal(t, "", SessionEmail(&stripe.CheckoutSession{}))
}

func TestSessionPaymentIntentID_NilIntent(t *testing.T) {
	assert.Equal(t, "", SessionPaymentIntentID(&stripe.CheckoutSession{}))
}
