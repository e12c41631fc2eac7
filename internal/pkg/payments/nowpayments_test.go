package payments

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signNOWPayments(payload []byte, secret string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyNOWPaymentsSignature(t *testing.T) {
	payload := []byte(`{"payment_status":"finished"}`)
	secret := "ipn-secret"

	valid := signNOWPayments(payload, secret)

	assert.True(t, VerifyNOWPaymentsSignature(payload, valid, secret))
	// header casing must not matter
	assert.True(t, VerifyNOWPaymentsSignature(payload, strings.ToUpper(valid), secret))

	assert.False(t, VerifyNOWPaymentsSignature(payload, valid, "other-secret"))
	assert.False(t, VerifyNOWPaymentsSignature([]byte(`{"payment_status":"finished" }`), valid, secret))
	assert.False(t, VerifyNOWPaymentsSignature(payload, "", secret))
	assert.False(t, VerifyNOWPaymentsSignature(payload, valid, ""))
	assert.False(t, VerifyNOWPaymentsSignature(payload, "not-hex", secret))
}

func TestParseIPN_StatusAndEventID(t *testing.T) {
	ipn, err := ParseIPN([]byte(`{
		"payment_id": 4493307,
		"invoice_id": 912345,
		"payment_status": "FINISHED",
		"order_description": "SteadyStreamTV basic-1stream (user@example.com)"
	}`))
	require.NoError(t, err)

	assert.Equal(t, "finished", ipn.NormalizedStatus())
	assert.Equal(t, "4493307", ipn.EventID())
}

func TestParseIPN_FallbackFields(t *testing.T) {
	ipn, err := ParseIPN([]byte(`{
		"invoice_id": 912345,
		"invoice_status": "paid",
		"customer_email": "buyer@example.com"
	}`))
	require.NoError(t, err)

	assert.Equal(t, "paid", ipn.NormalizedStatus())
	assert.Equal(t, "912345", ipn.EventID())
	assert.Equal(t, "buyer@example.com", ipn.FallbackEmail())
}

func TestParseOrderDescription(t *testing.T) {
	tests := []struct {
		desc     string
		wantPlan string
		wantMail string
		wantOK   bool
	}{
		{
			desc:     "SteadyStreamTV basic-1stream (user@example.com)",
			wantPlan: "basic-1stream",
			wantMail: "user@example.com",
			wantOK:   true,
		},
		{
			desc:     "steadystreamtv DUO-2STREAM (Buyer@Example.com)",
			wantPlan: "duo-2stream",
			wantMail: "Buyer@Example.com",
			wantOK:   true,
		},
		{desc: "Invoice #123", wantOK: false},
		{desc: "", wantOK: false},
	}

	for _, tt := range tests {
		plan, email, ok := ParseOrderDescription(tt.desc)
		if assert.Equal(t, tt.wantOK, ok, "desc=%q", tt.desc) && ok {
			assert.Equal(t, tt.wantPlan, plan)
			assert.Equal(t, tt.wantMail, email)
		}
	}
}
