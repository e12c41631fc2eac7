package payments

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidSignature is returned when a webhook fails authentication. The
// delivery must be discarded without side effects.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// VerifyNOWPaymentsSignature checks the x-nowpayments-sig header: an
// HMAC-SHA512 over the raw, unparsed body, hex encoded, compared
// case-insensitively. Parsing the body before this check is a bug.
func VerifyNOWPaymentsSignature(payload []byte, signatureHeader, ipnSecret string) bool {
	sig := strings.TrimSpace(signatureHeader)
	secret := strings.TrimSpace(ipnSecret)
	if sig == "" || secret == "" {
		return false
	}

	decodedSig, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil {
		return false
	}

	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), decodedSig)
}

// IPN is the subset of a NOWPayments callback the storefront acts on.
type IPN struct {
	PaymentID        json.Number `json:"payment_id"`
	InvoiceID        json.Number `json:"invoice_id"`
	PaymentStatus    string      `json:"payment_status"`
	InvoiceStatus    string      `json:"invoice_status"`
	Status           string      `json:"status"`
	OrderDescription string      `json:"order_description"`
	CustomerEmail    string      `json:"customer_email"`
	Email            string      `json:"email"`
}

// ParseIPN decodes a verified NOWPayments payload.
func ParseIPN(payload []byte) (*IPN, error) {
	var ipn IPN
	if err := json.Unmarshal(payload, &ipn); err != nil {
		return nil, err
	}
	return &ipn, nil
}

// NormalizedStatus returns the first non-empty status field, lowercased.
func (i *IPN) NormalizedStatus() string {
	for _, s := range []string{i.PaymentStatus, i.InvoiceStatus, i.Status} {
		if v := strings.ToLower(strings.TrimSpace(s)); v != "" {
			return v
		}
	}
	return ""
}

// EventID returns the provider transaction reference: payment id, then
// invoice id. Empty when the payload carries neither.
func (i *IPN) EventID() string {
	if v := strings.TrimSpace(i.PaymentID.String()); v != "" {
		return v
	}
	return strings.TrimSpace(i.InvoiceID.String())
}

// FallbackEmail returns the top-level email fields used when the order
// description carries none.
func (i *IPN) FallbackEmail() string {
	if v := strings.TrimSpace(i.CustomerEmail); v != "" {
		return v
	}
	return strings.TrimSpace(i.Email)
}

var orderDescriptionRe = regexp.MustCompile(`(?i)SteadyStreamTV\s([a-z0-9\-]+)\s\(([^)]+)\)`)

// ParseOrderDescription extracts the plan id and buyer email from the
// "SteadyStreamTV <plan> (<email>)" order description format. ok reports
// whether the pattern matched; callers fall back to the default plan and
// the payload's top-level email fields when it did not.
func ParseOrderDescription(desc string) (planID, email string, ok bool) {
	m := orderDescriptionRe.FindStringSubmatch(desc)
	if m == nil {
		return "", "", false
	}
	return strings.ToLower(m[1]), m[2], true
}
