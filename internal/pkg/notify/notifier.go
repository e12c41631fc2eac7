package notify

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/steadystreamtv/storefront/internal/pkg/config"
)

// Fulfillment carries everything the notification channels need after a
// subscription has been provisioned and recorded.
type Fulfillment struct {
	Email       string
	Username    string
	Password    string
	M3ULink     string
	PortalLink  string
	PackageName string
	ExpiresAt   *time.Time

	Provider    string
	PaymentRef  string
	PlanID      string
	AmountCents int64
}

// EmailSender delivers one HTML email.
type EmailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// SMSSender delivers one text message.
type SMSSender interface {
	Send(to, body string) error
}

// Notifier fans a fulfillment out to the customer email, the business
// alert email and the business alert SMS. Channels run concurrently and
// every failure is logged and swallowed: notification delivery never
// decides the outcome of the webhook.
type Notifier struct {
	cfg   config.NotifyConfig
	email EmailSender
	sms   SMSSender
}

// NewNotifier wires the concrete channels from configuration. A channel
// whose credentials are absent stays nil and is silently skipped.
func NewNotifier(cfg config.NotifyConfig) *Notifier {
	n := &Notifier{cfg: cfg}
	if cfg.ResendAPIKey != "" {
		n.email = newResendSender(cfg)
	} else if cfg.SMTPHost != "" {
		n.email = newSMTPSender(cfg)
	}
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" && cfg.TwilioFrom != "" {
		n.sms = newTwilioSender(cfg)
	}
	return n
}

// NewNotifierWithSenders injects channel implementations directly. Used by
// tests.
func NewNotifierWithSenders(cfg config.NotifyConfig, email EmailSender, sms SMSSender) *Notifier {
	return &Notifier{cfg: cfg, email: email, sms: sms}
}

// Send dispatches all configured channels and waits for every attempt to
// finish before returning.
func (n *Notifier) Send(ctx context.Context, f Fulfillment) {
	var wg sync.WaitGroup

	if n.email != nil && f.Email != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			subject, html := customerEmail(f)
			if err := n.email.Send(ctx, f.Email, subject, html); err != nil {
				log.Printf("[NOTIFY] customer email to %s failed: %v", f.Email, err)
			} else {
				log.Printf("[NOTIFY] customer email sent to %s", f.Email)
			}
		}()
	}

	if n.email != nil && n.cfg.BusinessEmail != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			subject, html := businessEmail(f)
			if err := n.email.Send(ctx, n.cfg.BusinessEmail, subject, html); err != nil {
				log.Printf("[NOTIFY] business email failed: %v", err)
			}
		}()
	}

	if n.sms != nil && n.cfg.BusinessPhone != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := n.sms.Send(n.cfg.BusinessPhone, businessSMS(f)); err != nil {
				log.Printf("[NOTIFY] business sms failed: %v", err)
			}
		}()
	}

	wg.Wait()
}
