package fulfillment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/steadystreamtv/storefront/app/models"
	"github.com/steadystreamtv/storefront/internal/pkg/megaott"
	"github.com/steadystreamtv/storefront/internal/pkg/notify"
	"gorm.io/gorm"
)

// Provisioner creates a streaming subscription at the OTT provider.
type Provisioner interface {
	CreateSubscription(ctx context.Context, req megaott.SubscriptionRequest) (*megaott.Subscription, error)
}

// Notifier fans out the post-fulfillment notifications. Implementations
// swallow their own channel errors.
type Notifier interface {
	Send(ctx context.Context, f notify.Fulfillment)
}

// Service runs the paid-event workflow: order completion, provisioning,
// persistence and notification fan-out.
type Service struct {
	repo     Repository
	ott      Provisioner
	notifier Notifier
	now      func() time.Time
}

// NewService creates a fulfillment service from injected collaborators.
func NewService(repo Repository, ott Provisioner, notifier Notifier) *Service {
	return &Service{repo: repo, ott: ott, notifier: notifier, now: time.Now}
}

// NewServiceFromDB creates a fulfillment service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB, ott Provisioner, notifier Notifier) *Service {
	return NewService(NewRepository(db), ott, notifier)
}

// RecordWebhookEvent persists webhook payloads idempotently. Events without
// a provider id are keyed by a payload hash so redeliveries of the same
// body still dedupe.
func (s *Service) RecordWebhookEvent(ctx context.Context, in WebhookEventInput) (bool, *models.WebhookEvent, error) {
	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	if provider == "" {
		return false, nil, errors.New("provider is required")
	}
	eventID := strings.TrimSpace(in.ProviderEventID)
	if eventID == "" {
		sum := sha256.Sum256([]byte(in.PayloadJSON))
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.WebhookEvent{
		Provider:        provider,
		ProviderEventID: eventID,
		EventType:       strings.TrimSpace(in.EventType),
		PayloadJSON:     in.PayloadJSON,
		SignatureValid:  in.SignatureValid,
	}
	return s.repo.CreateWebhookEventIfNotExists(ctx, event)
}

// MarkWebhookProcessed marks an event as processed and stores an optional
// error.
func (s *Service) MarkWebhookProcessed(ctx context.Context, webhookEventID uint, processingErr error) error {
	if webhookEventID == 0 {
		return errors.New("webhook_event_id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repo.MarkWebhookProcessed(ctx, webhookEventID, errMsg)
}

// CreateOrder records a pending order when a checkout session starts.
func (s *Service) CreateOrder(ctx context.Context, order *models.Order) error {
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	return s.repo.CreateOrder(ctx, order)
}

// ProcessPaidEvent runs the fulfillment pipeline for one verified,
// classified paid event: complete the order (missing orders are an
// observability gap, not an abort), provision the line, record the
// subscription, then notify. A *ProvisioningError or *PersistenceError
// aborts as described in the error taxonomy; notification failures never
// surface here.
func (s *Service) ProcessPaidEvent(ctx context.Context, ev PaidEvent) (*models.Subscription, error) {
	plan := models.PlanByID(ev.PlanID)

	var orderID *uint
	order, err := s.repo.CompleteOrder(ctx, ev.PaymentIntentID, ev.CheckoutSessionID, s.now())
	switch {
	case err == nil:
		orderID = &order.ID
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Printf("[FULFILLMENT] no order matched payment_intent=%s session=%s; provisioning from event data", ev.PaymentIntentID, ev.CheckoutSessionID)
	default:
		log.Printf("[FULFILLMENT] order update failed for payment_intent=%s: %v", ev.PaymentIntentID, err)
	}

	provisioned, err := s.ott.CreateSubscription(ctx, megaott.SubscriptionRequest{
		Username:       megaott.GenerateUsername(),
		PackageID:      plan.PackageID,
		MaxConnections: plan.MaxConnections,
		TemplateID:     plan.TemplateID,
		Note:           ev.Note,
	})
	if err != nil {
		return nil, &ProvisioningError{Err: err}
	}
	log.Printf("[FULFILLMENT] provisioned username=%s for event=%s/%s", provisioned.Username, ev.Provider, ev.EventID)

	paymentRef := ev.PaymentIntentID
	if paymentRef == "" {
		paymentRef = ev.EventID
	}

	sub := &models.Subscription{
		OrderID:          orderID,
		Provider:         ev.Provider,
		PaymentRef:       paymentRef,
		Email:            ev.Email,
		Username:         provisioned.Username,
		Password:         provisioned.Password,
		M3ULink:          provisioned.DNSLink,
		PortalLink:       provisioned.PortalLink,
		PackageName:      provisioned.PackageName,
		ConnectionsCount: provisioned.MaxConnections,
		Status:           models.SubscriptionStatusActive,
		ExpiresAt:        provisioned.ExpiringAt,
	}
	if err := s.repo.CreateSubscription(ctx, sub); err != nil {
		// Known gap: the provisioned line is not torn down here, so a
		// persistence failure strands an unrecorded subscription.
		return nil, &PersistenceError{Err: err}
	}

	s.notifier.Send(ctx, notify.Fulfillment{
		Email:       ev.Email,
		Username:    provisioned.Username,
		Password:    provisioned.Password,
		M3ULink:     provisioned.DNSLink,
		PortalLink:  provisioned.PortalLink,
		PackageName: provisioned.PackageName,
		ExpiresAt:   provisioned.ExpiringAt,
		Provider:    ev.Provider,
		PaymentRef:  paymentRef,
		PlanID:      plan.ID,
		AmountCents: ev.AmountCents,
	})

	return sub, nil
}
