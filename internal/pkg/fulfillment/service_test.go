package fulfillment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/steadystreamtv/storefront/app/models"
	"github.com/steadystreamtv/storefront/internal/pkg/megaott"
	"github.com/steadystreamtv/storefront/internal/pkg/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepository struct {
	orders        map[string]*models.Order // keyed by payment intent id
	subscriptions []*models.Subscription
	events        map[string]*models.WebhookEvent
	nextEventID   uint

	subErr       error
	completeErr  error
	processedIDs []uint
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{
		orders: map[string]*models.Order{},
		events: map[string]*models.WebhookEvent{},
	}
}

func (f *fakeRepository) CreateOrder(_ context.Context, order *models.Order) error {
	f.orders[order.PaymentIntentID] = order
	return nil
}

func (f *fakeRepository) CompleteOrder(_ context.Context, paymentIntentID, checkoutSessionID string, completedAt time.Time) (*models.Order, error) {
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	order, ok := f.orders[paymentIntentID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	order.Status = models.OrderStatusCompleted
	order.CompletedAt = &completedAt
	return order, nil
}

func (f *fakeRepository) CreateSubscription(_ context.Context, sub *models.Subscription) error {
	if f.subErr != nil {
		return f.subErr
	}
	f.subscriptions = append(f.subscriptions, sub)
	return nil
}

func (f *fakeRepository) CreateWebhookEventIfNotExists(_ context.Context, event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
	key := event.Provider + "/" + event.ProviderEventID
	if stored, ok := f.events[key]; ok {
		return false, stored, nil
	}
	f.nextEventID++
	event.ID = f.nextEventID
	f.events[key] = event
	return true, event, nil
}

func (f *fakeRepository) MarkWebhookProcessed(_ context.Context, id uint, processingError string) error {
	f.processedIDs = append(f.processedIDs, id)
	return nil
}

type fakeProvisioner struct {
	calls []megaott.SubscriptionRequest
	sub   *megaott.Subscription
	err   error
}

func (f *fakeProvisioner) CreateSubscription(_ context.Context, req megaott.SubscriptionRequest) (*megaott.Subscription, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.sub, nil
}

type fakeNotifier struct {
	sent []notify.Fulfillment
}

func (f *fakeNotifier) Send(_ context.Context, ful notify.Fulfillment) {
	f.sent = append(f.sent, ful)
}

func provisionedLine() *megaott.Subscription {
	expires := time.Date(2026, 9, 28, 0, 0, 0, 0, time.UTC)
	return &megaott.Subscription{
		Username:       "user_1756400000000_ab12cd34",
		Password:       "secretpw",
		DNSLink:        "http://line.example/get.php?u=user_1",
		PackageName:    "1 Month",
		MaxConnections: 1,
		ExpiringAt:     &expires,
	}
}

func TestProcessPaidEvent_HappyPath(t *testing.T) {
	repo := newFakeRepository()
	repo.orders["pi_123"] = &models.Order{ID: 7, PaymentIntentID: "pi_123", Status: models.OrderStatusPending}
	ott := &fakeProvisioner{sub: provisionedLine()}
	notifier := &fakeNotifier{}
	svc := NewService(repo, ott, notifier)

	sub, err := svc.ProcessPaidEvent(context.Background(), PaidEvent{
		Provider:        models.ProviderStripe,
		EventID:         "evt_1",
		PaymentIntentID: "pi_123",
		Email:           "buyer@example.com",
		PlanID:          "basic-1stream",
		Note:            "Stripe Payment: cs_123",
	})
	require.NoError(t, err)
	require.NotNil(t, sub)

	// exactly one provisioning call with the fixed plan parameters
	require.Len(t, ott.calls, 1)
	call := ott.calls[0]
	assert.Equal(t, "4", call.PackageID)
	assert.Equal(t, "1", call.MaxConnections)
	assert.Equal(t, "1", call.TemplateID)
	assert.Equal(t, "Stripe Payment: cs_123", call.Note)
	assert.True(t, strings.HasPrefix(call.Username, "user_"))

	// order completed
	assert.Equal(t, models.OrderStatusCompleted, repo.orders["pi_123"].Status)
	require.NotNil(t, repo.orders["pi_123"].CompletedAt)

	// subscription recorded with provider credentials
	require.Len(t, repo.subscriptions, 1)
	stored := repo.subscriptions[0]
	assert.Equal(t, "secretpw", stored.Password)
	assert.Equal(t, "pi_123", stored.PaymentRef)
	assert.Equal(t, models.SubscriptionStatusActive, stored.Status)
	require.NotNil(t, stored.OrderID)
	assert.Equal(t, uint(7), *stored.OrderID)

	// notification fan-out attempted once with the credentials
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "buyer@example.com", notifier.sent[0].Email)
	assert.Equal(t, "secretpw", notifier.sent[0].Password)
}

func TestProcessPaidEvent_MissingOrderIsNonFatal(t *testing.T) {
	repo := newFakeRepository()
	ott := &fakeProvisioner{sub: provisionedLine()}
	notifier := &fakeNotifier{}
	svc := NewService(repo, ott, notifier)

	sub, err := svc.ProcessPaidEvent(context.Background(), PaidEvent{
		Provider: models.ProviderNOWPayments,
		EventID:  "4493307",
		Email:    "buyer@example.com",
		PlanID:   "basic-1stream",
	})
	require.NoError(t, err)

	assert.Nil(t, sub.OrderID)
	// without a payment intent the event id becomes the payment reference
	assert.Equal(t, "4493307", sub.PaymentRef)
	assert.Len(t, notifier.sent, 1)
}

func TestProcessPaidEvent_ProvisioningFailureAborts(t *testing.T) {
	repo := newFakeRepository()
	ott := &fakeProvisioner{err: &megaott.APIError{StatusCode: 502, Body: "bad gateway"}}
	notifier := &fakeNotifier{}
	svc := NewService(repo, ott, notifier)

	sub, err := svc.ProcessPaidEvent(context.Background(), PaidEvent{
		Provider: models.ProviderStripe,
		EventID:  "evt_1",
		Email:    "buyer@example.com",
	})
	assert.Nil(t, sub)

	var provErr *ProvisioningError
	require.ErrorAs(t, err, &provErr)
	var apiErr *megaott.APIError
	assert.ErrorAs(t, err, &apiErr)

	// no partial subscription, no notifications
	assert.Empty(t, repo.subscriptions)
	assert.Empty(t, notifier.sent)
}

func TestProcessPaidEvent_PersistFailureIsFatal(t *testing.T) {
	repo := newFakeRepository()
	repo.subErr = errors.New("connection reset")
	ott := &fakeProvisioner{sub: provisionedLine()}
	notifier := &fakeNotifier{}
	svc := NewService(repo, ott, notifier)

	sub, err := svc.ProcessPaidEvent(context.Background(), PaidEvent{
		Provider: models.ProviderStripe,
		EventID:  "evt_1",
		Email:    "buyer@example.com",
	})
	assert.Nil(t, sub)

	var persistErr *PersistenceError
	require.ErrorAs(t, err, &persistErr)
	assert.Empty(t, notifier.sent)
}

func TestProcessPaidEvent_UnknownPlanFallsBack(t *testing.T) {
	repo := newFakeRepository()
	ott := &fakeProvisioner{sub: provisionedLine()}
	svc := NewService(repo, ott, &fakeNotifier{})

	_, err := svc.ProcessPaidEvent(context.Background(), PaidEvent{
		Provider: models.ProviderNOWPayments,
		EventID:  "1",
		Email:    "buyer@example.com",
		PlanID:   "mystery-plan",
	})
	require.NoError(t, err)

	require.Len(t, ott.calls, 1)
	assert.Equal(t, "4", ott.calls[0].PackageID)
	assert.Equal(t, "1", ott.calls[0].MaxConnections)
}

func TestRecordWebhookEvent_HashFallbackAndDedup(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, &fakeProvisioner{}, &fakeNotifier{})
	ctx := context.Background()

	created, stored, err := svc.RecordWebhookEvent(ctx, WebhookEventInput{
		Provider:       models.ProviderNOWPayments,
		EventType:      "ipn",
		PayloadJSON:    `{"payment_status":"finished"}`,
		SignatureValid: true,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, strings.HasPrefix(stored.ProviderEventID, "hash:"))

	// same payload again is a duplicate
	created, dup, err := svc.RecordWebhookEvent(ctx, WebhookEventInput{
		Provider:       models.ProviderNOWPayments,
		EventType:      "ipn",
		PayloadJSON:    `{"payment_status":"finished"}`,
		SignatureValid: true,
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, stored.ID, dup.ID)
}

func TestRecordWebhookEvent_RequiresProvider(t *testing.T) {
	svc := NewService(newFakeRepository(), &fakeProvisioner{}, &fakeNotifier{})
	_, _, err := svc.RecordWebhookEvent(context.Background(), WebhookEventInput{})
	assert.Error(t, err)
}

func TestMarkWebhookProcessed(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, &fakeProvisioner{}, &fakeNotifier{})

	require.NoError(t, svc.MarkWebhookProcessed(context.Background(), 9, errors.New("boom")))
	assert.Equal(t, []uint{9}, repo.processedIDs)

	assert.Error(t, svc.MarkWebhookProcessed(context.Background(), 0, nil))
}
