package fulfillment

import (
	"context"
	"time"

	"github.com/steadystreamtv/storefront/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides the DB operations used by the fulfillment service.
// All operations honor the caller's context deadline.
type Repository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	CompleteOrder(ctx context.Context, paymentIntentID, checkoutSessionID string, completedAt time.Time) (*models.Order, error)
	CreateSubscription(ctx context.Context, sub *models.Subscription) error
	CreateWebhookEventIfNotExists(ctx context.Context, event *models.WebhookEvent) (bool, *models.WebhookEvent, error)
	MarkWebhookProcessed(ctx context.Context, id uint, processingError string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a fulfillment repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// CompleteOrder transitions the matching pending order to completed and
// backfills the payment intent reference when checkout created the order
// before Stripe assigned one. Returns gorm.ErrRecordNotFound when no order
// matches either reference.
func (r *gormRepository) CompleteOrder(ctx context.Context, paymentIntentID, checkoutSessionID string, completedAt time.Time) (*models.Order, error) {
	db := r.db.WithContext(ctx)
	var order models.Order
	q := db.Where("1 = 0")
	if paymentIntentID != "" {
		q = q.Or("payment_intent_id = ?", paymentIntentID)
	}
	if checkoutSessionID != "" {
		q = q.Or("checkout_session_id = ?", checkoutSessionID)
	}
	if err := db.Where(q).First(&order).Error; err != nil {
		return nil, err
	}

	order.Status = models.OrderStatusCompleted
	order.CompletedAt = &completedAt
	if paymentIntentID != "" && order.PaymentIntentID == "" {
		order.PaymentIntentID = paymentIntentID
	}
	if err := db.Save(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *gormRepository) CreateSubscription(ctx context.Context, sub *models.Subscription) error {
	return r.db.WithContext(ctx).Create(sub).Error
}

func (r *gormRepository) CreateWebhookEventIfNotExists(ctx context.Context, event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
	db := r.db.WithContext(ctx)
	tx := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "provider_event_id"},
		},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.WebhookEvent
	if err := db.Where("provider = ? AND provider_event_id = ?", event.Provider, event.ProviderEventID).
		First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *gormRepository) MarkWebhookProcessed(ctx context.Context, id uint, processingError string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed_at":     &now,
		"processing_error": processingError,
	}
	return r.db.WithContext(ctx).Model(&models.WebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}
