package models

import "time"

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
)

// Order is created when a checkout session starts and is transitioned to
// completed exactly once by a verified paid webhook event. Orders are never
// deleted by the fulfillment workflow.
type Order struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Reference         string     `gorm:"type:varchar(64);not null;uniqueIndex" json:"reference"`
	Provider          string     `gorm:"type:varchar(20);not null;index" json:"provider"`
	CheckoutSessionID string     `gorm:"type:varchar(191);index" json:"checkout_session_id"`
	PaymentIntentID   string     `gorm:"type:varchar(191);not null;default:'';index" json:"payment_intent_id"`
	Email             string     `gorm:"type:varchar(200);not null" json:"email"`
	PlanID            string     `gorm:"type:varchar(50);not null;default:'basic-1stream'" json:"plan_id"`
	AmountCents       int64      `gorm:"not null;default:0" json:"amount_cents"`
	Currency          string     `gorm:"type:varchar(3);not null;default:'usd'" json:"currency"`
	Status            string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CompletedAt       *time.Time `gorm:"type:timestamp;default:null" json:"completed_at,omitempty"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
