package models

import "time"

const SubscriptionStatusActive = "active"

// Subscription persists the credentials returned by the OTT provider for a
// paid order. Written exactly once per provisioned order and immutable
// afterwards as far as the fulfillment workflow is concerned.
type Subscription struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	OrderID          *uint      `gorm:"index" json:"order_id,omitempty"`
	Provider         string     `gorm:"type:varchar(20);not null;index" json:"provider"`
	PaymentRef       string     `gorm:"type:varchar(191);not null;index" json:"payment_ref"`
	Email            string     `gorm:"type:varchar(200);not null;index" json:"email"`
	Username         string     `gorm:"type:varchar(100);not null;uniqueIndex" json:"username"`
	Password         string     `gorm:"type:varchar(100);not null" json:"-"`
	M3ULink          string     `gorm:"type:text;not null" json:"m3u_link"`
	PortalLink       string     `gorm:"type:text" json:"portal_link"`
	PackageName      string     `gorm:"type:varchar(100);not null;default:'Fixed Package'" json:"package_name"`
	ConnectionsCount int        `gorm:"not null;default:1" json:"connections_count"`
	Status           string     `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	ExpiresAt        *time.Time `gorm:"type:timestamp;default:null" json:"expires_at,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
