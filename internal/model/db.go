package model

import "time"

// Order is one purchase attempt on either payment rail. Rows are never
// deleted by this service; terminal orders stay around for reconciliation.
type Order struct {
	ID string `gorm:"primaryKey;size:36"`
	// proof-of-payment reference on the manual rail, gateway transaction id
	// on the gateway rail; the idempotency key for both, enforced by the
	// unique index
	TransactionRef string `gorm:"size:64;uniqueIndex;not null"`

	ProductID   string `gorm:"size:64;index"`
	ProductName string `gorm:"size:255"` // snapshot at purchase time
	Amount      string `gorm:"size:32;not null"`
	Currency    string `gorm:"size:8;not null"`

	CustomerName    string `gorm:"size:128"`
	CustomerEmail   string `gorm:"size:128"`
	CustomerPhone   string `gorm:"size:32"`
	CustomerAddress string `gorm:"size:512"`

	PaymentMethod string `gorm:"size:32;index;not null"`
	MFSProvider   string `gorm:"size:16;index"` // empty unless manual rail

	// populated only by a positive server-side validation on the gateway rail
	GatewayValidationID string `gorm:"size:128"`

	OrderStatus   OrderStatus   `gorm:"size:16;index;not null"`
	PaymentStatus PaymentStatus `gorm:"size:16;index;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Product is the read model this service consumes from the catalog.
// Catalog management is a separate surface.
type Product struct {
	ID       string `gorm:"primaryKey;size:64"`
	Name     string `gorm:"size:255;not null"`
	Price    string `gorm:"size:32;not null"`
	Currency string `gorm:"size:8;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AutomationSubscription is one externally registered webhook interest,
// matched against dispatched events by exact trigger name.
type AutomationSubscription struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:128;not null"`
	TriggerEvent string `gorm:"size:64;index;not null"`
	WebhookURL   string `gorm:"size:512;not null"`
	IsActive     bool   `gorm:"index;not null;default:true"`
	// time of the most recent delivery attempt, successful or not
	LastTriggeredAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
