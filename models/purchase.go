package models

import (
	"time"

	"gorm.io/gorm"
)

// Purchase status constants
const (
	PurchaseStatusPending   = "pending"
	PurchaseStatusCompleted = "completed"
	PurchaseStatusFailed    = "failed"
	PurchaseStatusRefunded  = "refunded"
)

// Purchase represents a buyer's purchase of a digital product.
// Amounts are integer minor currency units (cents).
type Purchase struct {
	gorm.Model
	BuyerID               uint       `json:"buyer_id" gorm:"index;not null"`
	Buyer                 User       `json:"-" gorm:"foreignKey:BuyerID"`
	ProductID             uint       `json:"product_id" gorm:"index;not null"`
	Product               Product    `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	AmountCents           int64      `json:"amount_cents" gorm:"not null"`
	Status                string     `json:"status" gorm:"index;default:'pending'"`
	StripePaymentIntentID string     `json:"stripe_payment_intent_id"`
	CompletedAt           *time.Time `json:"completed_at"`
}
