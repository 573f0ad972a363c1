package models

import (
	"time"

	"gorm.io/gorm"
)

// Commission status constants
const (
	CommissionStatusPending   = "pending"
	CommissionStatusConfirmed = "confirmed"
	CommissionStatusPaid      = "paid"
	CommissionStatusCancelled = "cancelled"
)

// ReferralCommission records the referrer's share of the platform fee on a
// referred user's purchase. At most one commission per (purchase, referrer);
// the composite unique index is the real guard against concurrent creation,
// the application-level existence check is only a fast path.
// All amounts are integer cents.
type ReferralCommission struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	ReferrerID       uint           `gorm:"index;not null;index:idx_commission_purchase_referrer,unique" json:"referrer_id"`
	ReferredUserID   uint           `gorm:"index;not null" json:"referred_user_id"`
	PurchaseID       uint           `gorm:"not null;index:idx_commission_purchase_referrer,unique" json:"purchase_id"`
	SaleAmountCents  int64          `gorm:"not null" json:"sale_amount_cents"`
	PlatformFeeCents int64          `gorm:"not null" json:"platform_fee_cents"`
	CommissionCents  int64          `gorm:"not null" json:"commission_cents"`
	Status           string         `gorm:"index;default:'pending'" json:"status"`
	PayoutID         *uint          `gorm:"index" json:"payout_id"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	ConfirmedAt      *time.Time     `json:"confirmed_at"`
	PaidAt           *time.Time     `json:"paid_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
